package enrich

import (
	"testing"

	"github.com/andreypavlenko/postingguard/modules/scoring/model"
	"github.com/stretchr/testify/assert"
)

func TestEnrich_JobLevel(t *testing.T) {
	cases := map[string]string{
		"Software Engineering Intern":     "intern",
		"New Grad Software Engineer":      "new_grad",
		"Staff Software Engineer":         "staff",
		"Senior Backend Engineer":         "senior",
		"Junior Developer":                "junior",
		"Software Engineer":               "mid",
	}
	for title, want := range cases {
		record := &model.JobRecord{Title: title}
		Enrich(record)
		assert.Equal(t, want, record.DerivedSignals.JobLevel, "title=%q", title)
	}
}

func TestEnrich_EmploymentType(t *testing.T) {
	record := &model.JobRecord{
		Title:            "Software Engineer",
		PlatformMetadata: model.PlatformMetadata{JobType: "Contract"},
	}
	Enrich(record)
	assert.Equal(t, "contract", record.DerivedSignals.EmploymentType)

	fallback := &model.JobRecord{Title: "Marketing Intern"}
	Enrich(fallback)
	assert.Equal(t, "internship", fallback.DerivedSignals.EmploymentType)
}

func TestEnrich_WorkMode(t *testing.T) {
	remote := &model.JobRecord{Title: "Remote Software Engineer"}
	Enrich(remote)
	assert.Equal(t, "remote", remote.DerivedSignals.WorkMode)

	hybrid := &model.JobRecord{Location: "Austin, TX", JDText: "This is a hybrid role."}
	Enrich(hybrid)
	assert.Equal(t, "hybrid", hybrid.DerivedSignals.WorkMode)

	onsite := &model.JobRecord{Location: "Austin, TX", JDText: "Join us in the office."}
	Enrich(onsite)
	assert.Equal(t, "onsite", onsite.DerivedSignals.WorkMode)
}

func TestEnrich_VisaSignal(t *testing.T) {
	noSponsorship := &model.JobRecord{JDText: "We are unable to offer visa sponsorship. US citizens only."}
	Enrich(noSponsorship)
	assert.Equal(t, "explicit_no", noSponsorship.DerivedSignals.VisaSignal)

	yesSponsorship := &model.JobRecord{JDText: "Visa sponsorship available for qualified candidates."}
	Enrich(yesSponsorship)
	assert.Equal(t, "explicit_yes", yesSponsorship.DerivedSignals.VisaSignal)

	unclear := &model.JobRecord{JDText: "We are hiring a software engineer."}
	Enrich(unclear)
	assert.Equal(t, "unclear", unclear.DerivedSignals.VisaSignal)
}

func TestEnrich_ExperienceYears(t *testing.T) {
	record := &model.JobRecord{JDText: "Looking for someone with 3-5 years of experience."}
	Enrich(record)
	require := assert.New(t)
	require.NotNil(record.DerivedSignals.ExperienceYears.Min)
	require.NotNil(record.DerivedSignals.ExperienceYears.Max)
	require.Equal(3, *record.DerivedSignals.ExperienceYears.Min)
	require.Equal(5, *record.DerivedSignals.ExperienceYears.Max)

	plus := &model.JobRecord{JDText: "Requires 7+ years experience."}
	Enrich(plus)
	require.NotNil(plus.DerivedSignals.ExperienceYears.Min)
	require.Equal(7, *plus.DerivedSignals.ExperienceYears.Min)
}

func TestEnrich_Salary(t *testing.T) {
	min := 100000.0
	record := &model.JobRecord{
		PlatformMetadata: model.PlatformMetadata{SalaryMin: &min, SalaryInterval: "Yearly"},
	}
	Enrich(record)
	assert.Equal(t, &min, record.DerivedSignals.Salary.Min)
	assert.Equal(t, "yearly", record.DerivedSignals.Salary.Interval)
}

func TestEnrich_Geo(t *testing.T) {
	record := &model.JobRecord{Location: "Austin, TX, USA"}
	Enrich(record)
	assert.Equal(t, "Austin", record.DerivedSignals.Geo.City)
	assert.Equal(t, "TX", record.DerivedSignals.Geo.State)
	assert.Equal(t, "USA", record.DerivedSignals.Geo.Country)

	remote := &model.JobRecord{Location: "Remote"}
	Enrich(remote)
	assert.Equal(t, "Remote", remote.DerivedSignals.Geo.City)

	empty := &model.JobRecord{}
	Enrich(empty)
	assert.Equal(t, "", empty.DerivedSignals.Geo.City)
}
