// Package enrich derives normalized fields onto a JobRecord's
// DerivedSignals from its raw title, location, jd_text, and platform
// metadata. Deterministic, no ML; never overwrites a field it doesn't
// produce.
package enrich

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/andreypavlenko/postingguard/modules/scoring/model"
)

// Enrich derives job_level, employment_type, work_mode, visa_signal,
// experience_years, salary, and geo from record's raw fields and merges
// them into record.DerivedSignals.
func Enrich(record *model.JobRecord) {
	record.DerivedSignals.JobLevel = jobLevel(record.Title)
	record.DerivedSignals.EmploymentType = employmentType(record)
	record.DerivedSignals.WorkMode = workMode(record)
	record.DerivedSignals.VisaSignal = visaSignal(record.JDText)
	record.DerivedSignals.ExperienceYears = experienceYears(record.JDText)
	record.DerivedSignals.Salary = salary(record.PlatformMetadata)
	record.DerivedSignals.Geo = geo(record.Location)
}

func jobLevel(title string) string {
	t := strings.ToLower(title)
	switch {
	case containsAny(t, "intern", "internship"):
		return "intern"
	case containsAny(t, "new grad", "entry level", "graduate", "entry-level"):
		return "new_grad"
	case containsAny(t, "staff", "principal", "architect"):
		return "staff"
	case containsAny(t, "senior", "sr.", "sr ", "lead"):
		return "senior"
	case containsAny(t, "junior", "jr.", "jr "):
		return "junior"
	default:
		return "mid"
	}
}

func employmentType(record *model.JobRecord) string {
	jobType := strings.ToLower(record.PlatformMetadata.JobType)
	switch {
	case strings.Contains(jobType, "intern"):
		return "internship"
	case strings.Contains(jobType, "contract") || strings.Contains(jobType, "contractor"):
		return "contract"
	case strings.Contains(jobType, "part"):
		return "part_time"
	case strings.Contains(jobType, "full"):
		return "full_time"
	}

	title := strings.ToLower(record.Title)
	switch {
	case strings.Contains(title, "intern"):
		return "internship"
	case strings.Contains(title, "contract"):
		return "contract"
	case strings.Contains(title, "part-time") || strings.Contains(title, "part time"):
		return "part_time"
	default:
		return "full_time"
	}
}

func workMode(record *model.JobRecord) string {
	title := strings.ToLower(record.Title)
	location := strings.ToLower(record.Location)
	jdText := strings.ToLower(record.JDText)

	if strings.Contains(title, "remote") || strings.Contains(location, "remote") {
		return "remote"
	}
	if containsAny(jdText, "fully remote", "100% remote", "work from home", "wfh") {
		return "remote"
	}
	if strings.Contains(title, "hybrid") || strings.Contains(jdText, "hybrid") {
		return "hybrid"
	}
	return "onsite"
}

var noSponsorshipPhrases = []string{
	"no sponsorship",
	"us citizens only",
	"no visa",
	"must be authorized to work",
	"citizenship required",
	"no visa sponsorship",
	"cannot sponsor",
	"will not sponsor",
	"us citizen required",
	"citizen only",
	"us work authorization required",
}

var yesSponsorshipPhrases = []string{
	"visa sponsorship available",
	"will sponsor",
	"h1b welcome",
	"visa support",
	"sponsorship available",
	"h-1b sponsorship",
	"visa assistance",
	"provides sponsorship",
}

func visaSignal(jdText string) string {
	jd := strings.ToLower(jdText)
	if containsAny(jd, noSponsorshipPhrases...) {
		return "explicit_no"
	}
	if containsAny(jd, yesSponsorshipPhrases...) {
		return "explicit_yes"
	}
	return "unclear"
}

var (
	experienceRangeRe = regexp.MustCompile(`(\d+)\s*[-\x{2013}]\s*(\d+)\s*(?:\+)?\s*years?`)
	experiencePlusRe  = regexp.MustCompile(`(\d+)\s*\+\s*years?`)
	experienceMinRe   = regexp.MustCompile(`(?:minimum|at least|min|minimum of)\s+(\d+)\s*years?`)
	experienceExpRe   = regexp.MustCompile(`(\d+)\s*years?\s+(?:of\s+)?experience`)
)

func experienceYears(jdText string) model.ExperienceYears {
	jd := strings.ToLower(jdText)

	if m := experienceRangeRe.FindStringSubmatch(jd); m != nil {
		min, max := atoiPtr(m[1]), atoiPtr(m[2])
		return model.ExperienceYears{Min: min, Max: max}
	}
	if m := experiencePlusRe.FindStringSubmatch(jd); m != nil {
		return model.ExperienceYears{Min: atoiPtr(m[1])}
	}
	if m := experienceMinRe.FindStringSubmatch(jd); m != nil {
		return model.ExperienceYears{Min: atoiPtr(m[1])}
	}
	if m := experienceExpRe.FindStringSubmatch(jd); m != nil {
		return model.ExperienceYears{Min: atoiPtr(m[1])}
	}
	return model.ExperienceYears{}
}

func salary(pm model.PlatformMetadata) model.SalaryRange {
	var result model.SalaryRange
	if pm.SalaryMin != nil {
		result.Min = pm.SalaryMin
	}
	if pm.SalaryMax != nil {
		result.Max = pm.SalaryMax
	}
	if pm.SalaryInterval != "" {
		interval := strings.ToLower(pm.SalaryInterval)
		switch {
		case strings.Contains(interval, "year") || strings.Contains(interval, "annual"):
			result.Interval = "yearly"
		case strings.Contains(interval, "hour"):
			result.Interval = "hourly"
		case strings.Contains(interval, "month"):
			result.Interval = "monthly"
		}
	}
	return result
}

func geo(location string) model.Geo {
	var result model.Geo
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return result
	}

	lower := strings.ToLower(trimmed)
	if lower == "remote" || lower == "anywhere" || lower == "worldwide" {
		result.City = "Remote"
		return result
	}

	parts := strings.Split(trimmed, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch {
	case len(parts) == 1:
		result.City = parts[0]
	case len(parts) == 2:
		result.City = parts[0]
		result.State = parts[1]
	default:
		result.City = parts[0]
		result.State = parts[1]
		result.Country = parts[2]
	}
	return result
}

func containsAny(s string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
