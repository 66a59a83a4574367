// Package model holds the scoring core's value types: the JobRecord the
// engine consumes and the ScoredJob it produces.
package model

import "time"

// PosterInfo describes the person who posted the listing, when the source
// platform surfaces one.
type PosterInfo struct {
	Name               string `json:"name,omitempty"`
	Title              string `json:"title,omitempty"`
	Company            string `json:"company,omitempty"`
	Location           string `json:"location,omitempty"`
	AccountAgeMonths   *int   `json:"account_age_months,omitempty"`
	RecentJobCount7d   *int   `json:"recent_job_count_7d,omitempty"`
}

// CompanyInfo describes the hiring company as understood by upstream
// enrichment (domain, size, reputation).
type CompanyInfo struct {
	WebsiteDomain     string   `json:"website_domain,omitempty"`
	DomainMatchesName *bool    `json:"domain_matches_name,omitempty"`
	SizeEmployees     *int     `json:"size_employees,omitempty"`
	GlassdoorRating   *float64 `json:"glassdoor_rating,omitempty"`
	HasLayoffsRecent  *bool    `json:"has_layoffs_recent,omitempty"`
}

// PlatformMetadata is whatever the source platform exposes about the
// listing's lifecycle and engagement.
type PlatformMetadata struct {
	PostedDaysAgo     *int     `json:"posted_days_ago,omitempty"`
	RepostCount       *int     `json:"repost_count,omitempty"`
	ApplicantsCount   *int     `json:"applicants_count,omitempty"`
	ViewsCount        *int     `json:"views_count,omitempty"`
	ActivelyHiringTag *bool    `json:"actively_hiring_tag,omitempty"`
	EasyApply         *bool    `json:"easy_apply,omitempty"`
	JobType           string   `json:"job_type,omitempty"`
	SalaryMin         *float64 `json:"salary_min,omitempty"`
	SalaryMax         *float64 `json:"salary_max,omitempty"`
	SalaryInterval     string  `json:"salary_interval,omitempty"`
}

// ExperienceYears is the min/max years of experience the Job Enricher was
// able to extract from free text.
type ExperienceYears struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// SalaryRange is the normalized salary band produced by the Job Enricher.
type SalaryRange struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Interval string   `json:"interval,omitempty"`
}

// Geo is the parsed location breakdown produced by the Job Enricher.
type Geo struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// DerivedSignals are fields the Job Enricher computes from the raw record.
// The enricher overwrites the fields it produces (job_level through geo)
// and leaves the rest, such as the mismatch flags, untouched.
type DerivedSignals struct {
	JobLevel       string           `json:"job_level,omitempty"`
	EmploymentType string           `json:"employment_type,omitempty"`
	WorkMode       string           `json:"work_mode,omitempty"`
	VisaSignal     string           `json:"visa_signal,omitempty"`
	ExperienceYears ExperienceYears `json:"experience_years"`
	Salary         SalaryRange      `json:"salary"`
	Geo            Geo              `json:"geo"`

	// Mismatch flags: independent cross-checks between what the poster
	// claims and what the rest of the record says. All five share the
	// same boolean, rule-readable shape; the recruiter cluster reads the
	// first three.
	CompanyDomainMismatch      *bool `json:"company_domain_mismatch,omitempty"`
	PosterJobLocationMismatch  *bool `json:"poster_job_location_mismatch,omitempty"`
	CompanyPosterMismatch      *bool `json:"company_poster_mismatch,omitempty"`
	SalaryRangeMismatch        *bool `json:"salary_range_mismatch,omitempty"`
	TitleSeniorityMismatch     *bool `json:"title_seniority_mismatch,omitempty"`
}

// CollectionMetadata describes how and from where the record was collected,
// which governs the platform-aware weight adjustment in the rule engine.
type CollectionMetadata struct {
	Platform          string `json:"platform,omitempty"`
	CollectionMethod  string `json:"collection_method,omitempty"`
	PosterExpected    *bool  `json:"poster_expected,omitempty"`
	PosterPresent     *bool  `json:"poster_present,omitempty"`
}

// JobRecord is the input to scoring: a heterogeneous, partially-populated
// nested structure. Any leaf may be absent; the engine must tolerate
// missing fields rather than fail.
type JobRecord struct {
	JobID       string `json:"job_id,omitempty"`
	URL         string `json:"url,omitempty"`
	Platform    string `json:"platform,omitempty"`
	Title       string `json:"title,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Location    string `json:"location,omitempty"`
	JDText      string `json:"jd_text,omitempty"`

	PosterInfo          PosterInfo          `json:"poster_info"`
	CompanyInfo         CompanyInfo         `json:"company_info"`
	PlatformMetadata    PlatformMetadata    `json:"platform_metadata"`
	DerivedSignals      DerivedSignals      `json:"derived_signals"`
	CollectionMetadata  CollectionMetadata  `json:"collection_metadata"`
}

// ActivatedRule is a rule whose pattern evaluated to true for a given
// record, carrying its effective weight after platform adjustment.
type ActivatedRule struct {
	ID             string  `json:"id"`
	EffectiveWeight float64 `json:"effective_weight"`
	Confidence     string  `json:"confidence"`
	Signal         string  `json:"signal"`
	Description    string  `json:"description"`
}

// Level is the categorical bucket a ScoredJob falls into.
type Level string

const (
	LevelLikelyReal Level = "likely_real"
	LevelUncertain  Level = "uncertain"
	LevelLikelyFake Level = "likely_fake"
)

// ConfidenceLevel qualifies how much input data and strong-rule signal
// backed a score. Downstream consumers treat the string as opaque and must
// not interpret its casing.
type ConfidenceLevel string

const (
	ConfidenceLevelHigh   ConfidenceLevel = "High"
	ConfidenceLevelMedium ConfidenceLevel = "Medium"
	ConfidenceLevelLow    ConfidenceLevel = "Low"
)

// ScoredJob is the result of scoring a JobRecord.
type ScoredJob struct {
	JobID             string          `json:"job_id"`
	AuthenticityScore float64         `json:"authenticity_score"`
	Level             Level           `json:"level"`
	Confidence        ConfidenceLevel `json:"confidence"`
	Summary           string          `json:"summary"`
	RedFlags          []string        `json:"red_flags"`
	PositiveSignals   []string        `json:"positive_signals"`
	ActivatedRules    []ActivatedRule `json:"activated_rules"`
	ComputedAt        time.Time       `json:"computed_at"`
}
