// Package engine evaluates a RuleTable against a JobRecord, producing the
// activated rules with their platform-adjusted effective weights.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/andreypavlenko/postingguard/modules/rules/model"
	scoringmodel "github.com/andreypavlenko/postingguard/modules/scoring/model"
)

// Engine evaluates an immutable RuleTable. It holds no per-call state, so a
// single Engine may be shared and evaluated concurrently.
type Engine struct {
	table *model.RuleTable
}

// New wraps an already-loaded rule table.
func New(table *model.RuleTable) *Engine {
	return &Engine{table: table}
}

// Evaluate runs every rule in table order against record and returns the
// activated ones. A panicking or erroring rule is recovered locally and
// treated as not-activated; it never aborts the whole evaluation.
func (e *Engine) Evaluate(record *scoringmodel.JobRecord) []scoringmodel.ActivatedRule {
	activated := make([]scoringmodel.ActivatedRule, 0)

	for _, rule := range e.table.Rules {
		if ok := e.safeEvaluateRule(rule, record); ok {
			weight := effectiveWeight(rule, record)
			if weight == 0 && rule.Weight > 0 {
				// Platform adjustment suppressed the rule entirely; it
				// contributes nothing and must not surface as a red flag.
				continue
			}
			activated = append(activated, scoringmodel.ActivatedRule{
				ID:              rule.ID,
				EffectiveWeight: weight,
				Confidence:      string(rule.Confidence),
				Signal:          string(rule.Signal),
				Description:     rule.Description,
			})
		}
	}

	return activated
}

// safeEvaluateRule recovers from any panic raised while evaluating a single
// rule and logs nothing; the panicking rule simply counts as not activated.
// One broken rule never fails the whole scoring call.
func (e *Engine) safeEvaluateRule(rule model.Rule, record *scoringmodel.JobRecord) (activated bool) {
	defer func() {
		if r := recover(); r != nil {
			activated = false
		}
	}()
	return evaluateRule(rule, record)
}

func evaluateRule(rule model.Rule, record *scoringmodel.JobRecord) bool {
	if rule.DataSource == "" {
		return false
	}

	value, present := lookup(record, rule.DataSource)

	if rule.PatternType == model.PatternFieldExists {
		return fieldExists(value, present)
	}

	if !present {
		return false
	}

	switch rule.PatternType {
	case model.PatternRegex:
		return matchRegex(value, rule.PatternValue)
	case model.PatternStringContains:
		return stringContains(value, rule.PatternValue)
	case model.PatternStringContainsAny:
		return stringContainsAny(value, rule.PatternValue)
	case model.PatternStringEqualsAny:
		return stringEqualsAny(value, rule.PatternValue)
	case model.PatternNumericThreshold:
		return numericThreshold(value, rule.PatternValue)
	case model.PatternNumericLessThan:
		return numericLessThan(value, rule.PatternValue)
	case model.PatternBoolean:
		return booleanMatch(value, rule.PatternValue)
	case model.PatternJDLengthCheck:
		return jdLengthShort(value, rule.PatternValue)
	case model.PatternJDLengthCheckMin:
		return jdLengthLong(value, rule.PatternValue)
	case model.PatternActionVerbCheck:
		return missingActionVerbs(value)
	case model.PatternExtremeFormattingCheck:
		return extremeFormatting(value)
	case model.PatternBodyShopPatternCheck:
		return bodyShopPattern(record)
	default:
		// Unknown pattern_type at evaluate time: permitted at load, never
		// activates.
		return false
	}
}

func fieldExists(value interface{}, present bool) bool {
	if !present || value == nil {
		return false
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return true
	}
}

func matchRegex(value interface{}, patternValue interface{}) bool {
	text := toString(value)
	for _, pattern := range ensureStrings(patternValue) {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func stringContains(value interface{}, patternValue interface{}) bool {
	if patternValue == nil {
		return false
	}
	return strings.Contains(strings.ToLower(toString(value)), strings.ToLower(toString(patternValue)))
}

func stringContainsAny(value interface{}, patternValue interface{}) bool {
	valueLower := strings.ToLower(toString(value))
	for _, p := range ensureStrings(patternValue) {
		if strings.Contains(valueLower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func stringEqualsAny(value interface{}, patternValue interface{}) bool {
	valueLower := strings.ToLower(toString(value))
	for _, p := range ensureStrings(patternValue) {
		if valueLower == strings.ToLower(p) {
			return true
		}
	}
	return false
}

func numericThreshold(value interface{}, patternValue interface{}) bool {
	v, ok1 := toFloat(value)
	t, ok2 := toFloat(patternValue)
	return ok1 && ok2 && v > t
}

func numericLessThan(value interface{}, patternValue interface{}) bool {
	v, ok1 := toFloat(value)
	t, ok2 := toFloat(patternValue)
	return ok1 && ok2 && v < t
}

// booleanMatch only ever activates on an actual bool value — non-booleans
// never match, even if they coerce to a truthy/falsy value.
func booleanMatch(value interface{}, patternValue interface{}) bool {
	b, ok := value.(bool)
	if !ok {
		return false
	}
	expected, ok := patternValue.(bool)
	if !ok {
		return false
	}
	return b == expected
}

func jdLengthShort(value interface{}, patternValue interface{}) bool {
	threshold, ok := toFloat(patternValue)
	if !ok {
		threshold = 500
	}
	return float64(len(toString(value))) < threshold
}

func jdLengthLong(value interface{}, patternValue interface{}) bool {
	threshold, ok := toFloat(patternValue)
	if !ok {
		threshold = 3000
	}
	return float64(len(toString(value))) > threshold
}

var actionVerbs = []string{
	"build", "develop", "create", "design", "implement", "architect",
	"construct", "code", "write", "program", "work", "collaborate",
	"partner", "coordinate", "contribute", "participate", "engage", "join",
	"support", "lead", "manage", "direct", "oversee", "supervise", "guide",
	"mentor", "coach", "drive", "own", "improve", "optimize", "enhance",
	"refine", "streamline", "scale", "upgrade", "modernize", "analyze",
	"solve", "troubleshoot", "debug", "investigate", "research", "evaluate",
	"assess", "maintain", "operate", "monitor", "ensure", "deploy", "run",
	"execute", "perform", "communicate", "document", "present", "report",
	"share", "explain", "demonstrate",
}

var responsibilityPhrases = []string{
	"responsibilities", "you will", "you'll", "your role", "what you'll do",
	"day-to-day", "in this role",
}

// missingActionVerbs activates when the JD contains neither an action verb
// nor a responsibility-section phrase — a sign of thin, templated content.
func missingActionVerbs(value interface{}) bool {
	text := strings.ToLower(toString(value))
	for _, verb := range actionVerbs {
		if strings.Contains(text, verb) {
			return false
		}
	}
	for _, phrase := range responsibilityPhrases {
		if strings.Contains(text, phrase) {
			return false
		}
	}
	return true
}

var (
	longSpacesRe     = regexp.MustCompile(` {10,}`)
	longTabsRe       = regexp.MustCompile(`\t{5,}`)
	bulletGlyphsRe   = regexp.MustCompile(`[•●○■□▪▫]{3,}`)
	blankLinesRe     = regexp.MustCompile(`\n{5,}`)
	tabThenSpacesRe  = regexp.MustCompile(`\t\s{6,}`)
	longSeparatorsRe = regexp.MustCompile(`[=\\\-_]{10,}`)
)

// extremeFormatting counts six formatting artifacts and activates when at
// least one is present.
func extremeFormatting(value interface{}) bool {
	text := toString(value)
	suspect := 0
	for _, re := range []*regexp.Regexp{longSpacesRe, longTabsRe, bulletGlyphsRe, blankLinesRe, tabThenSpacesRe, longSeparatorsRe} {
		if re.MatchString(text) {
			suspect++
		}
	}
	return suspect >= 1
}

var (
	genericKeywords = []string{
		"consulting", "solutions", "systems", "technologies", "staffing",
		"recruiting", "talent", "services", "global",
	}
	legalSuffixes = []string{"llc", "inc", "corp", "ltd", "limited", "incorporated"}
)

// bodyShopPattern flags a generic-sounding company name the same way the
// scoring engine's upstream source does: a single generic keyword with no
// legal suffix only fires on a small, domain-mismatched company; once a
// legal suffix is present, large matching companies are exempted first,
// then domain mismatch, small headcount, and short generic names fire in
// that order.
func bodyShopPattern(record *scoringmodel.JobRecord) bool {
	name := strings.ToLower(record.CompanyName)

	hasGeneric := false
	genericCount := 0
	for _, kw := range genericKeywords {
		if strings.Contains(name, kw) {
			hasGeneric = true
			genericCount++
		}
	}
	if !hasGeneric {
		return false
	}

	hasLegalSuffix := false
	for _, suf := range legalSuffixes {
		if strings.Contains(name, suf) {
			hasLegalSuffix = true
			break
		}
	}

	domainMatches := record.CompanyInfo.DomainMatchesName
	size := record.CompanyInfo.SizeEmployees
	glassdoor := record.CompanyInfo.GlassdoorRating

	if !hasLegalSuffix && genericCount < 2 {
		return domainMatches != nil && !*domainMatches && size != nil && float64(*size) < 100
	}

	if domainMatches != nil && *domainMatches && size != nil && float64(*size) >= 500 {
		return false
	}

	if domainMatches != nil && *domainMatches && size != nil && float64(*size) >= 100 && glassdoor != nil && *glassdoor >= 3.5 {
		return false
	}

	if domainMatches != nil && !*domainMatches {
		return true
	}

	if size != nil && float64(*size) < 50 {
		return true
	}

	words := strings.Fields(name)
	if len(words) <= 3 && genericCount >= 2 {
		return true
	}

	return false
}

// effectiveWeight applies the platform-aware adjustment to recruiter-cluster
// rules (ids starting with "A"); all other rules pass through unchanged.
// An absent poster_expected or poster_present flag is not treated as false.
func effectiveWeight(rule model.Rule, record *scoringmodel.JobRecord) float64 {
	if !strings.HasPrefix(rule.ID, "A") {
		return rule.Weight
	}

	posterExpected := record.CollectionMetadata.PosterExpected
	posterPresent := record.CollectionMetadata.PosterPresent

	if posterExpected != nil && !*posterExpected {
		return 0
	}
	if posterExpected != nil && *posterExpected && posterPresent != nil && !*posterPresent {
		return 0.5 * rule.Weight
	}
	return rule.Weight
}

func toString(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func ensureStrings(patternValue interface{}) []string {
	switch v := patternValue.(type) {
	case nil:
		return nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toString(item))
		}
		return out
	case []string:
		return v
	default:
		return []string{toString(v)}
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
