package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	scoringengine "github.com/andreypavlenko/postingguard/modules/rules/engine"
	rulesLoader "github.com/andreypavlenko/postingguard/modules/rules/loader"
	scoringModel "github.com/andreypavlenko/postingguard/modules/scoring/model"
	scoringService "github.com/andreypavlenko/postingguard/modules/scoring/service"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newID() string { return uuid.New().String() }

func hashPassword(pw string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), 12)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func ptrInt(v int) *int          { return &v }
func ptrFloat(v float64) *float64 { return &v }
func ptrBool(v bool) *bool       { return &v }

func must(err error, msg string) {
	if err != nil {
		log.Fatalf("%s: %v", msg, err)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// ── fixture job records: a clean posting, a body-shop scam, and a
// platform-suppressed variant ───────────────────────────────────

func cleanFAANGPosting() *scoringModel.JobRecord {
	return &scoringModel.JobRecord{
		JobID:       newID(),
		URL:         "https://careers.google.com/jobs/results/1",
		Platform:    "company_site",
		Title:       "Software Engineer",
		CompanyName: "Google",
		Location:    "Mountain View, CA",
		JDText: "Google is hiring a Software Engineer to join our distributed systems team. " +
			"You'll work on distributed systems that serve billions of requests a day, partner with " +
			"senior engineers on design docs, own services end-to-end, and participate in on-call " +
			"rotations. Responsibilities include building scalable backend services, improving " +
			"reliability, and mentoring junior engineers. We offer a roadmap-driven, sprint-based " +
			"engineering culture with regular code review and design review.",
		PosterInfo: scoringModel.PosterInfo{
			Name: "Jordan Lee", Title: "Technical Recruiter", Company: "Google",
			Location: "Mountain View, CA", AccountAgeMonths: ptrInt(48), RecentJobCount7d: ptrInt(2),
		},
		CompanyInfo: scoringModel.CompanyInfo{
			WebsiteDomain: "google.com", DomainMatchesName: ptrBool(true),
			SizeEmployees: ptrInt(150000), GlassdoorRating: ptrFloat(4.4), HasLayoffsRecent: ptrBool(false),
		},
		PlatformMetadata: scoringModel.PlatformMetadata{
			PostedDaysAgo: ptrInt(2), RepostCount: ptrInt(0), ApplicantsCount: ptrInt(340),
			ViewsCount: ptrInt(5200), ActivelyHiringTag: ptrBool(true), EasyApply: ptrBool(false),
			JobType: "full-time", SalaryMin: ptrFloat(165000), SalaryMax: ptrFloat(230000), SalaryInterval: "year",
		},
		CollectionMetadata: scoringModel.CollectionMetadata{
			Platform: "company_site", CollectionMethod: "scrape",
			PosterExpected: ptrBool(true), PosterPresent: ptrBool(true),
		},
	}
}

func bodyShopScam() *scoringModel.JobRecord {
	return &scoringModel.JobRecord{
		JobID:       newID(),
		URL:         "https://example-board.com/jobs/9981",
		Platform:    "linkedin",
		Title:       "Software Developer - No Experience",
		CompanyName: "Confidential",
		Location:    "Remote",
		JDText:      "Apply ASAP! Contact us directly at hiring.now2024@gmail.com. No experience necessary, start immediately.",
		PosterInfo: scoringModel.PosterInfo{
			Name: "Recruiter Staffing Co", Title: "Talent Acquisition", Company: "Staffing Solutions LLC",
			Location: "Austin, TX", AccountAgeMonths: ptrInt(2), RecentJobCount7d: ptrInt(23),
		},
		CompanyInfo: scoringModel.CompanyInfo{
			WebsiteDomain: "", DomainMatchesName: ptrBool(false), SizeEmployees: ptrInt(12),
		},
		PlatformMetadata: scoringModel.PlatformMetadata{
			PostedDaysAgo: ptrInt(1), RepostCount: ptrInt(4), JobType: "contract",
		},
		DerivedSignals: scoringModel.DerivedSignals{
			PosterJobLocationMismatch: ptrBool(true),
		},
		CollectionMetadata: scoringModel.CollectionMetadata{
			Platform: "linkedin", CollectionMethod: "scrape",
			PosterExpected: ptrBool(true), PosterPresent: ptrBool(true),
		},
	}
}

func platformSuppressedVariant() *scoringModel.JobRecord {
	record := bodyShopScam()
	record.JobID = newID()
	record.URL = "https://example-board.com/jobs/9982"
	record.CollectionMetadata.PosterExpected = ptrBool(false)
	return record
}

// ── optional extra fixtures from a YAML file (SEED_FIXTURES_PATH) ────────────

type fixtureFile struct {
	Jobs []jobFixture `yaml:"jobs"`
}

type jobFixture struct {
	URL            string   `yaml:"url"`
	Platform       string   `yaml:"platform"`
	Title          string   `yaml:"title"`
	CompanyName    string   `yaml:"company_name"`
	Location       string   `yaml:"location"`
	JDText         string   `yaml:"jd_text"`
	PostedDaysAgo  *int     `yaml:"posted_days_ago"`
	JobType        string   `yaml:"job_type"`
	SalaryMin      *float64 `yaml:"salary_min"`
	SalaryMax      *float64 `yaml:"salary_max"`
	SalaryInterval string   `yaml:"salary_interval"`
	PosterExpected *bool    `yaml:"poster_expected"`
	PosterPresent  *bool    `yaml:"poster_present"`
}

func loadFixtureRecords(path string) ([]*scoringModel.JobRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	records := make([]*scoringModel.JobRecord, 0, len(f.Jobs))
	for _, j := range f.Jobs {
		records = append(records, &scoringModel.JobRecord{
			JobID:       newID(),
			URL:         j.URL,
			Platform:    j.Platform,
			Title:       j.Title,
			CompanyName: j.CompanyName,
			Location:    j.Location,
			JDText:      j.JDText,
			PlatformMetadata: scoringModel.PlatformMetadata{
				PostedDaysAgo:  j.PostedDaysAgo,
				JobType:        j.JobType,
				SalaryMin:      j.SalaryMin,
				SalaryMax:      j.SalaryMax,
				SalaryInterval: j.SalaryInterval,
			},
			CollectionMetadata: scoringModel.CollectionMetadata{
				Platform:         j.Platform,
				CollectionMethod: "fixture",
				PosterExpected:   j.PosterExpected,
				PosterPresent:    j.PosterPresent,
			},
		})
	}
	return records, nil
}

func main() {
	_ = godotenv.Load()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postingguard"),
		envOr("DB_PASSWORD", "postingguard"),
		envOr("DB_NAME", "postingguard"),
		envOr("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}
	fmt.Println("connected to database")

	ruleTablePath := envOr("RULE_TABLE_PATH", "./rules.json")
	ruleTable, err := rulesLoader.LoadFile(ruleTablePath)
	must(err, "load rule table")
	engine := scoringengine.New(ruleTable)
	scorer := scoringService.New(engine, clock.System{})

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	// ── clean up previous seed data ──────────────────────────────────────
	const seedEmail = "seed@postingguard.dev"
	_, _ = tx.Exec(ctx, `DELETE FROM users WHERE email = $1`, seedEmail)
	fmt.Println("cleaned previous seed data")

	// ── 1. user ──────────────────────────────────────────────────────────
	userID := newID()
	now := time.Now().UTC()

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, locale, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		userID, seedEmail, "Sample Applicant", hashPassword("password123"), "en", now,
	)
	must(err, "create user")
	fmt.Printf("created user: %s / password123\n", seedEmail)

	// ── 2. job records, scored through the real pipeline ────────────────
	fixtures := []*scoringModel.JobRecord{
		cleanFAANGPosting(),
		bodyShopScam(),
		platformSuppressedVariant(),
	}
	if path := os.Getenv("SEED_FIXTURES_PATH"); path != "" {
		extra, err := loadFixtureRecords(path)
		must(err, "load fixture file")
		fixtures = append(fixtures, extra...)
		fmt.Printf("loaded %d extra fixture(s) from %s\n", len(extra), path)
	}

	for _, record := range fixtures {
		scored := scorer.Score(record)
		scored.JobID = record.JobID

		rawJSON, err := json.Marshal(record)
		must(err, "marshal raw record")
		scoredJSON, err := json.Marshal(scored)
		must(err, "marshal scored job")

		_, err = tx.Exec(ctx,
			`INSERT INTO jobs (job_id, url, platform, raw_record, scored_job, authenticity_score, level, confidence, computed_at, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, $9)`,
			record.JobID, record.URL, record.Platform, rawJSON, scoredJSON,
			scored.AuthenticityScore, string(scored.Level), string(scored.Confidence), scored.ComputedAt,
		)
		must(err, "insert job "+record.Title)
		fmt.Printf("scored %q (%s): %.1f / %s / %s\n", record.Title, record.CompanyName, scored.AuthenticityScore, scored.Level, scored.Confidence)
	}

	// ── 3. one queued task against the clean posting ────────────────────
	taskID := newID()
	_, err = tx.Exec(ctx,
		`INSERT INTO tasks (id, user_id, job_id, status, priority, attempt_count, last_error, task_metadata, created_at, updated_at)
		 VALUES ($1, $2, $3, 'queued', 900, 0, NULL, NULL, $4, $4)`,
		taskID, userID, fixtures[0].JobID, now,
	)
	must(err, "create task")
	_, err = tx.Exec(ctx,
		`INSERT INTO task_events (id, task_id, from_status, to_status, reason, details, created_at)
		 VALUES ($1, $2, 'none', 'queued', NULL, NULL, $3)`,
		newID(), taskID, now,
	)
	must(err, "create initial task event")
	fmt.Println("created one queued apply task")

	// ── commit ───────────────────────────────────────────────────────────
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	fmt.Println("\nseed completed successfully")
	fmt.Printf("  login: %s / password123\n", seedEmail)
}
