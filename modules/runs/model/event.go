package model

import "time"

// Severity classifies an ObservabilityEvent.
type Severity string

const (
	SeverityDebug Severity = "debug"
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Source identifies which layer emitted an ObservabilityEvent.
type Source string

const (
	SourceExtension Source = "extension"
	SourceBackend   Source = "backend"
	SourceWeb       Source = "web"
)

// ObservabilityEvent is an append-only record attached to a run, ordered by
// ts within that run (ties broken by insertion order).
type ObservabilityEvent struct {
	ID           string
	RunID        string
	UserID       string
	Source       Source
	Severity     Severity
	EventName    string
	EventVersion string
	TS           time.Time
	URL          *string
	Payload      map[string]interface{}
	DedupKey     *string
	RequestID    *string
	DetectionID  *string
	PageID       *string
	CreatedAt    time.Time
}

// ObservabilityEventDTO is the reader-facing shape of an ObservabilityEvent.
type ObservabilityEventDTO struct {
	ID           string                 `json:"id"`
	RunID        string                 `json:"run_id"`
	UserID       string                 `json:"user_id"`
	Source       Source                 `json:"source"`
	Severity     Severity               `json:"severity"`
	EventName    string                 `json:"event_name"`
	EventVersion string                 `json:"event_version"`
	TS           time.Time              `json:"ts"`
	URL          *string                `json:"url,omitempty"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
	DedupKey     *string                `json:"dedup_key,omitempty"`
	RequestID    *string                `json:"request_id,omitempty"`
	DetectionID  *string                `json:"detection_id,omitempty"`
	PageID       *string                `json:"page_id,omitempty"`
}

// ToDTO converts an ObservabilityEvent to its reader-facing shape.
func (e *ObservabilityEvent) ToDTO() *ObservabilityEventDTO {
	return &ObservabilityEventDTO{
		ID:           e.ID,
		RunID:        e.RunID,
		UserID:       e.UserID,
		Source:       e.Source,
		Severity:     e.Severity,
		EventName:    e.EventName,
		EventVersion: e.EventVersion,
		TS:           e.TS,
		URL:          e.URL,
		Payload:      e.Payload,
		DedupKey:     e.DedupKey,
		RequestID:    e.RequestID,
		DetectionID:  e.DetectionID,
		PageID:       e.PageID,
	}
}
