// Package archive persists the raw upstream JobRecord payload before
// enrichment, so a scoring run can be replayed byte-for-byte against a
// reloaded rule table.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/andreypavlenko/postingguard/internal/platform/storage"
)

// RawRecordArchiver stores raw job record payloads in object storage, keyed
// by job ID, ahead of enrichment and scoring.
type RawRecordArchiver struct {
	s3 *storage.S3Client
}

// NewRawRecordArchiver wraps an already-configured S3 client. A nil client
// makes Archive a no-op, so deployments without S3 still score normally.
func NewRawRecordArchiver(s3Client *storage.S3Client) *RawRecordArchiver {
	return &RawRecordArchiver{s3: s3Client}
}

// Archive uploads the raw record under raw-jobs/<job_id>/<unix-nanos>.json so
// every scoring attempt for the same posting keeps its own immutable copy.
func (a *RawRecordArchiver) Archive(ctx context.Context, jobID string, raw interface{}) error {
	if a == nil || a.s3 == nil {
		return nil
	}
	key := fmt.Sprintf("raw-jobs/%s/%d.json", jobID, time.Now().UTC().UnixNano())
	if err := a.s3.PutJSON(ctx, key, raw); err != nil {
		return fmt.Errorf("archive raw record: %w", err)
	}
	return nil
}
