package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	decisionModel "github.com/andreypavlenko/postingguard/modules/decision/model"
	scoringModel "github.com/andreypavlenko/postingguard/modules/scoring/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockJobRepository implements scoringPorts.JobRepository.
type mockJobRepository struct {
	scored map[string]*scoringModel.ScoredJob
	record map[string]*scoringModel.JobRecord
}

func (m *mockJobRepository) Upsert(ctx context.Context, record *scoringModel.JobRecord, scored *scoringModel.ScoredJob) error {
	m.scored[record.JobID] = scored
	m.record[record.JobID] = record
	return nil
}

func (m *mockJobRepository) GetScoredJob(ctx context.Context, jobID string) (*scoringModel.ScoredJob, error) {
	scored, ok := m.scored[jobID]
	if !ok {
		return nil, scoringModel.ErrJobNotFound
	}
	return scored, nil
}

func (m *mockJobRepository) GetRecord(ctx context.Context, jobID string) (*scoringModel.JobRecord, error) {
	record, ok := m.record[jobID]
	if !ok {
		return nil, scoringModel.ErrJobNotFound
	}
	return record, nil
}

func (m *mockJobRepository) Exists(ctx context.Context, jobID string) (bool, error) {
	_, ok := m.scored[jobID]
	return ok, nil
}

func newMockJobRepository() *mockJobRepository {
	return &mockJobRepository{scored: map[string]*scoringModel.ScoredJob{}, record: map[string]*scoringModel.JobRecord{}}
}

func TestDecisionHandler_Explain(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("explains a previously scored job", func(t *testing.T) {
		repo := newMockJobRepository()
		repo.scored["job-1"] = &scoringModel.ScoredJob{
			JobID:             "job-1",
			AuthenticityScore: 88,
			Level:             scoringModel.LevelLikelyReal,
			Confidence:        scoringModel.ConfidenceLevelHigh,
		}
		repo.record["job-1"] = &scoringModel.JobRecord{
			JobID: "job-1",
			DerivedSignals: scoringModel.DerivedSignals{
				JobLevel: "senior",
				WorkMode: "remote",
			},
		}

		h := NewDecisionHandler(repo)
		router := gin.New()
		router.GET("/jobs/:job_id/decision", h.Explain)

		req, _ := http.NewRequest(http.MethodGet, "/jobs/job-1/decision", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var explanation decisionModel.Explanation
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &explanation))
		assert.Equal(t, decisionModel.DecisionRecommend, explanation.Decision)
		assert.NotEmpty(t, explanation.Reasons)
	})

	t.Run("404s when the job was never scored", func(t *testing.T) {
		repo := newMockJobRepository()
		h := NewDecisionHandler(repo)
		router := gin.New()
		router.GET("/jobs/:job_id/decision", h.Explain)

		req, _ := http.NewRequest(http.MethodGet, "/jobs/missing/decision", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
