package memory

import (
	"context"
	"sync"
	"time"

	"classroom-live-service/internal/domain"
)

// SurveyRepository is an in-memory implementation of app.SurveyRepository,
// used in tests and when postgres is not configured.
type SurveyRepository struct {
	mu        sync.RWMutex
	nextID    int64
	responses []domain.SurveyResponse
	clock     func() time.Time
}

func NewSurveyRepository() *SurveyRepository {
	return &SurveyRepository{nextID: 1, clock: time.Now}
}

func (r *SurveyRepository) Insert(_ context.Context, response domain.SurveyResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	response.ID = r.nextID
	response.CreatedAt = r.clock()
	r.nextID++
	r.responses = append(r.responses, response)
	return nil
}

// List returns stored responses newest first.
func (r *SurveyRepository) List(_ context.Context) ([]domain.SurveyResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SurveyResponse, 0, len(r.responses))
	for i := len(r.responses) - 1; i >= 0; i-- {
		out = append(out, r.responses[i])
	}
	return out, nil
}
