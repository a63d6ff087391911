package app

import (
	"context"

	"classroom-live-service/internal/domain"
)

// AdminRepository is the CRUD/filter surface behind the admin UI. It is
// consumed only by the admin REST handlers, never by the real-time core.
type AdminRepository interface {
	ListSchools(ctx context.Context) ([]domain.School, error)

	SurveyCounts(ctx context.Context) (map[int64]map[string]int, error)
	ListSurveyData(ctx context.Context, schoolID int64, category string) ([]domain.SurveyRecord, error)
	ListApprovedToiletSurveys(ctx context.Context) ([]domain.SurveyRecord, error)
	UpdateSurveyStatus(ctx context.Context, id int64, review domain.SurveyReview) error
	DeleteSurveyData(ctx context.Context, id int64) error

	ListEvaluationSessions(ctx context.Context) ([]domain.EvaluationSession, error)
	CreateEvaluationSession(ctx context.Context, session domain.EvaluationSession) (domain.EvaluationSession, error)
	DeleteEvaluationSession(ctx context.Context, id int64) error
	ListCompletedEvaluations(ctx context.Context) ([]domain.Evaluation, error)
	ListEvaluationCriteria(ctx context.Context) ([]domain.EvaluationCriterion, error)

	GetAnnouncement(ctx context.Context, id int64) (domain.Announcement, error)

	ListGuides(ctx context.Context) ([]domain.AccessibilityGuide, error)
	CreateGuide(ctx context.Context, schoolID int64) (domain.AccessibilityGuide, error)
	UpdateGuide(ctx context.Context, id int64, fields map[string]any) error
	PublishGuide(ctx context.Context, id int64, publish bool) error
}
