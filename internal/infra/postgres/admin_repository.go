package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"classroom-live-service/internal/domain"
	"github.com/uptrace/bun"
)

type schoolRow struct {
	bun.BaseModel `bun:"table:schools_in_progress,alias:s"`

	ID           int64      `bun:"id,pk,autoincrement"`
	SchoolName   string     `bun:"school_name"`
	ContactPhone string     `bun:"contact_phone"`
	ContactEmail string     `bun:"contact_email"`
	ApprovedAt   *time.Time `bun:"approved_at"`
}

type surveyDataRow struct {
	bun.BaseModel `bun:"table:survey_data,alias:sd"`

	ID          int64          `bun:"id,pk,autoincrement"`
	SchoolID    int64          `bun:"school_id"`
	Category    string         `bun:"category"`
	Status      string         `bun:"status"`
	Data        map[string]any `bun:"data,type:jsonb"`
	PhotoURLs   []string       `bun:"photo_urls,type:jsonb"`
	SubmittedAt time.Time      `bun:"submitted_at,nullzero,notnull,default:current_timestamp"`
	ReviewNote  string         `bun:"review_note"`
	ReviewedBy  string         `bun:"reviewed_by"`
	ReviewedAt  *time.Time     `bun:"reviewed_at"`

	School *schoolRow `bun:"rel:belongs-to,join:school_id=id"`
}

type evaluationRow struct {
	bun.BaseModel `bun:"table:evaluations,alias:e"`

	ID             int64      `bun:"id,pk,autoincrement"`
	SessionID      int64      `bun:"session_id"`
	EvaluatorName  string     `bun:"evaluator_name"`
	OverallComment string     `bun:"overall_comment"`
	Rating         int        `bun:"rating"`
	IsCompleted    bool       `bun:"is_completed"`
	CompletedAt    *time.Time `bun:"completed_at"`
}

type evaluationSessionRow struct {
	bun.BaseModel `bun:"table:evaluation_sessions,alias:es"`

	ID             int64     `bun:"id,pk,autoincrement"`
	SchoolID       int64     `bun:"school_id"`
	ToiletSurveyID int64     `bun:"toilet_survey_id"`
	EvaluatorGroup string    `bun:"evaluator_group"`
	CreatedBy      string    `bun:"created_by"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Evaluations []*evaluationRow `bun:"rel:has-many,join:id=session_id"`
}

type evaluationCriterionRow struct {
	bun.BaseModel `bun:"table:evaluation_criteria,alias:ec"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Title        string `bun:"title"`
	Description  string `bun:"description"`
	DisplayOrder int    `bun:"display_order"`
	IsActive     bool   `bun:"is_active"`
}

type announcementRow struct {
	bun.BaseModel `bun:"table:announcements,alias:a"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Title     string    `bun:"title"`
	Body      string    `bun:"body"`
	IsActive  bool      `bun:"is_active"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type guideRow struct {
	bun.BaseModel `bun:"table:accessibility_guides,alias:g"`

	ID          int64          `bun:"id,pk,autoincrement"`
	SchoolID    int64          `bun:"school_id"`
	Title       string         `bun:"title"`
	Content     map[string]any `bun:"content,type:jsonb"`
	IsPublished bool           `bun:"is_published"`
	PublishedAt *time.Time     `bun:"published_at"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	School *schoolRow `bun:"rel:belongs-to,join:school_id=id"`
}

// AdminRepository implements app.AdminRepository over Postgres via bun.
type AdminRepository struct {
	db *bun.DB
}

func NewAdminRepository(db *bun.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) ListSchools(ctx context.Context) ([]domain.School, error) {
	var rows []schoolRow
	err := r.db.NewSelect().Model(&rows).Order("approved_at DESC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	out := make([]domain.School, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.School{
			ID:           row.ID,
			SchoolName:   row.SchoolName,
			ContactPhone: row.ContactPhone,
			ContactEmail: row.ContactEmail,
			ApprovedAt:   row.ApprovedAt,
		})
	}
	return out, nil
}

func (r *AdminRepository) SurveyCounts(ctx context.Context) (map[int64]map[string]int, error) {
	var rows []struct {
		SchoolID int64  `bun:"school_id"`
		Category string `bun:"category"`
		Count    int    `bun:"count"`
	}
	err := r.db.NewSelect().
		Model((*surveyDataRow)(nil)).
		Column("school_id", "category").
		ColumnExpr("count(*) AS count").
		Group("school_id", "category").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("count surveys: %w", err)
	}
	counts := make(map[int64]map[string]int)
	for _, row := range rows {
		if counts[row.SchoolID] == nil {
			counts[row.SchoolID] = make(map[string]int)
		}
		counts[row.SchoolID][row.Category] = row.Count
	}
	return counts, nil
}

func (r *AdminRepository) ListSurveyData(ctx context.Context, schoolID int64, category string) ([]domain.SurveyRecord, error) {
	var rows []surveyDataRow
	q := r.db.NewSelect().Model(&rows).
		Where("school_id = ?", schoolID).
		Order("submitted_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list survey data: %w", err)
	}
	return surveyRecords(rows), nil
}

func (r *AdminRepository) ListApprovedToiletSurveys(ctx context.Context) ([]domain.SurveyRecord, error) {
	var rows []surveyDataRow
	err := r.db.NewSelect().Model(&rows).
		Relation("School").
		Where("category = ?", "toilet").
		Where("sd.status = ?", "approved").
		Order("submitted_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approved toilet surveys: %w", err)
	}
	return surveyRecords(rows), nil
}

func (r *AdminRepository) UpdateSurveyStatus(ctx context.Context, id int64, review domain.SurveyReview) error {
	now := time.Now()
	res, err := r.db.NewUpdate().Model((*surveyDataRow)(nil)).
		Set("status = ?", review.Status).
		Set("review_note = ?", review.ReviewNote).
		Set("reviewed_by = ?", review.ReviewedBy).
		Set("reviewed_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update survey status: %w", err)
	}
	return requireAffected(res)
}

func (r *AdminRepository) DeleteSurveyData(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*surveyDataRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete survey data: %w", err)
	}
	return requireAffected(res)
}

func (r *AdminRepository) ListEvaluationSessions(ctx context.Context) ([]domain.EvaluationSession, error) {
	var rows []evaluationSessionRow
	err := r.db.NewSelect().Model(&rows).
		Relation("Evaluations").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evaluation sessions: %w", err)
	}
	out := make([]domain.EvaluationSession, 0, len(rows))
	for _, row := range rows {
		session := domain.EvaluationSession{
			ID:             row.ID,
			SchoolID:       row.SchoolID,
			ToiletSurveyID: row.ToiletSurveyID,
			EvaluatorGroup: row.EvaluatorGroup,
			CreatedBy:      row.CreatedBy,
			CreatedAt:      row.CreatedAt,
		}
		for _, ev := range row.Evaluations {
			session.Evaluations = append(session.Evaluations, evaluation(ev))
		}
		out = append(out, session)
	}
	return out, nil
}

func (r *AdminRepository) CreateEvaluationSession(ctx context.Context, session domain.EvaluationSession) (domain.EvaluationSession, error) {
	row := evaluationSessionRow{
		SchoolID:       session.SchoolID,
		ToiletSurveyID: session.ToiletSurveyID,
		EvaluatorGroup: session.EvaluatorGroup,
		CreatedBy:      session.CreatedBy,
	}
	_, err := r.db.NewInsert().Model(&row).Returning("*").Exec(ctx)
	if err != nil {
		return domain.EvaluationSession{}, fmt.Errorf("create evaluation session: %w", err)
	}
	session.ID = row.ID
	session.CreatedAt = row.CreatedAt
	return session, nil
}

func (r *AdminRepository) DeleteEvaluationSession(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*evaluationSessionRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete evaluation session: %w", err)
	}
	return requireAffected(res)
}

func (r *AdminRepository) ListCompletedEvaluations(ctx context.Context) ([]domain.Evaluation, error) {
	var rows []evaluationRow
	err := r.db.NewSelect().Model(&rows).
		Where("is_completed = ?", true).
		Order("completed_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list completed evaluations: %w", err)
	}
	out := make([]domain.Evaluation, 0, len(rows))
	for i := range rows {
		out = append(out, evaluation(&rows[i]))
	}
	return out, nil
}

func (r *AdminRepository) ListEvaluationCriteria(ctx context.Context) ([]domain.EvaluationCriterion, error) {
	var rows []evaluationCriterionRow
	err := r.db.NewSelect().Model(&rows).
		Where("is_active = ?", true).
		Order("display_order").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evaluation criteria: %w", err)
	}
	out := make([]domain.EvaluationCriterion, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.EvaluationCriterion{
			ID:           row.ID,
			Title:        row.Title,
			Description:  row.Description,
			DisplayOrder: row.DisplayOrder,
			IsActive:     row.IsActive,
		})
	}
	return out, nil
}

func (r *AdminRepository) GetAnnouncement(ctx context.Context, id int64) (domain.Announcement, error) {
	var row announcementRow
	err := r.db.NewSelect().Model(&row).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Announcement{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Announcement{}, fmt.Errorf("get announcement: %w", err)
	}
	return domain.Announcement{
		ID:        row.ID,
		Title:     row.Title,
		Body:      row.Body,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *AdminRepository) ListGuides(ctx context.Context) ([]domain.AccessibilityGuide, error) {
	var rows []guideRow
	err := r.db.NewSelect().Model(&rows).
		Relation("School").
		Order("g.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accessibility guides: %w", err)
	}
	out := make([]domain.AccessibilityGuide, 0, len(rows))
	for _, row := range rows {
		out = append(out, guide(row))
	}
	return out, nil
}

func (r *AdminRepository) CreateGuide(ctx context.Context, schoolID int64) (domain.AccessibilityGuide, error) {
	row := guideRow{SchoolID: schoolID}
	_, err := r.db.NewInsert().Model(&row).Returning("*").Exec(ctx)
	if err != nil {
		return domain.AccessibilityGuide{}, fmt.Errorf("create accessibility guide: %w", err)
	}
	created := guide(row)
	if school, err := r.school(ctx, schoolID); err == nil {
		created.SchoolName = school.SchoolName
	}
	return created, nil
}

func (r *AdminRepository) UpdateGuide(ctx context.Context, id int64, fields map[string]any) error {
	q := r.db.NewUpdate().Model((*guideRow)(nil)).Where("id = ?", id)
	updated := false
	if title, ok := fields["title"].(string); ok {
		q = q.Set("title = ?", title)
		updated = true
	}
	if content, ok := fields["content"]; ok {
		encoded, err := json.Marshal(content)
		if err != nil {
			return fmt.Errorf("marshal guide content: %w", err)
		}
		q = q.Set("content = ?::jsonb", string(encoded))
		updated = true
	}
	if !updated {
		return nil
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("update accessibility guide: %w", err)
	}
	return requireAffected(res)
}

func (r *AdminRepository) PublishGuide(ctx context.Context, id int64, publish bool) error {
	q := r.db.NewUpdate().Model((*guideRow)(nil)).
		Set("is_published = ?", publish).
		Where("id = ?", id)
	if publish {
		q = q.Set("published_at = ?", time.Now())
	} else {
		q = q.Set("published_at = NULL")
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("publish accessibility guide: %w", err)
	}
	return requireAffected(res)
}

func (r *AdminRepository) school(ctx context.Context, id int64) (schoolRow, error) {
	var row schoolRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	return row, err
}

func surveyRecords(rows []surveyDataRow) []domain.SurveyRecord {
	out := make([]domain.SurveyRecord, 0, len(rows))
	for _, row := range rows {
		record := domain.SurveyRecord{
			ID:          row.ID,
			SchoolID:    row.SchoolID,
			Category:    row.Category,
			Status:      row.Status,
			Data:        row.Data,
			PhotoURLs:   row.PhotoURLs,
			SubmittedAt: row.SubmittedAt,
			ReviewNote:  row.ReviewNote,
			ReviewedBy:  row.ReviewedBy,
			ReviewedAt:  row.ReviewedAt,
		}
		if row.School != nil {
			record.SchoolName = row.School.SchoolName
		}
		out = append(out, record)
	}
	return out
}

func evaluation(row *evaluationRow) domain.Evaluation {
	return domain.Evaluation{
		ID:             row.ID,
		SessionID:      row.SessionID,
		EvaluatorName:  row.EvaluatorName,
		OverallComment: row.OverallComment,
		Rating:         row.Rating,
		IsCompleted:    row.IsCompleted,
		CompletedAt:    row.CompletedAt,
	}
}

func guide(row guideRow) domain.AccessibilityGuide {
	out := domain.AccessibilityGuide{
		ID:          row.ID,
		SchoolID:    row.SchoolID,
		Title:       row.Title,
		Content:     row.Content,
		IsPublished: row.IsPublished,
		PublishedAt: row.PublishedAt,
		CreatedAt:   row.CreatedAt,
	}
	if row.School != nil {
		out.SchoolName = row.School.SchoolName
	}
	return out
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
