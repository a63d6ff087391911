package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"classroom-live-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SurveyRepository persists survey submissions in the survey_responses table.
// List fields (photos, handrail types) are stored as JSONB.
type SurveyRepository struct {
	pool *pgxpool.Pool
}

func NewSurveyRepository(pool *pgxpool.Pool) *SurveyRepository {
	return &SurveyRepository{pool: pool}
}

func (r *SurveyRepository) Insert(ctx context.Context, response domain.SurveyResponse) error {
	photos, err := json.Marshal(response.Photos)
	if err != nil {
		return fmt.Errorf("marshal photos: %w", err)
	}
	handrails, err := json.Marshal(response.HandrailTypes)
	if err != nil {
		return fmt.Errorf("marshal handrail types: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO survey_responses (
			team_name, team_members, building, floor, gender, dream_school,
			why_not_use, door_type, width, height, photos, handrail_types,
			has_sink, can_wash, sink_height, has_accessible_restroom
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		response.TeamName, response.TeamMembers, response.Building, response.Floor,
		response.Gender, response.DreamSchool, response.WhyNotUse, response.DoorType,
		response.Width, response.Height, photos, handrails,
		response.HasSink, response.CanWash, response.SinkHeight, response.HasAccessibleRestroom,
	)
	if err != nil {
		return fmt.Errorf("insert survey response: %w", err)
	}
	return nil
}

func (r *SurveyRepository) List(ctx context.Context) ([]domain.SurveyResponse, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, team_name, team_members, building, floor, gender, dream_school,
		       why_not_use, door_type, width, height, photos, handrail_types,
		       has_sink, can_wash, sink_height, has_accessible_restroom, created_at
		FROM survey_responses
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query survey responses: %w", err)
	}
	defer rows.Close()

	var out []domain.SurveyResponse
	for rows.Next() {
		var (
			resp      domain.SurveyResponse
			photos    []byte
			handrails []byte
		)
		if err := rows.Scan(
			&resp.ID, &resp.TeamName, &resp.TeamMembers, &resp.Building, &resp.Floor,
			&resp.Gender, &resp.DreamSchool, &resp.WhyNotUse, &resp.DoorType,
			&resp.Width, &resp.Height, &photos, &handrails,
			&resp.HasSink, &resp.CanWash, &resp.SinkHeight, &resp.HasAccessibleRestroom,
			&resp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan survey response: %w", err)
		}
		if len(photos) > 0 {
			_ = json.Unmarshal(photos, &resp.Photos)
		}
		if len(handrails) > 0 {
			_ = json.Unmarshal(handrails, &resp.HandrailTypes)
		}
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate survey responses: %w", err)
	}
	return out, nil
}
