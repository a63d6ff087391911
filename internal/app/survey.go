package app

import (
	"context"
	"fmt"
	"io"

	"classroom-live-service/internal/domain"
)

// SurveyRepository persists accessibility-audit submissions.
type SurveyRepository interface {
	Insert(ctx context.Context, response domain.SurveyResponse) error
	List(ctx context.Context) ([]domain.SurveyResponse, error)
}

// PhotoStore saves uploaded photos and returns a public URL for each.
type PhotoStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// SurveyService accepts survey submissions from the collection form. The
// form sends camelCase keys, older clients send snake_case; both are
// accepted.
type SurveyService struct {
	repo   SurveyRepository
	photos PhotoStore
}

func NewSurveyService(repo SurveyRepository, photos PhotoStore) *SurveyService {
	return &SurveyService{repo: repo, photos: photos}
}

// Submit maps a raw form payload onto a survey row and stores it. Unknown
// keys are dropped; missing values stay empty. No validation beyond shape.
func (s *SurveyService) Submit(ctx context.Context, raw map[string]any) error {
	response := domain.SurveyResponse{
		TeamName:              pick(raw, "teamName", "team_name"),
		TeamMembers:           pick(raw, "teamMembers", "team_members"),
		Building:              pick(raw, "building"),
		Floor:                 pick(raw, "floor"),
		Gender:                pick(raw, "gender"),
		DreamSchool:           pick(raw, "dreamSchool", "dream_school"),
		WhyNotUse:             pick(raw, "whyNotUse", "why_not_use"),
		DoorType:              pick(raw, "doorType", "door_type"),
		Width:                 pick(raw, "width"),
		Height:                pick(raw, "height"),
		Photos:                pickList(raw, "photos"),
		HandrailTypes:         pickList(raw, "handrailTypes", "handrail_types"),
		HasSink:               pick(raw, "hasSink", "has_sink"),
		CanWash:               pick(raw, "canWash", "can_wash"),
		SinkHeight:            pick(raw, "sinkHeight", "sink_height"),
		HasAccessibleRestroom: pick(raw, "hasAccessibleRestroom", "has_accessible_restroom"),
	}
	if err := s.repo.Insert(ctx, response); err != nil {
		return fmt.Errorf("save survey response: %w", err)
	}
	return nil
}

// List returns all stored responses, newest first.
func (s *SurveyService) List(ctx context.Context) ([]domain.SurveyResponse, error) {
	responses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list survey responses: %w", err)
	}
	return responses, nil
}

// UploadPhoto stores one photo and returns its public URL.
func (s *SurveyService) UploadPhoto(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	url, err := s.photos.Save(ctx, filename, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return url, nil
}

func pick(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func pickList(raw map[string]any, keys ...string) []string {
	for _, key := range keys {
		items, ok := raw[key].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
