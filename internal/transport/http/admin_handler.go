package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"classroom-live-service/internal/app"
	"classroom-live-service/internal/domain"
)

// AdminHandler is the CRUD/filter surface consumed by the admin UI. It sits
// entirely outside the real-time core.
type AdminHandler struct {
	repo app.AdminRepository
}

func NewAdminHandler(repo app.AdminRepository) *AdminHandler {
	return &AdminHandler{repo: repo}
}

func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/schools-in-progress", h.listSchools)
	mux.HandleFunc("GET /api/admin/survey-counts", h.surveyCounts)
	mux.HandleFunc("GET /api/admin/survey-data/{schoolId}", h.listSurveyData)
	mux.HandleFunc("GET /api/admin/approved-toilet-surveys", h.approvedToiletSurveys)
	mux.HandleFunc("PUT /api/admin/survey-data/{id}/status", h.updateSurveyStatus)
	mux.HandleFunc("DELETE /api/admin/survey-data/{id}", h.deleteSurveyData)
	mux.HandleFunc("GET /api/admin/evaluation-sessions", h.listEvaluationSessions)
	mux.HandleFunc("POST /api/admin/evaluation-sessions", h.createEvaluationSession)
	mux.HandleFunc("DELETE /api/admin/evaluation-sessions/{id}", h.deleteEvaluationSession)
	mux.HandleFunc("GET /api/admin/evaluations/completed", h.completedEvaluations)
	mux.HandleFunc("GET /api/admin/evaluation-criteria", h.listCriteria)
	mux.HandleFunc("GET /api/admin/announcements/{id}", h.getAnnouncement)
	mux.HandleFunc("GET /api/admin/accessibility-guides", h.listGuides)
	mux.HandleFunc("POST /api/admin/accessibility-guides", h.createGuide)
	mux.HandleFunc("PUT /api/admin/accessibility-guides/{id}", h.updateGuide)
	mux.HandleFunc("PUT /api/admin/accessibility-guides/{id}/publish", h.publishGuide)
}

func (h *AdminHandler) listSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := h.repo.ListSchools(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schools)
}

func (h *AdminHandler) surveyCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.repo.SurveyCounts(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *AdminHandler) listSurveyData(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := pathID(w, r, "schoolId")
	if !ok {
		return
	}
	records, err := h.repo.ListSurveyData(r.Context(), schoolID, r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *AdminHandler) approvedToiletSurveys(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.ListApprovedToiletSurveys(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *AdminHandler) updateSurveyStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var review domain.SurveyReview
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.repo.UpdateSurveyStatus(r.Context(), id, review); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AdminHandler) deleteSurveyData(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteSurveyData(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AdminHandler) listEvaluationSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.repo.ListEvaluationSessions(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *AdminHandler) createEvaluationSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SurveyID int64  `json:"surveyId"`
		SchoolID int64  `json:"schoolId"`
		Group    string `json:"group"`
		UserID   string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.repo.CreateEvaluationSession(r.Context(), domain.EvaluationSession{
		ToiletSurveyID: body.SurveyID,
		SchoolID:       body.SchoolID,
		EvaluatorGroup: body.Group,
		CreatedBy:      body.UserID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *AdminHandler) deleteEvaluationSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteEvaluationSession(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AdminHandler) completedEvaluations(w http.ResponseWriter, r *http.Request) {
	evaluations, err := h.repo.ListCompletedEvaluations(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluations)
}

func (h *AdminHandler) listCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.repo.ListEvaluationCriteria(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, criteria)
}

func (h *AdminHandler) getAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	announcement, err := h.repo.GetAnnouncement(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, announcement)
}

func (h *AdminHandler) listGuides(w http.ResponseWriter, r *http.Request) {
	guides, err := h.repo.ListGuides(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guides)
}

func (h *AdminHandler) createGuide(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SchoolID int64 `json:"schoolId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	guide, err := h.repo.CreateGuide(r.Context(), body.SchoolID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guide)
}

func (h *AdminHandler) updateGuide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.repo.UpdateGuide(r.Context(), id, fields); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AdminHandler) publishGuide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Publish bool `json:"publish"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.repo.PublishGuide(r.Context(), id, body.Publish); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AdminHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Printf("admin request failed: %v", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
