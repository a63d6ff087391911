package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"classroom-live-service/internal/app"
)

// SurveyHandler exposes the survey collection boundary: one submission
// endpoint, one listing endpoint for the admin UI, and a photo upload.
type SurveyHandler struct {
	service *app.SurveyService
}

func NewSurveyHandler(service *app.SurveyService) *SurveyHandler {
	return &SurveyHandler{service: service}
}

func (h *SurveyHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /survey", h.submit)
	mux.HandleFunc("GET /survey", h.list)
	mux.HandleFunc("POST /survey/upload", h.upload)
}

func (h *SurveyHandler) submit(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.Submit(r.Context(), raw); err != nil {
		log.Printf("error saving survey response: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *SurveyHandler) list(w http.ResponseWriter, r *http.Request) {
	responses, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("error fetching survey responses: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *SurveyHandler) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	// Timestamp prefix avoids collisions between identically named uploads.
	filename := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), header.Filename)
	url, err := h.service.UploadPhoto(r.Context(), filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Printf("error uploading photo: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"publicUrl": url})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
