package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/services"
)

const maxUploadBytes = 10 << 20 // 10 MB

type FlashcardHandler struct {
	flashRepo    *repository.FlashcardRepo
	generator    *services.GeneratorService
	scoring      *services.ScoringService
	fileExtract  *services.FileExtractService
	defaultCount int
	maxCount     int
}

func NewFlashcardHandler(
	flashRepo *repository.FlashcardRepo,
	generator *services.GeneratorService,
	scoring *services.ScoringService,
	fileExtract *services.FileExtractService,
	defaultCount, maxCount int,
) *FlashcardHandler {
	return &FlashcardHandler{
		flashRepo:    flashRepo,
		generator:    generator,
		scoring:      scoring,
		fileExtract:  fileExtract,
		defaultCount: defaultCount,
		maxCount:     maxCount,
	}
}

// List returns only the caller's unanswered cards.
func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	cards, err := h.flashRepo.ListUnanswered(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch flashcards", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"flashcards": cards})
}

func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	count := h.clampCount(req.NumCards)
	userID := middleware.GetUserID(r.Context())

	created, err := h.generator.Generate(r.Context(), userID, req.Topic, count)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"created": created,
		"message": "Flashcards generated",
	})
}

// GenerateStub is the legacy non-AI generation path.
func (h *FlashcardHandler) GenerateStub(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateStubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	created, err := h.generator.GenerateStub(r.Context(), userID, req.Title)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"created": created,
		"message": "Flashcards generated",
	})
}

// GenerateFromFile extracts text from an uploaded document and feeds it to
// the generator as study material.
func (h *FlashcardHandler) GenerateFromFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid multipart form", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "file field is required", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read uploaded file", r))
		return
	}

	material, err := h.fileExtract.ExtractText(header.Filename, data)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	count := h.clampCount(0)
	userID := middleware.GetUserID(r.Context())

	created, err := h.generator.GenerateFromMaterial(r.Context(), userID, material, count)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"created": created,
		"message": "Flashcards generated from document",
	})
}

func (h *FlashcardHandler) Answer(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	event, err := h.scoring.RecordAnswer(r.Context(), userID, cardID, req.Outcome)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Answer recorded",
		"event":   event,
	})
}

func (h *FlashcardHandler) clampCount(n int) int {
	if n <= 0 {
		return h.defaultCount
	}
	if n > h.maxCount {
		return h.maxCount
	}
	return n
}
