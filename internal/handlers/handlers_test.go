package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/services"
)

// ─── Service Error Mapping ───

func TestHandleServiceError_StatusCodes(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedTag  string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"topic": "Topic is required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", &services.ConflictError{Message: "Username already taken"}, http.StatusConflict, "CONFLICT"},
		{"not found", &services.NotFoundError{Message: "Flashcard not found"}, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", &services.UnauthorizedError{Message: "Invalid username or password"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", &services.ForbiddenError{Message: "Access denied"}, http.StatusForbidden, "FORBIDDEN"},
		{"service unavailable", &services.ServiceUnavailableError{Message: "Generation service error: quota exceeded"}, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"invalid format", &services.InvalidFormatError{Message: "The generation service did not return valid JSON. Please try again."}, http.StatusBadGateway, "INVALID_FORMAT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/flashcards/generate", nil)
			req.Header.Set("X-Request-ID", "test-req-id")

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.expectedCode {
				t.Errorf("expected status %d, got %d", tc.expectedCode, rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}

			if resp.Error.Code != tc.expectedTag {
				t.Errorf("expected error code %q, got %q", tc.expectedTag, resp.Error.Code)
			}
			if resp.Error.RequestID != "test-req-id" {
				t.Errorf("expected request ID to be echoed, got %q", resp.Error.RequestID)
			}
		})
	}
}

func TestHandleServiceError_UnknownErrorIsOpaque(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/totals", nil)

	handleServiceError(rr, req, bytes.ErrTooLarge)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	// Raw fault text must never reach the end user.
	if resp.Error.Message != "An unexpected error occurred" {
		t.Errorf("internal errors must not leak details, got %q", resp.Error.Message)
	}
}

func TestHandleServiceError_ValidationFields(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)

	handleServiceError(rr, req, &services.ValidationError{Fields: map[string]string{
		"username": "Username must be between 3 and 64 characters",
		"password": "Password must be at least 8 characters",
	}})

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if len(resp.Error.Fields) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(resp.Error.Fields))
	}
}

// ─── Request Parsing ───

func TestGenerateRequest_Parsing(t *testing.T) {
	body := map[string]interface{}{
		"topic":     "photosynthesis",
		"num_cards": 5,
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/flashcards/generate", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	var parsed models.GenerateRequest
	if err := json.NewDecoder(req.Body).Decode(&parsed); err != nil {
		t.Fatalf("failed to parse request body: %v", err)
	}

	if parsed.Topic != "photosynthesis" {
		t.Errorf("expected topic 'photosynthesis', got %q", parsed.Topic)
	}
	if parsed.NumCards != 5 {
		t.Errorf("expected num_cards 5, got %d", parsed.NumCards)
	}
}

func TestAnswerRequest_Parsing(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		outcome string
	}{
		{"correct", `{"outcome":"correct"}`, "correct"},
		{"incorrect", `{"outcome":"incorrect"}`, "incorrect"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var parsed models.AnswerRequest
			if err := json.Unmarshal([]byte(tc.body), &parsed); err != nil {
				t.Fatalf("failed to parse request body: %v", err)
			}
			if parsed.Outcome != tc.outcome {
				t.Errorf("expected outcome %q, got %q", tc.outcome, parsed.Outcome)
			}
		})
	}
}

// ─── Count Clamping ───

func TestClampCount(t *testing.T) {
	h := &FlashcardHandler{defaultCount: 5, maxCount: 20}

	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"zero uses default", 0, 5},
		{"negative uses default", -3, 5},
		{"in range passes through", 8, 8},
		{"over max is capped", 50, 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := h.clampCount(tc.input); got != tc.expected {
				t.Errorf("clampCount(%d) = %d, expected %d", tc.input, got, tc.expected)
			}
		})
	}
}
