package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"flashdeck-backend/internal/models"
	"flashdeck-backend/internal/repository"
)

type GeneratorService struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	flashRepo *repository.FlashcardRepo
	rateChan  chan struct{} // Token bucket
}

func NewGeneratorService(apiKey string, concurrentReqs int, flashRepo *repository.FlashcardRepo) (*GeneratorService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.7)
	model.SetTopP(0.95)

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeneratorService{
		client:    client,
		model:     model,
		flashRepo: flashRepo,
		rateChan:  rateChan,
	}, nil
}

func (s *GeneratorService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeneratorService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeneratorService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Generate runs one blocking generation call for the topic, validates the
// reply, persists the accepted drafts for the owner and returns how many were
// created. There is no retry: a failed call ends the request.
func (s *GeneratorService) Generate(ctx context.Context, userID uuid.UUID, topic string, count int) (int, error) {
	if strings.TrimSpace(topic) == "" {
		return 0, &ValidationError{Fields: map[string]string{"topic": "Topic is required"}}
	}

	prompt := buildFlashcardPrompt(topic, count)
	return s.generateAndStore(ctx, userID, prompt)
}

// GenerateFromMaterial embeds extracted document text in the prompt instead of
// a bare topic name.
func (s *GeneratorService) GenerateFromMaterial(ctx context.Context, userID uuid.UUID, material string, count int) (int, error) {
	if strings.TrimSpace(material) == "" {
		return 0, &ValidationError{Fields: map[string]string{"file": "No extractable text in document"}}
	}

	prompt := buildMaterialPrompt(material, count)
	return s.generateAndStore(ctx, userID, prompt)
}

// GenerateStub is the legacy non-AI path: two fixed cards for a title, no
// choice set.
func (s *GeneratorService) GenerateStub(ctx context.Context, userID uuid.UUID, title string) (int, error) {
	if strings.TrimSpace(title) == "" {
		return 0, &ValidationError{Fields: map[string]string{"title": "Title is required"}}
	}

	drafts := []models.FlashcardDraft{
		{Question: fmt.Sprintf("What does '%s' mean?", title), Answer: "Example generated answer"},
		{Question: fmt.Sprintf("What is the main idea of '%s'?", title), Answer: "A short summary in a few words"},
	}

	return s.flashRepo.CreateBatch(ctx, userID, drafts)
}

func (s *GeneratorService) generateAndStore(ctx context.Context, userID uuid.UUID, prompt string) (int, error) {
	if err := s.acquireRate(ctx); err != nil {
		return 0, err
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return 0, &ServiceUnavailableError{Message: fmt.Sprintf("Generation service error: %v", err)}
	}

	rawText := extractText(resp)
	drafts, err := parseDrafts(rawText)
	if err != nil {
		log.Printf("generator: unparseable reply: %v", err)
		return 0, err
	}

	accepted := validateDrafts(drafts)
	if dropped := len(drafts) - len(accepted); dropped > 0 {
		log.Printf("generator: dropped %d invalid draft(s)", dropped)
	}

	return s.flashRepo.CreateBatch(ctx, userID, accepted)
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// parseDrafts expects the full reply to be the declared JSON object, after
// code-fence stripping. Anything else is an invalid-format failure with no
// partial save.
func parseDrafts(rawText string) ([]models.FlashcardDraft, error) {
	rawText = stripCodeFence(rawText)

	var payload struct {
		Flashcards []models.FlashcardDraft `json:"flashcards"`
	}
	if err := json.Unmarshal([]byte(rawText), &payload); err != nil {
		return nil, &InvalidFormatError{Message: "The generation service did not return valid JSON. Please try again."}
	}
	if payload.Flashcards == nil {
		return nil, &InvalidFormatError{Message: "The generation service reply is missing the flashcards list. Please try again."}
	}

	return payload.Flashcards, nil
}

// validateDrafts silently drops drafts with an empty question, empty answer
// or fewer than 4 choices.
func validateDrafts(drafts []models.FlashcardDraft) []models.FlashcardDraft {
	accepted := make([]models.FlashcardDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Question = strings.TrimSpace(d.Question)
		d.Answer = strings.TrimSpace(d.Answer)
		if d.Question == "" || d.Answer == "" || len(d.Choices) < 4 {
			continue
		}
		accepted = append(accepted, d)
	}
	return accepted
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func buildFlashcardPrompt(topic string, count int) string {
	var b strings.Builder

	b.WriteString(flashcardSchemaContract)
	b.WriteString(fmt.Sprintf("\nCreate %d flashcards about the topic: %s. Each flashcard must follow the format described above.\n", count, topic))

	return b.String()
}

func buildMaterialPrompt(material string, count int) string {
	var b strings.Builder

	b.WriteString(flashcardSchemaContract)
	b.WriteString(fmt.Sprintf("\nCreate %d flashcards based on the following study material. Each flashcard must follow the format described above.\n", count))
	b.WriteString("---MATERIAL START---\n")
	b.WriteString(material)
	b.WriteString("\n---MATERIAL END---\n")

	return b.String()
}

const flashcardSchemaContract = `You are a generator of educational flashcards.
ALWAYS return valid JSON in the format below (no extra text, no explanations):
{
  "flashcards": [
    {
      "question": "string",
      "answer": "string",
      "choices": ["choice A", "choice B", "choice C", "choice D"]
    }
  ]
}

Rules:
- The correct answer must be INCLUDED in "choices".
- The other choices must be plausible but wrong.
- The positions of the choices must be random (do not always put the correct one first).
- ALWAYS SHUFFLE THE CORRECT ANSWER INSIDE THE CHOICES ARRAY.
- The content must be direct and educational, in natural language.
- Avoid being vague; give the necessary detail where needed.
- The question must be complete and, where necessary, carry its own context.
`
