package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

const emptyAnswer = "Maaf, saya tidak dapat memberikan jawaban untuk pertanyaan tersebut."

const promptTemplate = `Kamu adalah asisten AI yang ceria dan ramah, ahli dalam pengelolaan sampah dan limbah. Jawab pertanyaan berikut dalam bahasa Indonesia dengan gaya yang hangat dan antusias.

PENTING:
- Berikan jawaban yang ringkas dan mudah dipahami (maksimal 3-4 paragraf)
- Gunakan tone yang ceria dan positif
- Sertakan emoji yang relevan untuk membuat jawaban lebih menarik
- Fokus pada solusi praktis dan tips berguna
- Jika ada list/poin, batasi maksimal 4-5 poin saja

Pertanyaan: %s

Berikan jawaban yang informatif tapi singkat, praktis, dan dengan semangat!`

// generator is the slice of *genai.Models the strategy uses
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiStrategy answers through the Gemini API
type GeminiStrategy struct {
	gen   generator
	model string
}

// NewGeminiStrategy creates a Gemini-backed strategy
func NewGeminiStrategy(ctx context.Context, apiKey, model string) (*GeminiStrategy, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini chat strategy")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiStrategy(client.Models, model), nil
}

func newGeminiStrategy(gen generator, model string) *GeminiStrategy {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiStrategy{gen: gen, model: model}
}

func (s *GeminiStrategy) Name() string { return "gemini" }

// Model returns the configured model name
func (s *GeminiStrategy) Model() string { return s.model }

func (s *GeminiStrategy) Reply(ctx context.Context, message string) (string, error) {
	resp, err := s.gen.GenerateContent(ctx, s.model, genai.Text(BuildPrompt(message)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return emptyAnswer, nil
	}
	return text, nil
}

// BuildPrompt wraps a user question in the EcoBot instructions
func BuildPrompt(question string) string {
	return fmt.Sprintf(promptTemplate, question)
}
