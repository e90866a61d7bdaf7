package chat

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/abrezinsky/ecoheroes/internal/errors"
	"github.com/abrezinsky/ecoheroes/internal/logger"
)

type stubStrategy struct {
	answer string
	err    error
	calls  []string
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Reply(_ context.Context, msg string) (string, error) {
	s.calls = append(s.calls, msg)
	return s.answer, s.err
}

func TestIsWasteRelated(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"Bagaimana cara membuang baterai bekas?", true},
		{"Apakah STYROFOAM bisa didaur ulang?", true},
		{"Where is the nearest landfill", true},
		{"Dimana bank sampah terdekat", true},
		{"Siapa presiden pertama Indonesia?", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWasteRelated(tt.msg))
		})
	}
}

func TestAssistant_OffTopicSkipsStrategy(t *testing.T) {
	s := &stubStrategy{answer: "should not be used"}
	a := NewAssistant(logger.Discard(), s)

	msg, err := a.Reply(context.Background(), "Resep nasi goreng dong")

	require.NoError(t, err)
	assert.Equal(t, OffTopicReply, msg.Text)
	assert.True(t, msg.IsBot)
	assert.Empty(t, s.calls)
}

func TestAssistant_DelegatesToStrategy(t *testing.T) {
	s := &stubStrategy{answer: "Pisahkan tutup botolnya ya!"}
	a := NewAssistant(logger.Discard(), s)

	msg, err := a.Reply(context.Background(), "  botol plastik dibuang kemana?  ")

	require.NoError(t, err)
	assert.Equal(t, "Pisahkan tutup botolnya ya!", msg.Text)
	assert.Equal(t, []string{"botol plastik dibuang kemana?"}, s.calls)
	_, parseErr := uuid.Parse(msg.ID)
	assert.NoError(t, parseErr, "message ids are uuids")
}

func TestAssistant_StrategyErrorFallsBack(t *testing.T) {
	s := &stubStrategy{err: stderrors.New("quota exceeded")}
	a := NewAssistant(logger.Discard(), s)

	msg, err := a.Reply(context.Background(), "kompos itu apa")

	require.NoError(t, err)
	assert.Equal(t, FallbackReply, msg.Text)
}

func TestAssistant_EmptyMessage(t *testing.T) {
	a := NewAssistant(logger.Discard(), &stubStrategy{})

	_, err := a.Reply(context.Background(), "   ")

	assert.True(t, errors.IsKind(err, errors.ErrValidation))
}

func TestAssistant_Welcome(t *testing.T) {
	a := NewAssistant(logger.Discard(), NewKeywordStrategy())
	fixed := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	w := a.Welcome()

	assert.Equal(t, WelcomeText, w.Text)
	assert.True(t, w.IsBot)
	assert.Equal(t, fixed, w.Timestamp)
	assert.Equal(t, "keyword", a.StrategyName())
	assert.Len(t, Suggestions(), 3)
}

func TestKeywordStrategy(t *testing.T) {
	s := NewKeywordStrategy()

	tests := []struct {
		msg      string
		contains string
	}{
		{"Bagaimana cara membuang baterai bekas?", "limbah B3"},
		{"Apakah styrofoam bisa didaur ulang?", "Styrofoam"},
		{"Buatkan ide kompos sederhana", "takakura"},
		{"minyak jelantah dibuang kemana", "biodiesel"},
		{"kardus basah gimana", "Kertas dan kardus"},
		{"tips lingkungan", "Tips 3R"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got, err := s.Reply(context.Background(), tt.msg)
			require.NoError(t, err)
			assert.Contains(t, got, tt.contains)
		})
	}
}

type fakeGenerator struct {
	model  string
	prompt string
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeminiStrategy_Reply(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("  Styrofoam sebaiknya dihindari 🌍  ")}
	s := newGeminiStrategy(gen, "")

	got, err := s.Reply(context.Background(), "Apakah styrofoam bisa didaur ulang?")

	require.NoError(t, err)
	assert.Equal(t, "Styrofoam sebaiknya dihindari 🌍", got)
	assert.Equal(t, DefaultGeminiModel, gen.model)
	assert.Contains(t, gen.prompt, "Pertanyaan: Apakah styrofoam bisa didaur ulang?")
	assert.Contains(t, gen.prompt, "bahasa Indonesia")
}

func TestGeminiStrategy_EmptyResponse(t *testing.T) {
	s := newGeminiStrategy(&fakeGenerator{resp: &genai.GenerateContentResponse{}}, "gemini-custom")

	got, err := s.Reply(context.Background(), "sampah")

	require.NoError(t, err)
	assert.Equal(t, emptyAnswer, got)
	assert.Equal(t, "gemini-custom", s.Model())
}

func TestGeminiStrategy_Error(t *testing.T) {
	s := newGeminiStrategy(&fakeGenerator{err: stderrors.New("403")}, "")

	_, err := s.Reply(context.Background(), "sampah")

	assert.ErrorContains(t, err, "gemini generate: 403")
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "keyword", s.Name())

	_, err = NewStrategy(context.Background(), "gemini", "", "")
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	_, err = NewStrategy(context.Background(), "oracle", "", "")
	assert.ErrorContains(t, err, "unknown chat strategy")
}
