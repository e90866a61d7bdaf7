// Package chat is the EcoBot assistant. Answers come from a pluggable
// Strategy; the Assistant only decides whether a question is about waste
// at all and what to say when the strategy fails.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/ecoheroes/internal/errors"
	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/models"
)

// Strategy produces an answer for a waste-related question.
type Strategy interface {
	Name() string
	Reply(ctx context.Context, message string) (string, error)
}

const (
	WelcomeText = "Halo! Saya EcoBot, asisten pintarmu. Apa yang ingin kamu ketahui tentang pengelolaan sampah hari ini?"

	OffTopicReply = "Halo! 😊 Saya adalah Bot Sampah yang khusus membantu masalah pengelolaan sampah nih! " +
		"Saya hanya bisa menjawab pertanyaan tentang:\n\n🗂️ Pengelolaan sampah\n♻️ Daur ulang\n" +
		"🌱 Kompos dan sampah organik\n🏛️ Bank sampah\n🌍 Masalah lingkungan\n\n" +
		"Yuk, tanya sesuatu tentang sampah! Saya siap bantu! 🎉"

	FallbackReply = "Ups! 😅 Saya lagi ada gangguan koneksi nih. Tapi tenang, ini info berguna tentang sampah:\n\n" +
		"🌿 **Sampah Organik**: Sisa makanan, daun, kulit buah yang bisa jadi kompos\n" +
		"♻️ **Sampah Anorganik**: Plastik, logam, kaca yang perlu didaur ulang\n\n" +
		"✨ **Tips 3R**: Reduce (kurangi), Reuse (pakai lagi), Recycle (daur ulang)!\n\n" +
		"Coba tanya lagi ya, semoga koneksinya udah lancar! 🚀"
)

var wasteKeywords = []string{
	"sampah", "limbah", "daur ulang", "recycle", "kompos", "organik", "anorganik",
	"plastik", "kertas", "botol", "kaleng", "kardus", "tempat sampah", "tong sampah",
	"pengelolaan", "pengolahan", "pemilahan", "reduce", "reuse", "3r", "5r",
	"lingkungan", "pencemaran", "polusi", "tpa", "tempat pembuangan", "bank sampah",
	"waste", "garbage", "trash", "landfill", "biodegradable", "non-biodegradable",
	"eco", "ramah lingkungan", "green", "hijau", "sustainability", "berkelanjutan",
	"baterai", "styrofoam", "cat", "minyak", "elektronik",
}

// IsWasteRelated reports whether message mentions any waste keyword.
// Matching is a case-insensitive substring test.
func IsWasteRelated(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range wasteKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Suggestions are the quick-question chips shown under the chat input
func Suggestions() []string {
	return []string{
		"Bagaimana cara membuang baterai bekas?",
		"Apakah styrofoam bisa didaur ulang?",
		"Buatkan ide kompos sederhana",
	}
}

// Assistant answers chat messages through a Strategy
type Assistant struct {
	strategy Strategy
	log      logger.Logger
	now      func() time.Time
}

// NewAssistant creates an assistant backed by strategy
func NewAssistant(log logger.Logger, strategy Strategy) *Assistant {
	return &Assistant{
		strategy: strategy,
		log:      log.With("component", "chat", "strategy", strategy.Name()),
		now:      time.Now,
	}
}

// StrategyName returns the name of the active strategy
func (a *Assistant) StrategyName() string {
	return a.strategy.Name()
}

// Welcome is the first bot message of a conversation
func (a *Assistant) Welcome() models.ChatMessage {
	return a.botMessage(WelcomeText)
}

// Reply answers message. Off-topic questions never reach the strategy, and
// strategy failures are logged and answered with FallbackReply.
func (a *Assistant) Reply(ctx context.Context, message string) (models.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.ChatMessage{}, errors.Validation("pesan tidak boleh kosong")
	}

	if !IsWasteRelated(message) {
		a.log.Debug("Off-topic question rejected")
		return a.botMessage(OffTopicReply), nil
	}

	text, err := a.strategy.Reply(ctx, message)
	if err != nil {
		a.log.Warn("Chat strategy failed", "error", err)
		return a.botMessage(FallbackReply), nil
	}
	return a.botMessage(text), nil
}

func (a *Assistant) botMessage(text string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		IsBot:     true,
		Timestamp: a.now(),
	}
}
