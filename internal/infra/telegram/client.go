// internal/infra/telegram/client.go
package telegram

import (
	"time"

	domainTelegram "github.com/ruki-qq/homework-bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// sender is the slice of *telebot.Bot the adapter needs; tests substitute it.
type sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
// Sends are paced to one message per second per Telegram's per-chat guidance.
type TelebotAdapter struct {
	bot     sender
	limiter *rate.Limiter
	log     *logrus.Entry
}

func NewTelebotAdapter(b *telebot.Bot, log *logrus.Entry) *TelebotAdapter {
	return &TelebotAdapter{
		bot:     b,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     log,
	}
}

// SendMessage sends a text message to the specified recipient. Transport
// failures are wrapped as DeliveryError; the caller decides whether the
// cycle survives them.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}

	if delay := tba.limiter.Reserve().Delay(); delay > 0 {
		time.Sleep(delay)
	}

	tba.log.WithField("chat_id", recipientChatID).Debug("Sending message")
	recipient := &telebot.User{ID: recipientChatID}
	_, err := tba.bot.Send(recipient, text, options)
	if err != nil {
		tba.log.WithError(err).WithField("chat_id", recipientChatID).Error("Message delivery failed")
		return &domainTelegram.DeliveryError{Err: err}
	}
	tba.log.WithField("chat_id", recipientChatID).Info("Message delivered")
	return nil
}
