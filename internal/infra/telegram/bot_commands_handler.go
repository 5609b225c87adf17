// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/ruki-qq/homework-bot/internal/app"
	"github.com/ruki-qq/homework-bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	b *telebot.Bot,
	cfg *config.AppConfig, // For TelegramChatID
	poller *app.PollService,
	baseLogger *logrus.Entry, // For contextual logging
) {
	commandLogger := baseLogger.WithField("handler_group", "commands")

	// The bot serves exactly one chat; commands from anywhere else are
	// ignored without an answer.
	fromOwnChat := func(c telebot.Context) bool {
		if c.Chat() != nil && c.Chat().ID == cfg.TelegramChatID {
			return true
		}
		commandLogger.WithField("command", c.Text()).Debug("Ignoring command from foreign chat")
		return false
	}

	b.Handle("/start", func(c telebot.Context) error {
		if !fromOwnChat(c) {
			return nil
		}
		logCtx := commandLogger.WithField("command", "/start").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing /start command")

		return c.Send(fmt.Sprintf(
			"Привет, %s! Я слежу за статусом проверки ваших домашних работ на Практикуме и напишу сюда, как только он изменится.\n\nВаш профиль: https://practicum.yandex.ru/profile/\nСписок команд: /help",
			c.Sender().FirstName,
		))
	})

	b.Handle("/help", func(c telebot.Context) error {
		if !fromOwnChat(c) {
			return nil
		}
		logCtx := commandLogger.WithField("command", "/help").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing /help command")

		var helpText strings.Builder
		helpText.WriteString("Я опрашиваю API Практикума и присылаю сообщение, когда ревьюер берёт работу, возвращает её или принимает.\n\n")
		helpText.WriteString("`/status`\n - Показать состояние опроса: окно, счётчики циклов, последнее уведомление.\n\n")
		helpText.WriteString("`/help`\n - Показать это справочное сообщение.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/status", func(c telebot.Context) error {
		if !fromOwnChat(c) {
			return nil
		}
		logCtx := commandLogger.WithField("command", "/status").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing /status command")

		return c.Send(renderStatus(poller.Snapshot()))
	})
}

// renderStatus formats a loop state snapshot for the chat. Plain text on
// purpose: the last notification may contain characters Telegram's Markdown
// parser chokes on.
func renderStatus(snap app.Snapshot) string {
	var text strings.Builder
	text.WriteString("Состояние опроса:\n")
	fmt.Fprintf(&text, "Окно опроса: %s (%d)\n",
		time.Unix(snap.Window, 0).Format("02.01.2006 15:04:05 MST"), snap.Window)
	fmt.Fprintf(&text, "Циклов: %d, из них неуспешных: %d\n", snap.Cycles, snap.FailedCycles)

	if snap.LastNotification == "" {
		text.WriteString("Уведомлений ещё не было.\n")
	} else {
		fmt.Fprintf(&text, "Последнее уведомление: %s\n", snap.LastNotification)
	}

	if snap.LastError == "" {
		text.WriteString("Последний цикл прошёл без ошибок.")
	} else {
		fmt.Fprintf(&text, "Последняя ошибка: %s", snap.LastError)
	}
	return text.String()
}
