// internal/app/poll_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ruki-qq/homework-bot/internal/domain/homework"
	domainTelegram "github.com/ruki-qq/homework-bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// Failure notification templates, one per failure class. The dedup rule in
// failCycle compares rendered text, so a failure persisting across cycles is
// reported to the chat once until its text changes.
const (
	msgEndpointDown = "Сбой в работе программы: эндпоинт недоступен: %v"
	msgAPIError     = "Сбой в работе программы: ошибка API: %v"
	msgBadAnswer    = "Сбой в работе программы: неожиданный ответ API: %v"
	msgBadStatus    = "Сбой в работе программы: не удалось разобрать статус работы: %v"
	msgFailure      = "Сбой в работе программы: %v"
)

// Snapshot is a read-only copy of poll loop state, safe to hand to other
// goroutines (/status command, digest job).
type Snapshot struct {
	// Window is the Unix-seconds watermark the next cycle will query from.
	Window int64
	// LastNotification is the text of the most recent send attempt.
	LastNotification string
	Cycles           uint64
	FailedCycles     uint64
	// LastError describes the most recent failed cycle; empty after a
	// successful one.
	LastError string
}

// PollService drives the poll cycle against the status endpoint and owns the
// loop state: the poll watermark and the last notification text. All state
// mutation happens on the goroutine running Run (or RunCycle); other
// goroutines may only read via Snapshot.
type PollService struct {
	api      homework.Client
	bot      domainTelegram.Client
	verdicts homework.Verdicts
	chatID   int64
	interval time.Duration
	log      *logrus.Entry

	mu    sync.RWMutex
	state Snapshot
}

func NewPollService(
	api homework.Client,
	bot domainTelegram.Client,
	verdicts homework.Verdicts,
	chatID int64,
	interval time.Duration,
	log *logrus.Entry,
) *PollService {
	return &PollService{
		api:      api,
		bot:      bot,
		verdicts: verdicts,
		chatID:   chatID,
		interval: interval,
		log:      log,
		// A fresh process starts polling from "now"; history before startup
		// is deliberately not replayed.
		state: Snapshot{Window: time.Now().Unix()},
	}
}

// Run executes poll cycles until ctx is cancelled. The pause between cycles
// is the loop's sole suspension point; process termination, delivered as a
// context cancel, is the only thing that interrupts it.
func (s *PollService) Run(ctx context.Context) {
	s.log.WithFields(logrus.Fields{
		"interval":  s.interval.String(),
		"from_date": s.Snapshot().Window,
	}).Info("Poll loop started")

	for {
		_ = s.RunCycle(ctx)
		select {
		case <-ctx.Done():
			s.log.Info("Poll loop stopped")
			return
		case <-time.After(s.interval):
		}
	}
}

// RunCycle performs one full fetch, validate, translate and notify pass.
// Every failure is handled here: classified, notified (with dedup) and
// logged; the poll watermark advances only when the whole cycle succeeded.
// The returned error reports what went wrong for callers that care; Run
// ignores it.
//
// RunCycle must not be called concurrently with itself or Run.
func (s *PollService) RunCycle(ctx context.Context) error {
	raw, err := s.api.Fetch(ctx, s.Snapshot().Window)
	if err != nil {
		return s.failCycle(ctx, err, fetchFailureText(err))
	}

	answer, err := homework.CheckAnswer(raw)
	if err != nil {
		return s.failCycle(ctx, err, fmt.Sprintf(msgBadAnswer, err))
	}

	// Translate the full ordered list before sending anything, so a
	// malformed record never leaves the chat with half an update.
	texts := make([]string, 0, len(answer.Homeworks))
	for _, hw := range answer.Homeworks {
		text, err := s.verdicts.ParseStatus(hw)
		if err != nil {
			return s.failCycle(ctx, err, fmt.Sprintf(msgBadStatus, err))
		}
		texts = append(texts, text)
	}

	if len(texts) == 0 {
		s.log.Debug("No homework status changes in the window")
	}

	var undelivered error
	for _, text := range texts {
		if err := s.attemptSend(text); err != nil {
			// Logged, not retried mid-cycle; the unadvanced watermark makes
			// the next cycle re-fetch the same window and try again.
			s.log.WithError(err).Error("Status notification undelivered, watermark will not advance")
			undelivered = err
		}
	}
	if undelivered != nil {
		s.recordFailure(undelivered.Error())
		return undelivered
	}

	s.recordSuccess(answer.CurrentDate, len(texts))
	return nil
}

// Snapshot returns a copy of the current loop state.
func (s *PollService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// failCycle implements the shared failure policy for fetch, validation and
// translation errors: log, notify the chat once per distinct failure text,
// count the cycle as failed, leave the watermark untouched.
func (s *PollService) failCycle(ctx context.Context, cause error, text string) error {
	if ctx.Err() != nil {
		// Shutdown aborted the cycle; neither notified nor counted.
		s.log.WithError(cause).Debug("Cycle abandoned during shutdown")
		return cause
	}

	s.log.WithError(cause).Error("Poll cycle failed")

	if s.Snapshot().LastNotification == text {
		s.log.Debug("Suppressing duplicate failure notification")
	} else if err := s.attemptSend(text); err != nil {
		s.log.WithError(err).Error("Failure notification undelivered")
	}

	s.recordFailure(cause.Error())
	return cause
}

// attemptSend delivers one message and records it as the last notification
// whether or not delivery succeeded, so a persisting failure is not
// re-reported just because its first report never went out.
func (s *PollService) attemptSend(text string) error {
	s.mu.Lock()
	s.state.LastNotification = text
	s.mu.Unlock()
	return s.bot.SendMessage(s.chatID, text, nil)
}

func (s *PollService) recordSuccess(window int64, sent int) {
	s.mu.Lock()
	s.state.Window = window
	s.state.Cycles++
	s.state.LastError = ""
	s.mu.Unlock()
	s.log.WithFields(logrus.Fields{
		"from_date": window,
		"notified":  sent,
	}).Debug("Poll cycle succeeded, watermark advanced")
}

func (s *PollService) recordFailure(reason string) {
	s.mu.Lock()
	s.state.Cycles++
	s.state.FailedCycles++
	s.state.LastError = reason
	s.mu.Unlock()
}

// fetchFailureText keeps the transport/protocol failure classes apart in
// what the chat reader sees.
func fetchFailureText(err error) string {
	var transportErr *homework.TransportError
	var protocolErr *homework.ProtocolError
	switch {
	case errors.As(err, &transportErr):
		return fmt.Sprintf(msgEndpointDown, transportErr.Err)
	case errors.As(err, &protocolErr):
		return fmt.Sprintf(msgAPIError, protocolErr)
	default:
		return fmt.Sprintf(msgFailure, err)
	}
}
