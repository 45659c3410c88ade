// Package bot is the Telegram front end: long-polling update loop, command
// handlers, catalog callbacks, and admin ingestion. Each update is handled
// in its own goroutine; all durable state lives in the store.
package bot

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/studybot/internal/logging"
	"github.com/dmitrijs2005/studybot/internal/server/catalog"
	"github.com/dmitrijs2005/studybot/internal/server/config"
	"github.com/dmitrijs2005/studybot/internal/server/models"
	"github.com/dmitrijs2005/studybot/internal/server/payments"
	"github.com/dmitrijs2005/studybot/internal/server/quiz"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/repomanager"
)

const (
	updateTimeoutSeconds = 30

	// openPolls is display-only bookkeeping for the attempt audit log; cap
	// it so an unanswered backlog cannot grow without bound.
	maxOpenPolls = 4096
)

// sender is the outbound half of the Telegram API. *tgbotapi.BotAPI
// satisfies it; handlers write through this so they can be tested without a
// live connection.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Ledger is the entitlement surface the front end drives.
type Ledger interface {
	IsPremium(ctx context.Context, tgID int64) (bool, error)
	Activate(ctx context.Context, tgID int64) (bool, error)
	RecordManualClaim(ctx context.Context, tgID int64, name, txnID string) error
}

type Bot struct {
	api     *tgbotapi.BotAPI
	tg      sender
	cfg     *config.Config
	db      *sql.DB
	repos   repomanager.RepositoryManager
	ledger  Ledger
	nav     *catalog.Navigator
	issuer  *payments.Issuer
	quizzes *quiz.Service
	logger  logging.Logger

	mu        sync.Mutex
	openPolls map[string]*models.Quiz
}

func New(api *tgbotapi.BotAPI, cfg *config.Config, db *sql.DB, repos repomanager.RepositoryManager,
	ledger Ledger, nav *catalog.Navigator, issuer *payments.Issuer,
	quizzes *quiz.Service, logger logging.Logger) *Bot {
	return &Bot{
		api:       api,
		tg:        api,
		cfg:       cfg,
		db:        db,
		repos:     repos,
		ledger:    ledger,
		nav:       nav,
		issuer:    issuer,
		quizzes:   quizzes,
		logger:    logger,
		openPolls: make(map[string]*models.Quiz),
	}
}

// Run consumes the long-polling update stream until the context is
// cancelled. Updates never block each other.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info(ctx, "bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error(ctx, "update handler panicked", "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.PollAnswer != nil:
		b.handlePollAnswer(ctx, update.PollAnswer)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}
	if !msg.IsCommand() {
		return
	}

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "menu":
		b.sendMenu(ctx, msg.Chat.ID, msg.From.ID)
	case "help":
		b.send(ctx, msg.Chat.ID, helpText)
	case "myid":
		b.send(ctx, msg.Chat.ID, fmt.Sprintf("Aapki Telegram ID: %d", msg.From.ID))
	case "buy":
		b.sendPurchaseOptions(ctx, msg.Chat.ID)
	case "redeem":
		b.handleRedeem(ctx, msg)
	case "quiz":
		b.handleQuiz(ctx, msg)

	// Privileged commands are ignored silently for everyone else, so the
	// command set itself is not discoverable.
	case "make_premium":
		if b.cfg.IsAdmin(msg.From.ID) {
			b.handleMakePremium(ctx, msg)
		}
	case "addquiz":
		if b.cfg.IsAdmin(msg.From.ID) {
			b.handleAddQuiz(ctx, msg)
		}
	case "stats":
		if b.cfg.IsAdmin(msg.From.ID) {
			b.handleStats(ctx, msg)
		}
	}
}

// trackPoll remembers which quiz a sent poll belongs to so the answer can be
// audited later.
func (b *Bot) trackPoll(pollID string, q *models.Quiz) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.openPolls) >= maxOpenPolls {
		b.openPolls = make(map[string]*models.Quiz)
	}
	b.openPolls[pollID] = q
}

func (b *Bot) takePoll(pollID string) *models.Quiz {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.openPolls[pollID]
	delete(b.openPolls, pollID)
	return q
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) {
	if _, err := b.tg.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn(ctx, "message send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendMarkdown(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Warn(ctx, "message send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) answer(ctx context.Context, queryID, text string) {
	if _, err := b.tg.Request(tgbotapi.NewCallback(queryID, text)); err != nil {
		b.logger.Warn(ctx, "callback answer failed", "error", err)
	}
}

// Notifier delivers entitlement notifications over the bot transport. It is
// a separate type so the ledger can be wired before the full bot is.
type Notifier struct {
	api *tgbotapi.BotAPI
}

func NewNotifier(api *tgbotapi.BotAPI) *Notifier {
	return &Notifier{api: api}
}

func (n *Notifier) Notify(ctx context.Context, tgID int64, text string) error {
	if _, err := n.api.Send(tgbotapi.NewMessage(tgID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
