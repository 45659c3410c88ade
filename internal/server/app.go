// Package server initializes and runs the bot process: it opens the store,
// applies migrations, wires the services together, and supervises the two
// long-running loops (Telegram long polling and the payment webhook
// listener) until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/studybot/internal/logging"
	"github.com/dmitrijs2005/studybot/internal/server/bot"
	"github.com/dmitrijs2005/studybot/internal/server/catalog"
	"github.com/dmitrijs2005/studybot/internal/server/config"
	"github.com/dmitrijs2005/studybot/internal/server/entitlement"
	"github.com/dmitrijs2005/studybot/internal/server/payments"
	"github.com/dmitrijs2005/studybot/internal/server/quiz"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studybot/internal/server/webhook"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	bot     *bot.Bot
	webhook *webhook.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram init error: %w", err)
	}

	ledger := entitlement.NewService(db, repos, bot.NewNotifier(api), cfg.AdminIDs, logger)
	nav := catalog.NewNavigator(repos.Content(db), ledger, cfg.PageSize)
	quizzes := quiz.NewService(db, repos, ledger)

	// Without gateway credentials the issuer degrades to manual UPI
	// instructions instead of failing startup.
	var gateway payments.Gateway
	if cfg.GatewayConfigured() {
		rz, err := payments.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
		if err != nil {
			return nil, fmt.Errorf("gateway init error: %w", err)
		}
		gateway = rz
	}
	issuer := payments.NewIssuer(gateway, cfg.PaymentNote, logger)

	b := bot.New(api, cfg, db, repos, ledger, nav, issuer, quizzes, logger)
	wh := webhook.NewServer(cfg.EndpointAddrHTTP, ledger, payments.NewWebhookVerifier(cfg.WebhookSecret), logger)

	return &App{config: cfg, logger: logger, db: db, bot: b, webhook: wh}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until both loops have stopped. Either loop failing cancels the
// other, so the process never limps along half alive.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.bot.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
		cancelFunc()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.webhook.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
		cancelFunc()
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
}
