// Package entitlement is the single source of truth for premium access.
// Premium status only ever transitions false→true here; activation is
// idempotent so that at-least-once webhook delivery and concurrent duplicate
// calls converge to the same state without locking.
package entitlement

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/studybot/internal/dbx"
	"github.com/dmitrijs2005/studybot/internal/logging"
	"github.com/dmitrijs2005/studybot/internal/server/models"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/repomanager"
)

// Notifier delivers best-effort notices over the messaging transport.
// Failures are reported to the caller but never treated as fatal by this
// service.
type Notifier interface {
	Notify(ctx context.Context, tgID int64, text string) error
}

// notifyConcurrency caps the parallel admin fan-out.
const notifyConcurrency = 4

// Service implements the entitlement ledger over the purchases log and the
// users table.
type Service struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	notifier Notifier
	adminIDs []int64
	logger   logging.Logger
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, notifier Notifier, adminIDs []int64, logger logging.Logger) *Service {
	return &Service{
		db:       db,
		repos:    repos,
		notifier: notifier,
		adminIDs: adminIDs,
		logger:   logger.With("module", "entitlement"),
	}
}

// IsPremium reports the persisted premium flag; unknown users are not premium.
func (s *Service) IsPremium(ctx context.Context, tgID int64) (bool, error) {
	return s.repos.Users(s.db).IsPremium(ctx, tgID)
}

// Activate flips the premium flag for the user, creating the user row first
// if it does not exist yet. The conditional update makes repeat calls no-ops:
// the confirmation notice is sent only when the row actually changed, so a
// replayed activation produces no duplicate side effects.
func (s *Service) Activate(ctx context.Context, tgID int64) (bool, error) {
	var flipped bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Users(tx).EnsureUser(ctx, tgID, ""); err != nil {
			return err
		}
		var err error
		flipped, err = s.repos.Users(tx).SetPremium(ctx, tgID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("activate user %d: %w", tgID, err)
	}

	if flipped {
		if err := s.notifier.Notify(ctx, tgID, "Congrats! ⭐ Aapka premium activate ho gaya."); err != nil {
			s.logger.Warn(ctx, "premium confirmation not delivered", "tg_id", tgID, "error", err)
		}
	}

	return flipped, nil
}

// RecordManualClaim appends a manual-UPI claim and fans the notice out to
// every configured admin. Each send fails independently; one unreachable
// admin never blocks the others or the user's acknowledgment. Activation is
// deliberately not part of this path.
func (s *Service) RecordManualClaim(ctx context.Context, tgID int64, name, txnID string) error {
	p := &models.Purchase{TgID: tgID, TxnID: txnID, Plan: models.PlanManualUPI}
	if _, err := s.repos.Purchases(s.db).Create(ctx, p); err != nil {
		return fmt.Errorf("record manual claim: %w", err)
	}

	text := fmt.Sprintf("Redeem request from %s (#%d)\nTXN: %s", name, tgID, txnID)
	s.fanOut(ctx, text)

	return nil
}

// RecordAutomatedClaim handles a verified gateway confirmation: it appends
// the purchase tagged with its plan and activates the user. A payment
// reference that was already logged is treated as a webhook replay: no
// second purchase row, but activation still runs, so a retry after a
// crash between the purchase insert and the flip heals the claim. The
// flip itself is conditional, so a settled replay stays a no-op.
func (s *Service) RecordAutomatedClaim(ctx context.Context, tgID int64, txnID, plan string) (bool, error) {
	exists, err := s.repos.Purchases(s.db).ExistsByTxn(ctx, txnID)
	if err != nil {
		return false, fmt.Errorf("record automated claim: %w", err)
	}
	if exists {
		s.logger.Info(ctx, "duplicate payment confirmation", "txn", txnID)
		return s.Activate(ctx, tgID)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p := &models.Purchase{TgID: tgID, TxnID: txnID, Plan: plan}
		if _, err := s.repos.Purchases(tx).Create(ctx, p); err != nil {
			return err
		}
		return s.repos.Users(tx).EnsureUser(ctx, tgID, "")
	})
	if err != nil {
		return false, fmt.Errorf("record automated claim: %w", err)
	}

	return s.Activate(ctx, tgID)
}

// RecordUnresolvedClaim persists a confirmation whose user could not be
// resolved from the gateway payload. The claim is kept for manual
// reconciliation under user id 0 and never activates anyone.
func (s *Service) RecordUnresolvedClaim(ctx context.Context, txnID, plan string) error {
	s.logger.Warn(ctx, "payment confirmation without resolvable user", "txn", txnID, "plan", plan)

	p := &models.Purchase{TgID: 0, TxnID: txnID, Plan: plan}
	if _, err := s.repos.Purchases(s.db).Create(ctx, p); err != nil {
		return fmt.Errorf("record unresolved claim: %w", err)
	}

	return nil
}

// fanOut sends text to every admin with bounded concurrency, swallowing
// per-admin failures.
func (s *Service) fanOut(ctx context.Context, text string) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, notifyConcurrency)

	for _, adminID := range s.adminIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(id int64) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := s.notifier.Notify(ctx, id, text); err != nil {
				s.logger.Warn(ctx, "admin notification failed", "admin_id", id, "error", err)
			}
		}(adminID)
	}

	wg.Wait()
}
