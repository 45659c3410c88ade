// Package webhook runs the HTTP listener that receives asynchronous payment
// confirmations from the gateway. The handler verifies authenticity, hands
// the claim to the entitlement ledger, and answers quickly; replays are safe
// because the ledger is idempotent per payment reference.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/studybot/internal/logging"
	"github.com/dmitrijs2005/studybot/internal/server/payments"
)

// maxBodyBytes bounds webhook request bodies.
const maxBodyBytes = 1 << 20

// Ledger is the entitlement surface the webhook drives.
type Ledger interface {
	RecordAutomatedClaim(ctx context.Context, tgID int64, txnID, plan string) (bool, error)
	RecordUnresolvedClaim(ctx context.Context, txnID, plan string) error
}

// Verifier checks the gateway signature on a raw webhook body.
type Verifier interface {
	Verify(body []byte, signature string) bool
}

type Server struct {
	address  string
	ledger   Ledger
	verifier Verifier
	logger   logging.Logger
}

func NewServer(address string, ledger Ledger, verifier Verifier, logger logging.Logger) *Server {
	return &Server{
		address:  address,
		ledger:   ledger,
		verifier: verifier,
		logger:   logger.With("module", "webhook"),
	}
}

// Handler builds the route table; split out so tests can drive it with
// httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	mux.HandleFunc("POST /webhook/razorpay", s.handleConfirmation)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping webhook server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting webhook server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}

	if !s.verifier.Verify(body, r.Header.Get("X-Razorpay-Signature")) {
		s.logger.Warn(ctx, "webhook signature mismatch")
		http.Error(w, "bad signature", http.StatusBadRequest)
		return
	}

	c, err := payments.ParseConfirmation(body)
	if err != nil {
		s.logger.Warn(ctx, "undecodable webhook body", "error", err)
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	if c.Event != payments.EventPaymentLinkPaid {
		// not ours; acknowledge so the gateway stops retrying
		s.respondOK(w, "ignored")
		return
	}

	if c.TgID == 0 {
		if err := s.ledger.RecordUnresolvedClaim(ctx, c.TxnID, c.Plan); err != nil {
			s.logger.Error(ctx, "unresolved claim not persisted", "txn", c.TxnID, "error", err)
			http.Error(w, "store error", http.StatusInternalServerError)
			return
		}
		s.respondOK(w, "unresolved")
		return
	}

	activated, err := s.ledger.RecordAutomatedClaim(ctx, c.TgID, c.TxnID, c.Plan)
	if err != nil {
		s.logger.Error(ctx, "automated claim failed", "txn", c.TxnID, "error", err)
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}

	s.logger.Info(ctx, "payment confirmation processed", "txn", c.TxnID, "tg_id", c.TgID, "activated", activated)
	s.respondOK(w, "ok")
}

func (s *Server) respondOK(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
