package models

import "time"

// Purchase is one redemption claim, manual or gateway-confirmed. The table
// is an append-only log; rows are never mutated. TgID is zero for claims
// whose user could not be resolved from the gateway payload.
type Purchase struct {
	ID        int64
	TgID      int64
	TxnID     string
	Plan      string
	CreatedAt time.Time
}

// PlanManualUPI tags purchases reported by the user over the manual path.
const PlanManualUPI = "manual-upi"
