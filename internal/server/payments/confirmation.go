package payments

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// EventPaymentLinkPaid is the only gateway event this system acts on.
const EventPaymentLinkPaid = "payment_link.paid"

// Confirmation is the decoded, flattened form of a gateway webhook delivery.
// TgID is zero when the notes did not carry a resolvable user.
type Confirmation struct {
	Event string
	TxnID string
	TgID  int64
	Plan  string
}

// webhookEnvelope mirrors the subset of Razorpay's webhook JSON we read.
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		PaymentLink struct {
			Entity struct {
				ID          string         `json:"id"`
				ReferenceID string         `json:"reference_id"`
				Notes       map[string]any `json:"notes"`
			} `json:"entity"`
		} `json:"payment_link"`
		Payment struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseConfirmation decodes a webhook body. The payment id is preferred as
// the transaction reference, falling back to the payment-link id. An
// unparseable or missing tg_id note leaves TgID zero for the caller to treat
// as unresolvable.
func ParseConfirmation(body []byte) (*Confirmation, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}

	c := &Confirmation{Event: env.Event}

	c.TxnID = env.Payload.Payment.Entity.ID
	if c.TxnID == "" {
		c.TxnID = env.Payload.PaymentLink.Entity.ID
	}

	notes := env.Payload.PaymentLink.Entity.Notes
	c.Plan = noteString(notes, "plan")
	if raw := noteString(notes, "tg_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			c.TgID = id
		}
	}

	return c, nil
}

// noteString tolerates gateway notes arriving as strings or numbers.
func noteString(notes map[string]any, key string) string {
	switch v := notes[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}
