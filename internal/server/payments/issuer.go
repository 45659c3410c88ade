package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/studybot/internal/common"
	"github.com/dmitrijs2005/studybot/internal/logging"
)

// Issuer creates payment intents for the plan menu.
type Issuer struct {
	gateway Gateway
	note    string
	logger  logging.Logger
}

// NewIssuer constructs the issuer. A nil gateway means the integration is
// not configured; CreateIntent then returns ErrGatewayUnavailable and the
// caller falls back to manual instructions.
func NewIssuer(gateway Gateway, paymentNote string, logger logging.Logger) *Issuer {
	return &Issuer{gateway: gateway, note: paymentNote, logger: logger.With("module", "payments")}
}

// CreateIntent builds a hosted payment link for the given plan, tagged with
// notes that let the webhook resolve the confirmation back to the user.
func (i *Issuer) CreateIntent(ctx context.Context, tgID int64, planKey string) (string, error) {
	plan, ok := Plans[planKey]
	if !ok {
		return "", fmt.Errorf("%w: %q", common.ErrUnknownPlan, planKey)
	}
	if i.gateway == nil {
		return "", common.ErrGatewayUnavailable
	}

	reference := uuid.NewString()
	notes := map[string]string{
		"tg_id": strconv.FormatInt(tgID, 10),
		"plan":  planKey,
	}

	url, err := i.gateway.CreatePaymentLink(ctx, plan.Amount, fmt.Sprintf("%s - %s", i.note, plan.Label), reference, notes)
	if err != nil {
		return "", err
	}

	i.logger.Info(ctx, "payment intent created", "tg_id", tgID, "plan", planKey, "reference", reference)
	return url, nil
}
