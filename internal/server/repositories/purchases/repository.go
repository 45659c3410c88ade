package purchases

import (
	"context"

	"github.com/dmitrijs2005/studybot/internal/server/models"
)

// Repository is the append-only log of redemption claims. Rows are never
// updated or deleted; replay policy lives in the entitlement service, not
// here.
type Repository interface {
	Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error)

	// ExistsByTxn reports whether a claim with the given payment reference
	// has already been logged.
	ExistsByTxn(ctx context.Context, txnID string) (bool, error)
}
