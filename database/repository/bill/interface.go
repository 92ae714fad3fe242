package billRepo

import (
	"context"

	"cleanly/models"
)

// BillRepository holds homeowner running balances.
type BillRepository interface {
	Create(ctx context.Context, bill *models.Bill) error
	GetByUserID(ctx context.Context, userID string) (*models.Bill, error)
	// Adjust applies delta atomically, creating the bill when missing, and
	// returns the updated bill.
	Adjust(ctx context.Context, userID string, delta models.BillDelta) (*models.Bill, error)
}
