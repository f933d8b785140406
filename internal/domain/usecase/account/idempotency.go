package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	"github.com/codecraftmss/game/internal/domain/port/persistence"
)

// IdempotencyHandler provides idempotency checking for manual token transactions
type IdempotencyHandler struct {
	transactionRepo persistence.TransactionRepository
}

// NewIdempotencyHandler creates a new IdempotencyHandler
func NewIdempotencyHandler(transactionRepo persistence.TransactionRepository) *IdempotencyHandler {
	return &IdempotencyHandler{
		transactionRepo: transactionRepo,
	}
}

// CheckIdempotency checks if a ledger entry with the given transaction ID
// already exists. Returns the entry, a boolean indicating if it was found,
// and any error.
func (h *IdempotencyHandler) CheckIdempotency(
	ctx context.Context,
	transactionID string,
) (*entity.Transaction, bool, error) {
	exists, err := h.transactionRepo.TransactionExists(ctx, transactionID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check if transaction exists: %w", err)
	}

	if !exists {
		return nil, false, nil
	}

	txn, err := h.transactionRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			// Existed when we checked but gone before retrieval; treat as
			// non-existent and let the unique index arbitrate
			return nil, false, nil
		}
		return nil, true, fmt.Errorf("failed to retrieve existing transaction: %w", err)
	}

	return txn, true, nil
}
