package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientBalance  = 4001
	CodeInvalidAmount        = 4002
	CodeBetOutOfRange        = 4003
	CodeDuplicateTransaction = 4004
	CodeConstraintViolation  = 4005
	CodeRoundClosed          = 4006
	CodeInvalidTransition    = 4007
	CodeAccountNotApproved   = 4031
	CodeAccountNotFound      = 4040
	CodeRoomNotFound         = 4041

	// 5xxx - Server errors
	CodeInternalServer       = 5000
	CodeSettlementIncomplete = 5001
	CodeTransientStore       = 5030
)

// Base error types
var (
	// ErrInsufficientBalance is returned when an account cannot cover a stake or debit
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount is returned when an amount is zero, negative or malformed
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrBetOutOfRange is returned when a stake violates the room's min/max limits
	ErrBetOutOfRange = errors.New("bet amount outside room limits")

	// ErrRoundClosed is returned when a bet arrives after betting closed for the round.
	// Expected under concurrency; callers treat it as control flow, not a fault.
	ErrRoundClosed = errors.New("betting is closed for this round")

	// ErrInvalidTransition is returned when an admin action is attempted out of
	// sequence, e.g. declaring a winner on a round that is still open or already
	// settled. Indicates a race between admin sessions or a stale console.
	ErrInvalidTransition = errors.New("invalid round transition")

	// ErrSettlementIncomplete is returned when settlement could not complete
	// all-or-nothing. The round must stay closed until settlement is retried.
	ErrSettlementIncomplete = errors.New("round settlement incomplete")

	// ErrTransientStore is returned when the underlying store is unavailable
	ErrTransientStore = errors.New("storage temporarily unavailable")

	// ErrDuplicateTransaction is returned when a ledger entry with the same
	// transaction ID was already committed
	ErrDuplicateTransaction = errors.New("transaction with this ID already exists")

	// ErrAccountNotFound is returned when the requested account doesn't exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountNotApproved is returned when a non-approved account tries to bet
	ErrAccountNotApproved = errors.New("account is not approved for betting")

	// ErrRoomNotFound is returned when the requested room doesn't exist
	ErrRoomNotFound = errors.New("room not found")

	// ErrTransactionNotFound is returned when the requested ledger entry doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidSide is returned when a bet names neither side of the table
	ErrInvalidSide = errors.New("invalid bet side")

	// ErrInvalidPhase is returned when a phase value is not a known betting phase
	ErrInvalidPhase = errors.New("invalid betting phase")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrBetOutOfRange):
		return CodeBetOutOfRange
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrRoundClosed):
		return CodeRoundClosed
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrAccountNotApproved):
		return CodeAccountNotApproved
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrRoomNotFound):
		return CodeRoomNotFound
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case errors.Is(err, ErrSettlementIncomplete):
		return CodeSettlementIncomplete
	case errors.Is(err, ErrTransientStore):
		return CodeTransientStore
	default:
		return CodeInternalServer
	}
}

// InsufficientBalanceError provides detailed error information for insufficient balance
type InsufficientBalanceError struct {
	AccountID   string
	Amount      int64
	CurrBalance int64
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for account %s: required %d, available %d",
		e.AccountID, e.Amount, e.CurrBalance)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "insufficient_balance",
		"account_id":      e.AccountID,
		"amount":          e.Amount,
		"current_balance": e.CurrBalance,
		"error_code":      CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(accountID string, amount, currentBalance int64) error {
	return &InsufficientBalanceError{
		AccountID:   accountID,
		Amount:      amount,
		CurrBalance: currentBalance,
	}
}

// InvalidTransitionError describes an admin round action that was rejected
// because the round was not in the required state
type InvalidTransitionError struct {
	RoomID      string
	RoundNumber int64
	Action      string
	Reason      string
}

// Error implements the error interface
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %q for room %s round %d: %s",
		e.Action, e.RoomID, e.RoundNumber, e.Reason)
}

// Is checks if the target error is an ErrInvalidTransition
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// LogFields returns a map of fields for structured logging
func (e *InvalidTransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "invalid_transition",
		"room_id":      e.RoomID,
		"round_number": e.RoundNumber,
		"action":       e.Action,
		"reason":       e.Reason,
		"error_code":   CodeInvalidTransition,
	}
}

// NewInvalidTransitionError creates a detailed invalid transition error
func NewInvalidTransitionError(roomID string, roundNumber int64, action, reason string) error {
	return &InvalidTransitionError{
		RoomID:      roomID,
		RoundNumber: roundNumber,
		Action:      action,
		Reason:      reason,
	}
}

// SettlementError wraps the cause of a failed round settlement. The round
// stays closed with its result set until a retry succeeds, so this error must
// be surfaced loudly and never swallowed.
type SettlementError struct {
	RoomID      string
	RoundNumber int64
	Side        string
	Err         error
}

// Error implements the error interface
func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement failed for room %s round %d (winner %s): %v",
		e.RoomID, e.RoundNumber, e.Side, e.Err)
}

// Unwrap returns the underlying error
func (e *SettlementError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrSettlementIncomplete
func (e *SettlementError) Is(target error) bool {
	return target == ErrSettlementIncomplete
}

// LogFields returns a map of fields for structured logging
func (e *SettlementError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "settlement_incomplete",
		"room_id":      e.RoomID,
		"round_number": e.RoundNumber,
		"winning_side": e.Side,
		"error":        e.Err.Error(),
		"error_code":   CodeSettlementIncomplete,
	}
}

// NewSettlementError creates a detailed settlement failure error
func NewSettlementError(roomID string, roundNumber int64, side string, err error) error {
	return &SettlementError{
		RoomID:      roomID,
		RoundNumber: roundNumber,
		Side:        side,
		Err:         err,
	}
}

// BetError represents an error raised while placing a bet
type BetError struct {
	AccountID   string
	RoomID      string
	RoundNumber int64
	Side        string
	Amount      int64
	Err         error
}

// Error implements the error interface for BetError
func (e *BetError) Error() string {
	return fmt.Sprintf("bet rejected for account %s (room %s, round %d, side %s, amount %d): %v",
		e.AccountID, e.RoomID, e.RoundNumber, e.Side, e.Amount, e.Err)
}

// Unwrap returns the underlying error
func (e *BetError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *BetError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "bet_error",
		"account_id":   e.AccountID,
		"room_id":      e.RoomID,
		"round_number": e.RoundNumber,
		"side":         e.Side,
		"amount":       e.Amount,
		"error":        e.Err.Error(),
		"error_code":   ErrorCode(e.Err),
	}
}

// NewBetError creates a detailed bet error
func NewBetError(accountID, roomID string, roundNumber int64, side string, amount int64, err error) error {
	return &BetError{
		AccountID:   accountID,
		RoomID:      roomID,
		RoundNumber: roundNumber,
		Side:        side,
		Amount:      amount,
		Err:         err,
	}
}

// IsRoundClosedError checks if the error means betting closed before the bet landed
func IsRoundClosedError(err error) bool {
	return errors.Is(err, ErrRoundClosed)
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsInvalidTransitionError checks if the error is an out-of-sequence admin action
func IsInvalidTransitionError(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsSettlementIncompleteError checks if the error is a failed all-or-nothing settlement
func IsSettlementIncompleteError(err error) bool {
	return errors.Is(err, ErrSettlementIncomplete)
}

// IsDuplicateTransactionError checks if the error is a duplicate ledger entry
func IsDuplicateTransactionError(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}
