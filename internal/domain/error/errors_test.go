package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestBaseErrorTypes(t *testing.T) {
	// Test to ensure all base error types are defined properly
	if ErrInsufficientBalance.Error() != "insufficient balance" {
		t.Errorf("ErrInsufficientBalance has unexpected message: %s", ErrInsufficientBalance.Error())
	}
	if ErrRoundClosed.Error() != "betting is closed for this round" {
		t.Errorf("ErrRoundClosed has unexpected message: %s", ErrRoundClosed.Error())
	}
	if ErrSettlementIncomplete.Error() != "round settlement incomplete" {
		t.Errorf("ErrSettlementIncomplete has unexpected message: %s", ErrSettlementIncomplete.Error())
	}
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InsufficientBalance", ErrInsufficientBalance, 4001},
		{"InvalidAmount", ErrInvalidAmount, 4002},
		{"BetOutOfRange", ErrBetOutOfRange, 4003},
		{"DuplicateTransaction", ErrDuplicateTransaction, 4004},
		{"RoundClosed", ErrRoundClosed, 4006},
		{"InvalidTransition", ErrInvalidTransition, 4007},
		{"AccountNotApproved", ErrAccountNotApproved, 4031},
		{"AccountNotFound", ErrAccountNotFound, 4040},
		{"RoomNotFound", ErrRoomNotFound, 4041},
		{"SettlementIncomplete", ErrSettlementIncomplete, 5001},
		{"TransientStore", ErrTransientStore, 5030},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrRoundClosed), 4006},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestInsufficientBalanceError(t *testing.T) {
	err := NewInsufficientBalanceError("acct-1", 2000, 500)

	expectedErrMsg := "insufficient balance for account acct-1: required 2000, available 500"
	if err.Error() != expectedErrMsg {
		t.Errorf("InsufficientBalanceError.Error() = %s, want %s", err.Error(), expectedErrMsg)
	}

	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("errors.Is(err, ErrInsufficientBalance) = false, want true")
	}

	fields := err.(*InsufficientBalanceError).LogFields()
	if fields["account_id"] != "acct-1" {
		t.Errorf("LogFields account_id = %v, want acct-1", fields["account_id"])
	}
}

func TestInvalidTransitionError(t *testing.T) {
	err := NewInvalidTransitionError("room-1", 7, "declare_winner", "winner already set")

	expectedErrMsg := `invalid transition "declare_winner" for room room-1 round 7: winner already set`
	if err.Error() != expectedErrMsg {
		t.Errorf("InvalidTransitionError.Error() = %s, want %s", err.Error(), expectedErrMsg)
	}

	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("errors.Is(err, ErrInvalidTransition) = false, want true")
	}
}

func TestSettlementError(t *testing.T) {
	baseErr := errors.New("connection reset")
	err := NewSettlementError("room-2", 11, "ANDAR", baseErr)

	expectedErrMsg := "settlement failed for room room-2 round 11 (winner ANDAR): connection reset"
	if err.Error() != expectedErrMsg {
		t.Errorf("SettlementError.Error() = %s, want %s", err.Error(), expectedErrMsg)
	}

	if !errors.Is(err, ErrSettlementIncomplete) {
		t.Errorf("errors.Is(err, ErrSettlementIncomplete) = false, want true")
	}
	if !errors.Is(err, baseErr) {
		t.Errorf("errors.Is(err, baseErr) = false, want true")
	}
}

func TestBetError(t *testing.T) {
	err := NewBetError("acct-9", "room-3", 4, "BAHAR", 1000, ErrRoundClosed)

	expectedErrMsg := "bet rejected for account acct-9 (room room-3, round 4, side BAHAR, amount 1000): betting is closed for this round"
	if err.Error() != expectedErrMsg {
		t.Errorf("BetError.Error() = %s, want %s", err.Error(), expectedErrMsg)
	}

	if !errors.Is(err, ErrRoundClosed) {
		t.Errorf("errors.Is(err, ErrRoundClosed) = false, want true")
	}
	if !IsRoundClosedError(err) {
		t.Errorf("IsRoundClosedError(err) = false, want true")
	}
}

func TestErrorCheckers(t *testing.T) {
	if !IsInsufficientBalanceError(fmt.Errorf("wrap: %w", ErrInsufficientBalance)) {
		t.Error("IsInsufficientBalanceError should match wrapped sentinel")
	}
	if !IsInvalidTransitionError(NewInvalidTransitionError("r", 1, "close", "not open")) {
		t.Error("IsInvalidTransitionError should match typed error")
	}
	if !IsSettlementIncompleteError(NewSettlementError("r", 1, "BAHAR", errors.New("boom"))) {
		t.Error("IsSettlementIncompleteError should match typed error")
	}
	if !IsDuplicateTransactionError(fmt.Errorf("wrap: %w", ErrDuplicateTransaction)) {
		t.Error("IsDuplicateTransactionError should match wrapped sentinel")
	}
	if IsDuplicateTransactionError(ErrConstraintViolation) {
		t.Error("IsDuplicateTransactionError should not match other conflicts")
	}
	if !IsNotFoundError(ErrRoomNotFound) {
		t.Error("IsNotFoundError should match ErrRoomNotFound")
	}
	if IsNotFoundError(ErrRoundClosed) {
		t.Error("IsNotFoundError should not match ErrRoundClosed")
	}
}
