package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrInternalServer, cause)

	if err.Code != "INTERNAL_ERROR" || err.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected sentinel code and status, got %s/%d", err.Code, err.StatusCode)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped error to unwrap to its cause")
	}
	if err.Error() != ErrInternalServer.Message {
		t.Errorf("expected public message, got %q", err.Error())
	}
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInvalidAllocation, "allocation_cycle is required for FIXED_TOTAL")

	if err.Code != "INVALID_ALLOCATION" {
		t.Errorf("expected INVALID_ALLOCATION, got %s", err.Code)
	}
	if err.Message != "allocation_cycle is required for FIXED_TOTAL" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if ErrInvalidAllocation.Message == err.Message {
		t.Error("sentinel must not be mutated")
	}
}

func TestAppError_As(t *testing.T) {
	var err error = ErrGoalNotFound

	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		t.Fatal("expected errors.As to match *AppError")
	}
	if appErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", appErr.StatusCode)
	}
}
