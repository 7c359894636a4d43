package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	apperrors "rehab/internal/platform/errors"
)

func TestFromStatusKinds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status int
		detail string
		kind   error
		msg    string
	}{
		{401, "Incorrect email or password", apperrors.ErrUnauthorized, "Incorrect email or password"},
		{403, "", apperrors.ErrUnauthorized, "Forbidden"},
		{404, "", apperrors.ErrNotFound, "Not Found"},
		{500, "", apperrors.ErrServer, "Internal Server Error"},
		{422, "bad", apperrors.ErrServer, "bad"},
	}
	for _, tc := range cases {
		err := apperrors.FromStatus(tc.status, tc.detail)
		if !errors.Is(err, tc.kind) {
			t.Fatalf("status %d: expected kind %v, got %v", tc.status, tc.kind, err)
		}
		if err.Message != tc.msg {
			t.Fatalf("status %d: expected message %q, got %q", tc.status, tc.msg, err.Message)
		}
	}
}

func TestWithMessagePrefersDetailThenFallback(t *testing.T) {
	t.Parallel()
	withDetail := apperrors.WithMessage(apperrors.FromStatus(401, "Incorrect email or password"), "Login failed.")
	if apperrors.Message(withDetail) != "Incorrect email or password" {
		t.Fatalf("expected detail, got %q", apperrors.Message(withDetail))
	}
	if !errors.Is(withDetail, apperrors.ErrUnauthorized) {
		t.Fatalf("kind must be kept, got %v", withDetail)
	}

	network := apperrors.WithMessage(fmt.Errorf("call: %w", apperrors.NewNetworkError()), "Login failed.")
	if apperrors.Message(network) != "Login failed." {
		t.Fatalf("expected fallback, got %q", apperrors.Message(network))
	}
	if apperrors.Status(network) != 0 || !errors.Is(network, apperrors.ErrNetwork) {
		t.Fatalf("expected network kind with status 0, got %v", network)
	}
}

func TestValidationErrorIsInvalidInput(t *testing.T) {
	t.Parallel()
	err := &apperrors.ValidationError{Fields: map[string]string{"q2": "required", "q1": "out of range"}}
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind")
	}
	if err.Error() != "invalid input: q1: out of range; q2: required" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
