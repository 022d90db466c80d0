package auth

import (
	"context"
	"time"
)

// EmailVerification is a short-lived pre-account verification record keyed
// by email. It lives in its own store with its own TTL so verification
// lifecycle is decoupled from session lifecycle.
type EmailVerification struct {
	Email     string
	Code      string
	ExpiresAt time.Time
	Verified  bool
}

type VerificationRepository interface {
	// Upsert replaces any existing record for the email.
	Upsert(ctx context.Context, v EmailVerification) error
	// Get returns ErrNoPendingVerification when no record exists.
	Get(ctx context.Context, email string) (EmailVerification, error)
	MarkVerified(ctx context.Context, email string) error
	// Delete consumes the record once registration completes.
	Delete(ctx context.Context, email string) error
}
