package postgresql

import (
	"context"
	"errors"

	"github.com/civicgrants/portal-backend-go/internal/domain/auth"
	"github.com/civicgrants/portal-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type verificationRepositoryImpl struct {
	db *database.DB
}

func NewVerificationRepository(db *database.DB) auth.VerificationRepository {
	return &verificationRepositoryImpl{db: db}
}

// Upsert implements auth.VerificationRepository. Re-requesting a code
// replaces the old one; only a single pending verification exists per email.
func (r *verificationRepositoryImpl) Upsert(ctx context.Context, v auth.EmailVerification) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO email_verifications (email, code, expires_at, verified)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, verified = EXCLUDED.verified, updated_at = NOW()
	`, v.Email, v.Code, v.ExpiresAt, v.Verified)
	return err
}

// Get implements auth.VerificationRepository.
func (r *verificationRepositoryImpl) Get(ctx context.Context, email string) (auth.EmailVerification, error) {
	q := GetQuerier(ctx, r.db)

	var v auth.EmailVerification
	err := q.QueryRow(ctx, `
		SELECT email, code, expires_at, verified FROM email_verifications WHERE email = $1
	`, email).Scan(&v.Email, &v.Code, &v.ExpiresAt, &v.Verified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.EmailVerification{}, auth.ErrNoPendingVerification
		}
		return auth.EmailVerification{}, err
	}
	return v, nil
}

// MarkVerified implements auth.VerificationRepository.
func (r *verificationRepositoryImpl) MarkVerified(ctx context.Context, email string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE email_verifications SET verified = TRUE, updated_at = NOW() WHERE email = $1`, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrNoPendingVerification
	}
	return nil
}

// Delete implements auth.VerificationRepository.
func (r *verificationRepositoryImpl) Delete(ctx context.Context, email string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM email_verifications WHERE email = $1`, email)
	return err
}
