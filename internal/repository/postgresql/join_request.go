package postgresql

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/domain/contractor"
	"github.com/civicgrants/portal-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

const joinRequestColumns = `id, user_id, company_id, requested_permission_level, status, created_at, updated_at`

type joinRequestRepositoryImpl struct {
	db *database.DB
}

func NewJoinRequestRepository(db *database.DB) contractor.JoinRequestRepository {
	return &joinRequestRepositoryImpl{db: db}
}

// Create implements contractor.JoinRequestRepository.
func (r *joinRequestRepositoryImpl) Create(ctx context.Context, req contractor.JoinRequest) (contractor.JoinRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO contractor_join_requests (id, user_id, company_id, requested_permission_level, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + joinRequestColumns

	status := req.Status
	if status == "" {
		status = contractor.StatusPending
	}

	var created contractor.JoinRequest
	err := q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(),
		req.UserID,
		req.CompanyID,
		req.RequestedPermissionLevel,
		status,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.CompanyID,
		&created.RequestedPermissionLevel,
		&created.Status,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return contractor.JoinRequest{}, err
	}
	return created, nil
}

// ListByCompany implements contractor.JoinRequestRepository.
func (r *joinRequestRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]contractor.JoinRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+joinRequestColumns+` FROM contractor_join_requests WHERE company_id = $1 ORDER BY created_at`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []contractor.JoinRequest
	for rows.Next() {
		var jr contractor.JoinRequest
		if err := rows.Scan(
			&jr.ID,
			&jr.UserID,
			&jr.CompanyID,
			&jr.RequestedPermissionLevel,
			&jr.Status,
			&jr.CreatedAt,
			&jr.UpdatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, jr)
	}
	return requests, rows.Err()
}
