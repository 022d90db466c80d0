package postgresql

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/domain/application"
	"github.com/civicgrants/portal-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type assignmentRepositoryImpl struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) application.AssignmentRepository {
	return &assignmentRepositoryImpl{db: db}
}

// ListPermissions implements application.AssignmentRepository.
func (r *assignmentRepositoryImpl) ListPermissions(ctx context.Context, applicationID, userID string) ([]application.AssignmentPermission, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT permission FROM application_assignments
		WHERE application_id = $1 AND user_id = $2
	`, applicationID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []application.AssignmentPermission
	for rows.Next() {
		var p application.AssignmentPermission
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// Grant implements application.AssignmentRepository. The unique constraint
// absorbs duplicate grants; re-granting an existing permission affects no rows
// and is not an error.
func (r *assignmentRepositoryImpl) Grant(ctx context.Context, a application.Assignment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO application_assignments (id, application_id, user_id, permission)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT application_assignments_app_user_perm_key DO NOTHING
	`

	_, err := q.Exec(ctx, query,
		uuid.Must(uuid.NewV7()).String(),
		a.ApplicationID,
		a.UserID,
		a.Permission,
	)
	return err
}
