package postgresql

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/domain/notification"
	"github.com/civicgrants/portal-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

const notificationColumns = `id, user_id, company_id, type, message, created_at`

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

// Create implements notification.NotificationRepository.
func (r *notificationRepositoryImpl) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (id, user_id, company_id, type, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + notificationColumns

	var created notification.Notification
	err := q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(),
		n.UserID,
		n.CompanyID,
		n.Type,
		n.Message,
	).Scan(&created.ID, &created.UserID, &created.CompanyID, &created.Type, &created.Message, &created.CreatedAt)
	if err != nil {
		return notification.Notification{}, err
	}
	return created, nil
}

// ListByCompany implements notification.NotificationRepository.
func (r *notificationRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]notification.Notification, error) {
	return r.list(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE company_id = $1 ORDER BY created_at DESC`, companyID)
}

// ListByUser implements notification.NotificationRepository.
func (r *notificationRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	return r.list(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *notificationRepositoryImpl) list(ctx context.Context, query string, arg any) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.CompanyID, &n.Type, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}
