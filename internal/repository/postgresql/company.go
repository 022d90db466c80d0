package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/civicgrants/portal-backend-go/internal/domain/company"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/civicgrants/portal-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, name, short_name, business_number, is_contractor,
	street_address, city, province, postal_code, created_at, updated_at`

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.ShortName,
		&c.BusinessNumber,
		&c.IsContractor,
		&c.StreetAddress,
		&c.City,
		&c.Province,
		&c.PostalCode,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return company.Company{}, err
	}
	return c, nil
}

// GetByID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, err
	}
	return found, nil
}

// GetByName implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByName(ctx context.Context, name string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, err
	}
	return found, nil
}

// ShortNameExists implements company.CompanyRepository.
func (r *companyRepositoryImpl) ShortNameExists(ctx context.Context, shortName string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE short_name = $1)`, shortName).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CreateWithOwner implements company.CompanyRepository. The insert and the
// owner promotion commit together; a half-created company with no admin is
// never visible.
func (r *companyRepositoryImpl) CreateWithOwner(ctx context.Context, c company.Company, ownerID string, role user.Role, level *user.PermissionLevel) (company.Company, error) {
	var created company.Company

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		insertQuery := `
			INSERT INTO companies (id, name, short_name, business_number, is_contractor,
				street_address, city, province, postal_code)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING ` + companyColumns

		var err error
		created, err = scanCompany(q.QueryRow(txCtx, insertQuery,
			uuid.Must(uuid.NewV7()).String(),
			c.Name,
			c.ShortName,
			c.BusinessNumber,
			c.IsContractor,
			c.StreetAddress,
			c.City,
			c.Province,
			c.PostalCode,
		))
		if err != nil {
			if isUniqueViolation(err, "companies_short_name_key") {
				return company.ErrShortNameTaken
			}
			return fmt.Errorf("insert company: %w", err)
		}

		var levelStr *string
		if level != nil {
			s := string(*level)
			levelStr = &s
		}

		tag, err := q.Exec(txCtx, `
			UPDATE users
			SET company_id = $1, role = $2, permission_level = $3, email_verified = TRUE, updated_at = NOW()
			WHERE id = $4
		`, created.ID, role, levelStr, ownerID)
		if err != nil {
			return fmt.Errorf("promote owner: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return user.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return company.Company{}, err
	}

	return created, nil
}
