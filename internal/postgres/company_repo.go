package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meetsync/meeting-service/internal/domain"
)

type CompanyRepository struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	query := `
		INSERT INTO companies (company_name, email, contact, location, apikey)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query, c.CompanyName, c.Email, c.Contact, c.Location, c.APIKey).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CompanyRepository) Get(ctx context.Context, id string) (*domain.Company, error) {
	return r.getBy(ctx, `id=$1`, id)
}

func (r *CompanyRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Company, error) {
	return r.getBy(ctx, `apikey=$1`, apiKey)
}

func (r *CompanyRepository) getBy(ctx context.Context, where string, arg any) (*domain.Company, error) {
	var c domain.Company
	query := `SELECT id, company_name, email, contact, location, apikey, created_at, updated_at
		FROM companies WHERE ` + where
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&c.ID, &c.CompanyName, &c.Email, &c.Contact, &c.Location, &c.APIKey, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE company_name=$1)`, name).Scan(&exists)
	return exists, err
}

func (r *CompanyRepository) ExistsByAPIKey(ctx context.Context, apiKey string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE apikey=$1)`, apiKey).Scan(&exists)
	return exists, err
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}
