package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/meetsync/meeting-service/internal/domain"
	"github.com/meetsync/meeting-service/internal/security"
)

const apiKeyLength = 32

type CompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) error
	Get(ctx context.Context, id string) (*domain.Company, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.Company, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByAPIKey(ctx context.Context, apiKey string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type CreateCompanyParams struct {
	CompanyName string
	Email       *string
	Contact     *string
	Location    *string
}

type CompanyService struct {
	companies CompanyRepository
}

func NewCompanyService(companies CompanyRepository) *CompanyService {
	return &CompanyService{companies: companies}
}

// CreateCompany registers a company and issues it a unique API key.
func (s *CompanyService) CreateCompany(ctx context.Context, params CreateCompanyParams) (*domain.Company, error) {
	exists, err := s.companies.ExistsByName(ctx, params.CompanyName)
	if err != nil {
		slog.Error("company.create.existsByName failed", slog.Any("err", err))
		return nil, err
	}
	if exists {
		return nil, domain.ErrCompanyNameTaken
	}

	key, err := s.uniqueAPIKey(ctx)
	if err != nil {
		return nil, err
	}

	c := &domain.Company{
		CompanyName: params.CompanyName,
		Email:       params.Email,
		Contact:     params.Contact,
		Location:    params.Location,
		APIKey:      key,
	}
	if err := s.companies.Create(ctx, c); err != nil {
		slog.Error("company.create.persist failed", slog.Any("err", err))
		return nil, err
	}
	return c, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	return s.companies.Get(ctx, id)
}

func (s *CompanyService) DeleteCompany(ctx context.Context, id string) error {
	return s.companies.Delete(ctx, id)
}

// VerifyAPIKey resolves an API key to its company. Unknown keys map to
// ErrCompanyNotFound so callers can treat them as an auth failure.
func (s *CompanyService) VerifyAPIKey(ctx context.Context, apiKey string) (*domain.Company, error) {
	return s.companies.GetByAPIKey(ctx, apiKey)
}

func (s *CompanyService) uniqueAPIKey(ctx context.Context) (string, error) {
	for i := 0; i < 5; i++ {
		key, err := security.GenerateAPIKey(apiKeyLength)
		if err != nil {
			return "", err
		}
		taken, err := s.companies.ExistsByAPIKey(ctx, key)
		if err != nil {
			return "", err
		}
		if !taken {
			return key, nil
		}
	}
	return "", errors.New("could not generate a unique api key")
}
