package domain

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/flmvela/gemeos/core"
)

var (
	ErrNotFound   = errors.New("domain not found")
	ErrNameExists = errors.New("a domain with this name already exists")
)

type (
	Repository interface {
		// CheckNameUniqueness returns ErrNameExists if a Domain named `name` (case-insensitive) exists.
		CheckNameUniqueness(ctx context.Context, name string, exec ...core.DBExecutor) error
		CreateDomain(ctx context.Context, dom Domain, exec ...core.DBExecutor) (Domain, error)
		QueryDomains(ctx context.Context, exec ...core.DBExecutor) ([]Domain, error)
		GetDomain(ctx context.Context, id string, exec ...core.DBExecutor) (Domain, error)
	}

	ServiceInterface interface {
		CheckNameUniqueness(name string) error
		Create(ctx context.Context, nd NewDomain) (Domain, error)
		QueryAll(ctx context.Context) ([]Domain, error)
		Get(ctx context.Context, id string) (Domain, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckNameUniqueness(name string) error {
	if err := svc.repo.CheckNameUniqueness(context.Background(), name); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nd NewDomain) (Domain, error) {
	now := time.Now().UTC()
	return svc.repo.CreateDomain(ctx, Domain{
		Name:        nd.Name,
		Description: nd.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Domain, error) {
	return svc.repo.QueryDomains(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (Domain, error) {
	return svc.repo.GetDomain(ctx, core.CleanString(id))
}
