package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/domain"
)

const domainColumns = "id, name, description, created_at, updated_at"

type domainRepository struct {
	exec core.DBExecutor
}

var _ domain.Repository = (*domainRepository)(nil) // interface compliance check

func NewDomainRepository(exec core.DBExecutor) *domainRepository {
	return &domainRepository{exec: exec}
}

func (repo domainRepository) CheckNameUniqueness(ctx context.Context, name string, exec ...core.DBExecutor) error {
	var found bool
	q := "SELECT EXISTS(SELECT 1 FROM domain WHERE LOWER(name) = LOWER($1))"
	if err := getExec(repo.exec, exec).GetContext(ctx, &found, q, name); err != nil {
		return errors.Wrap(err, "checking domain uniqueness")
	}
	if found {
		return domain.ErrNameExists
	}
	return nil
}

func (repo domainRepository) CreateDomain(ctx context.Context, dom domain.Domain, exec ...core.DBExecutor) (domain.Domain, error) {
	dom.ID = uuid.New().String()
	q := `INSERT INTO domain (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := getExec(repo.exec, exec).ExecContext(ctx, q, dom.ID, dom.Name, dom.Description, dom.CreatedAt.UTC(), dom.UpdatedAt.UTC())
	if err != nil {
		return domain.Domain{}, errors.Wrap(err, "inserting domain")
	}
	return dom, nil
}

func (repo domainRepository) QueryDomains(ctx context.Context, exec ...core.DBExecutor) ([]domain.Domain, error) {
	doms := make([]domain.Domain, 0)
	q := "SELECT " + domainColumns + " FROM domain ORDER BY name ASC"
	if err := getExec(repo.exec, exec).SelectContext(ctx, &doms, q); err != nil {
		return nil, errors.Wrap(err, "selecting domains")
	}
	return doms, nil
}

func (repo domainRepository) GetDomain(ctx context.Context, id string, exec ...core.DBExecutor) (domain.Domain, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Domain{}, domain.ErrNotFound
	}
	var dom domain.Domain
	q := "SELECT " + domainColumns + " FROM domain WHERE id = $1"
	if err := getExec(repo.exec, exec).GetContext(ctx, &dom, q, id); err != nil {
		return domain.Domain{}, trapNoRowsErr(err, domain.ErrNotFound, "getting domain")
	}
	return dom, nil
}
