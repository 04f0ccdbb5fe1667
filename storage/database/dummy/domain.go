package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/domain"
)

type domainRepository struct {
	db *domainTable
}

var _ domain.Repository = (*domainRepository)(nil) // interface compliance check

func NewDomainRepository(db *DB) domain.Repository {
	return &domainRepository{db: db.domain}
}

func (repo *domainRepository) CheckNameUniqueness(_ context.Context, name string, _ ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, dom := range repo.db.rows {
		if strings.EqualFold(dom.Name, name) {
			return domain.ErrNameExists
		}
	}
	return nil
}

func (repo *domainRepository) CreateDomain(_ context.Context, dom domain.Domain, _ ...core.DBExecutor) (domain.Domain, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	dom.ID = uuid.New().String()
	repo.db.rows = append(repo.db.rows, &dom)
	return dom, nil
}

func (repo *domainRepository) QueryDomains(_ context.Context, _ ...core.DBExecutor) ([]domain.Domain, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	doms := make([]domain.Domain, 0, len(repo.db.rows))
	for _, dom := range repo.db.rows {
		doms = append(doms, *dom)
	}
	sortByName(doms)
	return doms, nil
}

func (repo *domainRepository) GetDomain(_ context.Context, id string, _ ...core.DBExecutor) (domain.Domain, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, dom := range repo.db.rows {
		if dom.ID == id {
			return *dom, nil
		}
	}
	return domain.Domain{}, domain.ErrNotFound
}

func sortByName(doms []domain.Domain) {
	sort.SliceStable(doms, func(i, j int) bool { return doms[i].Name < doms[j].Name })
}
