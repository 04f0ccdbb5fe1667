package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/concept"
)

// RootParent filters concepts without parent.
const RootParent = "root"

type conceptRepository struct {
	db *conceptTable
}

var _ concept.Repository = (*conceptRepository)(nil) // interface compliance check

func NewConceptRepository(db *DB) concept.Repository {
	return &conceptRepository{db: db.concept}
}

func (repo *conceptRepository) FetchConcepts(_ context.Context, domainID string, _ ...core.DBExecutor) ([]concept.ExistingConcept, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	pool := make([]concept.ExistingConcept, 0)
	for _, c := range repo.db.rows {
		if c.DomainID == domainID {
			pool = append(pool, concept.ExistingConcept{ID: c.ID, Name: c.Name, Status: c.Status})
		}
	}
	return pool, nil
}

func (repo *conceptRepository) InsertConcept(_ context.Context, nc concept.NewConcept, _ ...core.DBExecutor) (concept.Concept, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	now := time.Now().UTC()
	c := concept.Concept{
		ID:           uuid.New().String(),
		DomainID:     nc.DomainID,
		ParentID:     nc.ParentID,
		Name:         nc.Name,
		Description:  nc.Description,
		Status:       nc.Status,
		DisplayOrder: nc.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	repo.db.rows = append(repo.db.rows, &c)
	return c, nil
}

func (repo *conceptRepository) QueryConcepts(_ context.Context, filter concept.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]concept.Concept, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	search := strings.ToLower(filter.Search)
	concepts := make([]concept.Concept, 0)
	for _, c := range repo.db.rows {
		if c.DomainID != filter.DomainID {
			continue
		}
		switch filter.ParentID {
		case "":
		case RootParent:
			if c.ParentID != nil {
				continue
			}
		default:
			if c.ParentID == nil || *c.ParentID != filter.ParentID {
				continue
			}
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, c.Status) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		concepts = append(concepts, *c)
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "display_order", Ascending: true}}
	}
	// apply orderings from the least significant one
	for i := len(ordering) - 1; i >= 0; i-- {
		ord := ordering[i]
		sort.SliceStable(concepts, func(a, b int) bool {
			if ord.Ascending {
				return conceptLess(ord.Field, concepts[a], concepts[b])
			}
			return conceptLess(ord.Field, concepts[b], concepts[a])
		})
	}
	return concepts, nil
}

func (repo *conceptRepository) GetConcept(_ context.Context, id string, _ ...core.DBExecutor) (concept.Concept, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.rows {
		if c.ID == id {
			return *c, nil
		}
	}
	return concept.Concept{}, concept.ErrNotFound
}

func (repo *conceptRepository) UpdateConceptStatus(_ context.Context, id string, status concept.Status, _ ...core.DBExecutor) (concept.Concept, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, c := range repo.db.rows {
		if c.ID == id {
			c.Status = status
			c.UpdatedAt = time.Now().UTC()
			return *c, nil
		}
	}
	return concept.Concept{}, concept.ErrNotFound
}

func hasStatus(statuses []concept.Status, st concept.Status) bool {
	for _, s := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

// conceptLess compares on field; unknown fields compare equal.
func conceptLess(field string, a, b concept.Concept) bool {
	switch field {
	case "name":
		return a.Name < b.Name
	case "status":
		return a.Status < b.Status
	case "display_order":
		return a.DisplayOrder < b.DisplayOrder
	case "created_at":
		return a.CreatedAt.Before(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Before(b.UpdatedAt)
	}
	return false
}
