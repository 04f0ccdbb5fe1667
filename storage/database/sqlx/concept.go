package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/concept"
)

const (
	conceptColumns = "id, domain_id, parent_id, name, description, status, display_order, created_at, updated_at"

	// RootParent filters concepts without parent.
	RootParent = "root"
)

var (
	// fields allowed in ?ordering=
	conceptOrderingFields = map[string]bool{
		"name":          true,
		"status":        true,
		"display_order": true,
		"created_at":    true,
		"updated_at":    true,
	}
	defaultConceptOrdering = []core.DBOrdering{
		{Field: "display_order", Ascending: true},
		{Field: "created_at", Ascending: true},
	}
)

type conceptRow struct {
	ID           string      `db:"id"`
	DomainID     string      `db:"domain_id"`
	ParentID     null.String `db:"parent_id"`
	Name         string      `db:"name"`
	Description  null.String `db:"description"`
	Status       string      `db:"status"`
	DisplayOrder int         `db:"display_order"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (r conceptRow) unpack() concept.Concept {
	return concept.Concept{
		ID:           r.ID,
		DomainID:     r.DomainID,
		ParentID:     r.ParentID.Ptr(),
		Name:         r.Name,
		Description:  r.Description.String,
		Status:       concept.Status(r.Status),
		DisplayOrder: r.DisplayOrder,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type conceptRepository struct {
	exec core.DBExecutor
}

var _ concept.Repository = (*conceptRepository)(nil) // interface compliance check

func NewConceptRepository(exec core.DBExecutor) *conceptRepository {
	return &conceptRepository{exec: exec}
}

func (repo conceptRepository) FetchConcepts(ctx context.Context, domainID string, exec ...core.DBExecutor) ([]concept.ExistingConcept, error) {
	pool := make([]concept.ExistingConcept, 0)
	q := "SELECT id, name, status FROM concept WHERE domain_id = $1 ORDER BY display_order ASC, created_at ASC"
	if err := getExec(repo.exec, exec).SelectContext(ctx, &pool, q, domainID); err != nil {
		return nil, errors.Wrap(err, "selecting concepts")
	}
	return pool, nil
}

func (repo conceptRepository) InsertConcept(ctx context.Context, nc concept.NewConcept, exec ...core.DBExecutor) (concept.Concept, error) {
	now := time.Now().UTC()
	row := conceptRow{
		ID:           uuid.New().String(),
		DomainID:     nc.DomainID,
		ParentID:     null.StringFromPtr(nc.ParentID),
		Name:         nc.Name,
		Description:  null.NewString(nc.Description, nc.Description != ""),
		Status:       string(nc.Status),
		DisplayOrder: nc.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	q := `INSERT INTO concept (` + conceptColumns + `)
		VALUES (:id, :domain_id, :parent_id, :name, :description, :status, :display_order, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.exec, exec), q, row); err != nil {
		return concept.Concept{}, errors.Wrap(err, "inserting concept")
	}
	return row.unpack(), nil
}

func (repo conceptRepository) QueryConcepts(ctx context.Context, filter concept.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]concept.Concept, error) {
	conds := []string{"domain_id = ?"}
	args := []interface{}{filter.DomainID}

	switch filter.ParentID {
	case "":
	case RootParent:
		conds = append(conds, "parent_id IS NULL")
	default:
		if _, err := uuid.Parse(filter.ParentID); err != nil {
			return make([]concept.Concept, 0), nil
		}
		conds = append(conds, "parent_id = ?")
		args = append(args, filter.ParentID)
	}
	if len(filter.Statuses) > 0 {
		conds = append(conds, "status IN (?)")
		args = append(args, filter.Statuses)
	}
	if filter.Search != "" {
		conds = append(conds, "name ILIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}

	q := "SELECT " + conceptColumns + " FROM concept WHERE " + strings.Join(conds, " AND ") + " ORDER BY " + orderBy(ordering)
	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "building concepts query")
	}
	q = sqlx.Rebind(sqlx.DOLLAR, q)

	rows := make([]conceptRow, 0)
	if err = getExec(repo.exec, exec).SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting concepts")
	}
	concepts := make([]concept.Concept, 0, len(rows))
	for _, r := range rows {
		concepts = append(concepts, r.unpack())
	}
	return concepts, nil
}

func (repo conceptRepository) GetConcept(ctx context.Context, id string, exec ...core.DBExecutor) (concept.Concept, error) {
	if _, err := uuid.Parse(id); err != nil {
		return concept.Concept{}, concept.ErrNotFound
	}
	var row conceptRow
	q := "SELECT " + conceptColumns + " FROM concept WHERE id = $1"
	if err := getExec(repo.exec, exec).GetContext(ctx, &row, q, id); err != nil {
		return concept.Concept{}, trapNoRowsErr(err, concept.ErrNotFound, "getting concept")
	}
	return row.unpack(), nil
}

func (repo conceptRepository) UpdateConceptStatus(ctx context.Context, id string, status concept.Status, exec ...core.DBExecutor) (concept.Concept, error) {
	var row conceptRow
	q := "UPDATE concept SET status = $2, updated_at = $3 WHERE id = $1 RETURNING " + conceptColumns
	if err := getExec(repo.exec, exec).GetContext(ctx, &row, q, id, string(status), time.Now().UTC()); err != nil {
		return concept.Concept{}, trapNoRowsErr(err, concept.ErrNotFound, "updating concept status")
	}
	return row.unpack(), nil
}

// orderBy renders allowed orderings, unknown fields are dropped.
func orderBy(ordering []core.DBOrdering) string {
	clauses := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if conceptOrderingFields[ord.Field] {
			clauses = append(clauses, ord.String())
		}
	}
	if len(clauses) == 0 {
		for _, ord := range defaultConceptOrdering {
			clauses = append(clauses, ord.String())
		}
	}
	clauses = append(clauses, "id ASC")
	return strings.Join(clauses, ", ")
}
