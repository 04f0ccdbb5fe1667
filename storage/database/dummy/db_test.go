package dummydb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/concept"
	"github.com/flmvela/gemeos/core/domain"
)

func TestConceptRepository(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	domRepo := NewDomainRepository(db)
	repo := NewConceptRepository(db)

	jazz, err := domRepo.CreateDomain(ctx, domain.Domain{Name: "Jazz Theory"})
	require.NoError(t, err)
	blues, err := domRepo.CreateDomain(ctx, domain.Domain{Name: "Blues"})
	require.NoError(t, err)

	insert := func(domainID, name string, status concept.Status, order int, parentID *string) concept.Concept {
		c, err := repo.InsertConcept(ctx, concept.NewConcept{
			DomainID: domainID, Name: name, Status: status, DisplayOrder: order, ParentID: parentID,
		})
		require.NoError(t, err)
		return c
	}
	harmony := insert(jazz.ID, "Harmony", concept.StatusApproved, 0, nil)
	ninth := insert(jazz.ID, "Ninth Chords", concept.StatusSuggested, 1, &harmony.ID)
	bebop := insert(jazz.ID, "Bebop", concept.StatusRejected, 2, nil)
	shuffle := insert(blues.ID, "Shuffle", concept.StatusApproved, 0, nil)

	t.Run("fetch", func(t *testing.T) {
		pool, err := repo.FetchConcepts(ctx, jazz.ID)
		require.NoError(t, err)
		assert.Equal(t, []concept.ExistingConcept{
			{ID: harmony.ID, Name: "Harmony", Status: concept.StatusApproved},
			{ID: ninth.ID, Name: "Ninth Chords", Status: concept.StatusSuggested},
			{ID: bebop.ID, Name: "Bebop", Status: concept.StatusRejected},
		}, pool)

		pool, err = repo.FetchConcepts(ctx, "lol")
		require.NoError(t, err)
		assert.NotNil(t, pool)
		assert.Empty(t, pool)
	})

	t.Run("query", func(t *testing.T) {
		tests := []struct {
			name     string
			filter   concept.QueryFilter
			ordering []core.DBOrdering
			want     []concept.Concept
		}{
			{name: "display order", filter: concept.QueryFilter{DomainID: jazz.ID}, want: []concept.Concept{harmony, ninth, bebop}},
			{name: "other domain", filter: concept.QueryFilter{DomainID: blues.ID}, want: []concept.Concept{shuffle}},
			{
				name: "roots", filter: concept.QueryFilter{DomainID: jazz.ID, ParentID: RootParent},
				ordering: []core.DBOrdering{{Field: "name", Ascending: true}}, want: []concept.Concept{bebop, harmony},
			},
			{name: "children", filter: concept.QueryFilter{DomainID: jazz.ID, ParentID: harmony.ID}, want: []concept.Concept{ninth}},
			{
				name: "statuses", filter: concept.QueryFilter{DomainID: jazz.ID, Statuses: []concept.Status{concept.StatusRejected, concept.StatusSuggested}},
				ordering: []core.DBOrdering{{Field: "display_order"}}, want: []concept.Concept{bebop, ninth},
			},
			{name: "search", filter: concept.QueryFilter{DomainID: jazz.ID, Search: "bOP"}, want: []concept.Concept{bebop}},
			{
				name: "status then name", filter: concept.QueryFilter{DomainID: jazz.ID},
				ordering: []core.DBOrdering{{Field: "status", Ascending: true}, {Field: "name", Ascending: false}},
				want:     []concept.Concept{harmony, bebop, ninth},
			},
			{name: "nothing", filter: concept.QueryFilter{DomainID: jazz.ID, Search: "quantum"}, want: []concept.Concept{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.QueryConcepts(ctx, tt.filter, tt.ordering)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("update status", func(t *testing.T) {
		got, err := repo.UpdateConceptStatus(ctx, ninth.ID, concept.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, concept.StatusApproved, got.Status)

		stored, err := repo.GetConcept(ctx, ninth.ID)
		require.NoError(t, err)
		assert.Equal(t, got, stored)

		_, err = repo.UpdateConceptStatus(ctx, "lol", concept.StatusApproved)
		assert.Equal(t, concept.ErrNotFound, err)
		_, err = repo.GetConcept(ctx, "lol")
		assert.Equal(t, concept.ErrNotFound, err)
	})

	t.Run("reset", func(t *testing.T) {
		db.Reset()
		doms, err := domRepo.QueryDomains(ctx)
		require.NoError(t, err)
		assert.Empty(t, doms)
		_, err = repo.GetConcept(ctx, harmony.ID)
		assert.Equal(t, concept.ErrNotFound, err)
	})
}

func TestDomainRepository(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewDomainRepository(db)

	jazz, err := repo.CreateDomain(ctx, domain.Domain{Name: "Jazz Theory"})
	require.NoError(t, err)
	assert.NotEmpty(t, jazz.ID)
	blues, err := repo.CreateDomain(ctx, domain.Domain{Name: "Blues"})
	require.NoError(t, err)

	assert.Equal(t, domain.ErrNameExists, repo.CheckNameUniqueness(ctx, "JAZZ theory"))
	assert.NoError(t, repo.CheckNameUniqueness(ctx, "Classical"))

	doms, err := repo.QueryDomains(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Domain{blues, jazz}, doms)

	got, err := repo.GetDomain(ctx, jazz.ID)
	require.NoError(t, err)
	assert.Equal(t, jazz, got)
	_, err = repo.GetDomain(ctx, "lol")
	assert.Equal(t, domain.ErrNotFound, err)
}
