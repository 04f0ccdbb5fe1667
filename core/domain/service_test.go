package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/domain"
	"github.com/flmvela/gemeos/storage/database/dummy"
)

func setup(t *testing.T) (*domain.Service, *validator.Validate) {
	db, err := dummydb.Open()
	require.NoError(t, err)

	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	return domain.NewService(dummydb.NewDomainRepository(db)), validate
}

func TestNewDomain_Validate(t *testing.T) {
	svc, validate := setup(t)
	_, err := svc.Create(context.Background(), domain.NewDomain{Name: "Jazz Theory"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		nd        domain.NewDomain
		wantField string
	}{
		{name: "valid", nd: domain.NewDomain{Name: "  Blues ", Description: " 12 bars "}},
		{name: "blank", nd: domain.NewDomain{Name: " \t "}, wantField: "name"},
		{name: "exists", nd: domain.NewDomain{Name: "jazz THEORY"}, wantField: "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nd.Validate(validate, svc)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "Blues", tt.nd.Name)
				assert.Equal(t, "12 bars", tt.nd.Description)
				return
			}

			var vErrs validator.ValidationErrors
			var vErr *core.ValidationError
			switch {
			case errors.As(err, &vErrs):
				assert.Equal(t, tt.wantField, vErrs[0].Field())
			case errors.As(err, &vErr):
				assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
				assert.Equal(t, domain.ErrNameExists, vErr.Err)
			default:
				t.Fatalf("Validate() error = %v, want a validation error", err)
			}
		})
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	jazz, err := svc.Create(ctx, domain.NewDomain{Name: "Jazz Theory", Description: "From bebop to modal"})
	require.NoError(t, err)
	assert.NotEmpty(t, jazz.ID)
	assert.False(t, jazz.CreatedAt.IsZero())
	assert.Equal(t, jazz.CreatedAt, jazz.UpdatedAt)

	got, err := svc.Get(ctx, " "+jazz.ID+" ")
	require.NoError(t, err)
	assert.Equal(t, jazz, got)

	_, err = svc.Get(ctx, "lol")
	assert.Equal(t, domain.ErrNotFound, err)

	all, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Domain{jazz}, all)
}
