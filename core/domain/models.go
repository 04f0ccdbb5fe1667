package domain

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/flmvela/gemeos/core"
)

// Domain is a top-level subject area scoping a set of concepts, eg. "Jazz Theory".
type Domain struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewDomain contains information needed to create a new Domain.
type NewDomain struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description"`
}

func (nd *NewDomain) Validate(validate *validator.Validate, svc ServiceInterface) error {
	nd.Name = core.CleanString(nd.Name)
	nd.Description = core.CleanString(nd.Description)

	if err := validate.Struct(nd); err != nil {
		return err
	}
	return svc.CheckNameUniqueness(nd.Name)
}
