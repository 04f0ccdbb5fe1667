package concept

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/flmvela/gemeos/core"
)

// Status is the review status of a Concept.
type Status string

const (
	StatusSuggested Status = "suggested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

var AllStatuses = []Status{StatusSuggested, StatusApproved, StatusRejected}

func (s Status) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// allowed status transitions: {from: [to...]}
var transitions = map[Status][]Status{
	StatusSuggested: {StatusApproved, StatusRejected},
	StatusRejected:  {StatusSuggested},
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, st := range transitions[s] {
		if st == to {
			return true
		}
	}
	return false
}

type Concept struct {
	ID           string    `json:"id"`
	DomainID     string    `json:"domain_id"`
	ParentID     *string   `json:"parent_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Status       Status    `json:"status"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// ExistingConcept is the read-only snapshot of a persisted Concept used for duplicate detection.
type ExistingConcept struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Status Status `json:"status" db:"status"`
}

// NewConcept contains information needed to persist a new Concept.
type NewConcept struct {
	DomainID     string
	ParentID     *string
	Name         string
	Description  string
	Status       Status
	DisplayOrder int
}

// Candidate is a concept parsed from an outline, not yet persisted.
// TempParentID refers to the TempID of another Candidate of the same batch; empty means root.
type Candidate struct {
	TempID       string `json:"temp_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Level        int    `json:"level"`
	TempParentID string `json:"temp_parent_id,omitempty"`
}

type SimilarMatch struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
	Status     Status  `json:"status"`
}

type DuplicateCheckResult struct {
	IsDuplicate    bool           `json:"is_duplicate"`
	ExactMatch     string         `json:"exact_match,omitempty"`
	SimilarMatches []SimilarMatch `json:"similar_matches"`
}

type SkippedDuplicate struct {
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	SimilarTo string `json:"similar_to,omitempty"`
}

type IngestionResult struct {
	InsertedCount     int                `json:"inserted_count"`
	SkippedDuplicates []SkippedDuplicate `json:"skipped_duplicates"`
}

func (r IngestionResult) Total() int { return r.InsertedCount + len(r.SkippedDuplicates) }

type QueryFilter struct {
	DomainID string   `query:"-"`
	ParentID string   `query:"parent_id"`
	Statuses []Status `query:"status"`
	Search   string   `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.ParentID = core.CleanString(qf.ParentID)
	qf.Search = core.CleanString(qf.Search)
}

// ImportRequest is the payload of the outline import entry point.
type ImportRequest struct {
	DomainID string `json:"domain_id" validate:"required,uuid"`
	RawText  string `json:"raw_text" validate:"required,notblank"`
}

func (r *ImportRequest) Validate(validate *validator.Validate) error {
	r.DomainID = core.CleanString(r.DomainID)
	return validate.Struct(r)
}

// DuplicateCheckRequest checks a single name against a domain.
// Threshold and ExcludeStatuses override the configured detector when set.
type DuplicateCheckRequest struct {
	DomainID        string   `json:"domain_id" validate:"required,uuid"`
	Name            string   `json:"name" validate:"required,notblank"`
	Threshold       float64  `json:"threshold" validate:"omitempty,gt=0,lte=1"`
	ExcludeStatuses []Status `json:"exclude_statuses" validate:"omitempty,dive,conceptstatus"`
}

func (r *DuplicateCheckRequest) Validate(validate *validator.Validate) error {
	r.DomainID = core.CleanString(r.DomainID)
	r.Name = core.CleanString(r.Name)
	return validate.Struct(r)
}

// ExtractRequest asks for an outline to be generated from free text, and optionally imported.
type ExtractRequest struct {
	DomainID string `json:"domain_id" validate:"required,uuid"`
	Text     string `json:"text" validate:"required,notblank"`
	Import   bool   `json:"import"`
}

func (r *ExtractRequest) Validate(validate *validator.Validate) error {
	r.DomainID = core.CleanString(r.DomainID)
	return validate.Struct(r)
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,conceptstatus"`
}

func (r *UpdateStatusRequest) Validate(validate *validator.Validate) error {
	r.Status = Status(core.CleanString(string(r.Status), true /* lower */))
	return validate.Struct(r)
}
