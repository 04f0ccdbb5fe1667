package concept

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"

	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/domain"
)

type (
	Repository interface {
		// FetchConcepts returns the snapshot of every concept of a domain, whatever its status.
		FetchConcepts(ctx context.Context, domainID string, exec ...core.DBExecutor) ([]ExistingConcept, error)
		InsertConcept(ctx context.Context, nc NewConcept, exec ...core.DBExecutor) (Concept, error)
		// QueryConcepts applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Concept.Name.
		QueryConcepts(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Concept, error)
		GetConcept(ctx context.Context, id string, exec ...core.DBExecutor) (Concept, error)
		UpdateConceptStatus(ctx context.Context, id string, status Status, exec ...core.DBExecutor) (Concept, error)
	}

	// OutlineExtractor generates a markdown outline of concepts out of free text.
	OutlineExtractor interface {
		ExtractOutline(ctx context.Context, text string) (string, error)
	}

	ServiceInterface interface {
		Import(ctx context.Context, req ImportRequest, by core.Person, trusted bool) (IngestionResult, error)
		CheckDuplicate(ctx context.Context, req DuplicateCheckRequest) (DuplicateCheckResult, error)
		Extract(ctx context.Context, req ExtractRequest, by core.Person, trusted bool) (ExtractResult, error)
		Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Concept, error)
		UpdateStatus(ctx context.Context, id string, status Status) (Concept, error)
	}

	Options struct {
		Repo        Repository
		DomainRepo  domain.Repository
		Extractor   OutlineExtractor // optional
		MailSvc     core.EmailService
		Logger      core.Logger
		Detector    Detector
		NotifyEmail bool // send an ingestion report to the importing person
	}

	Service struct {
		repo       Repository
		domainRepo domain.Repository
		extractor  OutlineExtractor
		mailSvc    core.EmailService
		logger     core.Logger
		detector   Detector
		notify     bool
	}

	ExtractResult struct {
		Outline    string           `json:"outline"`
		Candidates []Candidate      `json:"candidates"`
		Result     *IngestionResult `json:"result,omitempty"` // set when imported
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(opts Options) *Service {
	return &Service{
		repo:       opts.Repo,
		domainRepo: opts.DomainRepo,
		extractor:  opts.Extractor,
		mailSvc:    opts.MailSvc,
		logger:     opts.Logger,
		detector:   opts.Detector,
		notify:     opts.NotifyEmail,
	}
}

// NewDetector builds the Detector described by the ingest configuration.
func NewDetector(conf core.IngestConfig) (Detector, error) {
	scorer, err := ScorerFor(conf.SimilarityMetric)
	if err != nil {
		return Detector{}, err
	}
	det := Detector{Scorer: scorer, Threshold: conf.Threshold}
	if statuses := core.CleanStrings(conf.ExcludeStatuses, true /* lower */); statuses != nil {
		det.ExcludeStatuses = make([]Status, 0, len(statuses))
		for _, st := range statuses {
			status := Status(st)
			if !status.IsValid() {
				return Detector{}, errors.Errorf("invalid excluded status %q", st)
			}
			det.ExcludeStatuses = append(det.ExcludeStatuses, status)
		}
	}
	return det, nil
}

// fetchPool loads the existing concepts of the domain once, for the whole run.
func (svc *Service) fetchPool(ctx context.Context, domainID string) ([]ExistingConcept, error) {
	pool, err := svc.repo.FetchConcepts(ctx, domainID)
	if err != nil {
		return nil, &UpstreamFetchError{DomainID: domainID, Err: err}
	}
	return pool, nil
}

// Import parses an outline and inserts every non duplicate node in the domain.
// Trusted imports insert approved concepts, others suggested ones.
func (svc *Service) Import(ctx context.Context, req ImportRequest, by core.Person, trusted bool) (IngestionResult, error) {
	if strings.TrimSpace(req.DomainID) == "" {
		return IngestionResult{}, &InvalidInputError{Field: "domain_id", Reason: "this field is required"}
	}
	if strings.TrimSpace(req.RawText) == "" {
		return IngestionResult{}, &InvalidInputError{Field: "raw_text", Reason: "this field is required"}
	}

	dom, err := svc.domainRepo.GetDomain(ctx, req.DomainID)
	if err != nil {
		return IngestionResult{}, errors.Wrap(err, "getting domain")
	}
	pool, err := svc.fetchPool(ctx, dom.ID)
	if err != nil {
		return IngestionResult{}, err
	}

	status := StatusSuggested
	if trusted {
		status = StatusApproved
	}
	insert := func(ctx context.Context, nc NewConcept) (string, error) {
		c, err := svc.repo.InsertConcept(ctx, nc)
		return c.ID, err
	}

	candidates := ParseOutline(req.RawText)
	res, err := Ingest(ctx, insert, candidates, dom.ID, pool, IngestOptions{Detector: svc.detector, Status: status})
	if err != nil {
		svc.logger.Error(
			fmt.Sprintf("ingestion into %q aborted after %d inserts", dom.Name, res.InsertedCount),
			err, by,
		)
		return res, err
	}

	svc.logger.Info(
		fmt.Sprintf("ingested %d concepts into %q", res.InsertedCount, dom.Name),
		map[string]interface{}{"domain_id": dom.ID, "skipped": len(res.SkippedDuplicates), "trusted": trusted},
		by,
	)
	svc.sendReport(dom, res, by)
	return res, nil
}

func (svc *Service) CheckDuplicate(ctx context.Context, req DuplicateCheckRequest) (DuplicateCheckResult, error) {
	if strings.TrimSpace(req.DomainID) == "" {
		return DuplicateCheckResult{}, &InvalidInputError{Field: "domain_id", Reason: "this field is required"}
	}
	if _, err := svc.domainRepo.GetDomain(ctx, req.DomainID); err != nil {
		return DuplicateCheckResult{}, errors.Wrap(err, "getting domain")
	}
	pool, err := svc.fetchPool(ctx, req.DomainID)
	if err != nil {
		return DuplicateCheckResult{}, err
	}

	det := svc.detector
	if req.Threshold > 0 {
		det.Threshold = req.Threshold
	}
	if req.ExcludeStatuses != nil {
		det.ExcludeStatuses = req.ExcludeStatuses
	}
	return det.Detect(req.Name, pool), nil
}

// Extract asks the OutlineExtractor for an outline of req.Text and parses it.
// The parsed concepts are imported when req.Import is set.
func (svc *Service) Extract(ctx context.Context, req ExtractRequest, by core.Person, trusted bool) (ExtractResult, error) {
	if svc.extractor == nil {
		return ExtractResult{}, ErrExtractionUnavailable
	}
	if _, err := svc.domainRepo.GetDomain(ctx, req.DomainID); err != nil {
		return ExtractResult{}, errors.Wrap(err, "getting domain")
	}

	outline, err := svc.extractor.ExtractOutline(ctx, req.Text)
	if err != nil {
		return ExtractResult{}, &ExtractionError{Err: err}
	}
	res := ExtractResult{Outline: outline, Candidates: ParseOutline(outline)}
	if !req.Import {
		return res, nil
	}

	ingested, err := svc.Import(ctx, ImportRequest{DomainID: req.DomainID, RawText: outline}, by, trusted)
	res.Result = &ingested
	return res, err
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Concept, error) {
	if _, err := svc.domainRepo.GetDomain(ctx, filter.DomainID); err != nil {
		return nil, errors.Wrap(err, "getting domain")
	}
	filter.Clean()
	return svc.repo.QueryConcepts(ctx, filter, ordering)
}

// UpdateStatus moves a concept through review: suggested -> approved|rejected, rejected -> suggested.
func (svc *Service) UpdateStatus(ctx context.Context, id string, status Status) (Concept, error) {
	c, err := svc.repo.GetConcept(ctx, id)
	if err != nil {
		return Concept{}, errors.Wrap(err, "getting concept")
	}
	if c.Status == status {
		return c, nil
	}
	if !c.Status.CanTransitionTo(status) {
		msg := fmt.Sprintf("cannot move a concept from %s to %s", c.Status, status)
		return Concept{}, core.NewValidationError(ErrInvalidTransition, core.FieldError{Field: "status", Error: msg})
	}
	return svc.repo.UpdateConceptStatus(ctx, id, status)
}

type ingestionReport struct {
	Name          string
	Domain        string
	DomainID      string
	InsertedCount int
	Skipped       []SkippedDuplicate
}

// sendReport emails the ingestion summary to the importing person, best-effort.
func (svc *Service) sendReport(dom domain.Domain, res IngestionResult, by core.Person) {
	if !svc.notify || svc.mailSvc == nil || by.Email == "" {
		return
	}
	name := by.Name
	if name == "" {
		name = by.Email
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: by.Name, Address: by.Email}},
		Subject:      fmt.Sprintf("Import into %s: %d added, %d skipped", dom.Name, res.InsertedCount, len(res.SkippedDuplicates)),
		TemplateName: "ingestion_report",
		TemplateData: ingestionReport{
			Name:          name,
			Domain:        dom.Name,
			DomainID:      dom.ID,
			InsertedCount: res.InsertedCount,
			Skipped:       res.SkippedDuplicates,
		},
	})
}
