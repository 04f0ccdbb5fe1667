package concept

import (
	"context"
	"fmt"
	"math"
)

const reasonExactMatch = "Exact match"

// InsertFunc persists a new concept and returns its identifier.
type InsertFunc func(ctx context.Context, nc NewConcept) (id string, err error)

type IngestOptions struct {
	Detector Detector
	Status   Status // status of inserted concepts; empty means StatusSuggested
}

// Ingest processes candidates strictly in order against a fixed pool of existing concepts.
// Duplicates are skipped, others are inserted with their parent resolved from earlier inserts
// of the same run. A parent that was skipped leaves its children without parent.
//
// The pool is never refreshed: two candidates of the same run are not compared with each other.
// On insert failure the run stops and returns the partial result along with an *UpstreamWriteError.
func Ingest(ctx context.Context, insert InsertFunc, candidates []Candidate, domainID string, pool []ExistingConcept, opts IngestOptions) (IngestionResult, error) {
	status := opts.Status
	if status == "" {
		status = StatusSuggested
	}

	res := IngestionResult{SkippedDuplicates: make([]SkippedDuplicate, 0)}
	realIDs := make(map[string]string, len(candidates)) // {tempID: ID}

	for idx, cand := range candidates {
		check := opts.Detector.Detect(cand.Name, pool)
		if check.IsDuplicate {
			res.SkippedDuplicates = append(res.SkippedDuplicates, skippedFrom(cand, check))
			continue
		}

		var parentID *string
		if cand.TempParentID != "" {
			if id, ok := realIDs[cand.TempParentID]; ok {
				parentID = &id
			}
		}

		id, err := insert(ctx, NewConcept{
			DomainID:     domainID,
			ParentID:     parentID,
			Name:         cand.Name,
			Description:  cand.Description,
			Status:       status,
			DisplayOrder: idx,
		})
		if err != nil {
			return res, &UpstreamWriteError{Name: cand.Name, Err: err}
		}
		res.InsertedCount++
		if cand.TempID != "" {
			realIDs[cand.TempID] = id
		}
	}
	return res, nil
}

func skippedFrom(cand Candidate, check DuplicateCheckResult) SkippedDuplicate {
	if check.ExactMatch != "" {
		return SkippedDuplicate{Name: cand.Name, Reason: reasonExactMatch, SimilarTo: check.ExactMatch}
	}
	top := check.SimilarMatches[0]
	return SkippedDuplicate{
		Name:      cand.Name,
		Reason:    fmt.Sprintf("Similar to existing concept (%d%% match)", int(math.Round(top.Similarity*100))),
		SimilarTo: top.Name,
	}
}
