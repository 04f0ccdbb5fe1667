package dummydb

import (
	"sync"

	"github.com/flmvela/gemeos/core/concept"
	"github.com/flmvela/gemeos/core/domain"
)

type (
	// DB is an in-memory database, rows are kept in insertion order.
	DB struct {
		domain  *domainTable
		concept *conceptTable
	}

	domainTable struct {
		sync.RWMutex
		rows []*domain.Domain
	}

	conceptTable struct {
		sync.RWMutex
		rows []*concept.Concept
	}
)

func Open() (*DB, error) {
	db := &DB{
		domain:  &domainTable{},
		concept: &conceptTable{},
	}
	return db, nil
}

// Reset drops every row.
func (db *DB) Reset() {
	db.domain.Lock()
	db.domain.rows = nil
	db.domain.Unlock()

	db.concept.Lock()
	db.concept.rows = nil
	db.concept.Unlock()
}
