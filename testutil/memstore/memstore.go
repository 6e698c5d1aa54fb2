package memstore

import (
	"context"
	"fmt"
	"reports-api/schemas"
	"reports-api/utils"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// Store keeps reports in insertion order. Unlike a real collection it
// tolerates repeated ids, which lets tests reproduce double-insert data.
type Store struct {
	mu      sync.Mutex
	docs    []schemas.Report
	nextID  int
	Deletes []string
	Updates []string

	// FailDelete and FailUpdate return the mapped error for the given id.
	FailDelete map[string]error
	FailUpdate map[string]error
}

func New(reports ...schemas.Report) *Store {
	return &Store{docs: append([]schemas.Report(nil), reports...)}
}

func (s *Store) ListPage(_ context.Context, _ string, limit, offset int) ([]schemas.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if offset >= len(s.docs) {
		return []schemas.Report{}, nil
	}
	end := min(offset+limit, len(s.docs))
	return append([]schemas.Report(nil), s.docs[offset:end]...), nil
}

func (s *Store) CreateDocument(_ context.Context, _ string, id string, report schemas.Report) (*schemas.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.nextID++
		id = fmt.Sprintf("generated-%d", s.nextID)
	}
	report.ID = id
	report.CreatedAt = time.Now().UTC()
	report.UpdatedAt = report.CreatedAt
	s.docs = append(s.docs, report)
	return &report, nil
}

func (s *Store) UpdateDocument(_ context.Context, _ string, id string, fields map[string]any) (*schemas.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Updates = append(s.Updates, id)
	if err, ok := s.FailUpdate[id]; ok {
		return nil, err
	}

	for i := range s.docs {
		if s.docs[i].ID != id {
			continue
		}
		applyFields(&s.docs[i], fields)
		updated := s.docs[i]
		return &updated, nil
	}
	return nil, eris.Wrapf(utils.ErrNotFound, "report %s", id)
}

func (s *Store) DeleteDocument(_ context.Context, _ string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Deletes = append(s.Deletes, id)
	if err, ok := s.FailDelete[id]; ok {
		return err
	}

	for i := range s.docs {
		if s.docs[i].ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return nil
		}
	}
	return eris.Wrapf(utils.ErrNotFound, "report %s", id)
}

// Docs returns a copy of the stored reports.
func (s *Store) Docs() []schemas.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schemas.Report(nil), s.docs...)
}

func applyFields(r *schemas.Report, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "status":
			r.Status, _ = v.(string)
		case "approvedBy":
			r.ApprovedBy, _ = v.(string)
		case "approvedByUsername":
			r.ApprovedByUsername, _ = v.(string)
		case "approvedAt":
			if t, ok := v.(time.Time); ok {
				r.ApprovedAt = &t
			}
		case "updatedAt":
			if t, ok := v.(time.Time); ok {
				r.UpdatedAt = t
			}
		}
	}
}
