package casefile

import (
	"context"
	"strings"
	"sync"

	"github.com/JustJay7/case-consult/internal/models"
)

// Selection is the case a session is currently looking at, with its history cache.
type Selection struct {
	CaseNumber   string
	Consultation *Consultation

	history *HistoryCache
}

// History returns the selection's history cache.
func (s *Selection) History() *HistoryCache {
	return s.history
}

// Session holds at most one selected case. Starting a query replaces the
// selection immediately; results of older queries that arrive later are dropped.
type Session struct {
	service *Service

	mu      sync.Mutex
	current *Selection
}

// NewSession creates a session with nothing selected.
func (s *Service) NewSession() *Session {
	return &Session{service: s}
}

// Query aggregates caseNumber and makes it the selected case.
func (s *Session) Query(ctx context.Context, caseNumber string, activeOnly bool) (*Consultation, error) {
	if !ValidCaseNumber(caseNumber) {
		return nil, ErrInvalidCaseNumber
	}
	caseNumber = strings.TrimSpace(caseNumber)

	sel := s.begin(caseNumber)

	c, err := s.service.Aggregate(ctx, caseNumber, activeOnly)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != sel {
		s.service.logger.Info("Discarding superseded query result", "case_number", caseNumber)
		return nil, ErrSuperseded
	}
	if err != nil {
		s.current = nil
		return nil, err
	}

	sel.Consultation = c
	sel.history.Seed(c.History)

	return c, nil
}

// Adopt selects a consultation obtained without querying, such as a local copy.
// The history cache starts empty.
func (s *Session) Adopt(c *Consultation) *Selection {
	sel := s.begin(strings.TrimSpace(c.Case.CaseNumber))

	s.mu.Lock()
	sel.Consultation = c
	s.mu.Unlock()

	return sel
}

// Current returns the selected case, or nil.
func (s *Session) Current() *Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// Consultation returns the aggregated result of caseNumber if it is the
// selected case and its query has completed.
func (s *Session) Consultation(caseNumber string) (*Consultation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.CaseNumber != strings.TrimSpace(caseNumber) || s.current.Consultation == nil {
		return nil, ErrNotSelected
	}
	return s.current.Consultation, nil
}

// Clear deselects the current case and drops its history cache.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
}

// GetPage returns one history page of the selected case.
func (s *Session) GetPage(ctx context.Context, caseNumber string, page int) (*models.HistoryPage, error) {
	sel, err := s.selected(caseNumber)
	if err != nil {
		return nil, err
	}
	return sel.history.GetPage(ctx, page)
}

// ListAttachments lists the files of one event of the selected case.
func (s *Session) ListAttachments(ctx context.Context, caseNumber string, event models.ProceduralEvent) ([]models.Attachment, error) {
	sel, err := s.selected(caseNumber)
	if err != nil {
		return nil, err
	}
	return s.service.attachments.List(ctx, sel.CaseNumber, event)
}

func (s *Session) selected(caseNumber string) (*Selection, error) {
	sel := s.Current()
	if sel == nil || sel.CaseNumber != strings.TrimSpace(caseNumber) {
		return nil, ErrNotSelected
	}
	return sel, nil
}

func (s *Session) begin(caseNumber string) *Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := &Selection{
		CaseNumber: caseNumber,
		history:    NewHistoryCache(caseNumber, s.service.authority, s.service.logger),
	}
	s.current = sel

	return sel
}

