package casefile

import (
	"context"
	"fmt"
	"strings"

	"github.com/JustJay7/case-consult/internal/models"
	"github.com/JustJay7/case-consult/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	officeNotAvailable = "DESPACHO NO DISPONIBLE"
	typeNotAvailable   = "TIPO NO DISPONIBLE"
)

// Consultation is the result of aggregating one case.
type Consultation struct {
	Case     models.NormalizedCase `json:"case"`
	Subjects []models.PartySubject `json:"subjects"`

	// History is the first history response, nil when that lookup failed.
	History *models.HistoryResponse `json:"-"`
}

// FirstPage returns page one of the history obtained during aggregation.
func (c *Consultation) FirstPage() *models.HistoryPage {
	if c.History == nil {
		return emptyPage(1)
	}
	if c.History.Complete() {
		return localPage(c.History.Events, 1)
	}
	return serverPage(c.History, 1)
}

// Service orchestrates the authority lookups for one case.
type Service struct {
	authority   Authority
	logger      *logger.Logger
	concurrency int
	attachments *AttachmentFetcher
}

// NewService creates a service. concurrency bounds the auxiliary lookups issued at once.
func NewService(authority Authority, logger *logger.Logger, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		authority:   authority,
		logger:      logger,
		concurrency: concurrency,
		attachments: NewAttachmentFetcher(authority, logger),
	}
}

// Attachments returns the fetcher for per-event files.
func (s *Service) Attachments() *AttachmentFetcher {
	return s.attachments
}

// Aggregate looks up caseNumber and merges the primary record with its history
// and party list. Only a failed primary lookup fails the call; history and
// party failures degrade to empty slices.
func (s *Service) Aggregate(ctx context.Context, caseNumber string, activeOnly bool) (*Consultation, error) {
	if !ValidCaseNumber(caseNumber) {
		return nil, ErrInvalidCaseNumber
	}
	caseNumber = strings.TrimSpace(caseNumber)
	log := s.logger.With("case_number", caseNumber)

	raw, err := s.authority.FetchPrimary(ctx, caseNumber, activeOnly)
	if err != nil {
		log.Error("Primary lookup failed", "error", err)
		return nil, fmt.Errorf("primary lookup: %w", err)
	}
	if raw == nil {
		log.Info("Case not found")
		return nil, ErrNotFound
	}

	parties := ExtractParties(raw.Parties)

	var (
		history  *models.HistoryResponse
		subjects []models.PartySubject
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	g.Go(func() error {
		resp, err := s.authority.FetchHistory(gctx, caseNumber, 1)
		if err != nil {
			log.Warn("History lookup failed, continuing without history", "error", err)
			return nil
		}
		history = resp
		return nil
	})
	g.Go(func() error {
		rows, err := s.authority.FetchSubjects(gctx, caseNumber)
		if err != nil {
			log.Warn("Subjects lookup failed, continuing without subjects", "error", err)
			return nil
		}
		subjects = rows
		return nil
	})
	_ = g.Wait() // failures are absorbed above

	if subjects == nil {
		subjects = []models.PartySubject{}
	}

	c := &Consultation{
		Case:     s.normalize(caseNumber, raw, parties),
		Subjects: subjects,
		History:  history,
	}

	log.Info("Case aggregated",
		"subjects", len(subjects),
		"history_loaded", history != nil,
	)

	return c, nil
}

func (s *Service) normalize(caseNumber string, raw *models.RawCase, parties models.Parties) models.NormalizedCase {
	number := strings.TrimSpace(raw.CaseNumber)
	if number == "" {
		number = caseNumber
	}

	office := strings.TrimSpace(raw.Office)
	if office == "" {
		office = officeNotAvailable
	}

	processType := strings.TrimSpace(raw.Department)
	if processType == "" {
		processType = typeNotAvailable
	}

	return models.NormalizedCase{
		ProcessID:        raw.ProcessID,
		CaseNumber:       number,
		FilingDate:       dateOnly(raw.FilingDate),
		LastActivityDate: dateOnly(raw.LastActivityDate),
		Office:           office,
		Department:       strings.TrimSpace(raw.Department),
		ProcessType:      processType,
		Plaintiff:        parties.Plaintiff,
		Defendant:        parties.Defendant,
		Parties:          raw.Parties,
		Folios:           raw.Folios,
		Private:          raw.Private,
		Status:           models.StatusActive,
		PortalURL:        s.authority.PortalURL(number),
		Source:           models.SourcePortal,
	}
}

// dateOnly drops the time of day from the authority's timestamps
// ("2021-03-04T00:00:00" becomes "2021-03-04").
func dateOnly(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i > 0 {
		return s[:i]
	}
	return s
}
