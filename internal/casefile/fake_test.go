package casefile

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/JustJay7/case-consult/internal/models"
	"github.com/JustJay7/case-consult/internal/portal"
	"github.com/JustJay7/case-consult/pkg/logger"
)

const (
	caseA = "11001310300120190012300"
	caseB = "05001400300220210045600"
)

var errUnavailable = fmt.Errorf("%w: connection refused", portal.ErrTransport)

// fakeAuthority is an in-memory Authority that counts calls.
type fakeAuthority struct {
	mu sync.Mutex

	cases      map[string]*models.RawCase
	primaryErr error
	// primaryGate blocks FetchPrimary for a case until the channel is closed.
	primaryGate    map[string]chan struct{}
	primaryStarted chan string

	history    map[string][]models.ProceduralEvent
	serverPage int // > 0: the authority pages history with this page size
	historyErr error
	// historyGate blocks FetchHistory until closed.
	historyGate chan struct{}

	subjects    []models.PartySubject
	subjectsErr error

	attachments    []models.Attachment
	attachmentsErr error
	downloadBody   string

	primaryCalls     int
	historyCalls     map[string][]int
	subjectsCalls    int
	attachmentCalls  []int64
	downloadRequests []int64
}

func newFakeAuthority() *fakeAuthority {
	return &fakeAuthority{
		cases:        map[string]*models.RawCase{},
		primaryGate:  map[string]chan struct{}{},
		history:      map[string][]models.ProceduralEvent{},
		historyCalls: map[string][]int{},
	}
}

func (f *fakeAuthority) FetchPrimary(ctx context.Context, caseNumber string, activeOnly bool) (*models.RawCase, error) {
	f.mu.Lock()
	f.primaryCalls++
	gate := f.primaryGate[caseNumber]
	started := f.primaryStarted
	f.mu.Unlock()

	if started != nil {
		started <- caseNumber
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.primaryErr != nil {
		return nil, f.primaryErr
	}
	raw, ok := f.cases[caseNumber]
	if !ok {
		return nil, nil
	}
	cp := *raw
	return &cp, nil
}

func (f *fakeAuthority) FetchHistory(ctx context.Context, caseNumber string, page int) (*models.HistoryResponse, error) {
	f.mu.Lock()
	f.historyCalls[caseNumber] = append(f.historyCalls[caseNumber], page)
	gate := f.historyGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}

	events := f.history[caseNumber]
	if f.serverPage == 0 {
		return &models.HistoryResponse{Events: append([]models.ProceduralEvent(nil), events...)}, nil
	}

	pages := (len(events) + f.serverPage - 1) / f.serverPage
	start := (page - 1) * f.serverPage
	end := start + f.serverPage
	if start > len(events) {
		start = len(events)
	}
	if end > len(events) {
		end = len(events)
	}
	return &models.HistoryResponse{
		Events: append([]models.ProceduralEvent(nil), events[start:end]...),
		Paging: &models.ServerPaging{
			Page:       page,
			PageSize:   f.serverPage,
			TotalItems: len(events),
			TotalPages: pages,
		},
	}, nil
}

func (f *fakeAuthority) FetchSubjects(ctx context.Context, caseNumber string) ([]models.PartySubject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjectsCalls++
	if f.subjectsErr != nil {
		return nil, f.subjectsErr
	}
	return append([]models.PartySubject{}, f.subjects...), nil
}

func (f *fakeAuthority) FetchAttachments(ctx context.Context, caseNumber string, eventID int64) ([]models.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachmentCalls = append(f.attachmentCalls, eventID)
	if f.attachmentsErr != nil {
		return nil, f.attachmentsErr
	}
	return append([]models.Attachment{}, f.attachments...), nil
}

func (f *fakeAuthority) Download(ctx context.Context, attachmentID int64) (*portal.Download, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloadRequests = append(f.downloadRequests, attachmentID)
	if f.downloadBody == "" {
		return nil, &portal.StatusError{Endpoint: "download", StatusCode: 404}
	}
	return &portal.Download{
		Body:        io.NopCloser(strings.NewReader(f.downloadBody)),
		ContentType: "application/pdf",
	}, nil
}

func (f *fakeAuthority) PortalURL(caseNumber string) string {
	return "https://portal.test/Procesos/NumeroRadicacion?numeroRadicacion=" + caseNumber
}

func (f *fakeAuthority) historyCallCount(caseNumber string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.historyCalls[caseNumber])
}

func (f *fakeAuthority) totalHistoryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, pages := range f.historyCalls {
		n += len(pages)
	}
	return n
}

func rawCase(number string) *models.RawCase {
	return &models.RawCase{
		ProcessID:        987654,
		ConnectionID:     2,
		CaseNumber:       number,
		FilingDate:       "2019-03-11T00:00:00",
		LastActivityDate: "2024-08-02T10:15:00",
		Office:           "JUZGADO 001 CIVIL DEL CIRCUITO DE BOGOTÁ",
		Department:       "BOGOTÁ",
		Parties:          "Demandante: JUAN PEREZ | Demandado: BANCO EJEMPLO S.A. | Tercero: OTRO",
		Folios:           12,
	}
}

func makeEvents(n int) []models.ProceduralEvent {
	events := make([]models.ProceduralEvent, n)
	for i := range events {
		events[i] = models.ProceduralEvent{
			ID:       int64(1000 + i),
			Sequence: int64(n - i),
			Date:     fmt.Sprintf("2024-01-%02dT00:00:00", i%28+1),
			Label:    fmt.Sprintf("Actuación %d", n-i),
		}
	}
	return events
}

func newTestService(f *fakeAuthority) *Service {
	return NewService(f, logger.NewNop(), 2)
}
