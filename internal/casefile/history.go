package casefile

import (
	"context"
	"strconv"
	"sync"

	"github.com/JustJay7/case-consult/internal/models"
	"github.com/JustJay7/case-consult/pkg/logger"
	"golang.org/x/sync/singleflight"
)

type historyState int

const (
	// historyEmpty: nothing usable fetched yet.
	historyEmpty historyState = iota
	// historyCached: the full list is held in events.
	historyCached
	// historyServerPaged: the authority pages; every request goes remote.
	historyServerPaged
)

func (s historyState) String() string {
	switch s {
	case historyCached:
		return "cached"
	case historyServerPaged:
		return "server_paged"
	default:
		return "empty"
	}
}

// HistoryCache serves the procedural history of a single case in pages of
// models.PageSize. When the authority returns the whole history in one
// response it is kept and paged locally; otherwise each page is fetched.
type HistoryCache struct {
	caseNumber string
	authority  Authority
	logger     *logger.Logger

	mu     sync.Mutex
	state  historyState
	events []models.ProceduralEvent

	inflight singleflight.Group
}

// NewHistoryCache creates an empty cache bound to caseNumber.
func NewHistoryCache(caseNumber string, authority Authority, logger *logger.Logger) *HistoryCache {
	return &HistoryCache{
		caseNumber: caseNumber,
		authority:  authority,
		logger:     logger.With("case_number", caseNumber),
	}
}

// CaseNumber is the case this cache belongs to.
func (h *HistoryCache) CaseNumber() string {
	return h.caseNumber
}

// Seed records a page-one response obtained elsewhere, e.g. during aggregation.
func (h *HistoryCache) Seed(resp *models.HistoryResponse) {
	if resp != nil {
		h.observe(resp)
	}
}

// GetPage returns page n (1-based). A failed fetch yields an empty page, not an error;
// the caller cannot tell unavailable history from an empty one.
func (h *HistoryCache) GetPage(ctx context.Context, page int) (*models.HistoryPage, error) {
	if page < 1 {
		page = 1
	}

	h.mu.Lock()
	state, events := h.state, h.events
	h.mu.Unlock()

	switch state {
	case historyCached:
		return localPage(events, page), nil
	case historyEmpty:
		resp, err := h.fetch(ctx, 1)
		if err != nil {
			h.logger.Warn("History lookup failed", "page", page, "error", err)
			return emptyPage(page), nil
		}
		if resp.Complete() {
			return localPage(resp.Events, page), nil
		}
		if page == 1 {
			return serverPage(resp, 1), nil
		}
	}

	resp, err := h.fetch(ctx, page)
	if err != nil {
		h.logger.Warn("History lookup failed", "page", page, "error", err)
		return emptyPage(page), nil
	}
	return serverPage(resp, page), nil
}

// fetch shares one remote call between concurrent requests for the same page.
func (h *HistoryCache) fetch(ctx context.Context, page int) (*models.HistoryResponse, error) {
	// Waiters share the call; one caller cancelling must not fail the others.
	callCtx := context.WithoutCancel(ctx)

	v, err, shared := h.inflight.Do(strconv.Itoa(page), func() (interface{}, error) {
		resp, err := h.authority.FetchHistory(callCtx, h.caseNumber, page)
		if err != nil {
			return nil, err
		}
		if page == 1 {
			h.observe(resp)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		h.logger.Debug("Shared in-flight history request", "page", page)
	}
	return v.(*models.HistoryResponse), nil
}

// observe moves an empty cache to cached or server-paged based on a page-one response.
func (h *HistoryCache) observe(resp *models.HistoryResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != historyEmpty {
		return
	}
	if resp.Complete() {
		h.events = append([]models.ProceduralEvent(nil), resp.Events...)
		h.state = historyCached
	} else {
		h.state = historyServerPaged
	}
	h.logger.Debug("History cache initialised", "state", h.state.String(), "events", len(resp.Events))
}

func localPage(events []models.ProceduralEvent, page int) *models.HistoryPage {
	start := (page - 1) * models.PageSize
	end := start + models.PageSize
	if start > len(events) {
		start = len(events)
	}
	if end > len(events) {
		end = len(events)
	}

	out := make([]models.ProceduralEvent, end-start)
	copy(out, events[start:end])

	return &models.HistoryPage{
		Events: out,
		Window: models.LocalWindow(page, len(events)),
	}
}

func serverPage(resp *models.HistoryResponse, page int) *models.HistoryPage {
	window := models.LocalWindow(page, len(resp.Events))
	if resp.Paging != nil {
		window = resp.Paging.Window(page)
	}

	// Concurrent waiters receive the same response.
	events := make([]models.ProceduralEvent, len(resp.Events))
	copy(events, resp.Events)

	return &models.HistoryPage{Events: events, Window: window}
}

func emptyPage(page int) *models.HistoryPage {
	return &models.HistoryPage{
		Events: []models.ProceduralEvent{},
		Window: models.LocalWindow(page, 0),
	}
}
