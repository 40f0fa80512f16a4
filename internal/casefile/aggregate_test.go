package casefile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustJay7/case-consult/internal/models"
	"github.com/JustJay7/case-consult/internal/portal"
)

func TestAggregate(t *testing.T) {
	f := newFakeAuthority()
	f.cases[caseA] = rawCase(caseA)
	f.history[caseA] = makeEvents(3)
	f.subjects = []models.PartySubject{{Name: "JUAN PEREZ", Role: "Demandante"}}

	c, err := newTestService(f).Aggregate(context.Background(), caseA, false)
	require.NoError(t, err)

	want := models.NormalizedCase{
		ProcessID:        987654,
		CaseNumber:       caseA,
		FilingDate:       "2019-03-11",
		LastActivityDate: "2024-08-02",
		Office:           "JUZGADO 001 CIVIL DEL CIRCUITO DE BOGOTÁ",
		Department:       "BOGOTÁ",
		ProcessType:      "BOGOTÁ",
		Plaintiff:        "JUAN PEREZ",
		Defendant:        "BANCO EJEMPLO S.A.",
		Parties:          "Demandante: JUAN PEREZ | Demandado: BANCO EJEMPLO S.A. | Tercero: OTRO",
		Folios:           12,
		Status:           models.StatusActive,
		PortalURL:        "https://portal.test/Procesos/NumeroRadicacion?numeroRadicacion=" + caseA,
		Source:           models.SourcePortal,
	}
	if diff := cmp.Diff(want, c.Case); diff != "" {
		t.Errorf("normalized case mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, c.Subjects, 1)
	require.NotNil(t, c.History)
	assert.Len(t, c.History.Events, 3)
	assert.Equal(t, 1, f.subjectsCalls)
	assert.Equal(t, []int{1}, f.historyCalls[caseA])
	assert.Empty(t, f.attachmentCalls, "attachments are never prefetched")
}

func TestAggregateNotFound(t *testing.T) {
	f := newFakeAuthority()

	c, err := newTestService(f).Aggregate(context.Background(), caseA, true)

	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, f.primaryCalls)
	assert.Zero(t, f.totalHistoryCalls())
	assert.Zero(t, f.subjectsCalls)
}

func TestAggregateInvalidNumber(t *testing.T) {
	f := newFakeAuthority()

	_, err := newTestService(f).Aggregate(context.Background(), "12345", false)

	assert.ErrorIs(t, err, ErrInvalidCaseNumber)
	assert.Zero(t, f.primaryCalls)
}

func TestAggregatePrimaryFailure(t *testing.T) {
	f := newFakeAuthority()
	f.cases[caseA] = rawCase(caseA)
	f.primaryErr = &portal.StatusError{Endpoint: "primary", StatusCode: 503}

	_, err := newTestService(f).Aggregate(context.Background(), caseA, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, portal.ErrTransport)
	var statusErr *portal.StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Zero(t, f.totalHistoryCalls())
	assert.Zero(t, f.subjectsCalls)
}

func TestAggregateAuxiliaryFailuresDegrade(t *testing.T) {
	f := newFakeAuthority()
	f.cases[caseA] = rawCase(caseA)
	f.historyErr = errUnavailable
	f.subjectsErr = errUnavailable

	c, err := newTestService(f).Aggregate(context.Background(), caseA, false)
	require.NoError(t, err)

	assert.Equal(t, "JUAN PEREZ", c.Case.Plaintiff)
	assert.NotNil(t, c.Subjects)
	assert.Empty(t, c.Subjects)
	assert.Nil(t, c.History)

	page := c.FirstPage()
	assert.NotNil(t, page.Events)
	assert.Empty(t, page.Events)
	assert.Equal(t, 0, page.Window.TotalItems)
	assert.False(t, page.Window.HasNext)
}

func TestAggregateSentinels(t *testing.T) {
	f := newFakeAuthority()
	raw := rawCase(caseA)
	raw.Office = ""
	raw.Department = ""
	raw.Parties = ""
	raw.CaseNumber = ""
	raw.FilingDate = ""
	f.cases[caseA] = raw

	c, err := newTestService(f).Aggregate(context.Background(), "  "+caseA+" ", false)
	require.NoError(t, err)

	assert.Equal(t, caseA, c.Case.CaseNumber)
	assert.Equal(t, officeNotAvailable, c.Case.Office)
	assert.Equal(t, typeNotAvailable, c.Case.ProcessType)
	assert.Equal(t, models.NotAvailable, c.Case.Plaintiff)
	assert.Equal(t, models.NotAvailable, c.Case.Defendant)
	assert.Empty(t, c.Case.FilingDate)
}

func TestAggregateDeterministic(t *testing.T) {
	f := newFakeAuthority()
	f.cases[caseA] = rawCase(caseA)
	f.history[caseA] = makeEvents(40)
	svc := newTestService(f)

	first, err := svc.Aggregate(context.Background(), caseA, false)
	require.NoError(t, err)
	second, err := svc.Aggregate(context.Background(), caseA, false)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Case, second.Case); diff != "" {
		t.Errorf("aggregation is not deterministic:\n%s", diff)
	}
}

func TestFirstPage(t *testing.T) {
	tests := []struct {
		name      string
		history   *models.HistoryResponse
		wantLen   int
		wantTotal int
		wantNext  bool
	}{
		{
			name:      "complete history is sliced locally",
			history:   &models.HistoryResponse{Events: makeEvents(45)},
			wantLen:   30,
			wantTotal: 45,
			wantNext:  true,
		},
		{
			name: "server paged history keeps the reported window",
			history: &models.HistoryResponse{
				Events: makeEvents(40),
				Paging: &models.ServerPaging{Page: 1, PageSize: 40, TotalItems: 120, TotalPages: 3},
			},
			wantLen:   40,
			wantTotal: 120,
			wantNext:  true,
		},
		{
			name:    "missing history",
			history: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := (&Consultation{History: tt.history}).FirstPage()
			assert.Len(t, page.Events, tt.wantLen)
			assert.Equal(t, tt.wantTotal, page.Window.TotalItems)
			assert.Equal(t, tt.wantNext, page.Window.HasNext)
			assert.False(t, page.Window.HasPrev)
		})
	}
}

func TestDateOnly(t *testing.T) {
	assert.Equal(t, "2021-03-04", dateOnly("2021-03-04T00:00:00"))
	assert.Equal(t, "2021-03-04", dateOnly("2021-03-04 12:30:00"))
	assert.Equal(t, "2021-03-04", dateOnly(" 2021-03-04 "))
	assert.Equal(t, "", dateOnly(""))
}
