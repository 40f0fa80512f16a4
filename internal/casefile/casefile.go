// Package casefile builds the consolidated view of one judicial case from the
// authority's independent lookups and serves its history page by page.
package casefile

import (
	"context"
	"errors"

	"github.com/JustJay7/case-consult/internal/models"
	"github.com/JustJay7/case-consult/internal/portal"
)

var (
	// ErrInvalidCaseNumber is returned before any remote call for a malformed case number.
	ErrInvalidCaseNumber = errors.New("invalid case number")
	// ErrNotFound means the authority has no case with the given number.
	ErrNotFound = errors.New("case not found")
	// ErrSuperseded is returned for a query whose case was replaced by a newer query.
	ErrSuperseded = errors.New("query superseded by a newer selection")
	// ErrNotSelected is returned when paging a case that is not the current selection.
	ErrNotSelected = errors.New("case is not selected")
	// ErrNoAttachmentKey is returned for events that carry no usable identifier.
	ErrNoAttachmentKey = errors.New("event has no attachment identifier")
)

// Authority is the remote source of case data.
type Authority interface {
	FetchPrimary(ctx context.Context, caseNumber string, activeOnly bool) (*models.RawCase, error)
	FetchHistory(ctx context.Context, caseNumber string, page int) (*models.HistoryResponse, error)
	FetchSubjects(ctx context.Context, caseNumber string) ([]models.PartySubject, error)
	FetchAttachments(ctx context.Context, caseNumber string, eventID int64) ([]models.Attachment, error)
	Download(ctx context.Context, attachmentID int64) (*portal.Download, error)
	PortalURL(caseNumber string) string
}
