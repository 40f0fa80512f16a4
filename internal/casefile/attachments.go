package casefile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JustJay7/case-consult/internal/models"
	"github.com/JustJay7/case-consult/pkg/logger"
)

// AttachmentFetcher lists and downloads the files linked to procedural events.
// Listings are not cached; reopening an event fetches again.
type AttachmentFetcher struct {
	authority Authority
	logger    *logger.Logger
}

// NewAttachmentFetcher creates a fetcher over authority.
func NewAttachmentFetcher(authority Authority, logger *logger.Logger) *AttachmentFetcher {
	return &AttachmentFetcher{authority: authority, logger: logger}
}

// List returns the files of event. Lookup failures yield an empty list.
func (f *AttachmentFetcher) List(ctx context.Context, caseNumber string, event models.ProceduralEvent) ([]models.Attachment, error) {
	key := event.AttachmentKey()
	if key == 0 {
		return nil, ErrNoAttachmentKey
	}
	if !event.HasAttachments {
		return []models.Attachment{}, nil
	}
	if event.AttachmentGroupID == 0 {
		f.logger.Debug("Event has no attachment group id, using event id", "event_id", event.ID)
	}

	attachments, err := f.authority.FetchAttachments(ctx, strings.TrimSpace(caseNumber), key)
	if err != nil {
		f.logger.Warn("Attachment lookup failed",
			"case_number", caseNumber,
			"event_id", key,
			"error", err,
		)
		return []models.Attachment{}, nil
	}
	if attachments == nil {
		attachments = []models.Attachment{}
	}

	return attachments, nil
}

// Download streams the content of attachment into w and returns the bytes written.
func (f *AttachmentFetcher) Download(ctx context.Context, attachment models.Attachment, w io.Writer) (int64, error) {
	dl, err := f.authority.Download(ctx, attachment.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to download attachment %d: %w", attachment.ID, err)
	}
	defer dl.Body.Close()

	n, err := io.Copy(w, dl.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read attachment %d: %w", attachment.ID, err)
	}

	return n, nil
}

// Save downloads attachment into dir under its suggested name and returns the file path.
func (f *AttachmentFetcher) Save(ctx context.Context, attachment models.Attachment, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	fullPath := filepath.Join(dir, SuggestedName(attachment))
	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := f.Download(ctx, attachment, file)
	if err != nil {
		os.Remove(fullPath) // Clean up on error
		return "", err
	}

	f.logger.Info("Attachment saved",
		"attachment_id", attachment.ID,
		"size", size,
		"path", fullPath,
	)

	return fullPath, nil
}

// SuggestedName is the file name to save attachment under.
func SuggestedName(attachment models.Attachment) string {
	name := strings.TrimSpace(attachment.Name)
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "Documento_" + strconv.FormatInt(attachment.ID, 10) + ".pdf"
	}
	return name
}
