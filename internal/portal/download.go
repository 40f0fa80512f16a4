package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ExportFormat is a whole-case export format offered by the authority.
type ExportFormat string

const (
	FormatDOCX ExportFormat = "DOCX"
	FormatCSV  ExportFormat = "CSV"
)

// ParseExportFormat accepts "docx" or "csv" in any case.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToUpper(strings.TrimSpace(s))); f {
	case FormatDOCX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f ExportFormat) Extension() string {
	return strings.ToLower(string(f))
}

func (f ExportFormat) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// Download is an open binary stream from the authority. Close releases the connection.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Download opens the binary content of one attachment.
func (c *Client) Download(ctx context.Context, attachmentID int64) (*Download, error) {
	rawURL := c.apiURL + "/v2/Descarga/Documento/" + strconv.FormatInt(attachmentID, 10)
	return c.stream(ctx, "download", rawURL, "application/octet-stream, */*")
}

// Export opens a whole-case export in the given format.
func (c *Client) Export(ctx context.Context, caseNumber string, activeOnly bool, format ExportFormat) (*Download, error) {
	params := url.Values{}
	params.Set("numero", strings.TrimSpace(caseNumber))
	params.Set("SoloActivos", strconv.FormatBool(activeOnly))
	params.Set("pagina", "1")

	rawURL := c.apiURL + "/v2/Descarga/" + string(format) + "/Procesos/NumeroRadicacion?" + params.Encode()
	return c.stream(ctx, "export", rawURL, format.ContentType())
}

func (c *Client) stream(ctx context.Context, endpoint, rawURL, accept string) (*Download, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		c.logger.Warn("Authority download failed", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	return &Download{
		Body:          &cancelOnClose{ReadCloser: resp.Body, cancel: cancel},
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

// cancelOnClose keeps the request context alive until the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
