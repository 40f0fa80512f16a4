package portal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JustJay7/case-consult/internal/config"
	"github.com/JustJay7/case-consult/internal/models"
	"github.com/JustJay7/case-consult/pkg/logger"
	"github.com/goccy/go-json"
)

// ErrTransport marks every failure to obtain a usable response from the authority.
var ErrTransport = errors.New("authority request failed")

// StatusError is returned when the authority answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrTransport
}

// Client calls the judicial authority's public consult endpoints.
type Client struct {
	baseURL   string
	apiURL    string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	logger    *logger.Logger
}

// NewClient creates a client for the endpoints configured in cfg.
func NewClient(cfg *config.Config, logger *logger.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.PortalBaseURL, "/"),
		apiURL:    strings.TrimRight(cfg.PortalAPIURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.PortalTimeout,
		http:      &http.Client{},
		logger:    logger,
	}
}

// PortalURL is the public page for a case on the authority's site.
func (c *Client) PortalURL(caseNumber string) string {
	return c.baseURL + "/Procesos/NumeroRadicacion?numeroRadicacion=" + url.QueryEscape(strings.TrimSpace(caseNumber))
}

// FetchPrimary returns the first case matching caseNumber, or nil when there is none.
func (c *Client) FetchPrimary(ctx context.Context, caseNumber string, activeOnly bool) (*models.RawCase, error) {
	params := url.Values{}
	params.Set("numero", strings.TrimSpace(caseNumber))
	params.Set("SoloActivos", strconv.FormatBool(activeOnly))
	params.Set("pagina", "1")

	var resp primaryResponse
	if err := c.getJSON(ctx, "primary", c.apiURL+"/v2/Procesos/Consulta/NumeroRadicacion?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	if len(resp.Cases) == 0 {
		c.logger.Debug("No case found", "case_number", caseNumber)
		return nil, nil
	}

	return &resp.Cases[0], nil
}

// FetchHistory returns one history response exactly as the authority sent it.
func (c *Client) FetchHistory(ctx context.Context, caseNumber string, page int) (*models.HistoryResponse, error) {
	params := url.Values{}
	params.Set("numero", strings.TrimSpace(caseNumber))
	params.Set("pagina", strconv.Itoa(page))

	var resp historyResponse
	if err := c.getJSON(ctx, "history", c.apiURL+"/v2/Proceso/Actuaciones?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	events := resp.Events
	if events == nil {
		events = []models.ProceduralEvent{}
	}

	return &models.HistoryResponse{Events: events, Paging: resp.Paging}, nil
}

// FetchSubjects returns the party list. A "no data" answer is an empty slice.
func (c *Client) FetchSubjects(ctx context.Context, caseNumber string) ([]models.PartySubject, error) {
	body := subjectsRequest{CaseNumber: strings.TrimSpace(caseNumber)}

	var resp listResponse[subjectRow]
	if err := c.postJSON(ctx, "subjects", c.baseURL+"/api/v1/Process/GetSujetosProcesales", body, &resp); err != nil {
		return nil, err
	}

	subjects := make([]models.PartySubject, 0, len(resp.Rows))
	if !resp.Success {
		return subjects, nil
	}
	for _, row := range resp.Rows {
		subjects = append(subjects, row.toSubject())
	}

	return subjects, nil
}

// FetchAttachments lists the files of one procedural event.
func (c *Client) FetchAttachments(ctx context.Context, caseNumber string, eventID int64) ([]models.Attachment, error) {
	body := documentsRequest{CaseNumber: strings.TrimSpace(caseNumber), EventID: eventID}

	var resp listResponse[documentRow]
	if err := c.postJSON(ctx, "attachments", c.baseURL+"/api/Process/GetDocumentos", body, &resp); err != nil {
		return nil, err
	}

	attachments := make([]models.Attachment, 0, len(resp.Rows))
	if !resp.Success {
		return attachments, nil
	}
	for _, row := range resp.Rows {
		attachments = append(attachments, row.toAttachment())
	}

	return attachments, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}

	return c.doJSON(req, endpoint, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint, rawURL string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doJSON(req, endpoint, out)
}

func (c *Client) doJSON(req *http.Request, endpoint string, out interface{}) error {
	c.setHeaders(req)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Authority request failed", "endpoint", endpoint, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrTransport, endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Authority response",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"latency", time.Since(start).String(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: invalid response body: %w", ErrTransport, endpoint, err)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9,en;q=0.8")
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("Origin", c.baseURL)
}
