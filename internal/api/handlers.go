package api

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JustJay7/case-consult/internal/cache"
	"github.com/JustJay7/case-consult/internal/casefile"
	"github.com/JustJay7/case-consult/internal/config"
	"github.com/JustJay7/case-consult/internal/database"
	"github.com/JustJay7/case-consult/internal/models"
	"github.com/JustJay7/case-consult/internal/portal"
	"github.com/JustJay7/case-consult/pkg/logger"
)

// Exporter produces whole-case exports.
type Exporter interface {
	Export(ctx context.Context, caseNumber string, activeOnly bool, format portal.ExportFormat) (*portal.Download, error)
}

// Handlers holds all HTTP handlers
type Handlers struct {
	db       *gorm.DB
	cache    cache.Cache
	service  *casefile.Service
	exporter Exporter
	sessions *sessionStore
	logger   *logger.Logger
	cfg      *config.Config
}

// NewHandlers creates a new handlers instance
func NewHandlers(db *gorm.DB, cache cache.Cache, service *casefile.Service, exporter Exporter, logger *logger.Logger, cfg *config.Config) *Handlers {
	return &Handlers{
		db:       db,
		cache:    cache,
		service:  service,
		exporter: exporter,
		sessions: newSessionStore(service, cfg.SessionTTL),
		logger:   logger,
		cfg:      cfg,
	}
}

// GetCase consults a case and makes it the caller's selected case. A stored
// local copy is served unless refresh=true.
func (h *Handlers) GetCase(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	activeOnly := queryBool(c, "activeOnly")
	refresh := queryBool(c, "refresh")

	sessionID, sess := h.sessions.resolve(c.GetHeader(SessionHeader))
	c.Header(SessionHeader, sessionID)

	entry := &database.Consultation{
		SessionID:  sessionID,
		CaseNumber: number,
		ActiveOnly: activeOnly,
		QueryTime:  time.Now(),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}

	if !casefile.ValidCaseNumber(number) {
		h.recordConsultation(entry, casefile.ErrInvalidCaseNumber)
		respondError(c, casefile.ErrInvalidCaseNumber)
		return
	}

	if !refresh {
		if local, ok := h.localCopy(number, activeOnly); ok {
			sess.Adopt(local)
			entry.Source = models.SourceLocal
			h.recordConsultation(entry, nil)

			h.logger.Info("Serving local copy", "case_number", number)
			c.JSON(http.StatusOK, gin.H{
				"success":    true,
				"session_id": sessionID,
				"data":       local,
			})
			return
		}
	}

	result, err := sess.Query(c.Request.Context(), number, activeOnly)
	if err != nil {
		h.recordConsultation(entry, err)
		respondError(c, err)
		return
	}

	entry.Source = models.SourcePortal
	h.recordConsultation(entry, nil)
	h.storeLocalCopy(number, activeOnly, result)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sessionID,
		"data":       result,
		"history":    result.FirstPage(),
	})
}

// GetHistory returns one page of the selected case's history.
func (h *Handlers) GetHistory(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	if !casefile.ValidCaseNumber(number) {
		respondError(c, casefile.ErrInvalidCaseNumber)
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid page",
		})
		return
	}

	sess, ok := h.sessions.lookup(c.GetHeader(SessionHeader))
	if !ok {
		respondError(c, casefile.ErrNotSelected)
		return
	}

	result, err := sess.GetPage(c.Request.Context(), number, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       result.Events,
		"pagination": result.Window,
	})
}

// GetSubjects returns the party list of the selected case.
func (h *Handlers) GetSubjects(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))

	sess, ok := h.sessions.lookup(c.GetHeader(SessionHeader))
	if !ok {
		respondError(c, casefile.ErrNotSelected)
		return
	}

	result, err := sess.Consultation(number)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Subjects,
	})
}

// ListEventAttachments lists the files of the procedural event in the request body.
func (h *Handlers) ListEventAttachments(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))

	var event models.ProceduralEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid event: " + err.Error(),
		})
		return
	}

	sess, ok := h.sessions.lookup(c.GetHeader(SessionHeader))
	if !ok {
		respondError(c, casefile.ErrNotSelected)
		return
	}

	attachments, err := sess.ListAttachments(c.Request.Context(), number, event)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    attachments,
	})
}

// DownloadAttachment streams one attachment to the client.
func (h *Handlers) DownloadAttachment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid attachment id",
		})
		return
	}

	att := models.Attachment{ID: id, Name: c.Query("name")}
	w := &attachmentWriter{c: c, name: casefile.SuggestedName(att)}

	n, err := h.service.Attachments().Download(c.Request.Context(), att, w)
	if err != nil {
		if !w.started {
			respondError(c, err)
			return
		}
		h.logger.Error("Attachment download interrupted", "attachment_id", id, "bytes", n, "error", err)
		c.Abort()
		return
	}
	w.start()

	h.logger.Info("Attachment downloaded", "attachment_id", id, "bytes", n)
}

// ExportCase streams the authority's DOCX or CSV export of a case.
func (h *Handlers) ExportCase(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	if !casefile.ValidCaseNumber(number) {
		respondError(c, casefile.ErrInvalidCaseNumber)
		return
	}

	format, err := portal.ParseExportFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	dl, err := h.exporter.Export(c.Request.Context(), number, queryBool(c, "activeOnly"), format)
	if err != nil {
		respondError(c, err)
		return
	}
	defer dl.Body.Close()

	contentType := dl.ContentType
	if contentType == "" {
		contentType = format.ContentType()
	}

	name := fmt.Sprintf("Proceso_%s.%s", number, format.Extension())
	c.DataFromReader(http.StatusOK, dl.ContentLength, contentType, dl.Body, map[string]string{
		"Content-Disposition": contentDisposition(name),
	})
}

// ClearSession deselects the caller's case and discards its history cache.
func (h *Handlers) ClearSession(c *gin.Context) {
	id := c.GetHeader(SessionHeader)
	if sess, ok := h.sessions.lookup(id); ok {
		sess.Clear()
		h.sessions.remove(id)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// ListConsultations returns the consultation log
func (h *Handlers) ListConsultations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, total, err := database.ListConsultations(h.db, page, limit)
	if err != nil {
		h.logger.Error("Failed to list consultations", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	var count int64
	dbHealthy := h.db.Model(&database.Consultation{}).Count(&count).Error == nil

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbHealthy,
		"cache":    h.cache.Stats(),
		"sessions": h.sessions.count(),
		"time":     time.Now().Unix(),
	})
}

// CacheStats returns cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.cache.Stats(),
	})
}

// localCopy returns the stored copy of a case from the cache or the database.
func (h *Handlers) localCopy(number string, activeOnly bool) (*casefile.Consultation, bool) {
	key := cache.CaseKey(number, activeOnly)
	if entry, found := h.cache.Get(key); found {
		return localConsultation(entry.Case, entry.Subjects), true
	}

	record, err := database.FindCaseRecord(h.db, number, activeOnly)
	if err != nil {
		if !errors.Is(err, database.ErrNoRecord) {
			h.logger.Warn("Failed to read stored case", "case_number", number, "error", err)
		}
		return nil, false
	}

	stored, subjects, err := record.Decode()
	if err != nil {
		h.logger.Warn("Stored case is unreadable", "case_number", number, "error", err)
		return nil, false
	}

	if err := h.cache.Set(key, &cache.Entry{Case: stored, Subjects: subjects, StoredAt: record.UpdatedAt}); err != nil {
		h.logger.Warn("Failed to cache stored case", "case_number", number, "error", err)
	}

	return localConsultation(stored, subjects), true
}

func (h *Handlers) storeLocalCopy(number string, activeOnly bool, result *casefile.Consultation) {
	entry := &cache.Entry{Case: result.Case, Subjects: result.Subjects, StoredAt: time.Now()}
	if err := h.cache.Set(cache.CaseKey(number, activeOnly), entry); err != nil {
		h.logger.Warn("Failed to cache case", "case_number", number, "error", err)
	}

	record, err := database.NewCaseRecord(result.Case, result.Subjects, activeOnly)
	if err == nil {
		err = database.SaveCaseRecord(h.db, record)
	}
	if err != nil {
		h.logger.Warn("Failed to store case", "case_number", number, "error", err)
	}
}

func (h *Handlers) recordConsultation(entry *database.Consultation, err error) {
	entry.DurationMS = time.Since(entry.QueryTime).Milliseconds()
	entry.Success = err == nil
	if err != nil {
		entry.ErrorMessage = err.Error()
	}

	if dbErr := database.LogConsultation(h.db, entry); dbErr != nil {
		h.logger.Error("Failed to log consultation", "error", dbErr)
	}
}

func localConsultation(c models.NormalizedCase, subjects []models.PartySubject) *casefile.Consultation {
	c.Source = models.SourceLocal
	if subjects == nil {
		subjects = []models.PartySubject{}
	}
	return &casefile.Consultation{Case: c, Subjects: subjects}
}

func queryBool(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}

func contentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}

// attachmentWriter sends the download headers on the first write, so a
// failure before any data arrives can still be answered with an error.
type attachmentWriter struct {
	c       *gin.Context
	name    string
	started bool
}

func (w *attachmentWriter) start() {
	if w.started {
		return
	}
	w.started = true

	contentType := mime.TypeByExtension(filepath.Ext(w.name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.c.Header("Content-Type", contentType)
	w.c.Header("Content-Disposition", contentDisposition(w.name))
	w.c.Status(http.StatusOK)
}

func (w *attachmentWriter) Write(p []byte) (int, error) {
	w.start()
	return w.c.Writer.Write(p)
}
