package portal

import (
	"strings"

	"github.com/JustJay7/case-consult/internal/models"
)

type primaryResponse struct {
	Cases []models.RawCase `json:"procesos"`
}

type historyResponse struct {
	Events []models.ProceduralEvent `json:"actuaciones"`
	Paging *models.ServerPaging     `json:"paginacion"`
}

type listResponse[T any] struct {
	Success bool `json:"isSuccess"`
	Rows    []T  `json:"lsData"`
}

type subjectsRequest struct {
	CaseNumber string `json:"lsNroRadicacion"`
}

type documentsRequest struct {
	CaseNumber string `json:"lsNroRadicacion"`
	EventID    int64  `json:"lnIdActuacion"`
}

// subjectRow accepts both the current and the older ls*/ln* row shapes.
type subjectRow struct {
	ID             int64  `json:"idRegSujeto"`
	Role           string `json:"tipoSujeto"`
	Summoned       bool   `json:"esEmplazado"`
	Identification string `json:"identificacion"`
	Name           string `json:"nombreRazonSocial"`

	LegacyID                 int64  `json:"lnIdSujetoProceso"`
	LegacyName               string `json:"lsNombreSujeto"`
	LegacyRole               string `json:"lsTipoSujeto"`
	LegacyIdentification     string `json:"lsIdentificacion"`
	LegacyIdentificationType string `json:"lsTipoIdentificacion"`
	LegacyCounsel            string `json:"lsApoderado"`
}

func (r subjectRow) toSubject() models.PartySubject {
	return models.PartySubject{
		ID:                 firstID(r.ID, r.LegacyID),
		Name:               first(r.Name, r.LegacyName),
		Role:               first(r.Role, r.LegacyRole),
		Identification:     first(r.Identification, r.LegacyIdentification),
		IdentificationType: strings.TrimSpace(r.LegacyIdentificationType),
		Counsel:            strings.TrimSpace(r.LegacyCounsel),
		Summoned:           r.Summoned,
	}
}

type documentRow struct {
	ID          int64  `json:"idRegDocumento"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Date        string `json:"fechaCarga"`

	LegacyID   int64  `json:"lnIdDocumento"`
	LegacyName string `json:"lsNombreArchivo"`
	LegacyType string `json:"lsTipoDocumento"`
	LegacyDate string `json:"ldFechaDocumento"`
}

func (r documentRow) toAttachment() models.Attachment {
	return models.Attachment{
		ID:          firstID(r.ID, r.LegacyID),
		Name:        first(r.Name, r.LegacyName),
		Description: first(r.Description, r.LegacyType),
		Date:        first(r.Date, r.LegacyDate),
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstID(ids ...int64) int64 {
	for _, id := range ids {
		if id != 0 {
			return id
		}
	}
	return 0
}
