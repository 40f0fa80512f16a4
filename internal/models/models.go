package models

// PageSize is the number of procedural events shown per history page.
const PageSize = 30

// NotAvailable is used for party names that could not be extracted.
const NotAvailable = "NOT AVAILABLE"

// Provenance values for NormalizedCase.Source.
const (
	SourcePortal = "portal"
	SourceLocal  = "local"
)

// StatusActive is the status of every case returned by the primary lookup.
const StatusActive = "Activo"

// RawCase is one row of the authority's primary lookup. Dates are kept exactly as received.
type RawCase struct {
	ProcessID        int64  `json:"idProceso"`
	ConnectionID     int64  `json:"idConexion"`
	CaseNumber       string `json:"llaveProceso"`
	FilingDate       string `json:"fechaProceso"`
	LastActivityDate string `json:"fechaUltimaActuacion"`
	Office           string `json:"despacho"`
	Department       string `json:"departamento"`
	Parties          string `json:"sujetosProcesales"`
	Folios           int    `json:"cantFilas"`
	Private          bool   `json:"esPrivado"`
}

// Parties holds the names pulled out of the parties blob.
type Parties struct {
	Plaintiff string `json:"plaintiff"`
	Defendant string `json:"defendant"`
}

// NormalizedCase is the consolidated case record shown to users.
type NormalizedCase struct {
	ProcessID        int64  `json:"process_id,omitempty"`
	CaseNumber       string `json:"case_number"`
	FilingDate       string `json:"filing_date,omitempty"`
	LastActivityDate string `json:"last_activity_date,omitempty"`
	Office           string `json:"office"`
	Department       string `json:"department,omitempty"`
	ProcessType      string `json:"process_type"`
	Plaintiff        string `json:"plaintiff"`
	Defendant        string `json:"defendant"`
	Parties          string `json:"parties,omitempty"`
	Folios           int    `json:"folios"`
	Private          bool   `json:"private"`
	Status           string `json:"status"`
	PortalURL        string `json:"portal_url,omitempty"`
	Source           string `json:"source"`
}

// ProceduralEvent is one entry ("actuación") of a case history.
type ProceduralEvent struct {
	ID                int64  `json:"idActuacion"`
	AttachmentGroupID int64  `json:"idRegActuacion,omitempty"`
	Sequence          int64  `json:"consActuacion"`
	Date              string `json:"fechaActuacion"`
	Label             string `json:"actuacion"`
	Annotation        string `json:"anotacion,omitempty"`
	TermStart         string `json:"fechaInicioTermino,omitempty"`
	TermEnd           string `json:"fechaFinalizaTermino,omitempty"`
	RuleCode          string `json:"codigoRegla,omitempty"`
	HasAttachments    bool   `json:"conDocumentos"`
	Folios            int    `json:"cantFolios"`
}

// AttachmentKey returns the identifier used to list the event's files.
// Some authority rows carry no attachment group id; the event id is used instead.
func (e ProceduralEvent) AttachmentKey() int64 {
	if e.AttachmentGroupID != 0 {
		return e.AttachmentGroupID
	}
	return e.ID
}

// PartySubject is one row of the party list.
type PartySubject struct {
	ID                 int64  `json:"id,omitempty"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	Identification     string `json:"identification,omitempty"`
	IdentificationType string `json:"identification_type,omitempty"`
	Counsel            string `json:"counsel,omitempty"`
	Summoned           bool   `json:"summoned,omitempty"`
}

// Attachment is one file linked to a procedural event.
type Attachment struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

// ServerPaging is the page descriptor the authority attaches to partial history responses.
type ServerPaging struct {
	Page       int `json:"pagina"`
	PageSize   int `json:"registrosPagina"`
	TotalItems int `json:"cantRegistros"`
	TotalPages int `json:"cantPaginas"`
}

// HistoryResponse is what the authority returned for one history request.
type HistoryResponse struct {
	Events []ProceduralEvent
	Paging *ServerPaging
}

// Complete reports whether the response carries the whole history.
// The authority does not document this; it is inferred from the response shape.
func (r *HistoryResponse) Complete() bool {
	if r.Paging == nil {
		return true
	}
	if r.Paging.TotalPages <= 1 {
		return true
	}
	return r.Paging.TotalItems > 0 && len(r.Events) >= r.Paging.TotalItems
}

// PageWindow describes one slice of a paginated list.
type PageWindow struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// LocalWindow computes the window for page of a list with total items held in memory.
func LocalWindow(page, total int) PageWindow {
	pages := (total + PageSize - 1) / PageSize
	return PageWindow{
		Page:       page,
		PageSize:   PageSize,
		TotalItems: total,
		TotalPages: pages,
		HasPrev:    page > 1,
		HasNext:    page < pages,
	}
}

// Window converts the authority's descriptor, falling back to the requested page.
func (p *ServerPaging) Window(requested int) PageWindow {
	page := p.Page
	if page < 1 {
		page = requested
	}
	size := p.PageSize
	if size < 1 {
		size = PageSize
	}
	return PageWindow{
		Page:       page,
		PageSize:   size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		HasPrev:    page > 1,
		HasNext:    page < p.TotalPages,
	}
}

// HistoryPage is one page of procedural events.
type HistoryPage struct {
	Events []ProceduralEvent `json:"events"`
	Window PageWindow        `json:"window"`
}
