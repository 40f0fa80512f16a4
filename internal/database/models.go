package database

import (
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"github.com/JustJay7/case-consult/internal/models"
)

// Consultation records one case lookup served by the API.
type Consultation struct {
	gorm.Model
	SessionID    string    `json:"session_id"`
	CaseNumber   string    `json:"case_number"`
	ActiveOnly   bool      `json:"active_only"`
	Source       string    `json:"source"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	QueryTime    time.Time `json:"query_time"`
	DurationMS   int64     `json:"duration_ms"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
}

// CaseRecord is the stored snapshot of the last successful consult of a case.
type CaseRecord struct {
	gorm.Model
	CaseNumber       string `json:"case_number" gorm:"uniqueIndex:idx_case_records_key"`
	ActiveOnly       bool   `json:"active_only" gorm:"uniqueIndex:idx_case_records_key"`
	ProcessID        int64  `json:"process_id"`
	Office           string `json:"office"`
	Plaintiff        string `json:"plaintiff"`
	Defendant        string `json:"defendant"`
	LastActivityDate string `json:"last_activity_date"`
	CaseJSON         string `json:"-" gorm:"type:text"`
	SubjectsJSON     string `json:"-" gorm:"type:text"`
}

func (Consultation) TableName() string {
	return "consultations"
}

func (CaseRecord) TableName() string {
	return "case_records"
}

// NewCaseRecord builds the snapshot of a normalized case and its party list.
func NewCaseRecord(c models.NormalizedCase, subjects []models.PartySubject, activeOnly bool) (*CaseRecord, error) {
	caseJSON, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []models.PartySubject{}
	}
	subjectsJSON, err := json.Marshal(subjects)
	if err != nil {
		return nil, err
	}

	return &CaseRecord{
		CaseNumber:       c.CaseNumber,
		ActiveOnly:       activeOnly,
		ProcessID:        c.ProcessID,
		Office:           c.Office,
		Plaintiff:        c.Plaintiff,
		Defendant:        c.Defendant,
		LastActivityDate: c.LastActivityDate,
		CaseJSON:         string(caseJSON),
		SubjectsJSON:     string(subjectsJSON),
	}, nil
}

// Decode restores the normalized case and party list of the snapshot.
func (r *CaseRecord) Decode() (models.NormalizedCase, []models.PartySubject, error) {
	var c models.NormalizedCase
	if err := json.Unmarshal([]byte(r.CaseJSON), &c); err != nil {
		return c, nil, err
	}

	subjects := []models.PartySubject{}
	if r.SubjectsJSON != "" {
		if err := json.Unmarshal([]byte(r.SubjectsJSON), &subjects); err != nil {
			return c, nil, err
		}
	}

	return c, subjects, nil
}
