package database

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoRecord is returned when no snapshot exists for a case.
var ErrNoRecord = errors.New("no stored record")

// LogConsultation appends one entry to the consultation log.
func LogConsultation(db *gorm.DB, entry *Consultation) error {
	return db.Create(entry).Error
}

// ListConsultations returns one page of the log, newest first, and the total count.
func ListConsultations(db *gorm.DB, page, limit int) ([]Consultation, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := db.Model(&Consultation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := []Consultation{}
	err := db.Order("query_time DESC").Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// SaveCaseRecord inserts or replaces the snapshot for the record's case and filter.
func SaveCaseRecord(db *gorm.DB, record *CaseRecord) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "case_number"}, {Name: "active_only"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at", "deleted_at", "process_id", "office", "plaintiff", "defendant",
			"last_activity_date", "case_json", "subjects_json",
		}),
	}).Create(record).Error
}

// FindCaseRecord returns the snapshot of caseNumber, or ErrNoRecord.
func FindCaseRecord(db *gorm.DB, caseNumber string, activeOnly bool) (*CaseRecord, error) {
	var record CaseRecord
	err := db.Where("case_number = ? AND active_only = ?", caseNumber, activeOnly).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
