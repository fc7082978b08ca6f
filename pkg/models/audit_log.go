package models

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// AuditStatus is the recorded outcome of an inbound gateway request.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "Success"
	AuditStatusError   AuditStatus = "Error"
)

// AuditLogEntry is one immutable record of an inbound API request and its
// resolved outcome. Entries are append-only; nothing in the gateway updates
// or deletes them after Create.
type AuditLogEntry struct {
	// ID is the auto-incremented insertion order. It is the definitive
	// ordering when two entries share a timestamp.
	ID uint `gorm:"primaryKey" json:"id"`

	// CreatedAt is the server-assigned timestamp of the request.
	CreatedAt time.Time `gorm:"index" json:"datetime"`

	// Request is the raw inbound request (url-encoded parameter set).
	Request string `gorm:"type:text;not null" json:"request"`

	// Status is the resolved outcome, Success or Error.
	Status AuditStatus `gorm:"type:varchar(25);not null" json:"status"`

	// Result is the human-readable result message.
	Result string `gorm:"type:text;not null" json:"result"`
}

// TableName specifies the table name for GORM.
func (AuditLogEntry) TableName() string {
	return "audit_log"
}

// DefaultAuditLogPageSize is the number of entries per log page.
const DefaultAuditLogPageSize = 50

// Create appends the entry to the audit log. ID and timestamp assignment are
// left to the storage engine.
func (e *AuditLogEntry) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(e,
		validation.Field(&e.Status, validation.Required, validation.In(
			AuditStatusSuccess, AuditStatusError)),
	); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	return db.Create(e).Error
}

// AuditLogPage is one page of audit log entries, newest first.
type AuditLogPage struct {
	Entries    []AuditLogEntry `json:"entries"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	IsLastPage bool            `json:"is_last_page"`
	TotalCount int64           `json:"total_count"`
}

// GetAuditLogPage retrieves one zero-indexed page of the audit log, ordered
// by timestamp descending with ID as the tie-break. A pageSize of zero or
// less falls back to DefaultAuditLogPageSize.
func GetAuditLogPage(db *gorm.DB, pageIndex, pageSize int) (*AuditLogPage, error) {
	if pageIndex < 0 {
		return nil, fmt.Errorf("page index must not be negative: %d", pageIndex)
	}
	if pageSize <= 0 {
		pageSize = DefaultAuditLogPageSize
	}

	var total int64
	if err := db.Model(&AuditLogEntry{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("error counting audit log entries: %w", err)
	}

	var entries []AuditLogEntry
	if err := db.
		Order("created_at DESC, id DESC").
		Offset(pageIndex * pageSize).
		Limit(pageSize).
		Find(&entries).
		Error; err != nil {
		return nil, fmt.Errorf("error getting audit log page: %w", err)
	}

	return &AuditLogPage{
		Entries:    entries,
		Page:       pageIndex,
		PageSize:   pageSize,
		IsLastPage: int64((pageIndex+1)*pageSize) >= total,
		TotalCount: total,
	}, nil
}
