package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// AuditEventModel mirrors the 'audit_events' table. The table is append-only;
// the repository exposes no update or delete for it.
type AuditEventModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Kind        string     `gorm:"type:varchar(40);not null;index:idx_audit_kind"`
	ConsentType string     `gorm:"type:varchar(40)"`
	SubjectID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_subject"`
	StoreID     *uuid.UUID `gorm:"type:uuid"`
	Payload     PayloadJSON `gorm:"type:jsonb"`
	IP          string     `gorm:"type:varchar(45)"`
	UserAgent   string     `gorm:"type:varchar(512)"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (AuditEventModel) TableName() string {
	return "audit_events"
}

// PayloadJSON is the jsonb snapshot attached to an audit event.
type PayloadJSON map[string]any

// Scan implements sql.Scanner.
func (p *PayloadJSON) Scan(value any) error {
	return scanJSONB(value, p)
}

// Value implements driver.Valuer.
func (p PayloadJSON) Value() (driver.Value, error) {
	return valueJSONB(p)
}
