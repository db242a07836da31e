package postgres

import (
	"context"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// auditRepository implements the domain.AuditRepository interface using GORM.
// Events are append-only; no update or delete is exposed.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository is the constructor for auditRepository.
func NewAuditRepository(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

// Append persists one immutable compliance event.
func (repo *auditRepository) Append(ctx context.Context, event *entity.AuditEvent) error {
	eventM := fromAuditDomain(event)

	if err := repo.db.WithContext(ctx).Create(eventM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append audit event")
	}

	event.ID = eventM.ID
	event.CreatedAt = eventM.CreatedAt

	return nil
}

func fromAuditDomain(data *entity.AuditEvent) *model.AuditEventModel {
	if data == nil {
		return nil
	}

	return &model.AuditEventModel{
		ID:          data.ID,
		Kind:        string(data.Kind),
		ConsentType: string(data.ConsentType),
		SubjectID:   data.SubjectID,
		StoreID:     data.StoreID,
		Payload:     model.PayloadJSON(data.Payload),
		IP:          data.IP,
		UserAgent:   data.UserAgent,
		CreatedAt:   data.CreatedAt,
	}
}
