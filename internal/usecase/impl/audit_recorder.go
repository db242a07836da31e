// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/repository"

	"github.com/google/uuid"
)

// auditRecorder appends compliance events after the provisioning transaction
// has committed. Appends are best effort: a failed write never unwinds the
// registration it describes, but it is always logged at error level so the
// gap can be reconciled.
type auditRecorder struct {
	auditRepo repository.AuditRepository
	logger    *slog.Logger
}

func newAuditRecorder(auditRepo repository.AuditRepository, logger *slog.Logger) *auditRecorder {
	return &auditRecorder{auditRepo: auditRepo, logger: logger}
}

func (rec *auditRecorder) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, rec.logger)
}

func (rec *auditRecorder) append(ctx context.Context, event *entity.AuditEvent) {
	if err := rec.auditRepo.Append(ctx, event); err != nil {
		rec.log(ctx).Error("Failed to append audit event",
			slog.String("kind", string(event.Kind)),
			slog.Any("subjectID", event.SubjectID),
			slog.Any("error", err))
	}
}

// RecordRegistration records the overall creation of a principal.
func (rec *auditRecorder) RecordRegistration(ctx context.Context, user *entity.User, prov entity.Provenance) {
	rec.append(ctx, &entity.AuditEvent{
		Kind:      entity.AuditRegistration,
		SubjectID: user.ID,
		Payload: map[string]any{
			"email":  user.Email,
			"role":   user.Role.String(),
			"origin": user.Origin.String(),
		},
		IP:        prov.IP,
		UserAgent: prov.UserAgent,
	})
}

// RecordStoreRegistration records the creation of a store.
func (rec *auditRecorder) RecordStoreRegistration(ctx context.Context, ownerID uuid.UUID, store *entity.Store, prov entity.Provenance) {
	storeID := store.ID
	rec.append(ctx, &entity.AuditEvent{
		Kind:      entity.AuditStoreRegistration,
		SubjectID: ownerID,
		StoreID:   &storeID,
		Payload: map[string]any{
			"storeName": store.Name,
			"slug":      store.Slug,
		},
		IP:        prov.IP,
		UserAgent: prov.UserAgent,
	})
}

// RecordConsents records one event per consent the principal accepted.
func (rec *auditRecorder) RecordConsents(ctx context.Context, user *entity.User, prov entity.Provenance) {
	for _, consent := range user.Consents.AcceptedTypes() {
		rec.append(ctx, &entity.AuditEvent{
			Kind:        entity.AuditConsentAccepted,
			ConsentType: consent,
			SubjectID:   user.ID,
			IP:          prov.IP,
			UserAgent:   prov.UserAgent,
		})
	}
}

// RecordLogin records a successful credential login.
func (rec *auditRecorder) RecordLogin(ctx context.Context, user *entity.User, prov entity.Provenance) {
	rec.append(ctx, &entity.AuditEvent{
		Kind:      entity.AuditLogin,
		SubjectID: user.ID,
		IP:        prov.IP,
		UserAgent: prov.UserAgent,
	})
}

// RecordOnboardingCompleted records a deferred onboarding completion.
func (rec *auditRecorder) RecordOnboardingCompleted(ctx context.Context, user *entity.User, store *entity.Store, prov entity.Provenance) {
	storeID := store.ID
	rec.append(ctx, &entity.AuditEvent{
		Kind:      entity.AuditOnboardingCompleted,
		SubjectID: user.ID,
		StoreID:   &storeID,
		Payload: map[string]any{
			"slug": store.Slug,
		},
		IP:        prov.IP,
		UserAgent: prov.UserAgent,
	})
}
