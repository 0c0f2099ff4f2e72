package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"canebill/internal/model"
	"canebill/internal/repository"

	"github.com/google/uuid"
)

// adminIDFromContext reads the authenticated admin id placed in the context by
// the auth middleware; nil on open endpoints
type adminIDKey struct{}

// WithAdminID stores the acting admin's id for audit attribution
func WithAdminID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, adminIDKey{}, id)
}

func adminIDFromContext(ctx context.Context) *uuid.UUID {
	raw, ok := ctx.Value(adminIDKey{}).(string)
	if !ok {
		return nil
	}
	if parsed, err := uuid.Parse(raw); err == nil {
		return &parsed
	}
	return nil
}

// writeAuditEntry records a mutation. Audit failures are logged, never
// propagated: the mutation itself already succeeded.
func writeAuditEntry(ctx context.Context, repo repository.AuditRepository, action, entityID, entityName string, payload interface{}) {
	details, _ := json.Marshal(payload)
	entry := &model.AuditLog{
		AdminID:    adminIDFromContext(ctx),
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(details),
		CreatedAt:  time.Now(),
	}
	if err := repo.Create(ctx, entry); err != nil {
		log.Printf("audit write failed (%s %s): %v", action, entityID, err)
	}
}

func (s *partyService) writeAudit(ctx context.Context, action, entityID, entityName string, payload interface{}) {
	writeAuditEntry(ctx, s.auditRepo, action, entityID, entityName, payload)
}

func (s *billService) writeAudit(ctx context.Context, action, entityID, entityName string, payload interface{}) {
	writeAuditEntry(ctx, s.auditRepo, action, entityID, entityName, payload)
}
