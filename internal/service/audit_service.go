package service

import (
	"context"
	"time"

	"canebill/internal/repository"
	"canebill/pkg/apperror"

	"github.com/google/uuid"
)

type AuditEntryResponse struct {
	ID         uuid.UUID  `json:"id"`
	AdminID    *uuid.UUID `json:"admin_id"`
	AdminName  string     `json:"admin_name,omitempty"`
	Action     string     `json:"action"`
	EntityID   string     `json:"entity_id"`
	EntityName string     `json:"entity_name,omitempty"`
	Details    string     `json:"details"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AuditService exposes the mutation trail to the admin panel
type AuditService interface {
	ListEntries(ctx context.Context, action string, page, limit int) ([]AuditEntryResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListEntries(ctx context.Context, action string, page, limit int) ([]AuditEntryResponse, int64, error) {
	entries, total, err := s.auditRepo.List(ctx, action, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("failed to fetch audit log", err)
	}

	res := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		entry := AuditEntryResponse{
			ID:         e.ID,
			AdminID:    e.AdminID,
			Action:     e.Action,
			EntityID:   e.EntityID,
			EntityName: e.EntityName,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt,
		}
		if e.Admin != nil {
			entry.AdminName = e.Admin.Username
		}
		res = append(res, entry)
	}
	return res, total, nil
}
