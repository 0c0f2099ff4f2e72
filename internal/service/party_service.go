package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"canebill/internal/model"
	"canebill/internal/repository"
	"canebill/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type RegisterPartyRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

type UpdatePartyRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
}

type PartyResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	PhoneNumber string      `json:"phone_number"`
	BillHistory []uuid.UUID `json:"bill_history"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// PartyDetailResponse carries the party's display fields plus every owned
// bill fully resolved, in bill-history (creation) order
type PartyDetailResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	PhoneNumber string         `json:"phone_number"`
	Bills       []BillResponse `json:"bills"`
}

type DeletePartyResult struct {
	DeletedName      string `json:"deleted_name"`
	DeletedBillCount int64  `json:"deleted_bill_count"`
}

// --- Interface ---

// PartyService manages farmer and seller records. The variant argument is one
// of model.VariantFarmer / model.VariantSeller; both variants share one
// implementation.
type PartyService interface {
	Register(ctx context.Context, variant string, req RegisterPartyRequest) (PartyResponse, error)
	List(ctx context.Context, variant string) ([]PartyResponse, error)
	GetByID(ctx context.Context, variant, id string) (PartyDetailResponse, error)
	Update(ctx context.Context, variant, id string, req UpdatePartyRequest) (PartyResponse, error)
	Delete(ctx context.Context, variant, id string) (DeletePartyResult, error)
}

type partyService struct {
	partyRepo repository.PartyRepository
	billRepo  repository.BillRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewPartyService(
	partyRepo repository.PartyRepository,
	billRepo repository.BillRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PartyService {
	return &partyService{
		partyRepo: partyRepo,
		billRepo:  billRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

// --- CRUD ---

func (s *partyService) Register(ctx context.Context, variant string, req RegisterPartyRequest) (PartyResponse, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.PhoneNumber)

	var violations []string
	if name == "" {
		violations = append(violations, "name is required")
	}
	if phone == "" {
		violations = append(violations, "phone_number is required")
	}
	if len(violations) > 0 {
		return PartyResponse{}, apperror.Validation(violations...)
	}

	// Uniqueness is per variant: a farmer and a seller may share a number
	if _, err := s.partyRepo.FindByPhone(ctx, variant, phone); err == nil {
		return PartyResponse{}, apperror.Conflict("a %s with phone number %s already exists", strings.ToLower(variant), phone)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PartyResponse{}, apperror.Internal("failed to check phone number", err)
	}

	party := &model.Party{
		Variant:     variant,
		Name:        name,
		PhoneNumber: phone,
	}

	if err := s.partyRepo.Create(ctx, party); err != nil {
		return PartyResponse{}, apperror.Internal("failed to register party", err)
	}

	s.writeAudit(ctx, model.ActionRegisterParty, party.ID.String(), party.Name, req)

	return toPartyResponse(*party, nil), nil
}

func (s *partyService) List(ctx context.Context, variant string) ([]PartyResponse, error) {
	parties, err := s.partyRepo.List(ctx, variant)
	if err != nil {
		return nil, apperror.Internal("failed to fetch parties", err)
	}

	// One refs query for the whole page instead of a lookup per party
	ids := make([]uuid.UUID, 0, len(parties))
	for _, p := range parties {
		ids = append(ids, p.ID)
	}
	history := map[uuid.UUID][]uuid.UUID{}
	if len(ids) > 0 {
		refs, err := s.billRepo.ListRefsByPartyIDs(ctx, ids)
		if err != nil {
			return nil, apperror.Internal("failed to resolve bill history", err)
		}
		for _, ref := range refs {
			history[ref.PartyID] = append(history[ref.PartyID], ref.ID)
		}
	}

	res := make([]PartyResponse, 0, len(parties))
	for _, p := range parties {
		res = append(res, toPartyResponse(p, history[p.ID]))
	}
	return res, nil
}

func (s *partyService) GetByID(ctx context.Context, variant, id string) (PartyDetailResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return PartyDetailResponse{}, apperror.Validation("invalid party id")
	}

	party, err := s.partyRepo.FindByID(ctx, variant, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartyDetailResponse{}, apperror.NotFound("%s not found", strings.ToLower(variant))
		}
		return PartyDetailResponse{}, apperror.Internal("failed to fetch party", err)
	}

	bills, err := s.billRepo.ListByPartyID(ctx, party.ID)
	if err != nil {
		return PartyDetailResponse{}, apperror.Internal("failed to resolve bills", err)
	}

	res := PartyDetailResponse{
		ID:          party.ID,
		Name:        party.Name,
		PhoneNumber: party.PhoneNumber,
		Bills:       make([]BillResponse, 0, len(bills)),
	}
	for _, b := range bills {
		res.Bills = append(res.Bills, toBillResponse(b))
	}
	return res, nil
}

func (s *partyService) Update(ctx context.Context, variant, id string, req UpdatePartyRequest) (PartyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return PartyResponse{}, apperror.Validation("invalid party id")
	}

	party, err := s.partyRepo.FindByID(ctx, variant, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PartyResponse{}, apperror.NotFound("%s not found", strings.ToLower(variant))
		}
		return PartyResponse{}, apperror.Internal("failed to fetch party", err)
	}

	// Partial update: each field applies independently when present and non-empty
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		party.Name = strings.TrimSpace(*req.Name)
	}
	if req.PhoneNumber != nil && strings.TrimSpace(*req.PhoneNumber) != "" {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if phone != party.PhoneNumber {
			// Same uniqueness rule as registration; the number must not move
			// onto a second party of this variant
			if _, err := s.partyRepo.FindByPhone(ctx, variant, phone); err == nil {
				return PartyResponse{}, apperror.Conflict("a %s with phone number %s already exists", strings.ToLower(variant), phone)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return PartyResponse{}, apperror.Internal("failed to check phone number", err)
			}
			party.PhoneNumber = phone
		}
	}

	if err := s.partyRepo.Update(ctx, party); err != nil {
		return PartyResponse{}, apperror.Internal("failed to update party", err)
	}

	s.writeAudit(ctx, model.ActionUpdateParty, party.ID.String(), party.Name, req)

	refs, err := s.billRepo.ListRefsByPartyIDs(ctx, []uuid.UUID{party.ID})
	if err != nil {
		return PartyResponse{}, apperror.Internal("failed to resolve bill history", err)
	}
	history := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		history = append(history, ref.ID)
	}

	return toPartyResponse(*party, history), nil
}

func (s *partyService) Delete(ctx context.Context, variant, id string) (DeletePartyResult, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return DeletePartyResult{}, apperror.Validation("invalid party id")
	}

	party, err := s.partyRepo.FindByID(ctx, variant, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeletePartyResult{}, apperror.NotFound("%s not found", strings.ToLower(variant))
		}
		return DeletePartyResult{}, apperror.Internal("failed to fetch party", err)
	}

	// The bills and the party go together or not at all
	var deleted int64
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.billRepo.DeleteByPartyID(txCtx, party.ID)
		if err != nil {
			return fmt.Errorf("failed to delete bills: %w", err)
		}
		deleted = n
		if err := s.partyRepo.Delete(txCtx, party.ID); err != nil {
			return fmt.Errorf("failed to delete party: %w", err)
		}
		return nil
	})
	if err != nil {
		return DeletePartyResult{}, apperror.Internal("failed to delete party", err)
	}

	s.writeAudit(ctx, model.ActionDeleteParty, party.ID.String(), party.Name, map[string]interface{}{
		"deleted_bill_count": deleted,
	})

	return DeletePartyResult{DeletedName: party.Name, DeletedBillCount: deleted}, nil
}

// --- Response mappers ---

func toPartyResponse(p model.Party, history []uuid.UUID) PartyResponse {
	if history == nil {
		history = []uuid.UUID{}
	}
	return PartyResponse{
		ID:          p.ID,
		Name:        p.Name,
		PhoneNumber: p.PhoneNumber,
		BillHistory: history,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
