package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"canebill/internal/model"
	"canebill/internal/repository"
	ws "canebill/internal/websocket"
	"canebill/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// bindingMaterialShare is the 10% tare-for-binding convention applied to
// farmer bills when no explicit binding weight is supplied
var bindingMaterialShare = decimal.NewFromFloat(0.10)

// --- DTOs ---

// CreateBillRequest carries the raw scale readings. BindingMaterial is a
// pointer because absence matters: farmer bills auto-derive it, seller bills
// require it.
type CreateBillRequest struct {
	PhoneNumber      string           `json:"phone_number"`
	DriverName       string           `json:"driver_name"`
	VehicleType      string           `json:"vehicle_type"`
	Cutter           string           `json:"cutter"`
	SugarcaneQuality string           `json:"sugarcane_quality"`
	PaymentType      string           `json:"payment_type"`

	FilledVehicleWeight decimal.Decimal  `json:"filled_vehicle_weight"`
	EmptyVehicleWeight  decimal.Decimal  `json:"empty_vehicle_weight"`
	BindingMaterial     *decimal.Decimal `json:"binding_material"`
	SugarcaneRate       decimal.Decimal  `json:"sugarcane_rate"`

	// given_money on farmer bills, taken_money on seller bills; both names
	// are accepted so each UI workflow keeps its field
	GivenMoney *decimal.Decimal `json:"given_money"`
	TakenMoney *decimal.Decimal `json:"taken_money"`
}

type BillResponse struct {
	ID          uuid.UUID `json:"id"`
	PartyID     uuid.UUID `json:"party_id"`
	PartyName   string    `json:"party_name"`
	PartyNumber string    `json:"party_number"`

	DriverName       string `json:"driver_name"`
	VehicleType      string `json:"vehicle_type"`
	Cutter           string `json:"cutter"`
	SugarcaneQuality string `json:"sugarcane_quality"`
	PaymentType      string `json:"payment_type"`

	FilledVehicleWeight string `json:"filled_vehicle_weight"`
	EmptyVehicleWeight  string `json:"empty_vehicle_weight"`
	BindingMaterial     string `json:"binding_material"`
	OnlySugarcaneWeight string `json:"only_sugarcane_weight"`
	SugarcaneRate       string `json:"sugarcane_rate"`

	TotalBill      string  `json:"totalBill"`
	GivenMoney     *string `json:"given_money,omitempty"` // farmer direction
	TakenMoney     *string `json:"taken_money,omitempty"` // seller direction
	RemainingMoney string  `json:"remaining_money"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Interface ---

// BillService is the ledger for both money-flow directions. The direction
// argument is model.DirectionFarmer or model.DirectionSeller; the arithmetic
// is identical, only the party variant and the payment field name differ.
type BillService interface {
	CreateBill(ctx context.Context, direction string, req CreateBillRequest) (BillResponse, error)
	DeleteBill(ctx context.Context, direction, id string) error
	GetBill(ctx context.Context, direction, id string) (BillResponse, error)
	ListBills(ctx context.Context, direction string, page, limit int) ([]BillResponse, int64, error)
}

type billService struct {
	billRepo  repository.BillRepository
	partyRepo repository.PartyRepository
	auditRepo repository.AuditRepository
	hub       *ws.Hub
}

func NewBillService(
	billRepo repository.BillRepository,
	partyRepo repository.PartyRepository,
	auditRepo repository.AuditRepository,
	hub *ws.Hub,
) BillService {
	return &billService{
		billRepo:  billRepo,
		partyRepo: partyRepo,
		auditRepo: auditRepo,
		hub:       hub,
	}
}

// --- Implementation ---

func (s *billService) CreateBill(ctx context.Context, direction string, req CreateBillRequest) (BillResponse, error) {
	// Bill creation for an unregistered phone number is always rejected;
	// there is no implicit party creation.
	phone := strings.TrimSpace(req.PhoneNumber)
	party, err := s.partyRepo.FindByPhone(ctx, direction, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BillResponse{}, apperror.NotFound("no %s registered with phone number %s", strings.ToLower(direction), phone)
		}
		return BillResponse{}, apperror.Internal("failed to resolve party", err)
	}

	if verr := validateBill(direction, req); verr != nil {
		return BillResponse{}, verr
	}

	payment := decimal.Zero
	if p := paymentOf(direction, req); p != nil {
		payment = *p
	}

	// Derived weights and amounts, rounded to 2 decimals for storage and
	// display consistency
	gross := req.FilledVehicleWeight.Sub(req.EmptyVehicleWeight)

	binding := decimal.Zero
	if req.BindingMaterial != nil {
		binding = *req.BindingMaterial
	} else if direction == model.DirectionFarmer {
		// 10% tare-for-binding convention; seller bills never auto-derive
		binding = gross.Mul(bindingMaterialShare)
	}
	binding = clampZero(binding.Round(2))

	net := clampZero(gross.Sub(binding).Round(2))
	total := clampZero(net.Mul(req.SugarcaneRate).Round(2))

	// Negative remaining balance is a meaningful state: the counterparty
	// overpaid. Never clamp it.
	remaining := total.Sub(payment).Round(2)

	bill := &model.Bill{
		Direction:   direction,
		PartyID:     party.ID,
		PartyName:   party.Name,
		PartyNumber: party.PhoneNumber,

		DriverName:       strings.TrimSpace(req.DriverName),
		VehicleType:      strings.TrimSpace(req.VehicleType),
		Cutter:           strings.TrimSpace(req.Cutter),
		SugarcaneQuality: strings.TrimSpace(req.SugarcaneQuality),
		PaymentType:      strings.TrimSpace(req.PaymentType),

		FilledVehicleWeight: req.FilledVehicleWeight.Round(2),
		EmptyVehicleWeight:  req.EmptyVehicleWeight.Round(2),
		BindingMaterial:     binding,
		OnlySugarcaneWeight: net,
		SugarcaneRate:       req.SugarcaneRate.Round(2),

		TotalBill:           total,
		CounterpartyPayment: payment.Round(2),
		RemainingMoney:      remaining,
	}

	// A single insert: the party's bill history is derived from party_id, so
	// there is no second write to race against or leave half-done.
	if err := s.billRepo.Create(ctx, bill); err != nil {
		return BillResponse{}, apperror.Internal("failed to create bill", err)
	}

	s.writeAudit(ctx, model.ActionCreateBill, bill.ID.String(), party.Name, req)
	s.publishEvent("bill.created", bill)

	return toBillResponse(*bill), nil
}

func (s *billService) DeleteBill(ctx context.Context, direction, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid bill id")
	}

	bill, err := s.billRepo.FindByID(ctx, direction, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("bill not found")
		}
		return apperror.Internal("failed to fetch bill", err)
	}

	if err := s.billRepo.Delete(ctx, bill.ID); err != nil {
		return apperror.Internal("failed to delete bill", err)
	}

	s.writeAudit(ctx, model.ActionDeleteBill, bill.ID.String(), bill.PartyName, map[string]string{
		"party_id": bill.PartyID.String(),
	})
	s.publishEvent("bill.deleted", bill)

	return nil
}

func (s *billService) GetBill(ctx context.Context, direction, id string) (BillResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return BillResponse{}, apperror.Validation("invalid bill id")
	}

	bill, err := s.billRepo.FindByID(ctx, direction, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BillResponse{}, apperror.NotFound("bill not found")
		}
		return BillResponse{}, apperror.Internal("failed to fetch bill", err)
	}

	return toBillResponse(*bill), nil
}

func (s *billService) ListBills(ctx context.Context, direction string, page, limit int) ([]BillResponse, int64, error) {
	bills, total, err := s.billRepo.List(ctx, direction, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("failed to fetch bills", err)
	}

	res := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		res = append(res, toBillResponse(b))
	}
	return res, total, nil
}

// --- Validation ---

// validateBill aggregates every violated rule into one report so the operator
// can fix the whole form in a single round trip
func validateBill(direction string, req CreateBillRequest) error {
	var violations []string

	if strings.TrimSpace(req.DriverName) == "" {
		violations = append(violations, "driver_name is required")
	}
	if strings.TrimSpace(req.VehicleType) == "" {
		violations = append(violations, "vehicle_type is required")
	}
	if strings.TrimSpace(req.Cutter) == "" {
		violations = append(violations, "cutter is required")
	}
	if strings.TrimSpace(req.SugarcaneQuality) == "" {
		violations = append(violations, "sugarcane_quality is required")
	}
	if strings.TrimSpace(req.PaymentType) == "" {
		violations = append(violations, "payment_type is required")
	}

	if !req.FilledVehicleWeight.IsPositive() {
		violations = append(violations, "filled_vehicle_weight must be greater than 0")
	}
	if req.EmptyVehicleWeight.IsNegative() {
		violations = append(violations, "empty_vehicle_weight must not be negative")
	}
	if req.FilledVehicleWeight.IsPositive() && !req.EmptyVehicleWeight.IsNegative() &&
		req.FilledVehicleWeight.LessThanOrEqual(req.EmptyVehicleWeight) {
		violations = append(violations, "filled_vehicle_weight must exceed empty_vehicle_weight")
	}
	if req.SugarcaneRate.IsNegative() {
		violations = append(violations, "sugarcane_rate must not be negative")
	}
	if req.BindingMaterial != nil && req.BindingMaterial.IsNegative() {
		violations = append(violations, "binding_material must not be negative")
	}
	if direction == model.DirectionSeller && req.BindingMaterial == nil {
		violations = append(violations, "binding_material is required")
	}

	if p := paymentOf(direction, req); p == nil {
		if direction == model.DirectionFarmer {
			violations = append(violations, "given_money is required")
		} else {
			violations = append(violations, "taken_money is required")
		}
	} else if p.IsNegative() {
		if direction == model.DirectionFarmer {
			violations = append(violations, "given_money must not be negative")
		} else {
			violations = append(violations, "taken_money must not be negative")
		}
	}

	if len(violations) > 0 {
		return apperror.Validation(violations...)
	}
	return nil
}

// paymentOf picks the direction's payment field, tolerating either name
func paymentOf(direction string, req CreateBillRequest) *decimal.Decimal {
	if direction == model.DirectionFarmer {
		if req.GivenMoney != nil {
			return req.GivenMoney
		}
		return nil
	}
	if req.TakenMoney != nil {
		return req.TakenMoney
	}
	return nil
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero.Round(2)
	}
	return d
}

// --- Events ---

type billEvent struct {
	Event string      `json:"event"`
	Bill  interface{} `json:"bill"`
}

func (s *billService) publishEvent(event string, bill *model.Bill) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(billEvent{Event: event, Bill: toBillResponse(*bill)})
	if err != nil {
		return
	}
	s.hub.Publish(payload)
}

// --- Response mappers ---

func toBillResponse(b model.Bill) BillResponse {
	res := BillResponse{
		ID:          b.ID,
		PartyID:     b.PartyID,
		PartyName:   b.PartyName,
		PartyNumber: b.PartyNumber,

		DriverName:       b.DriverName,
		VehicleType:      b.VehicleType,
		Cutter:           b.Cutter,
		SugarcaneQuality: b.SugarcaneQuality,
		PaymentType:      b.PaymentType,

		FilledVehicleWeight: b.FilledVehicleWeight.StringFixed(2),
		EmptyVehicleWeight:  b.EmptyVehicleWeight.StringFixed(2),
		BindingMaterial:     b.BindingMaterial.StringFixed(2),
		OnlySugarcaneWeight: b.OnlySugarcaneWeight.StringFixed(2),
		SugarcaneRate:       b.SugarcaneRate.StringFixed(2),

		TotalBill:      b.TotalBill.StringFixed(2),
		RemainingMoney: b.RemainingMoney.StringFixed(2),

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	payment := b.CounterpartyPayment.StringFixed(2)
	if b.Direction == model.DirectionSeller {
		res.TakenMoney = &payment
	} else {
		res.GivenMoney = &payment
	}
	return res
}
