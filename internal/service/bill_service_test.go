package service

import (
	"context"
	"errors"
	"testing"

	"canebill/internal/model"
	"canebill/pkg/apperror"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func registerTestParty(t *testing.T, env *testEnv, variant, name, phone string) {
	t.Helper()
	_, err := env.parties.Register(context.Background(), variant, RegisterPartyRequest{
		Name:        name,
		PhoneNumber: phone,
	})
	if err != nil {
		t.Fatalf("register party: %v", err)
	}
}

func farmerBillRequest() CreateBillRequest {
	return CreateBillRequest{
		PhoneNumber:         "9876543210",
		DriverName:          "Ramu",
		VehicleType:         "tractor",
		Cutter:              "Team A",
		SugarcaneQuality:    "good",
		PaymentType:         "cash",
		FilledVehicleWeight: dec("1000"),
		EmptyVehicleWeight:  dec("400"),
		SugarcaneRate:       dec("3"),
		GivenMoney:          decPtr("1000"),
	}
}

func TestCreateBillFarmerAutoBinding(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantFarmer, "Ramesh", "9876543210")

	bill, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, farmerBillRequest())
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	// gross 600, binding auto 10% = 60, net 540, total 540*3 = 1620
	if bill.BindingMaterial != "60.00" {
		t.Errorf("binding = %s, want 60.00", bill.BindingMaterial)
	}
	if bill.OnlySugarcaneWeight != "540.00" {
		t.Errorf("net weight = %s, want 540.00", bill.OnlySugarcaneWeight)
	}
	if bill.TotalBill != "1620.00" {
		t.Errorf("total = %s, want 1620.00", bill.TotalBill)
	}
	if bill.RemainingMoney != "620.00" {
		t.Errorf("remaining = %s, want 620.00", bill.RemainingMoney)
	}
	if bill.GivenMoney == nil || *bill.GivenMoney != "1000.00" {
		t.Errorf("given_money = %v, want 1000.00", bill.GivenMoney)
	}
	if bill.TakenMoney != nil {
		t.Errorf("taken_money should be absent on a farmer bill, got %v", *bill.TakenMoney)
	}
	if bill.PartyName != "Ramesh" || bill.PartyNumber != "9876543210" {
		t.Errorf("party snapshot = %s / %s", bill.PartyName, bill.PartyNumber)
	}
}

func TestCreateBillFarmerExplicitBindingWins(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantFarmer, "Ramesh", "9876543210")

	req := farmerBillRequest()
	req.BindingMaterial = decPtr("25")

	bill, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, req)
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	// explicit binding suppresses the 10% derivation: net 575, total 1725
	if bill.BindingMaterial != "25.00" {
		t.Errorf("binding = %s, want 25.00", bill.BindingMaterial)
	}
	if bill.TotalBill != "1725.00" {
		t.Errorf("total = %s, want 1725.00", bill.TotalBill)
	}
}

func TestCreateBillSeller(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantSeller, "Suresh Traders", "9000000001")

	bill, err := env.bills.CreateBill(context.Background(), model.DirectionSeller, CreateBillRequest{
		PhoneNumber:         "9000000001",
		DriverName:          "Mohan",
		VehicleType:         "truck",
		Cutter:              "Team B",
		SugarcaneQuality:    "medium",
		PaymentType:         "upi",
		FilledVehicleWeight: dec("800"),
		EmptyVehicleWeight:  dec("300"),
		BindingMaterial:     decPtr("50"),
		SugarcaneRate:       dec("2.5"),
		TakenMoney:          decPtr("900"),
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	// gross 500, net 450, total 1125, remaining 225
	if bill.TotalBill != "1125.00" {
		t.Errorf("total = %s, want 1125.00", bill.TotalBill)
	}
	if bill.RemainingMoney != "225.00" {
		t.Errorf("remaining = %s, want 225.00", bill.RemainingMoney)
	}
	if bill.TakenMoney == nil || *bill.TakenMoney != "900.00" {
		t.Errorf("taken_money = %v, want 900.00", bill.TakenMoney)
	}
	if bill.GivenMoney != nil {
		t.Errorf("given_money should be absent on a seller bill, got %v", *bill.GivenMoney)
	}
}

func TestCreateBillOverpaymentKeepsNegativeRemaining(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantFarmer, "Ramesh", "9876543210")

	req := farmerBillRequest()
	req.GivenMoney = decPtr("2120")

	bill, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, req)
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if bill.RemainingMoney != "-500.00" {
		t.Errorf("remaining = %s, want -500.00 (overpayment is not clamped)", bill.RemainingMoney)
	}
}

func TestCreateBillUnknownPhone(t *testing.T) {
	env := newTestEnv()

	_, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, farmerBillRequest())
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not-found for unregistered phone, got %v", err)
	}
}

func TestCreateBillPhoneScopedToDirection(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantSeller, "Suresh Traders", "9876543210")

	// The number exists, but only as a seller; a farmer bill must not bind to it
	_, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, farmerBillRequest())
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not-found for wrong-variant phone, got %v", err)
	}
}

func TestCreateBillValidationAggregatesViolations(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantFarmer, "Ramesh", "9876543210")

	req := farmerBillRequest()
	req.DriverName = ""
	req.FilledVehicleWeight = dec("0")
	req.GivenMoney = nil

	_, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, req)
	var verr *apperror.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Violations) != 3 {
		t.Errorf("violations = %d (%v), want 3", len(verr.Violations), verr.Violations)
	}
}

func TestCreateBillSellerRequiresExplicitBinding(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantSeller, "Suresh Traders", "9000000001")

	_, err := env.bills.CreateBill(context.Background(), model.DirectionSeller, CreateBillRequest{
		PhoneNumber:         "9000000001",
		DriverName:          "Mohan",
		VehicleType:         "truck",
		Cutter:              "Team B",
		SugarcaneQuality:    "medium",
		PaymentType:         "upi",
		FilledVehicleWeight: dec("800"),
		EmptyVehicleWeight:  dec("300"),
		SugarcaneRate:       dec("2.5"),
		TakenMoney:          decPtr("900"),
	})
	var verr *apperror.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	found := false
	for _, v := range verr.Violations {
		if v == "binding_material is required" {
			found = true
		}
	}
	if !found {
		t.Errorf("violations %v should name the missing binding_material", verr.Violations)
	}
}

func TestCreateBillFilledMustExceedEmpty(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantFarmer, "Ramesh", "9876543210")

	req := farmerBillRequest()
	req.FilledVehicleWeight = dec("400")
	req.EmptyVehicleWeight = dec("400")

	_, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, req)
	var verr *apperror.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBillSnapshotSurvivesPartyRename(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantFarmer, "Ramesh", "9876543210")

	bill, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, farmerBillRequest())
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	parties, err := env.parties.List(context.Background(), model.VariantFarmer)
	if err != nil || len(parties) != 1 {
		t.Fatalf("list parties: %v (%d)", err, len(parties))
	}
	newName := "Ramesh Kumar"
	if _, err := env.parties.Update(context.Background(), model.VariantFarmer, parties[0].ID.String(), UpdatePartyRequest{Name: &newName}); err != nil {
		t.Fatalf("update party: %v", err)
	}

	got, err := env.bills.GetBill(context.Background(), model.DirectionFarmer, bill.ID.String())
	if err != nil {
		t.Fatalf("get bill: %v", err)
	}
	if got.PartyName != "Ramesh" {
		t.Errorf("bill party name = %s, want the creation-time snapshot Ramesh", got.PartyName)
	}
}

func TestDeleteBill(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantFarmer, "Ramesh", "9876543210")

	bill, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, farmerBillRequest())
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if err := env.bills.DeleteBill(context.Background(), model.DirectionFarmer, bill.ID.String()); err != nil {
		t.Fatalf("delete bill: %v", err)
	}

	if _, err := env.bills.GetBill(context.Background(), model.DirectionFarmer, bill.ID.String()); !apperror.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}

	if err := env.bills.DeleteBill(context.Background(), model.DirectionFarmer, bill.ID.String()); !apperror.IsNotFound(err) {
		t.Errorf("second delete should be not-found, got %v", err)
	}
}

func TestGetBillWrongDirection(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantFarmer, "Ramesh", "9876543210")

	bill, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, farmerBillRequest())
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if _, err := env.bills.GetBill(context.Background(), model.DirectionSeller, bill.ID.String()); !apperror.IsNotFound(err) {
		t.Errorf("a farmer bill must not resolve through the seller ledger, got %v", err)
	}
}

func TestListBillsEmpty(t *testing.T) {
	env := newTestEnv()

	bills, total, err := env.bills.ListBills(context.Background(), model.DirectionFarmer, 1, 20)
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	if total != 0 || bills == nil || len(bills) != 0 {
		t.Errorf("empty ledger should list as an empty page, got total=%d bills=%v", total, bills)
	}
}

func TestCreateBillWritesAudit(t *testing.T) {
	env := newTestEnv()
	registerTestParty(t, env, model.VariantFarmer, "Ramesh", "9876543210")

	if _, err := env.bills.CreateBill(context.Background(), model.DirectionFarmer, farmerBillRequest()); err != nil {
		t.Fatalf("create bill: %v", err)
	}

	last := env.auditRepo.entries[len(env.auditRepo.entries)-1]
	if last.Action != model.ActionCreateBill {
		t.Errorf("audit action = %s, want %s", last.Action, model.ActionCreateBill)
	}
}
