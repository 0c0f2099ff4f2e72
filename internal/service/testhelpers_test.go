package service

import (
	"context"
	"sort"
	"time"

	"canebill/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- In-memory fakes for the repository interfaces ---

type fakePartyRepo struct {
	parties map[uuid.UUID]*model.Party
	seq     int
}

func newFakePartyRepo() *fakePartyRepo {
	return &fakePartyRepo{parties: map[uuid.UUID]*model.Party{}}
}

func (f *fakePartyRepo) Create(_ context.Context, party *model.Party) error {
	party.ID = uuid.New()
	f.seq++
	party.CreatedAt = time.Unix(int64(f.seq), 0)
	party.UpdatedAt = party.CreatedAt
	cp := *party
	f.parties[party.ID] = &cp
	return nil
}

func (f *fakePartyRepo) Update(_ context.Context, party *model.Party) error {
	cp := *party
	f.parties[party.ID] = &cp
	return nil
}

func (f *fakePartyRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.parties, id)
	return nil
}

func (f *fakePartyRepo) FindByID(_ context.Context, variant string, id uuid.UUID) (*model.Party, error) {
	p, ok := f.parties[id]
	if !ok || p.Variant != variant {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePartyRepo) FindByPhone(_ context.Context, variant, phoneNumber string) (*model.Party, error) {
	for _, p := range f.parties {
		if p.Variant == variant && p.PhoneNumber == phoneNumber {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePartyRepo) List(_ context.Context, variant string) ([]model.Party, error) {
	var out []model.Party
	for _, p := range f.parties {
		if p.Variant == variant {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeBillRepo struct {
	bills map[uuid.UUID]*model.Bill
	seq   int
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: map[uuid.UUID]*model.Bill{}}
}

func (f *fakeBillRepo) Create(_ context.Context, bill *model.Bill) error {
	bill.ID = uuid.New()
	f.seq++
	bill.CreatedAt = time.Unix(int64(f.seq), 0)
	bill.UpdatedAt = bill.CreatedAt
	cp := *bill
	f.bills[bill.ID] = &cp
	return nil
}

func (f *fakeBillRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.bills, id)
	return nil
}

func (f *fakeBillRepo) DeleteByPartyID(_ context.Context, partyID uuid.UUID) (int64, error) {
	var n int64
	for id, b := range f.bills {
		if b.PartyID == partyID {
			delete(f.bills, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeBillRepo) FindByID(_ context.Context, direction string, id uuid.UUID) (*model.Bill, error) {
	b, ok := f.bills[id]
	if !ok || b.Direction != direction {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBillRepo) ListByPartyID(_ context.Context, partyID uuid.UUID) ([]model.Bill, error) {
	var out []model.Bill
	for _, b := range f.bills {
		if b.PartyID == partyID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBillRepo) ListRefsByPartyIDs(_ context.Context, partyIDs []uuid.UUID) ([]model.Bill, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range partyIDs {
		wanted[id] = true
	}
	var out []model.Bill
	for _, b := range f.bills {
		if wanted[b.PartyID] {
			out = append(out, model.Bill{ID: b.ID, PartyID: b.PartyID, CreatedAt: b.CreatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBillRepo) List(_ context.Context, direction string, page, limit int) ([]model.Bill, int64, error) {
	var all []model.Bill
	for _, b := range f.bills {
		if b.Direction == direction {
			all = append(all, *b)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	offset := (page - 1) * limit
	if offset >= len(all) {
		return []model.Bill{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeBillRepo) CountByPartyID(_ context.Context, partyID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range f.bills {
		if b.PartyID == partyID {
			n++
		}
	}
	return n, nil
}

type fakeAdminRepo struct {
	admins map[string]*model.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*model.Admin{}}
}

func (f *fakeAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	admin.ID = uuid.New()
	cp := *admin
	f.admins[admin.Username] = &cp
	return nil
}

func (f *fakeAdminRepo) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	a, ok := f.admins[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, e := range f.entries {
		if action == "" || e.Action == action {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

// fakeTxManager runs the callback directly; the fakes have no transactions
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- Shared fixture ---

type testEnv struct {
	partyRepo *fakePartyRepo
	billRepo  *fakeBillRepo
	auditRepo *fakeAuditRepo
	parties   PartyService
	bills     BillService
}

func newTestEnv() *testEnv {
	partyRepo := newFakePartyRepo()
	billRepo := newFakeBillRepo()
	auditRepo := &fakeAuditRepo{}
	return &testEnv{
		partyRepo: partyRepo,
		billRepo:  billRepo,
		auditRepo: auditRepo,
		parties:   NewPartyService(partyRepo, billRepo, auditRepo, fakeTxManager{}),
		bills:     NewBillService(billRepo, partyRepo, auditRepo, nil),
	}
}
