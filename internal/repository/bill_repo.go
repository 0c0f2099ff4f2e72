package repository

import (
	"context"

	"canebill/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillRepository defines data access for bills in both directions
type BillRepository interface {
	Create(ctx context.Context, bill *model.Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPartyID(ctx context.Context, partyID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, direction string, id uuid.UUID) (*model.Bill, error)
	ListByPartyID(ctx context.Context, partyID uuid.UUID) ([]model.Bill, error)
	ListRefsByPartyIDs(ctx context.Context, partyIDs []uuid.UUID) ([]model.Bill, error)
	List(ctx context.Context, direction string, page, limit int) ([]model.Bill, int64, error)
	CountByPartyID(ctx context.Context, partyID uuid.UUID) (int64, error)
}

type billRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) error {
	return GetDB(ctx, r.db).Create(bill).Error
}

func (r *billRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Bill{}).Error
}

// DeleteByPartyID removes every bill owned by the party and reports how many
// went away. Runs inside the cascade-delete transaction.
func (r *billRepository) DeleteByPartyID(ctx context.Context, partyID uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Where("party_id = ?", partyID).Delete(&model.Bill{})
	return res.RowsAffected, res.Error
}

func (r *billRepository) FindByID(ctx context.Context, direction string, id uuid.UUID) (*model.Bill, error) {
	var bill model.Bill
	if err := GetDB(ctx, r.db).First(&bill, "id = ? AND direction = ?", id, direction).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

// ListByPartyID is the derived bill history: oldest first, matching the order
// the hand-maintained list would have grown in.
func (r *billRepository) ListByPartyID(ctx context.Context, partyID uuid.UUID) ([]model.Bill, error) {
	var bills []model.Bill
	if err := GetDB(ctx, r.db).Where("party_id = ?", partyID).Order("created_at ASC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// ListRefsByPartyIDs fetches only id/party_id pairs for assembling the
// bill-history lists of a whole page of parties in one query
func (r *billRepository) ListRefsByPartyIDs(ctx context.Context, partyIDs []uuid.UUID) ([]model.Bill, error) {
	var refs []model.Bill
	err := GetDB(ctx, r.db).
		Select("id", "party_id", "created_at").
		Where("party_id IN ?", partyIDs).
		Order("created_at ASC").
		Find(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *billRepository) List(ctx context.Context, direction string, page, limit int) ([]model.Bill, int64, error) {
	var bills []model.Bill
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Bill{}).Where("direction = ?", direction).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("direction = ?", direction).Order("created_at DESC").Offset(offset).Limit(limit).Find(&bills).Error; err != nil {
		return nil, 0, err
	}

	return bills, total, nil
}

func (r *billRepository) CountByPartyID(ctx context.Context, partyID uuid.UUID) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Bill{}).Where("party_id = ?", partyID).Count(&total).Error
	return total, err
}
