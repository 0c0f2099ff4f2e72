package repository

import (
	"context"

	"canebill/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartyRepository defines data access for farmer and seller records
type PartyRepository interface {
	Create(ctx context.Context, party *model.Party) error
	Update(ctx context.Context, party *model.Party) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, variant string, id uuid.UUID) (*model.Party, error)
	FindByPhone(ctx context.Context, variant, phoneNumber string) (*model.Party, error)
	List(ctx context.Context, variant string) ([]model.Party, error)
}

type partyRepository struct {
	db *gorm.DB
}

func NewPartyRepository(db *gorm.DB) PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) Create(ctx context.Context, party *model.Party) error {
	return GetDB(ctx, r.db).Create(party).Error
}

func (r *partyRepository) Update(ctx context.Context, party *model.Party) error {
	return GetDB(ctx, r.db).Save(party).Error
}

func (r *partyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Party{}).Error
}

func (r *partyRepository) FindByID(ctx context.Context, variant string, id uuid.UUID) (*model.Party, error) {
	var party model.Party
	if err := GetDB(ctx, r.db).First(&party, "id = ? AND variant = ?", id, variant).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) FindByPhone(ctx context.Context, variant, phoneNumber string) (*model.Party, error) {
	var party model.Party
	if err := GetDB(ctx, r.db).First(&party, "variant = ? AND phone_number = ?", variant, phoneNumber).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) List(ctx context.Context, variant string) ([]model.Party, error) {
	var parties []model.Party
	if err := GetDB(ctx, r.db).Where("variant = ?", variant).Order("created_at DESC").Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}
