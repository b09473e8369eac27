package repository

import (
	"context"

	"fintrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IncomeRepository interface {
	Create(ctx context.Context, income *model.Income) error
	FindBySourceInvoice(ctx context.Context, invoiceID uuid.UUID) (*model.Income, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Income, int64, error)
}

type incomeRepository struct {
	db *gorm.DB
}

func NewIncomeRepository(db *gorm.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Create(ctx context.Context, income *model.Income) error {
	return GetDB(ctx, r.db).Create(income).Error
}

func (r *incomeRepository) FindBySourceInvoice(ctx context.Context, invoiceID uuid.UUID) (*model.Income, error) {
	var income model.Income
	if err := GetDB(ctx, r.db).First(&income, "source_invoice = ?", invoiceID).Error; err != nil {
		return nil, err
	}
	return &income, nil
}

func (r *incomeRepository) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Income, int64, error) {
	var incomes []model.Income
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Income{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("date desc").Offset(offset).Limit(limit).Find(&incomes).Error; err != nil {
		return nil, 0, err
	}

	return incomes, total, nil
}
