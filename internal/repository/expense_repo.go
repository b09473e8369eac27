package repository

import (
	"context"

	"fintrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.GroupExpense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.GroupExpense, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID, page, limit int) ([]model.GroupExpense, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.GroupExpense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.GroupExpense, error) {
	var expense model.GroupExpense
	if err := GetDB(ctx, r.db).Preload("Shares").First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) ListByGroup(ctx context.Context, groupID uuid.UUID, page, limit int) ([]model.GroupExpense, int64, error) {
	var expenses []model.GroupExpense
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.GroupExpense{}).Where("group_id = ?", groupID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := db.Preload("Shares").
		Where("group_id = ?", groupID).
		Order("date desc").Offset(offset).Limit(limit).
		Find(&expenses).Error
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Select("Shares").Delete(&model.GroupExpense{ID: id}).Error
}
