package repository

import (
	"context"

	"fintrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Goal, error)
	List(ctx context.Context, groupID *uuid.UUID) ([]model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateContribution(ctx context.Context, c *model.Contribution) error
	FindContribution(ctx context.Context, id uuid.UUID) (*model.Contribution, error)
	ListContributions(ctx context.Context, filter ContributionFilter) ([]model.Contribution, error)
	DeleteContribution(ctx context.Context, id uuid.UUID) error
	SumContributions(ctx context.Context, goalID uuid.UUID) (decimal.Decimal, error)
}

// ContributionFilter narrows ListContributions; nil fields mean "no filter".
type ContributionFilter struct {
	GoalID        *uuid.UUID
	GroupID       *uuid.UUID
	ContributorID *uuid.UUID
}

type goalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	return GetDB(ctx, r.db).Create(goal).Error
}

func (r *goalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Goal, error) {
	var goal model.Goal
	if err := GetDB(ctx, r.db).First(&goal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) List(ctx context.Context, groupID *uuid.UUID) ([]model.Goal, error) {
	var goals []model.Goal
	query := GetDB(ctx, r.db).Order("deadline asc")
	if groupID != nil {
		query = query.Where("group_id = ?", *groupID)
	}
	if err := query.Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	return GetDB(ctx, r.db).Save(goal).Error
}

func (r *goalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Goal{}, "id = ?", id).Error
}

func (r *goalRepository) CreateContribution(ctx context.Context, c *model.Contribution) error {
	return GetDB(ctx, r.db).Create(c).Error
}

func (r *goalRepository) FindContribution(ctx context.Context, id uuid.UUID) (*model.Contribution, error) {
	var c model.Contribution
	if err := GetDB(ctx, r.db).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *goalRepository) ListContributions(ctx context.Context, filter ContributionFilter) ([]model.Contribution, error) {
	var contributions []model.Contribution
	query := GetDB(ctx, r.db).Order("date desc")
	if filter.GoalID != nil {
		query = query.Where("goal_id = ?", *filter.GoalID)
	}
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.ContributorID != nil {
		query = query.Where("contributor_id = ?", *filter.ContributorID)
	}
	if err := query.Find(&contributions).Error; err != nil {
		return nil, err
	}
	return contributions, nil
}

func (r *goalRepository) DeleteContribution(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Contribution{}, "id = ?", id).Error
}

func (r *goalRepository) SumContributions(ctx context.Context, goalID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := GetDB(ctx, r.db).Model(&model.Contribution{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("goal_id = ?", goalID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
