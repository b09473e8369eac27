package repository

import (
	"context"

	"fintrack/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	LogExport(ctx context.Context, entry *model.ReportLog) error
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) LogExport(ctx context.Context, entry *model.ReportLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}
