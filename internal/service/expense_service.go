package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/finance"
	"fintrack/internal/model"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type ExpenseMemberInput struct {
	UserID string `json:"user_id" binding:"required"`
	Share  any    `json:"share"` // absent = equal split across members
}

type CreateExpenseRequest struct {
	Description string               `json:"description" binding:"required"`
	Category    string               `json:"category"`
	Amount      string               `json:"amount" binding:"required"`
	GroupID     string               `json:"group_id" binding:"required"`
	Date        string               `json:"date"`
	Members     []ExpenseMemberInput `json:"members" binding:"required,min=1"`
}

type ExpenseShareResponse struct {
	UserID string `json:"user_id"`
	Share  string `json:"share"`
}

type ExpenseResponse struct {
	ID          string                 `json:"id"`
	GroupID     string                 `json:"group_id"`
	PaidBy      string                 `json:"paid_by"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Amount      string                 `json:"amount"`
	Date        string                 `json:"date"`
	Members     []ExpenseShareResponse `json:"members"`
	CreatedAt   string                 `json:"created_at"`
}

// --- Interface ---

type ExpenseService interface {
	CreateExpense(ctx context.Context, callerID string, req CreateExpenseRequest) (ExpenseResponse, error)
	ListExpenses(ctx context.Context, groupID string, page, limit int) ([]ExpenseResponse, int64, error)
	DeleteExpense(ctx context.Context, id string) error
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	groupRepo   repository.GroupRepository
}

func NewExpenseService(expenseRepo repository.ExpenseRepository, groupRepo repository.GroupRepository) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo, groupRepo: groupRepo}
}

// --- Implementation ---

// CreateExpense records a shared cost. Members carrying an explicit share
// keep it; when no member does, the amount is split equally with remainder
// cents going to the earliest members, so shares always sum to the amount.
func (s *expenseService) CreateExpense(ctx context.Context, callerID string, req CreateExpenseRequest) (ExpenseResponse, error) {
	paidBy, err := uuid.Parse(callerID)
	if err != nil {
		return ExpenseResponse{}, badInput("invalid user id: %v", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ExpenseResponse{}, badInput("invalid amount: %v", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ExpenseResponse{}, badInput("amount must be positive")
	}

	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return ExpenseResponse{}, badInput("invalid group_id: %v", err)
	}
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpenseResponse{}, fmt.Errorf("group not found: %w", ErrNotFound)
		}
		return ExpenseResponse{}, err
	}

	shares, err := buildShares(amount, req.Members)
	if err != nil {
		return ExpenseResponse{}, err
	}

	date := time.Now()
	if req.Date != "" {
		parsed, parseErr := parseDate(req.Date)
		if parseErr != nil {
			return ExpenseResponse{}, badInput("invalid date: %v", parseErr)
		}
		date = parsed
	}

	expense := model.GroupExpense{
		GroupID:     groupID,
		PaidBy:      paidBy,
		Description: req.Description,
		Category:    req.Category,
		Amount:      amount.Round(2),
		Date:        date,
		Shares:      shares,
	}

	if err := s.expenseRepo.Create(ctx, &expense); err != nil {
		return ExpenseResponse{}, fmt.Errorf("failed to create expense: %w", err)
	}

	return toExpenseResponse(expense), nil
}

func (s *expenseService) ListExpenses(ctx context.Context, groupID string, page, limit int) ([]ExpenseResponse, int64, error) {
	gid, err := uuid.Parse(groupID)
	if err != nil {
		return nil, 0, badInput("invalid group id: %v", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	expenses, total, err := s.expenseRepo.ListByGroup(ctx, gid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	result := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		result = append(result, toExpenseResponse(e))
	}
	return result, total, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id string) error {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return badInput("invalid expense id: %v", err)
	}
	if _, err := s.expenseRepo.FindByID(ctx, expenseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.expenseRepo.Delete(ctx, expenseID)
}

// --- Helpers ---

func buildShares(amount decimal.Decimal, members []ExpenseMemberInput) ([]model.ExpenseShare, error) {
	explicit := false
	for _, m := range members {
		if m.Share != nil {
			explicit = true
			break
		}
	}

	shares := make([]model.ExpenseShare, 0, len(members))
	if explicit {
		sum := decimal.Zero
		for _, m := range members {
			userID, err := uuid.Parse(m.UserID)
			if err != nil {
				return nil, badInput("invalid member user_id %q: %v", m.UserID, err)
			}
			share, _ := finance.Number(m.Share) // non-numeric counts as zero
			share = share.Round(2)
			sum = sum.Add(share)
			shares = append(shares, model.ExpenseShare{UserID: userID, Share: share})
		}
		if !sum.Equal(amount.Round(2)) {
			return nil, badInput("shares sum to %s, expected %s", sum, amount.Round(2))
		}
		return shares, nil
	}

	split := finance.EqualSplit(amount, len(members))
	for i, m := range members {
		userID, err := uuid.Parse(m.UserID)
		if err != nil {
			return nil, badInput("invalid member user_id %q: %v", m.UserID, err)
		}
		shares = append(shares, model.ExpenseShare{UserID: userID, Share: split[i]})
	}
	return shares, nil
}

// --- Mapping ---

func toExpenseResponse(e model.GroupExpense) ExpenseResponse {
	members := make([]ExpenseShareResponse, 0, len(e.Shares))
	for _, s := range e.Shares {
		members = append(members, ExpenseShareResponse{
			UserID: s.UserID.String(),
			Share:  s.Share.StringFixed(2),
		})
	}
	return ExpenseResponse{
		ID:          e.ID.String(),
		GroupID:     e.GroupID.String(),
		PaidBy:      e.PaidBy.String(),
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount.StringFixed(2),
		Date:        e.Date.Format(time.RFC3339),
		Members:     members,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}
