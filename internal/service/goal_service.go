package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/model"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateGoalRequest struct {
	GoalName     string `json:"goal_name" binding:"required"`
	TargetAmount string `json:"target_amount" binding:"required"`
	Deadline     string `json:"deadline" binding:"required"`
	GroupID      string `json:"group_id"`
	Description  string `json:"description"`
}

type UpdateGoalRequest struct {
	GoalName     *string `json:"goal_name"`
	TargetAmount *string `json:"target_amount"`
	Deadline     *string `json:"deadline"`
	Description  *string `json:"description"`
}

type GoalResponse struct {
	ID           string  `json:"id"`
	GoalName     string  `json:"goal_name"`
	TargetAmount string  `json:"target_amount"`
	Deadline     string  `json:"deadline"`
	GroupID      *string `json:"group_id"`
	Description  string  `json:"description"`
	CreatedBy    string  `json:"created_by"`
	CreatedAt    string  `json:"created_at"`
}

type GoalProgressResponse struct {
	Goal        GoalResponse `json:"goal"`
	Contributed string       `json:"contributed"`
	Remaining   string       `json:"remaining"`
	Percent     string       `json:"percent"`
}

type CreateContributionRequest struct {
	GoalID        string `json:"goal_id" binding:"required"`
	GroupID       string `json:"group_id" binding:"required"`
	ContributorID string `json:"contributor_id" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Description   string `json:"description"`
}

type ContributionResponse struct {
	ID            string `json:"id"`
	GoalID        string `json:"goal_id"`
	GroupID       string `json:"group_id"`
	ContributorID string `json:"contributor_id"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Description   string `json:"description"`
}

// --- Interface ---

type GoalService interface {
	CreateGoal(ctx context.Context, callerID string, req CreateGoalRequest) (GoalResponse, error)
	ListGoals(ctx context.Context, groupID string) ([]GoalResponse, error)
	UpdateGoal(ctx context.Context, callerID, id string, req UpdateGoalRequest) (GoalResponse, error)
	DeleteGoal(ctx context.Context, callerID, id string) error
	GoalProgress(ctx context.Context, id string) (GoalProgressResponse, error)

	AddContribution(ctx context.Context, req CreateContributionRequest) (ContributionResponse, error)
	ListContributions(ctx context.Context, filter repository.ContributionFilter) ([]ContributionResponse, error)
	DeleteContribution(ctx context.Context, id string) error
}

type goalService struct {
	goalRepo  repository.GoalRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

func NewGoalService(goalRepo repository.GoalRepository, groupRepo repository.GroupRepository, userRepo repository.UserRepository) GoalService {
	return &goalService{goalRepo: goalRepo, groupRepo: groupRepo, userRepo: userRepo}
}

// --- Implementation ---

func (s *goalService) CreateGoal(ctx context.Context, callerID string, req CreateGoalRequest) (GoalResponse, error) {
	creatorID, err := uuid.Parse(callerID)
	if err != nil {
		return GoalResponse{}, badInput("invalid user id: %v", err)
	}

	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return GoalResponse{}, badInput("invalid target_amount: %v", err)
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return GoalResponse{}, badInput("invalid deadline: %v", err)
	}

	goal := model.Goal{
		GoalName:     req.GoalName,
		TargetAmount: target,
		Deadline:     deadline,
		Description:  req.Description,
		CreatedBy:    creatorID,
	}

	if req.GroupID != "" {
		groupID, parseErr := uuid.Parse(req.GroupID)
		if parseErr != nil {
			return GoalResponse{}, badInput("invalid group_id: %v", parseErr)
		}
		if _, groupErr := s.groupRepo.FindByID(ctx, groupID); groupErr != nil {
			if errors.Is(groupErr, gorm.ErrRecordNotFound) {
				return GoalResponse{}, fmt.Errorf("group not found: %w", ErrNotFound)
			}
			return GoalResponse{}, groupErr
		}
		goal.GroupID = &groupID
	}

	if err := s.goalRepo.Create(ctx, &goal); err != nil {
		return GoalResponse{}, fmt.Errorf("failed to create goal: %w", err)
	}

	return toGoalResponse(goal), nil
}

func (s *goalService) ListGoals(ctx context.Context, groupID string) ([]GoalResponse, error) {
	var filter *uuid.UUID
	if groupID != "" {
		id, err := uuid.Parse(groupID)
		if err != nil {
			return nil, badInput("invalid group id: %v", err)
		}
		filter = &id
	}

	goals, err := s.goalRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}

	result := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		result = append(result, toGoalResponse(g))
	}
	return result, nil
}

func (s *goalService) UpdateGoal(ctx context.Context, callerID, id string, req UpdateGoalRequest) (GoalResponse, error) {
	goal, err := s.findOwnedGoal(ctx, callerID, id)
	if err != nil {
		return GoalResponse{}, err
	}

	if req.GoalName != nil {
		goal.GoalName = *req.GoalName
	}
	if req.TargetAmount != nil {
		target, parseErr := decimal.NewFromString(*req.TargetAmount)
		if parseErr != nil {
			return GoalResponse{}, badInput("invalid target_amount: %v", parseErr)
		}
		goal.TargetAmount = target
	}
	if req.Deadline != nil {
		deadline, parseErr := parseDate(*req.Deadline)
		if parseErr != nil {
			return GoalResponse{}, badInput("invalid deadline: %v", parseErr)
		}
		goal.Deadline = deadline
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return GoalResponse{}, fmt.Errorf("failed to update goal: %w", err)
	}
	return toGoalResponse(*goal), nil
}

func (s *goalService) DeleteGoal(ctx context.Context, callerID, id string) error {
	goal, err := s.findOwnedGoal(ctx, callerID, id)
	if err != nil {
		return err
	}
	return s.goalRepo.Delete(ctx, goal.ID)
}

func (s *goalService) GoalProgress(ctx context.Context, id string) (GoalProgressResponse, error) {
	goalID, err := uuid.Parse(id)
	if err != nil {
		return GoalProgressResponse{}, badInput("invalid goal id: %v", err)
	}

	goal, err := s.goalRepo.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GoalProgressResponse{}, ErrNotFound
		}
		return GoalProgressResponse{}, err
	}

	contributed, err := s.goalRepo.SumContributions(ctx, goalID)
	if err != nil {
		return GoalProgressResponse{}, fmt.Errorf("failed to sum contributions: %w", err)
	}

	remaining := goal.TargetAmount.Sub(contributed)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	percent := decimal.Zero
	if goal.TargetAmount.IsPositive() {
		percent = contributed.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).Round(1)
	}

	return GoalProgressResponse{
		Goal:        toGoalResponse(*goal),
		Contributed: contributed.StringFixed(2),
		Remaining:   remaining.StringFixed(2),
		Percent:     percent.String(),
	}, nil
}

func (s *goalService) AddContribution(ctx context.Context, req CreateContributionRequest) (ContributionResponse, error) {
	goalID, err := uuid.Parse(req.GoalID)
	if err != nil {
		return ContributionResponse{}, badInput("invalid goal_id: %v", err)
	}
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return ContributionResponse{}, badInput("invalid group_id: %v", err)
	}
	contributorID, err := uuid.Parse(req.ContributorID)
	if err != nil {
		return ContributionResponse{}, badInput("invalid contributor_id: %v", err)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ContributionResponse{}, badInput("invalid amount: %v", err)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return ContributionResponse{}, badInput("invalid date: %v", err)
	}

	// Validate references before writing
	if _, err := s.goalRepo.FindByID(ctx, goalID); err != nil {
		return ContributionResponse{}, fmt.Errorf("goal not found: %w", ErrNotFound)
	}
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		return ContributionResponse{}, fmt.Errorf("group not found: %w", ErrNotFound)
	}
	if _, err := s.userRepo.GetByID(ctx, contributorID.String()); err != nil {
		return ContributionResponse{}, fmt.Errorf("contributor not found: %w", ErrNotFound)
	}

	contribution := model.Contribution{
		GoalID:        goalID,
		GroupID:       groupID,
		ContributorID: contributorID,
		Amount:        amount.Round(2),
		Date:          date,
		Description:   req.Description,
	}
	if err := s.goalRepo.CreateContribution(ctx, &contribution); err != nil {
		return ContributionResponse{}, fmt.Errorf("failed to add contribution: %w", err)
	}

	return toContributionResponse(contribution), nil
}

func (s *goalService) ListContributions(ctx context.Context, filter repository.ContributionFilter) ([]ContributionResponse, error) {
	contributions, err := s.goalRepo.ListContributions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contributions: %w", err)
	}

	result := make([]ContributionResponse, 0, len(contributions))
	for _, c := range contributions {
		result = append(result, toContributionResponse(c))
	}
	return result, nil
}

func (s *goalService) DeleteContribution(ctx context.Context, id string) error {
	contributionID, err := uuid.Parse(id)
	if err != nil {
		return badInput("invalid contribution id: %v", err)
	}
	if _, err := s.goalRepo.FindContribution(ctx, contributionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.goalRepo.DeleteContribution(ctx, contributionID)
}

// --- Helpers ---

func (s *goalService) findOwnedGoal(ctx context.Context, callerID, id string) (*model.Goal, error) {
	goalID, err := uuid.Parse(id)
	if err != nil {
		return nil, badInput("invalid goal id: %v", err)
	}

	goal, err := s.goalRepo.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if goal.CreatedBy.String() != callerID {
		return nil, fmt.Errorf("only the creator can modify this goal: %w", ErrForbidden)
	}
	return goal, nil
}

// --- Mapping ---

func toGoalResponse(g model.Goal) GoalResponse {
	resp := GoalResponse{
		ID:           g.ID.String(),
		GoalName:     g.GoalName,
		TargetAmount: g.TargetAmount.StringFixed(2),
		Deadline:     g.Deadline.Format(time.RFC3339),
		Description:  g.Description,
		CreatedBy:    g.CreatedBy.String(),
		CreatedAt:    g.CreatedAt.Format(time.RFC3339),
	}
	if g.GroupID != nil {
		s := g.GroupID.String()
		resp.GroupID = &s
	}
	return resp
}

func toContributionResponse(c model.Contribution) ContributionResponse {
	return ContributionResponse{
		ID:            c.ID.String(),
		GoalID:        c.GoalID.String(),
		GroupID:       c.GroupID.String(),
		ContributorID: c.ContributorID.String(),
		Amount:        c.Amount.StringFixed(2),
		Date:          c.Date.Format(time.RFC3339),
		Description:   c.Description,
	}
}
