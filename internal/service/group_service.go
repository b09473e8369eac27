package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/model"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateGroupRequest struct {
	Name    string   `json:"name" binding:"required"`
	Members []string `json:"members"` // user ids; creator is always included
}

type GroupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatedBy string   `json:"created_by"`
	Members   []string `json:"members"`
	CreatedAt string   `json:"created_at"`
}

// --- Interface ---

type GroupService interface {
	CreateGroup(ctx context.Context, callerID string, req CreateGroupRequest) (GroupResponse, error)
	GetGroup(ctx context.Context, id string) (GroupResponse, error)
	ListGroups(ctx context.Context, callerID string) ([]GroupResponse, error)
	AddMember(ctx context.Context, groupID, userID string) (GroupResponse, error)
}

type groupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) GroupService {
	return &groupService{groupRepo: groupRepo, userRepo: userRepo}
}

// --- Implementation ---

func (s *groupService) CreateGroup(ctx context.Context, callerID string, req CreateGroupRequest) (GroupResponse, error) {
	creatorID, err := uuid.Parse(callerID)
	if err != nil {
		return GroupResponse{}, badInput("invalid user id: %v", err)
	}

	memberIDs := []uuid.UUID{creatorID}
	seen := map[uuid.UUID]bool{creatorID: true}
	for _, m := range req.Members {
		id, parseErr := uuid.Parse(m)
		if parseErr != nil {
			return GroupResponse{}, badInput("invalid member id %q: %v", m, parseErr)
		}
		if seen[id] {
			continue
		}
		if _, userErr := s.userRepo.GetByID(ctx, id.String()); userErr != nil {
			return GroupResponse{}, fmt.Errorf("member %s not found: %w", m, ErrNotFound)
		}
		seen[id] = true
		memberIDs = append(memberIDs, id)
	}

	group := model.Group{
		Name:      req.Name,
		CreatedBy: creatorID,
	}
	for _, id := range memberIDs {
		group.Members = append(group.Members, model.GroupMember{UserID: id})
	}

	if err := s.groupRepo.Create(ctx, &group); err != nil {
		return GroupResponse{}, fmt.Errorf("failed to create group: %w", err)
	}

	return toGroupResponse(group), nil
}

func (s *groupService) GetGroup(ctx context.Context, id string) (GroupResponse, error) {
	groupID, err := uuid.Parse(id)
	if err != nil {
		return GroupResponse{}, badInput("invalid group id: %v", err)
	}

	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupResponse{}, ErrNotFound
		}
		return GroupResponse{}, err
	}
	return toGroupResponse(*group), nil
}

func (s *groupService) ListGroups(ctx context.Context, callerID string) ([]GroupResponse, error) {
	userID, err := uuid.Parse(callerID)
	if err != nil {
		return nil, badInput("invalid user id: %v", err)
	}

	groups, err := s.groupRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}

	result := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		result = append(result, toGroupResponse(g))
	}
	return result, nil
}

func (s *groupService) AddMember(ctx context.Context, groupID, userID string) (GroupResponse, error) {
	gid, err := uuid.Parse(groupID)
	if err != nil {
		return GroupResponse{}, badInput("invalid group id: %v", err)
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return GroupResponse{}, badInput("invalid user id: %v", err)
	}

	group, err := s.groupRepo.FindByID(ctx, gid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupResponse{}, ErrNotFound
		}
		return GroupResponse{}, err
	}
	for _, m := range group.Members {
		if m.UserID == uid {
			return toGroupResponse(*group), nil // already a member
		}
	}

	if _, err := s.userRepo.GetByID(ctx, uid.String()); err != nil {
		return GroupResponse{}, fmt.Errorf("user not found: %w", ErrNotFound)
	}

	if err := s.groupRepo.AddMember(ctx, &model.GroupMember{GroupID: gid, UserID: uid}); err != nil {
		return GroupResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	reloaded, err := s.groupRepo.FindByID(ctx, gid)
	if err != nil {
		return GroupResponse{}, err
	}
	return toGroupResponse(*reloaded), nil
}

// --- Mapping ---

func toGroupResponse(g model.Group) GroupResponse {
	members := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, m.UserID.String())
	}
	return GroupResponse{
		ID:        g.ID.String(),
		Name:      g.Name,
		CreatedBy: g.CreatedBy.String(),
		Members:   members,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
	}
}
