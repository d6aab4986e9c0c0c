package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/octobees/authform/internal/dto"
	"github.com/octobees/authform/internal/repository"
)

// ActionLogService records and lists user actions.
type ActionLogService struct {
	repo repository.ActionLogsRepository
}

// NewActionLogService builds a new ActionLogService instance.
func NewActionLogService(repo repository.ActionLogsRepository) *ActionLogService {
	return &ActionLogService{repo: repo}
}

// Record stores an entry. Failures are logged rather than returned. A nil
// service records nothing.
func (s *ActionLogService) Record(ctx context.Context, userID uuid.UUID, action string) {
	if s == nil || s.repo == nil {
		return
	}
	if err := s.repo.Create(ctx, userID, action); err != nil {
		log.Printf("audit write failed user_id=%s action=%s: %v", userID, action, err)
	}
}

// List returns entries newest first, optionally filtered by action substring.
func (s *ActionLogService) List(ctx context.Context, actionFilter string) ([]dto.ActionLogResponse, error) {
	entries, err := s.repo.List(ctx, actionFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActionLogResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, dto.ActionLogResponse{
			ID:        e.ID,
			UserName:  e.UserName,
			Action:    e.Action,
			CreatedAt: e.CreatedAt,
		})
	}
	return responses, nil
}
