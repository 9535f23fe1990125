// Package services – ChatService
//
// Manages chat sessions and message replay. Streaming assistant turns are
// owned by the assistant package; this service covers the plain CRUD side:
// opening sessions (optionally anchored to a week plan or recipe) and
// listing stored messages in order.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fullydoved/mealz/internal/domain"
	"github.com/fullydoved/mealz/internal/repo"
)

// ChatService provides session-level operations.
type ChatService struct {
	DB *gorm.DB
}

// CreateSession opens a new chat session. The context type defaults to
// "general"; anchors are validated to exist so a session never starts with
// a dangling reference.
func (s *ChatService) CreateSession(ctx context.Context, contextType string, weekPlanID, recipeID *uint) (*domain.ChatSession, error) {
	if contextType == "" {
		contextType = domain.ContextGeneral
	}
	switch contextType {
	case domain.ContextGeneral, domain.ContextWeekPlan, domain.ContextRecipe:
	default:
		return nil, ErrInvalidContextType
	}
	if weekPlanID != nil {
		if _, err := repo.GetWeekPlan(ctx, s.DB, *weekPlanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrWeekPlanNotFound
			}
			return nil, err
		}
	}
	if recipeID != nil {
		if _, err := repo.GetRecipe(ctx, s.DB, *recipeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRecipeNotFound
			}
			return nil, err
		}
	}
	return repo.CreateChatSession(ctx, s.DB, contextType, weekPlanID, recipeID)
}

// GetSession returns a session by ID.
func (s *ChatService) GetSession(ctx context.Context, id uint) (*domain.ChatSession, error) {
	sess, err := repo.GetChatSession(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}

// ListMessages returns all stored messages of a session in replay order.
func (s *ChatService) ListMessages(ctx context.Context, sessionID uint) ([]domain.ChatMessage, error) {
	if _, err := repo.GetChatSession(ctx, s.DB, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return repo.ListChatMessages(ctx, s.DB, sessionID)
}
