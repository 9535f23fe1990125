// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ChatSession and ChatMessage models.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fullydoved/mealz/internal/domain"
)

// CreateChatSession inserts a new session row.
func CreateChatSession(ctx context.Context, db *gorm.DB, contextType string, weekPlanID, recipeID *uint) (*domain.ChatSession, error) {
	s := &domain.ChatSession{
		ContextType: contextType,
		WeekPlanID:  weekPlanID,
		RecipeID:    recipeID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetChatSession fetches a session by ID, or ErrNotFound.
func GetChatSession(ctx context.Context, db *gorm.DB, id uint) (*domain.ChatSession, error) {
	var s domain.ChatSession
	if err := db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateChatMessage inserts a new message row with a UTC timestamp.
func CreateChatMessage(ctx context.Context, db *gorm.DB, sessionID uint, role, content string) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListChatMessages returns all messages of a session ordered
// deterministically (CreatedAt ASC, ID ASC) for replay.
func ListChatMessages(ctx context.Context, db *gorm.DB, sessionID uint) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// RecentChatMessages returns up to limit most recent messages of a session
// in chronological order. Older messages stay in storage but fall out of
// the model's context window.
func RecentChatMessages(ctx context.Context, db *gorm.DB, sessionID uint, limit int) ([]domain.ChatMessage, error) {
	var newest []domain.ChatMessage
	q := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&newest).Error; err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(newest)-1; i < j; i, j = i+1, j-1 {
		newest[i], newest[j] = newest[j], newest[i]
	}
	return newest, nil
}

// DeleteChatSession removes a session and cascade-deletes its messages.
// Returns ErrNotFound when the session does not exist.
func DeleteChatSession(ctx context.Context, db *gorm.DB, id uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.ChatSession{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	if err := db.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&domain.ChatMessage{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&domain.ChatSession{}, id).Error
}
