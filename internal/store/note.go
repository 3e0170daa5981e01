package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/SauravS-01/eNoteBook/internal/models"
	"github.com/SauravS-01/eNoteBook/internal/types"
	"gorm.io/gorm"
)

type NoteStore struct {
	db *gorm.DB
}

func NewNoteStore(db *gorm.DB) *NoteStore {
	return &NoteStore{db: db}
}

// FindByID preloads the owner for display.
func (s *NoteStore) FindByID(ctx context.Context, id uint) (*models.Note, error) {
	var note models.Note

	err := s.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&note).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note by id: %w", err)
	}

	return &note, nil
}

// FindPublic returns every public note, newest first.
func (s *NoteStore) FindPublic(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note

	err := s.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", types.NoteStatusPublic).
		Order("created_at desc").
		Find(&notes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find public notes: %w", err)
	}

	return notes, nil
}

// FindPublicByUser returns one user's public notes, newest first.
func (s *NoteStore) FindPublicByUser(ctx context.Context, userID uint) ([]models.Note, error) {
	var notes []models.Note

	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND status = ?", userID, types.NoteStatusPublic).
		Order("created_at desc").
		Find(&notes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find notes by user: %w", err)
	}

	return notes, nil
}

// FindByUser returns all of a user's own notes regardless of visibility.
func (s *NoteStore) FindByUser(ctx context.Context, userID uint) ([]models.Note, error) {
	var notes []models.Note

	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find notes by owner: %w", err)
	}

	return notes, nil
}

// SearchPublic matches public notes whose title contains the query,
// case-insensitively, newest first.
func (s *NoteStore) SearchPublic(ctx context.Context, query string) ([]models.Note, error) {
	var notes []models.Note

	err := s.db.WithContext(ctx).
		Preload("User").
		Where("status = ? AND title ILIKE ?", types.NoteStatusPublic, "%"+query+"%").
		Order("created_at desc").
		Find(&notes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	return notes, nil
}

func (s *NoteStore) Create(ctx context.Context, note *models.Note) error {
	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// Update never touches user_id; ownership is immutable.
func (s *NoteStore) Update(ctx context.Context, id uint, title, body, status string) error {
	err := s.db.WithContext(ctx).
		Model(&models.Note{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":  title,
			"body":   body,
			"status": status,
		}).Error

	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

func (s *NoteStore) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Note{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}
