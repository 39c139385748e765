package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kirin-dashboard/internal/models"
)

var ErrDraftNotFound = errors.New("draft not found")

type DraftRepository interface {
	Save(ctx context.Context, draft *models.Draft) error
	Get(ctx context.Context, userID, pageID string) (*models.Draft, error)
	ListByUser(ctx context.Context, userID string) ([]models.Draft, error)
	Delete(ctx context.Context, userID, pageID string) error
}

type draftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

// Save inserts the draft or replaces the sections of the existing draft for
// the same user and page.
func (r *draftRepository) Save(ctx context.Context, draft *models.Draft) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "page_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sections", "updated_at"}),
	}).Create(draft).Error
}

func (r *draftRepository) Get(ctx context.Context, userID, pageID string) (*models.Draft, error) {
	var draft models.Draft
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND page_id = ?", userID, pageID).
		First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) ListByUser(ctx context.Context, userID string) ([]models.Draft, error) {
	var drafts []models.Draft
	err := r.db.WithContext(ctx).
		Select("id", "created_at", "updated_at", "user_id", "page_id").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&drafts).Error
	return drafts, err
}

// Delete removes the row outright so a later Save can reuse the unique key.
func (r *draftRepository) Delete(ctx context.Context, userID, pageID string) error {
	result := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND page_id = ?", userID, pageID).
		Delete(&models.Draft{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDraftNotFound
	}
	return nil
}
