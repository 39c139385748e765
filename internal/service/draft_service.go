package service

import (
	"context"
	"errors"
	"fmt"

	"kirin-dashboard/internal/editor"
	"kirin-dashboard/internal/models"
	"kirin-dashboard/internal/repository"
	"kirin-dashboard/pkg/logger"
)

var (
	ErrDraftsDisabled = errors.New("drafts are disabled")
	ErrNoPageSelected = errors.New("no page selected")
)

// DraftService saves the sections of the page under edit and puts them
// back later. A nil repository disables drafts.
type DraftService struct {
	repo repository.DraftRepository
}

func NewDraftService(repo repository.DraftRepository) *DraftService {
	return &DraftService{repo: repo}
}

func (s *DraftService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Save stores the sections of the store's current page for userID.
func (s *DraftService) Save(ctx context.Context, userID string, store *editor.Store) (*models.Draft, error) {
	if !s.Enabled() {
		return nil, ErrDraftsDisabled
	}

	pageID := store.PageID()
	if pageID == "" {
		return nil, ErrNoPageSelected
	}

	draft := &models.Draft{
		UserID:   userID,
		PageID:   pageID,
		Sections: models.DraftSections(store.Sections()),
	}
	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	logger.FromContext(ctx).WithField("page_id", pageID).Info("Draft saved")
	return draft, nil
}

// Restore loads the draft of pageID (the current page when empty) into the
// store, selecting that page first.
func (s *DraftService) Restore(ctx context.Context, userID, pageID string, store *editor.Store) (*models.Draft, error) {
	if !s.Enabled() {
		return nil, ErrDraftsDisabled
	}

	if pageID == "" {
		pageID = store.PageID()
	}
	if pageID == "" {
		return nil, ErrNoPageSelected
	}

	draft, err := s.repo.Get(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}

	store.SelectPage(pageID)
	store.SetSections(pageID, []models.Section(draft.Sections))
	return draft, nil
}

func (s *DraftService) List(ctx context.Context, userID string) ([]models.Draft, error) {
	if !s.Enabled() {
		return nil, ErrDraftsDisabled
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *DraftService) Discard(ctx context.Context, userID, pageID string) error {
	if !s.Enabled() {
		return ErrDraftsDisabled
	}
	return s.repo.Delete(ctx, userID, pageID)
}
