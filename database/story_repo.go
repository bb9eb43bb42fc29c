package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aionlabs/aion-admin/models"
)

type StoryRepo struct {
	db *gorm.DB
}

func NewStoryRepo(db *gorm.DB) *StoryRepo {
	return &StoryRepo{db}
}

// FindAll returns stories newest first, optionally narrowed to one status.
func (r *StoryRepo) FindAll(status *models.StoryStatus) ([]*models.Story, error) {
	tx := r.db.Order("created_at DESC")
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	var stories []*models.Story
	err := tx.Find(&stories).Error
	return stories, err
}

// CountsByStatus returns story counts keyed by status, with zero entries
// for statuses that have no rows.
func (r *StoryRepo) CountsByStatus() (map[models.StoryStatus]int64, error) {
	type row struct {
		Status models.StoryStatus
		Count  int64
	}
	var rows []row
	err := r.db.Model(&models.Story{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.StoryStatus]int64{
		models.StoryTriage:    0,
		models.StoryPublished: 0,
		models.StoryRejected:  0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// FindByID returns a story by its ID
func (r *StoryRepo) FindByID(id uuid.UUID) (*models.Story, error) {
	var story models.Story
	err := r.db.First(&story, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// UpdateFields applies a partial update and returns the fresh row.
func (r *StoryRepo) UpdateFields(id uuid.UUID, fields map[string]any) (*models.Story, error) {
	if err := r.db.Model(&models.Story{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

// BanlistEntry is the minimal projection the generation pipeline needs.
type BanlistEntry struct {
	Title     string
	TitleSlug string
}

// FindBanlist returns titles and slugs of stories in the given statuses,
// newest first. Feeds the generation pipeline's repeat-topic guard.
func (r *StoryRepo) FindBanlist(statuses []models.StoryStatus) ([]BanlistEntry, error) {
	var entries []BanlistEntry
	err := r.db.Model(&models.Story{}).
		Select("title, title_slug").
		Where("status IN ?", statuses).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
