package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aionlabs/aion-admin/models"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// PostFilter narrows the post listing. Zero values mean "no filter".
type PostFilter struct {
	Statuses   []models.PostStatus
	PillarIDs  []uuid.UUID
	From       *time.Time
	To         *time.Time
	Search     string
	TaskStatus *models.TaskStatus
	Assignee   *string
	SortBy     string // createdAt | updatedAt | scheduledAt | publishedAt
	SortDir    string // asc | desc
	Page       int
	PageSize   int
}

var postSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"scheduledAt": "scheduled_at",
	"publishedAt": "published_at",
}

// recentCommentsLimit is how many comments the listing carries per post.
const recentCommentsLimit = 5

func (r *PostRepo) filtered(f PostFilter) *gorm.DB {
	tx := r.db.Model(&models.Post{})

	if len(f.Statuses) > 0 {
		tx = tx.Where("status IN ?", f.Statuses)
	}
	if len(f.PillarIDs) > 0 {
		tx = tx.Where("pillar_id IN ?", f.PillarIDs)
	}
	switch {
	case f.From != nil && f.To != nil:
		tx = tx.Where("(scheduled_at BETWEEN ? AND ?) OR (published_at BETWEEN ? AND ?)", f.From, f.To, f.From, f.To)
	case f.From != nil:
		tx = tx.Where("scheduled_at >= ? OR published_at >= ?", f.From, f.From)
	case f.To != nil:
		tx = tx.Where("scheduled_at <= ? OR published_at <= ?", f.To, f.To)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		tx = tx.Where("title ILIKE ? OR topic ILIKE ? OR body ILIKE ?", pattern, pattern, pattern)
	}
	if f.TaskStatus != nil || f.Assignee != nil {
		sub := "EXISTS (SELECT 1 FROM post_comments c WHERE c.post_id = posts.id AND c.is_task = true"
		args := []any{}
		if f.TaskStatus != nil {
			sub += " AND c.task_status = ?"
			args = append(args, *f.TaskStatus)
		}
		if f.Assignee != nil {
			sub += " AND c.assignee = ?"
			args = append(args, *f.Assignee)
		}
		sub += ")"
		tx = tx.Where(sub, args...)
	}

	return tx
}

// FindPage returns one page of posts matching the filter, plus the total
// count for the same filter.
func (r *PostRepo) FindPage(f PostFilter) ([]*models.Post, int64, error) {
	sortCol, ok := postSortColumns[f.SortBy]
	if !ok {
		sortCol = "updated_at"
	}
	dir := "DESC"
	if f.SortDir == "asc" {
		dir = "ASC"
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}

	var total int64
	if err := r.filtered(f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := r.filtered(f).
		Preload("Attachments").
		Preload("Pillar").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Order(sortCol + " " + dir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	// gorm cannot limit a preload per parent row; trim here.
	for _, p := range posts {
		if len(p.Comments) > recentCommentsLimit {
			p.Comments = p.Comments[:recentCommentsLimit]
		}
	}

	return posts, total, nil
}

// FindByID returns a post with its pillar, comments and attachments.
func (r *PostRepo) FindByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.
		Preload("Attachments").
		Preload("Pillar").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Add inserts a new post into the database
func (r *PostRepo) Add(post *models.Post) error {
	return r.db.Create(post).Error
}

// UpdateFields applies a partial update to a post by id.
func (r *PostRepo) UpdateFields(id uuid.UUID, fields map[string]any) (*models.Post, error) {
	if err := r.db.Model(&models.Post{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

// ApplyStatusUpdate persists the outcome of a validated status transition.
func (r *PostRepo) ApplyStatusUpdate(id uuid.UUID, update models.StatusUpdate) (*models.Post, error) {
	fields := map[string]any{"status": update.Status}
	if update.ClearDates {
		fields["scheduled_at"] = nil
		fields["published_at"] = nil
		fields["review_due_at"] = nil
	}
	if update.ScheduledAt != nil {
		fields["scheduled_at"] = *update.ScheduledAt
	}
	if update.ReviewDueAt != nil {
		fields["review_due_at"] = *update.ReviewDueAt
	}
	if update.PublishedAt != nil {
		fields["published_at"] = *update.PublishedAt
	}
	return r.UpdateFields(id, fields)
}

// Delete removes a post; comments and attachments cascade at the schema level.
func (r *PostRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Post{}, "id = ?", id).Error
}

// CountByStatus returns the total and a per-status breakdown, optionally
// scoped to one pillar.
func (r *PostRepo) CountByStatus(pillarID *uuid.UUID) (int64, map[models.PostStatus]int64, error) {
	tx := r.db.Model(&models.Post{})
	if pillarID != nil {
		tx = tx.Where("pillar_id = ?", *pillarID)
	}

	type row struct {
		Status models.PostStatus
		Count  int64
	}
	var rows []row
	if err := tx.Select("status, COUNT(*) AS count").Group("status").Find(&rows).Error; err != nil {
		return 0, nil, err
	}

	byStatus := map[models.PostStatus]int64{
		models.StatusDraft:          0,
		models.StatusNeedsReview:    0,
		models.StatusReadyToPublish: 0,
		models.StatusPublished:      0,
		models.StatusRejected:       0,
	}
	var total int64
	for _, r := range rows {
		byStatus[r.Status] = r.Count
		total += r.Count
	}
	return total, byStatus, nil
}

// PublishDue flips READY_TO_PUBLISH posts whose scheduledAt has passed to
// PUBLISHED. Safe to call repeatedly or concurrently: the candidate set is
// re-read each time and every update is scoped by primary key.
func (r *PostRepo) PublishDue(now time.Time) (int, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Post{}).
		Where("status = ? AND scheduled_at <= ?", models.StatusReadyToPublish, now).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if err := tx.Model(&models.Post{}).Where("id = ?", id).
				Updates(map[string]any{"status": models.StatusPublished, "published_at": now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// DetachPillar clears the pillar reference on all posts of a pillar.
func (r *PostRepo) DetachPillar(tx *gorm.DB, pillarID uuid.UUID) error {
	return tx.Model(&models.Post{}).Where("pillar_id = ?", pillarID).Update("pillar_id", nil).Error
}

// AllTitles returns every post title, for the generation banlist.
func (r *PostRepo) AllTitles() ([]string, error) {
	var titles []string
	if err := r.db.Model(&models.Post{}).Pluck("title", &titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

// AllSourceURLs returns the source URLs of every post, for the generation
// pipeline's used-URL exclusion.
func (r *PostRepo) AllSourceURLs() ([]string, error) {
	var posts []models.Post
	if err := r.db.Select("sources").Find(&posts).Error; err != nil {
		return nil, err
	}
	var urls []string
	for _, p := range posts {
		urls = append(urls, p.Sources...)
	}
	return urls, nil
}
