package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aionlabs/aion-admin/models"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// FindByPost returns a post's comments, newest first, optionally narrowed
// to tasks or tasks in a given state.
func (r *CommentRepo) FindByPost(postID uuid.UUID, onlyTasks bool, taskStatus *models.TaskStatus) ([]*models.PostComment, error) {
	tx := r.db.Where("post_id = ?", postID)
	if onlyTasks {
		tx = tx.Where("is_task = true")
	}
	if taskStatus != nil {
		tx = tx.Where("task_status = ?", *taskStatus)
	}
	var comments []*models.PostComment
	err := tx.Order("created_at DESC").Find(&comments).Error
	return comments, err
}

// FindByID returns a comment by its ID
func (r *CommentRepo) FindByID(id uuid.UUID) (*models.PostComment, error) {
	var comment models.PostComment
	err := r.db.First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(comment *models.PostComment) error {
	return r.db.Create(comment).Error
}

// UpdateFields applies a partial update and returns the fresh row.
func (r *CommentRepo) UpdateFields(id uuid.UUID, fields map[string]any) (*models.PostComment, error) {
	if err := r.db.Model(&models.PostComment{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

// Delete removes a comment. The second return value reports whether a row
// actually existed; deleting an already-gone comment is not an error.
func (r *CommentRepo) Delete(id uuid.UUID) (bool, error) {
	res := r.db.Delete(&models.PostComment{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
