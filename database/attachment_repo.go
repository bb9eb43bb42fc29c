package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aionlabs/aion-admin/models"
)

type AttachmentRepo struct {
	db *gorm.DB
}

func NewAttachmentRepo(db *gorm.DB) *AttachmentRepo {
	return &AttachmentRepo{db}
}

// Add inserts a new attachment into the database
func (r *AttachmentRepo) Add(attachment *models.Attachment) error {
	return r.db.Create(attachment).Error
}

// FindByID returns an attachment by its ID
func (r *AttachmentRepo) FindByID(id uuid.UUID) (*models.Attachment, error) {
	var attachment models.Attachment
	err := r.db.First(&attachment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// Delete removes an attachment row; the stored object itself is untouched.
func (r *AttachmentRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Attachment{}, "id = ?", id).Error
}
