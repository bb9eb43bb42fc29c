package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aionlabs/aion-admin/models"
)

type PageRepo struct {
	db *gorm.DB
}

func NewPageRepo(db *gorm.DB) *PageRepo {
	return &PageRepo{db}
}

// FindAll returns all pages in creation order.
func (r *PageRepo) FindAll() ([]*models.Page, error) {
	var pages []*models.Page
	err := r.db.Order("created_at ASC").Find(&pages).Error
	return pages, err
}

// FindByID returns a page by its ID
func (r *PageRepo) FindByID(id uuid.UUID) (*models.Page, error) {
	var page models.Page
	err := r.db.First(&page, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Add inserts a new page into the database
func (r *PageRepo) Add(page *models.Page) error {
	return r.db.Create(page).Error
}

// UpdateFields applies a partial update to a page by id.
func (r *PageRepo) UpdateFields(id uuid.UUID, fields map[string]any) (*models.Page, error) {
	if err := r.db.Model(&models.Page{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id)
}
