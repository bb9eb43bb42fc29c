package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aionlabs/aion-admin/models"
)

type PillarRepo struct {
	db *gorm.DB
}

func NewPillarRepo(db *gorm.DB) *PillarRepo {
	return &PillarRepo{db}
}

// FindAll returns all pillars ordered by name.
func (r *PillarRepo) FindAll() ([]*models.Pillar, error) {
	var pillars []*models.Pillar
	err := r.db.Order("name ASC").Find(&pillars).Error
	return pillars, err
}

// FindByID returns a pillar by its ID
func (r *PillarRepo) FindByID(id uuid.UUID) (*models.Pillar, error) {
	var pillar models.Pillar
	err := r.db.First(&pillar, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pillar, nil
}

// Add inserts a new pillar into the database
func (r *PillarRepo) Add(pillar *models.Pillar) error {
	return r.db.Create(pillar).Error
}

// Update updates an existing pillar in the database
func (r *PillarRepo) Update(pillar *models.Pillar) error {
	return r.db.Save(pillar).Error
}

// DeleteDetaching detaches the pillar's posts and then deletes it, in one
// transaction so a failure leaves neither half applied.
func (r *PillarRepo) DeleteDetaching(id uuid.UUID, posts *PostRepo) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := posts.DetachPillar(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Pillar{}, "id = ?", id).Error
	})
}
