package database

import (
	"gorm.io/gorm"

	"github.com/aionlabs/aion-admin/models"
)

type Database struct {
	postRepo       *PostRepo
	pillarRepo     *PillarRepo
	pageRepo       *PageRepo
	commentRepo    *CommentRepo
	attachmentRepo *AttachmentRepo
	settingRepo    *SettingRepo
	storyRepo      *StoryRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		postRepo:       NewPostRepo(db),
		pillarRepo:     NewPillarRepo(db),
		pageRepo:       NewPageRepo(db),
		commentRepo:    NewCommentRepo(db),
		attachmentRepo: NewAttachmentRepo(db),
		settingRepo:    NewSettingRepo(db),
		storyRepo:      NewStoryRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) PillarRepo() *PillarRepo {
	return d.pillarRepo
}

func (d Database) PageRepo() *PageRepo {
	return d.pageRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) AttachmentRepo() *AttachmentRepo {
	return d.attachmentRepo
}

func (d Database) SettingRepo() *SettingRepo {
	return d.settingRepo
}

func (d Database) StoryRepo() *StoryRepo {
	return d.storyRepo
}

// Migrate applies the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Pillar{},
		&models.Page{},
		&models.Post{},
		&models.PostComment{},
		&models.Attachment{},
		&models.Setting{},
		&models.Story{},
	)
}
