package database

import (
	"gorm.io/gorm"
)

type Database struct {
	userRepo        *UserRepo
	projectRepo     *ProjectRepo
	projectTagRepo  *ProjectTagRepo
	abandonmentRepo *AbandonmentRepo
	revivalRepo     *RevivalRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:        NewUserRepo(db),
		projectRepo:     NewProjectRepo(db),
		projectTagRepo:  NewProjectTagRepo(db),
		abandonmentRepo: NewAbandonmentRepo(db),
		revivalRepo:     NewRevivalRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectTagRepo() *ProjectTagRepo {
	return d.projectTagRepo
}

func (d Database) AbandonmentRepo() *AbandonmentRepo {
	return d.abandonmentRepo
}

func (d Database) RevivalRepo() *RevivalRepo {
	return d.revivalRepo
}
