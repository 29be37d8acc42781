package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db                *gorm.DB
	projectRepo       *ProjectRepo
	skillRepo         *SkillRepo
	certificationRepo *CertificationRepo
	blogPostRepo      *BlogPostRepo
	aboutRepo         *AboutRepo
	siteSettingsRepo  *SiteSettingsRepo
	analyticsRepo     *AnalyticsRepo
	adminUserRepo     *AdminUserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                db,
		projectRepo:       NewProjectRepo(db),
		skillRepo:         NewSkillRepo(db),
		certificationRepo: NewCertificationRepo(db),
		blogPostRepo:      NewBlogPostRepo(db),
		aboutRepo:         NewAboutRepo(db),
		siteSettingsRepo:  NewSiteSettingsRepo(db),
		analyticsRepo:     NewAnalyticsRepo(db),
		adminUserRepo:     NewAdminUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) CertificationRepo() *CertificationRepo {
	return d.certificationRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) AboutRepo() *AboutRepo {
	return d.aboutRepo
}

func (d Database) SiteSettingsRepo() *SiteSettingsRepo {
	return d.siteSettingsRepo
}

func (d Database) AnalyticsRepo() *AnalyticsRepo {
	return d.analyticsRepo
}

func (d Database) AdminUserRepo() *AdminUserRepo {
	return d.adminUserRepo
}

// DB returns the shared connection, for maintenance tasks only.
func (d Database) DB() *gorm.DB {
	return d.db
}

// Ping checks the database still answers.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
