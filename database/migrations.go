package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jonasmwansa/portfolio-backend/errs"
	"github.com/jonasmwansa/portfolio-backend/models"
)

// SchemaMigration records one applied migration step.
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"type:varchar(200);not null"`
	AppliedAt time.Time `gorm:"not null"`
}

type migration struct {
	version int
	name    string
	up      func(tx *gorm.DB) error
}

// migrations are applied in order, each exactly once. Never edit an applied
// step; append a new one instead.
var migrations = []migration{
	{1, "create content tables", func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&models.Project{},
			&models.Skill{},
			&models.Certification{},
			&models.BlogPost{},
			&models.About{},
		)
	}},
	{2, "create site settings and analytics", func(tx *gorm.DB) error {
		return tx.AutoMigrate(&models.SiteSettings{}, &models.PortfolioAnalytics{})
	}},
	{3, "create admin users", func(tx *gorm.DB) error {
		return tx.AutoMigrate(&models.AdminUser{})
	}},
}

// LatestVersion is the schema version this build expects.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the highest applied migration, or 0 for an empty database.
func SchemaVersion(db *gorm.DB) (int, error) {
	if !db.Migrator().HasTable(&SchemaMigration{}) {
		return 0, nil
	}
	var version int
	err := db.Model(&SchemaMigration{}).Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// Migrate brings the schema up to LatestVersion. A database that is ahead of
// this build is refused rather than guessed at.
func Migrate(db *gorm.DB) error {
	return migrateTo(db, LatestVersion())
}

// MigrateStep applies at most steps pending migrations. It is used by the
// MIGRATE_STEPS maintenance mode to roll a database forward gradually.
func (d Database) MigrateStep(steps int) error {
	if steps <= 0 {
		return errs.NewBadRequestError("steps must be positive")
	}
	current, err := SchemaVersion(d.db)
	if err != nil {
		return err
	}
	return migrateTo(d.db, current+steps)
}

func migrateTo(db *gorm.DB, target int) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current > LatestVersion() {
		return errs.NewMigrationMismatchError(current, LatestVersion())
	}

	for _, m := range migrations {
		if m.version <= current || m.version > target {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{
				Version:   m.version,
				Name:      m.name,
				AppliedAt: tx.NowFunc(),
			}).Error
		})
		if err != nil {
			return errs.NewTransactionFailedError(fmt.Sprintf("migration %d (%s)", m.version, m.name), err)
		}
		log.Info().Int("version", m.version).Str("name", m.name).Msg("Applied migration")
	}
	return nil
}
