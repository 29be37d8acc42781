package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/jonasmwansa/portfolio-backend/config"
	"github.com/jonasmwansa/portfolio-backend/errs"
)

const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// ConnectOptions describes how to reach the content store.
type ConnectOptions struct {
	Type          string
	DSN           string
	ReplicaDSN    string // postgres only; reads are routed here when set
	SQLitePath    string
	LogLevel      logger.LogLevel
	SlowThreshold time.Duration
	NowFunc       func() time.Time
}

// OptionsFromConfig reads the DB_* keys. DATABASE_URL wins over the
// individual host/user/password keys.
func OptionsFromConfig(c map[string]string) ConnectOptions {
	opts := ConnectOptions{
		Type:          strings.ToLower(config.GetString(c, "DB_TYPE", TypePostgres)),
		ReplicaDSN:    config.GetString(c, "DATABASE_REPLICA_DSN", ""),
		SQLitePath:    config.GetString(c, "SQLITE_PATH", "portfolio.db"),
		LogLevel:      logger.Warn,
		SlowThreshold: config.GetDuration(c, "DB_SLOW_THRESHOLD", 10*time.Second),
	}
	if config.GetBool(c, "DEBUG", false) {
		opts.LogLevel = logger.Info
	}

	opts.DSN = config.GetString(c, "DATABASE_URL", "")
	if opts.DSN == "" && opts.Type == TypePostgres {
		opts.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "portfolio"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "require"),
		)
	}
	return opts
}

// Connect opens the database, checks it answers, and installs the read
// replica resolver when one is configured.
func Connect(opts ConnectOptions) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Type {
	case TypePostgres:
		if opts.DSN == "" {
			return nil, errs.NewConfigMissingError("DATABASE_URL")
		}
		dialector = postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true,
		})
	case TypeSQLite:
		dialector = sqlite.Open(opts.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	default:
		return nil, errs.NewConfigInvalidError("DB_TYPE", fmt.Sprintf("unsupported database type %q", opts.Type))
	}

	nowFunc := opts.NowFunc
	if nowFunc == nil {
		nowFunc = func() time.Time { return time.Now().UTC() }
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		NowFunc:        nowFunc,
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             opts.SlowThreshold,
				LogLevel:                  opts.LogLevel,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", opts.Type, err)
	}

	if opts.Type == TypeSQLite {
		// SQLite allows a single writer; serialise through one connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if opts.ReplicaDSN != "" && opts.Type == TypePostgres {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  opts.ReplicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("registering read replica: %w", err)
		}
		zlog.Info().Msg("Read replica registered for content queries")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("testing database connection: %w", err)
	}

	zlog.Info().
		Str("type", opts.Type).
		Bool("replica", opts.ReplicaDSN != "").
		Msg("Connected to database")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		zlog.Warn().Err(err).Msg("Error closing database")
	}
}
