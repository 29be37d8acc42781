package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/jonasmwansa/portfolio-backend/api"
	"github.com/jonasmwansa/portfolio-backend/config"
	"github.com/jonasmwansa/portfolio-backend/database"
	"github.com/jonasmwansa/portfolio-backend/models"
	"github.com/jonasmwansa/portfolio-backend/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)
	log.Info().Msg("Initializing app...")

	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		if err := overlaySSM(c, prefix); err != nil {
			log.Fatal().Err(err).Str("path", prefix).Msg("Error loading parameters from SSM")
		}
	}

	db, err := database.Connect(database.OptionsFromConfig(c))
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	defer database.Close(db)

	currentDB := database.New(db)

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db, config.GetString(c, "GENERATE_MODELS_PATH", "./query")); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If stepping migrations, apply (or roll forward) only that many and exit
	if steps := config.GetInt(c, "MIGRATE_STEPS", 0); steps > 0 {
		if err := currentDB.MigrateStep(steps); err != nil {
			log.Fatal().Err(err).Int("steps", steps).Msg("Error applying migration steps")
		}
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		report, err := models.ColumnMismatchReport(db)
		if err != nil {
			log.Fatal().Err(err).Msg("Error building column mismatch report")
		}
		models.WriteColumnMismatchReport(os.Stdout, report)
		return
	}

	auth, err := services.NewAuthService(
		currentDB.AdminUserRepo(),
		config.GetString(c, "SECRET_KEY", ""),
		time.Duration(config.GetInt(c, "SESSION_TTL_HOURS", 12))*time.Hour,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing auth")
	}
	seedAdmin(auth, currentDB, c)

	mailer, err := newMailer(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing mailer")
	}

	recorder := services.NewAnalyticsRecorder(currentDB.AnalyticsRepo())

	contact, err := services.NewContactRelay(mailer, services.ContactConfig{
		OwnerEmail: config.GetString(c, "CONTACT_OWNER_EMAIL", ""),
		OwnerName:  config.GetString(c, "CONTACT_OWNER_NAME", ""),
		FromEmail:  config.GetString(c, "DEFAULT_FROM_EMAIL", ""),
	}, recorder)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing contact relay")
	}

	media, err := newMediaStore(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing media store")
	}

	analyticsJob, err := services.StartAnalyticsJob(recorder, config.GetString(c, "ANALYTICS_SCHEDULE", services.DailyAnalyticsSchedule))
	if err != nil {
		log.Fatal().Err(err).Msg("Error starting analytics job")
	}
	defer analyticsJob.Stop()

	// Buffered so the server goroutine can still report after shutdown.
	errChannel := make(chan error, 2)

	server, err := api.NewServer(api.Dependencies{
		Database: currentDB,
		Auth:     auth,
		Contact:  contact,
		Media:    media,
		Recorder: recorder,
		Config:   c,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogging(c map[string]string) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if config.GetBool(c, "DEBUG", false) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func overlaySSM(c map[string]string, prefix string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := config.NewSSMClient(ctx)
	if err != nil {
		return err
	}
	n, err := config.OverlaySSM(ctx, client, prefix, c)
	if err != nil {
		return err
	}
	log.Info().Int("parameters", n).Str("path", prefix).Msg("Loaded parameters from SSM")
	return nil
}

// seedAdmin creates the configured admin account and warns when the
// dashboard has nobody able to log in.
func seedAdmin(auth *services.AuthService, db database.Database, c map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	username := config.GetString(c, "ADMIN_USERNAME", "")
	created, err := auth.SeedAdmin(ctx, username, config.GetString(c, "ADMIN_PASSWORD", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("Error seeding admin user")
	}
	if created {
		log.Info().Str("username", username).Msg("Admin user created")
	}

	admins, err := db.AdminUserRepo().Count(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not count admin users")
		return
	}
	if admins == 0 {
		log.Warn().Msg("No admin users exist; set ADMIN_USERNAME and ADMIN_PASSWORD to enable the dashboard")
	}
}

func newMailer(c map[string]string) (services.Mailer, error) {
	switch backend := config.GetString(c, "MAIL_BACKEND", "log"); backend {
	case "resend":
		mailer, err := services.NewResendMailer(config.GetString(c, "RESEND_API_KEY", ""))
		if err != nil {
			return nil, err
		}
		return mailer, nil
	case "log":
		log.Warn().Msg("MAIL_BACKEND=log: contact messages are logged, not delivered")
		return services.NewLogMailer(log.With().Str("service", "logMailer").Logger()), nil
	default:
		return nil, fmt.Errorf("unsupported MAIL_BACKEND %q", backend)
	}
}

func newMediaStore(c map[string]string) (services.MediaStore, error) {
	switch backend := config.GetString(c, "MEDIA_BACKEND", "local"); backend {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		client, err := services.NewS3Client(ctx)
		if err != nil {
			return nil, err
		}
		store, err := services.NewS3MediaStore(client,
			config.GetString(c, "MEDIA_S3_BUCKET", ""),
			config.GetString(c, "MEDIA_S3_PREFIX", ""),
			config.GetString(c, "MEDIA_URL", ""),
		)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "local":
		return services.NewLocalMediaStore(
			config.GetString(c, "MEDIA_ROOT", "media"),
			config.GetString(c, "MEDIA_URL", "/media/"),
		), nil
	default:
		return nil, fmt.Errorf("unsupported MEDIA_BACKEND %q", backend)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
