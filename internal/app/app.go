package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haguru/seedkit/config"
	accountRepo "github.com/haguru/seedkit/internal/accountrepo/mongo"
	"github.com/haguru/seedkit/internal/inspector"
	"github.com/haguru/seedkit/internal/interfaces"
	investorRepo "github.com/haguru/seedkit/internal/investorrepo/mongo"
	"github.com/haguru/seedkit/internal/models"
	"github.com/haguru/seedkit/internal/seeder"
	"github.com/haguru/seedkit/pkg/databases/mongo"
	"github.com/haguru/seedkit/pkg/metrics"
	"github.com/haguru/seedkit/pkg/zerolog"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// App represents one run of a command: the resolved configuration,
// its logger and metrics, and the database client it owns.
type App struct {
	Config    *config.ServiceConfig
	Logger    interfaces.Logger
	Metrics   interfaces.Metrics
	DBClient  interfaces.DBClient
	Validator *structValidator.Validate
	RunID     string
}

// NewApp creates and configures a new App instance for command.
// The configuration must already be resolved; NewApp never reads the environment.
func NewApp(cfg *config.ServiceConfig, command string) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	// Validate the configuration
	validator := structValidator.New()
	if err := validator.Struct(cfg); err != nil {
		var validationErrors structValidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validation error: %s", validationErrors)
		}
		return nil, fmt.Errorf("validation error: %v", err)
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)

	dbClient, err := mongo.NewMongoDB(&cfg.Database.MongoDB, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %v", err)
	}

	return newApp(cfg, command, logger, dbClient, validator), nil
}

func newApp(cfg *config.ServiceConfig, command string, logger interfaces.Logger, dbClient interfaces.DBClient, validator *structValidator.Validate) *App {
	runID := uuid.NewString()
	app := &App{
		Config:    cfg,
		Logger:    logger.WithContext(map[string]interface{}{"run_id": runID, "command": command}),
		DBClient:  dbClient,
		Validator: validator,
		RunID:     runID,
	}
	app.Metrics = app.initializeMetrics()
	return app
}

func (app *App) initializeMetrics() interfaces.Metrics {
	appMetrics := metrics.NewMetrics(app.Config.ServiceName)
	appMetrics.RegisterCounter(ConnectFailuresTotal, ConnectFailuresTotalHelp)
	appMetrics.RegisterCounterVec(SeedRunsTotal, SeedRunsTotalHelp, []string{"role", "outcome"})
	appMetrics.RegisterHistogram(SeedDurationSeconds, SeedDurationSecondsHelp, SeedDurationSecondsBuckets)
	appMetrics.RegisterCounterVec(InspectionRunsTotal, InspectionRunsTotalHelp, []string{"outcome"})
	appMetrics.RegisterGauge(InvestorDocuments, InvestorDocumentsHelp)
	appMetrics.RegisterGauge(DatabaseCollections, DatabaseCollectionsHelp)
	appMetrics.RegisterGauge(LastRunTimestampSeconds, LastRunTimestampSecondsHelp)
	return appMetrics
}

// withConnection connects, runs task and disconnects exactly once, whatever
// happens in between. Disconnect after a failed connect is best-effort.
func (app *App) withConnection(ctx context.Context, task func(ctx context.Context) error) error {
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), DisconnectTimeout)
		defer cancel()
		if err := app.DBClient.Disconnect(disconnectCtx); err != nil {
			app.Logger.Warn(MsgDisconnectFailed, "error", err)
			return
		}
		app.Logger.Info("Database connection closed")
	}()

	if err := app.DBClient.Connect(ctx, app.Config.Database.MongoDB.DSN); err != nil {
		app.Logger.Error(MsgConnectFailed, "error", err)
		app.Metrics.IncCounter(ConnectFailuresTotal)
		return err
	}
	app.Logger.Info("Database connection established")

	return task(ctx)
}

// RunSeeder ensures the default account of role exists and reports what it found or created.
func (app *App) RunSeeder(ctx context.Context, role models.Role, defaults seeder.Defaults) error {
	start := time.Now()
	outcome := OutcomeError

	err := app.withConnection(ctx, func(ctx context.Context) error {
		repo, err := accountRepo.NewMongoAccountRepository(app.DBClient, role)
		if err != nil {
			return err
		}

		s := seeder.NewSeeder(repo, app.Logger, app.Validator, app.Config.Seed.BcryptCost)
		result, err := s.Seed(ctx, role, defaults)
		if err != nil {
			return err
		}

		app.reportSeed(role, result, defaults)
		outcome = string(result.Outcome)
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, interfaces.ErrDuplicateKey):
		outcome = OutcomeDuplicate
		app.Logger.Warn(MsgAccountRaceExisting, "role", role.String(),
			"email", defaults.Email, "username", defaults.Username)
	default:
		app.Logger.Error(MsgSeedFailed, "role", role.String(), "error", err)
	}

	app.Metrics.IncCounterVec(SeedRunsTotal, role.String(), outcome)
	app.Metrics.ObserveHistogram(SeedDurationSeconds, time.Since(start).Seconds())
	app.flushMetrics()

	return err
}

func (app *App) reportSeed(role models.Role, result *seeder.Result, defaults seeder.Defaults) {
	account := result.Account
	switch result.Outcome {
	case seeder.OutcomeExisting:
		app.Logger.Info(MsgAccountExisting,
			"role", role.String(),
			"id", result.ID,
			"email", account.Email,
			"username", account.Username,
			"fullName", account.FullName)
	case seeder.OutcomeCreated:
		app.Logger.Info(MsgAccountCreated,
			"role", role.String(),
			"id", result.ID,
			"email", account.Email,
			"username", account.Username,
			"fullName", account.FullName)
		// bootstrap values, not secrets
		app.Logger.Warn(MsgDefaultCredentials,
			"email", defaults.Email,
			"username", defaults.Username,
			"password", defaults.Password)
	}
}

// RunInspector reports on the investors collection. It never writes.
func (app *App) RunInspector(ctx context.Context) error {
	err := app.withConnection(ctx, func(ctx context.Context) error {
		repo, err := investorRepo.NewMongoInvestorRepository(app.DBClient)
		if err != nil {
			return err
		}

		report, err := inspector.NewInspector(repo, app.Logger).Inspect(ctx)
		if err != nil {
			return err
		}

		app.Metrics.SetGauge(InvestorDocuments, float64(report.Count))
		app.Metrics.SetGauge(DatabaseCollections, float64(len(report.Collections)))
		app.Logger.Info(MsgInspectionDone, "exists", report.Exists, "count", report.Count)
		return nil
	})

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		app.Logger.Error(MsgInspectionFailed, "error", err)
	}
	app.Metrics.IncCounterVec(InspectionRunsTotal, outcome)
	app.flushMetrics()

	return err
}

func (app *App) flushMetrics() {
	app.Metrics.SetGauge(LastRunTimestampSeconds, float64(time.Now().Unix()))
	if app.Config.MetricsTextfile == "" {
		return
	}
	if err := app.Metrics.WriteTextfile(app.Config.MetricsTextfile); err != nil {
		app.Logger.Warn(MsgMetricsWriteFailed, "path", app.Config.MetricsTextfile, "error", err)
	}
}

// ExitCode maps the result of a run to the process exit status.
func ExitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
