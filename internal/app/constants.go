package app

import "time"

var (
	SeedDurationSecondsBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
)

const (
	AdminSeederCommand       = "admin-seeder"
	UserSeederCommand        = "user-seeder"
	InvestorInspectorCommand = "investor-inspector"

	DisconnectTimeout = 5 * time.Second

	// outcome labels
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
	OutcomeOK        = "ok"

	// message constants
	MsgAccountCreated      = "Account created"
	MsgAccountExisting     = "Account already exists, nothing to do"
	MsgDefaultCredentials  = "Default credentials issued; change the password after the first login"
	MsgAccountRaceExisting = "Account already exists (inserted concurrently by another process)"
	MsgSeedFailed          = "Seeding failed"
	MsgInspectionFailed    = "Inspection failed"
	MsgInspectionDone      = "Inspection complete"
	MsgConnectFailed       = "Failed to connect to database"
	MsgDisconnectFailed    = "Failed to disconnect from database"
	MsgMetricsWriteFailed  = "Failed to write metrics textfile"

	// metrics constants
	ConnectFailuresTotal        = "database_connect_failures_total"
	ConnectFailuresTotalHelp    = "Total number of failed database connection attempts"
	SeedRunsTotal               = "seed_runs_total"
	SeedRunsTotalHelp           = "Total number of seed runs by role and outcome"
	SeedDurationSeconds         = "seed_duration_seconds"
	SeedDurationSecondsHelp     = "Duration of seed runs in seconds"
	InspectionRunsTotal         = "inspection_runs_total"
	InspectionRunsTotalHelp     = "Total number of inspection runs by outcome"
	InvestorDocuments           = "investor_documents"
	InvestorDocumentsHelp       = "Number of documents in the investors collection at the last inspection"
	DatabaseCollections         = "database_collections"
	DatabaseCollectionsHelp     = "Number of collections in the database at the last inspection"
	LastRunTimestampSeconds     = "last_run_timestamp_seconds"
	LastRunTimestampSecondsHelp = "Unix time of the last completed run"
)
