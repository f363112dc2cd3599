package constants

// Pipeline

const (
	StatsCaptureFrequencySeconds  = 5
	TimeFormatYearSeconds         = "20060102T150405" // used for human readable file names
	TimeFormatYearSecondsRegex    = "[0-9]{4}[0-9]{2}[0-9]{2}T[0-9]{6}"
	TimeFormatYearSecondsTZ       = "20060102T150405-0700" // a format that includes the time zone.
	TimeFormatDate                = "2006-01-02"           // snapshot dates and run dates share this layout
	EnvVarPrefix                  = "AP"                   // prefix for environment variables in twelveFactorMode
	ActionFuncsCommandFetch       = "fetch"
	ActionFuncsCommandNormalize   = "normalize"
	ActionFuncsCommandTable       = "table"
	ActionFuncsCommandLoad        = "load"
	ActionFuncsCommandExport      = "export"
	ActionFuncsCommandRun         = "run"
	ActionFuncsSubCommandRecreate = "recreate"
	ConnectionTypePostgres        = "postgres"
	ConnectionTypeMockPostgres    = "mockPostgres"
	ConnectionTypeS3              = "s3"
)

// Snapshot defaults. Each one feeds a CLI flag default so it can be
// overridden per run - see the cmd package.

const (
	DefaultScratchDir        = "/tmp/airbnbdata"
	DefaultUrlTemplate       = "https://data.insideairbnb.com/united-states/ny/albany/${date}/visualisations/listings.csv"
	DefaultRawFilePattern    = "listing-${date}.csv"
	DefaultProcessedPattern  = "listing-${date}-processed.csv"
	DefaultTableName         = "listings"
	DefaultNullToken         = `\N`
	DefaultExportQuery       = "SELECT * FROM listings where load_date = CURRENT_DATE"
	DefaultExportKeyTemplate = "airbnb-test/postgres_data_${ds}.csv"
)

// DefaultSnapshotDates is the fixed list of Inside Airbnb listing snapshot
// dates loaded when the dates flag is not supplied.
const DefaultSnapshotDates = "2025-11-07,2025-10-05,2025-09-06,2025-08-04,2025-07-04,2025-06-09,2025-05-02,2025-04-03,2025-03-02,2025-02-06,2025-01-05"
