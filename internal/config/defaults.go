package config

const (
	defaultConfigPath     = "~/.config/clubmatch/config.toml"
	defaultDataDir        = "~/.local/share/clubmatch"
	defaultLogDir         = "~/.local/share/clubmatch/logs"
	defaultAssetDestDir   = "~/.local/share/clubmatch/crests"
	defaultDatabaseDriver = DriverSQLite
	defaultSQLiteFile     = "clubs.db"
	defaultPublicPrefix   = "/club-crests/"
	defaultNameWeight     = 3
	defaultLocationWeight = 2
	defaultMinScore       = 1
	defaultMinKeyLength   = 3
	defaultOverlapRatio   = 0.7
	defaultItemizeLimit   = 50
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultRetentionDays  = 30
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var defaultNoiseWords = []string{
	"logo", "crest", "badge", "emblem",
	"gaa", "gfc", "fc", "club", "clg", "hc",
	"hurling", "camogie", "gaelic", "football",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			LogDir:       defaultLogDir,
			AssetDestDir: defaultAssetDestDir,
		},
		Database: Database{
			Driver: defaultDatabaseDriver,
		},
		Matching: Matching{
			NameWeight:     defaultNameWeight,
			LocationWeight: defaultLocationWeight,
			MinScore:       defaultMinScore,
			MinKeyLength:   defaultMinKeyLength,
			OverlapRatio:   defaultOverlapRatio,
		},
		Assets: Assets{
			PublicPrefix: defaultPublicPrefix,
			NoiseWords:   append([]string(nil), defaultNoiseWords...),
		},
		Report: Report{
			ItemizeLimit: defaultItemizeLimit,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
