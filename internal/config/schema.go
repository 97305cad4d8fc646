package config

// Config is the top-level YAML structure.
type Config struct {
	Version        string     `yaml:"version"`
	Engine         EngineConf `yaml:"engine"`
	Store          StoreConf  `yaml:"store"`
	DefaultProfile string     `yaml:"default_profile"`
	Profiles       []Profile  `yaml:"profiles"`
}

// EngineConf holds tunable concurrency settings.
type EngineConf struct {
	ReportWorkers   int `yaml:"report_workers"`
	QueueDepth      int `yaml:"queue_depth"`
	ShardWorkers    int `yaml:"shard_workers"`
	ReportTimeoutMs int `yaml:"report_timeout_ms"`
	JobRetention    int `yaml:"job_retention"`
}

// StoreConf selects where snapshots are loaded from when a request carries none.
type StoreConf struct {
	Driver string `yaml:"driver"` // "file" | "postgres" | "none"
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// Profile is one report configuration, e.g. the dashboard or the attendance grid.
// A nil category list takes the dashboard default; an empty list blocks nothing.
type Profile struct {
	ID                      string   `yaml:"id"`
	Description             string   `yaml:"description"`
	BlockingCategories      []string `yaml:"blocking_categories"`
	LeaveBlockingCategories []string `yaml:"leave_blocking_categories"`
	PrivilegeAge            *int     `yaml:"privilege_age"` // nil: default; 0 disables
	ActiveOnly              bool     `yaml:"active_only"`
	Sections                []string `yaml:"sections"` // empty = all but grid
}

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)
