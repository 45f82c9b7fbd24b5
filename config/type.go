package config

type Config struct {
	DB     DBConfig     `json:"db"  yaml:"db"`
	Logger LoggerConfig `json:"logger"  yaml:"logger"`
	Server ServerConfig `json:"server"  yaml:"server"`
	Scan   ScanConfig   `json:"scan"  yaml:"scan"`
}

type DBConfig struct {
	Host     string `json:"host"  yaml:"host"`
	Port     uint   `json:"port"  yaml:"port"`
	Username string `json:"username"  yaml:"username"`
	Password string `json:"password"  yaml:"password"`
	Database string `json:"database"  yaml:"database"`
}

type ServerConfig struct {
	HttpPort          uint   `json:"httpPort"  yaml:"httpPort"`
	Secret            string `json:"secret"  yaml:"secret"`
	SslEnabled        bool   `json:"sslEnabled"  yaml:"sslEnabled"`
	Key               string `json:"key"  yaml:"key"`
	Cert              string `json:"cert"  yaml:"cert"`
	AuthExpMinute     uint   `json:"authExpMin"  yaml:"authExpMin"`
	AuthRefreshMinute uint   `json:"authExpRefreshMin"  yaml:"authExpRefreshMin"`
}

type LoggerConfig struct {
	Level  string `json:"level"  yaml:"level"`
	Output string `json:"output"  yaml:"output"`
	Path   string `json:"path"  yaml:"path"`
}

// ScanConfig controls the scan orchestration core. The severity weights feed
// the report score and are business policy rather than constants, so they
// stay configurable.
type ScanConfig struct {
	MaxConcurrentToolRuns int  `json:"maxConcurrentToolRuns"  yaml:"maxConcurrentToolRuns"`
	ToolTimeoutSeconds    uint `json:"toolTimeoutSec"  yaml:"toolTimeoutSec"`
	HighSeverityWeight    int  `json:"highSeverityWeight"  yaml:"highSeverityWeight"`
	MediumSeverityWeight  int  `json:"mediumSeverityWeight"  yaml:"mediumSeverityWeight"`
	RetentionMinutes      uint `json:"retentionMin"  yaml:"retentionMin"`
	SweepIntervalMinutes  uint `json:"sweepIntervalMin"  yaml:"sweepIntervalMin"`
}

// WithDefaults fills zero values with the operational defaults.
func (c ScanConfig) WithDefaults() ScanConfig {
	if c.MaxConcurrentToolRuns <= 0 {
		c.MaxConcurrentToolRuns = 4
	}
	if c.ToolTimeoutSeconds == 0 {
		c.ToolTimeoutSeconds = 120
	}
	if c.HighSeverityWeight <= 0 {
		c.HighSeverityWeight = 20
	}
	if c.MediumSeverityWeight <= 0 {
		c.MediumSeverityWeight = 10
	}
	if c.RetentionMinutes == 0 {
		c.RetentionMinutes = 24 * 60
	}
	if c.SweepIntervalMinutes == 0 {
		c.SweepIntervalMinutes = 10
	}
	return c
}
