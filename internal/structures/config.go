package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Transport struct {
	Token       string        `yaml:"token" validate:"required"`
	OwnerID     int64         `yaml:"ownerId" validate:"required"`
	PollTimeout time.Duration `yaml:"pollTimeout"`
}

type Geocode struct {
	Endpoint  string        `yaml:"endpoint" validate:"required|fullUrl"`
	UserAgent string        `yaml:"userAgent"`
	Referer   string        `yaml:"referer"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Persistence struct {
	ReportsPath  string        `yaml:"reportsPath" validate:"required|unixPath"`
	ChannelsPath string        `yaml:"channelsPath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type RetentionConfig struct {
	Window        time.Duration `yaml:"window" validate:"required|min:1"`
	SweepInterval time.Duration `yaml:"sweepInterval" validate:"required|min:1"`
	ArchiveDir    string        `yaml:"archiveDir"`
}

type BroadcastConfig struct {
	DeadCopyThreshold int `yaml:"deadCopyThreshold"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Transport   Transport       `yaml:"transport"`
	Geocode     Geocode         `yaml:"geocode"`
	Retention   RetentionConfig `yaml:"retention"`
	Broadcast   BroadcastConfig `yaml:"broadcast"`
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}
