package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"rvd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("transport.token", "RVD_BOT_TOKEN")
	viper.BindEnv("transport.ownerId", "RVD_OWNER_ID")
	viper.BindEnv("logger.level", "RVD_LOG_LEVEL")
	viper.BindEnv("retention.window", "RVD_RETENTION_WINDOW")
	viper.BindEnv("retention.sweepInterval", "RVD_SWEEP_INTERVAL")
	viper.BindEnv("persistence.saveInterval", "RVD_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "RVD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "RVD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyDefaults(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ReportVerificationDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func applyDefaults(conf *structures.Config) {
	if conf.Transport.PollTimeout <= 0 {
		conf.Transport.PollTimeout = 30 * time.Second
	}
	if conf.Geocode.Timeout <= 0 {
		conf.Geocode.Timeout = 10 * time.Second
	}
	if conf.Retention.Window <= 0 {
		conf.Retention.Window = 7 * 24 * time.Hour
	}
	if conf.Retention.SweepInterval <= 0 {
		conf.Retention.SweepInterval = time.Hour
	}
	if conf.Broadcast.DeadCopyThreshold <= 0 {
		conf.Broadcast.DeadCopyThreshold = 3
	}
}
