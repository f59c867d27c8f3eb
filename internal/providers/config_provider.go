package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KanoeWallet/Kanoe/internal/structures"
	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("persistence.driver", "file")
	viper.SetDefault("cache.driver", "memory")
	viper.SetDefault("billing.period", "720h")

	viper.BindEnv("logger.level", "KANOE_LOG_LEVEL")
	viper.BindEnv("persistence.driver", "KANOE_PERSISTENCE_DRIVER")
	viper.BindEnv("persistence.saveInterval", "KANOE_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "KANOE_CACHE_ENABLED")
	viper.BindEnv("cache.driver", "KANOE_CACHE_DRIVER")
	viper.BindEnv("cache.size", "KANOE_CACHE_SIZE")
	viper.BindEnv("cache.redis.addr", "KANOE_REDIS_ADDR")
	viper.BindEnv("cache.redis.password", "KANOE_REDIS_PASSWORD")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "Kanoe"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
