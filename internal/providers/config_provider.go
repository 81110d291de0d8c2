package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	// Settings the user usually leaves alone are merged in as defaults.
	viper.SetDefault("vault.postsFolder", "blog")
	viper.SetDefault("vault.noteExt", ".md")
	viper.SetDefault("vault.debounce", time.Second)
	viper.SetDefault("vault.watchEnabled", true)
	viper.SetDefault("vault.titleKey", "title")
	viper.SetDefault("vault.dateKey", "date")
	viper.SetDefault("vault.publishedUrlKey", "url")
	viper.SetDefault("vault.unlistedKey", "unlisted")
	viper.SetDefault("vault.passwordKey", "password")
	viper.SetDefault("dispatch.statusFile", ".dispatch/status.json")
	viper.SetDefault("dispatch.queueFile", ".dispatch/queue.json")
	viper.SetDefault("dispatch.freshnessWindow", 5*time.Minute)
	viper.SetDefault("dispatch.pollInterval", 30*time.Second)
	viper.SetDefault("dispatch.pollEnabled", true)
	viper.SetDefault("dispatch.defaultNote", "Ready for review")
	viper.SetDefault("goals.dailyWords", 500)
	viper.SetDefault("goals.milestones", []int{100, 250, 500, 1000, 2000, 5000})
	viper.SetDefault("goals.wordsPerLine", 8)
	viper.SetDefault("goals.bytesPerWord", 6)
	viper.SetDefault("goals.streaksEnabled", true)
	viper.SetDefault("goals.celebrationsEnabled", true)

	viper.BindEnv("vault.path", "DISPATCH_VAULT_PATH")
	viper.BindEnv("logger.level", "DISPATCH_LOG_LEVEL")
	viper.BindEnv("dispatch.pollInterval", "DISPATCH_POLL_INTERVAL")
	viper.BindEnv("persistence.saveInterval", "DISPATCH_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "DISPATCH_CACHE_ENABLED")
	viper.BindEnv("cache.size", "DISPATCH_CACHE_SIZE")

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

	conf.AppName = "DispatchCompanion"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
