package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aniketraj30/hackernews-scraper/internal/config"
	"github.com/aniketraj30/hackernews-scraper/internal/logging"
)

var (
	cfgFile string
	envFile string
	appCfg  config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hackernews-scraper",
	Short: "Scrape Hacker News and push new stories to websocket subscribers",
	Long: "Periodically scrapes the Hacker News front page into a relational store,\n" +
		"deduplicating by title, and broadcasts recently added stories over WebSocket.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// envBindings maps config keys to the plain environment variable names
// accepted alongside the SCRAPER_* ones.
var envBindings = map[string]string{
	"server.port":       "PORT",
	"database.driver":   "DB_DRIVER",
	"database.dsn":      "DATABASE_URL",
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.name":     "DB_NAME",
	"redis.addr":        "REDIS_ADDR",
	"redis.password":    "REDIS_PASSWORD",
}

func initConfig() {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "error reading env file: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := loadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	appCfg = cfg
	slog.SetDefault(logging.New(os.Stderr, appCfg.App.LogLevel, appCfg.App.LogFormat))
}

// loadConfig reads the config file (if any) and the environment into a
// defaulted Config. Every key is bound to SCRAPER_<KEY> so overrides work
// without a config file; keys in envBindings also accept the plain name.
func loadConfig(v *viper.Viper, file string) (config.Config, error) {
	var cfg config.Config

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/hackernews-scraper")
		v.AddConfigPath("configs")
	}

	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range config.Keys() {
		names := []string{key, "SCRAPER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if env, ok := envBindings[key]; ok {
			names = append(names, env)
		}
		if err := v.BindEnv(names...); err != nil {
			return cfg, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return cfg, fmt.Errorf("error reading config: %w", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.FillDefaults()
	return cfg, nil
}
// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}
