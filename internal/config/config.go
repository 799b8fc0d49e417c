package config

import (
	"net"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"` // text or json
}

// ServerConfig controls the HTTP/WebSocket listener.
type ServerConfig struct {
	Host         string `mapstructure:"host" yaml:"host"`
	Port         int    `mapstructure:"port" yaml:"port"`
	WriteTimeout string `mapstructure:"write_timeout" yaml:"write_timeout"` // per-message websocket write deadline
}

// ListenAddr returns host:port for net/http.
func (s ServerConfig) ListenAddr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" yaml:"driver"` // mysql, postgres or sqlite3
	DSN          string `mapstructure:"dsn" yaml:"dsn"`       // overrides the individual pieces below
	Host         string `mapstructure:"host" yaml:"host"`
	Port         int    `mapstructure:"port" yaml:"port"`
	User         string `mapstructure:"user" yaml:"user"`
	Password     string `mapstructure:"password" yaml:"password"`
	Name         string `mapstructure:"name" yaml:"name"` // database name, or file path for sqlite3
	SSLMode      string `mapstructure:"sslmode" yaml:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
}

// BuildDSN composes a driver-specific DSN when DSN is not set explicitly.
// Postgres gets a URL so empty or space-containing credentials survive.
func (d DatabaseConfig) BuildDSN() string {
	if strings.TrimSpace(d.DSN) != "" {
		return d.DSN
	}
	switch d.Driver {
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
			Path:   "/" + d.Name,
		}
		switch {
		case d.User != "" && d.Password != "":
			u.User = url.UserPassword(d.User, d.Password)
		case d.User != "":
			u.User = url.User(d.User)
		}
		if d.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
		}
		return u.String()
	case "sqlite3":
		return d.Name
	default:
		return d.User + ":" + d.Password + "@tcp(" +
			net.JoinHostPort(d.Host, strconv.Itoa(d.Port)) + ")/" + d.Name + "?parseTime=true"
	}
}

// RedisConfig holds redis connection settings. Redis is optional; when
// disabled the ingest lock and run stats stay in-process.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

// HackerNewsConfig controls the listing page source.
type HackerNewsConfig struct {
	URL           string `mapstructure:"url" yaml:"url"`
	FetchInterval string `mapstructure:"fetch_interval" yaml:"fetch_interval"` // duration string, e.g., "5m"
	Timeout       string `mapstructure:"timeout" yaml:"timeout"`
	UserAgent     string `mapstructure:"user_agent" yaml:"user_agent"`
}

// DataSources groups available collectors.
type DataSources struct {
	HN HackerNewsConfig `mapstructure:"hackernews" yaml:"hackernews"`
}

// BroadcastConfig controls the fan-out of recent stories to subscribers.
type BroadcastConfig struct {
	Interval        string `mapstructure:"interval" yaml:"interval"`
	Window          string `mapstructure:"window" yaml:"window"`
	HandshakeWindow string `mapstructure:"handshake_window" yaml:"handshake_window"`
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app" yaml:"app"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
	Sources   DataSources     `mapstructure:"sources" yaml:"sources"`
	Broadcast BroadcastConfig `mapstructure:"broadcast" yaml:"broadcast"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "10s"
	}
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "", "mysql":
		c.Database.Driver = "mysql"
	case "postgres", "postgresql", "pgx":
		c.Database.Driver = "postgres"
	case "sqlite", "sqlite3":
		c.Database.Driver = "sqlite3"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case "postgres":
			c.Database.Port = 5432
		default:
			c.Database.Port = 3306
		}
	}
	if c.Database.Name == "" {
		if c.Database.Driver == "sqlite3" {
			c.Database.Name = "stories.db"
		} else {
			c.Database.Name = "hackernews"
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Sources.HN.URL == "" {
		c.Sources.HN.URL = "https://news.ycombinator.com/"
	}
	if c.Sources.HN.FetchInterval == "" {
		c.Sources.HN.FetchInterval = "5m"
	}
	if c.Sources.HN.Timeout == "" {
		c.Sources.HN.Timeout = "20s"
	}
	if c.Sources.HN.UserAgent == "" {
		c.Sources.HN.UserAgent = "hackernews-scraper/1.0"
	}
	if c.Broadcast.Interval == "" {
		c.Broadcast.Interval = "1m"
	}
	if c.Broadcast.Window == "" {
		c.Broadcast.Window = "1m"
	}
	if c.Broadcast.HandshakeWindow == "" {
		c.Broadcast.HandshakeWindow = "5m"
	}
}

// Redacted returns a copy with secrets masked, suitable for printing.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "******"
	}
	c.Database.Password = mask(c.Database.Password)
	c.Redis.Password = mask(c.Redis.Password)
	if c.Database.DSN != "" {
		c.Database.DSN = mask(c.Database.DSN)
	}
	return c
}

// Keys lists every dotted config key ("sources.hackernews.url", ...) so the
// loader can bind each one to its environment variable.
func Keys() []string {
	return collectKeys(reflect.TypeOf(Config{}), "")
}

func collectKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("mapstructure"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct {
			keys = append(keys, collectKeys(f.Type, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
