package config

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.FillDefaults()

	assert.Equal(t, "info", c.App.LogLevel)
	assert.Equal(t, "text", c.App.LogFormat)
	assert.Equal(t, 3000, c.Server.Port)
	assert.Equal(t, "mysql", c.Database.Driver)
	assert.Equal(t, 3306, c.Database.Port)
	assert.Equal(t, "https://news.ycombinator.com/", c.Sources.HN.URL)
	assert.Equal(t, "5m", c.Sources.HN.FetchInterval)
	assert.Equal(t, "1m", c.Broadcast.Interval)
	assert.Equal(t, "1m", c.Broadcast.Window)
	assert.Equal(t, "5m", c.Broadcast.HandshakeWindow)
	assert.False(t, c.Redis.Enabled)
}

func TestFillDefaults_DriverAliases(t *testing.T) {
	cases := map[string]string{
		"":           "mysql",
		"pgx":        "postgres",
		"PostgreSQL": "postgres",
		"sqlite":     "sqlite3",
	}
	for in, want := range cases {
		c := Config{Database: DatabaseConfig{Driver: in}}
		c.FillDefaults()
		assert.Equal(t, want, c.Database.Driver, "driver %q", in)
	}

	pg := Config{Database: DatabaseConfig{Driver: "postgres"}}
	pg.FillDefaults()
	assert.Equal(t, 5432, pg.Database.Port)
}

func TestBuildDSN(t *testing.T) {
	my := DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", Name: "hn"}
	assert.Equal(t, "u:p@tcp(db:3306)/hn?parseTime=true", my.BuildDSN())

	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Name: "hn", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/hn?sslmode=disable", pg.BuildDSN())

	noPass := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Name: "hn", SSLMode: "disable"}
	assert.Equal(t, "postgres://u@db:5432/hn?sslmode=disable", noPass.BuildDSN())

	lite := DatabaseConfig{Driver: "sqlite3", Name: "/tmp/stories.db"}
	assert.Equal(t, "/tmp/stories.db", lite.BuildDSN())

	explicit := DatabaseConfig{Driver: "mysql", DSN: "root@/x", Host: "ignored"}
	assert.Equal(t, "root@/x", explicit.BuildDSN())
}

func TestRedacted(t *testing.T) {
	c := Config{
		Database: DatabaseConfig{Password: "secret"},
		Redis:    RedisConfig{Password: ""},
	}
	r := c.Redacted()
	assert.Equal(t, "******", r.Database.Password)
	assert.Equal(t, "", r.Redis.Password)
	assert.Equal(t, "secret", c.Database.Password, "receiver must not change")
}

func TestListenAddr(t *testing.T) {
	assert.Equal(t, ":3000", ServerConfig{Port: 3000}.ListenAddr())
	assert.Equal(t, "127.0.0.1:8080", ServerConfig{Host: "127.0.0.1", Port: 8080}.ListenAddr())
}

func TestBuildDSN_PostgresSpecialCharacters(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "app user", Password: "p w@d/x", Name: "hn", SSLMode: "require"}
	u, err := url.Parse(d.BuildDSN())
	require.NoError(t, err)

	pass, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p w@d/x", pass)
	assert.Equal(t, "app user", u.User.Username())
	assert.Equal(t, "/hn", u.Path)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestKeys(t *testing.T) {
	keys := Keys()
	for _, want := range []string{
		"app.log_level",
		"server.port",
		"database.password",
		"redis.enabled",
		"sources.hackernews.url",
		"sources.hackernews.fetch_interval",
		"broadcast.interval",
		"broadcast.handshake_window",
	} {
		assert.Contains(t, keys, want)
	}
	assert.NotContains(t, keys, "sources")
}
