package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	DB          DBConfig          `mapstructure:"db"`
	Cron        CronConfig        `mapstructure:"cron"`
	IGDB        IGDBConfig        `mapstructure:"igdb"`
	CatalogSync CatalogSyncConfig `mapstructure:"catalog_sync"`
	Search      SearchConfig      `mapstructure:"search"`
	Recommend   RecommendConfig   `mapstructure:"recommend"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	CatalogSync string `mapstructure:"catalog_sync"`
}

type IGDBConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	AuthURL      string        `mapstructure:"auth_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type CatalogSyncConfig struct {
	Scope            string        `mapstructure:"scope"`
	PageLimit        int           `mapstructure:"page_limit"`
	MaxPages         int           `mapstructure:"max_pages"`
	Resume           bool          `mapstructure:"resume"`
	RateLimitBackoff time.Duration `mapstructure:"rate_limit_backoff"`
}

type SearchConfig struct {
	Host    string        `mapstructure:"host"`
	APIKey  string        `mapstructure:"api_key"`
	Index   string        `mapstructure:"index"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RecommendConfig struct {
	TopN          int     `mapstructure:"top_n"`
	GenreWeight   float64 `mapstructure:"genre_weight"`
	KeywordWeight float64 `mapstructure:"keyword_weight"`
	ThemeWeight   float64 `mapstructure:"theme_weight"`
	SeriesBonus   float64 `mapstructure:"series_bonus"`
	// "zero" treats two empty attribute sets as no signal, "one" as identical.
	EmptyPolicy string `mapstructure:"empty_policy"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.catalog_sync", "@every 12h")
	v.SetDefault("igdb.base_url", "https://api.igdb.com/v4")
	v.SetDefault("igdb.auth_url", "https://id.twitch.tv/oauth2/token")
	v.SetDefault("igdb.timeout", "15s")
	v.SetDefault("catalog_sync.scope", "all")
	v.SetDefault("catalog_sync.page_limit", 500)
	v.SetDefault("catalog_sync.max_pages", 20)
	v.SetDefault("catalog_sync.resume", true)
	v.SetDefault("catalog_sync.rate_limit_backoff", "60s")
	v.SetDefault("search.host", "http://localhost:7700")
	v.SetDefault("search.index", "games")
	v.SetDefault("search.timeout", "10s")
	v.SetDefault("recommend.top_n", 5)
	v.SetDefault("recommend.genre_weight", 0.4)
	v.SetDefault("recommend.keyword_weight", 0.3)
	v.SetDefault("recommend.theme_weight", 0.3)
	v.SetDefault("recommend.series_bonus", 0.5)
	v.SetDefault("recommend.empty_policy", "zero")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
