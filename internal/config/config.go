package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Источники данных для таблицы Locations
const (
	SourceREST     = "rest"
	SourcePostgres = "postgres"
)

// Режимы слежения за позицией
const (
	TrackingPan  = "pan"
	TrackingJump = "jump"
)

// ErrMissingStoreCredentials - не заданы URL или ключ Supabase
var ErrMissingStoreCredentials = errors.New("supabase URL or key is missing, check SUPABASE_URL and SUPABASE_ANON_KEY")

type Config struct {
	Server   ServerConfig
	Supabase SupabaseConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Map      MapConfig
	Geo      GeoConfig
	Session  SessionConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type SupabaseConfig struct {
	URL            string
	AnonKey        string
	Source         string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// SubscriberPoolSize - пул соединений для блокирующих чтений стримов позиций
	SubscriberPoolSize int
}

type MapConfig struct {
	TileURL       string
	Attribution   string
	DefaultZoom   int
	IconURL       string
	IconRetinaURL string
	ShadowURL     string
	LinkLabel     string
}

type GeoConfig struct {
	HighAccuracy bool
	MaximumAge   time.Duration
	Timeout      time.Duration
	TrackingMode string
}

type SessionConfig struct {
	IdleTTL      time.Duration
	ReapInterval time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile читает конфигурацию из файла и переменных окружения.
// Отсутствующий файл допустим, отсутствующие креды Supabase - нет.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("API_CORS_ORIGINS"),
		},
		Supabase: SupabaseConfig{
			URL:            strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
			AnonKey:        v.GetString("SUPABASE_ANON_KEY"),
			Source:         strings.ToLower(v.GetString("LOCATIONS_SOURCE")),
			RequestTimeout: time.Duration(v.GetInt("SUPABASE_REQUEST_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),

			SubscriberPoolSize: v.GetInt("REDIS_SUBSCRIBER_POOL_SIZE"),
		},
		Map: MapConfig{
			TileURL:       v.GetString("MAP_TILE_URL"),
			Attribution:   v.GetString("MAP_ATTRIBUTION"),
			DefaultZoom:   v.GetInt("MAP_DEFAULT_ZOOM"),
			IconURL:       v.GetString("MAP_ICON_URL"),
			IconRetinaURL: v.GetString("MAP_ICON_RETINA_URL"),
			ShadowURL:     v.GetString("MAP_SHADOW_URL"),
			LinkLabel:     v.GetString("MAP_LINK_LABEL"),
		},
		Geo: GeoConfig{
			HighAccuracy: true,
			MaximumAge:   time.Duration(v.GetInt("GEO_MAXIMUM_AGE_MS")) * time.Millisecond,
			Timeout:      time.Duration(v.GetInt("GEO_TIMEOUT_MS")) * time.Millisecond,
			TrackingMode: strings.ToLower(v.GetString("TRACKING_MODE")),
		},
		Session: SessionConfig{
			IdleTTL:      time.Duration(v.GetInt("SESSION_IDLE_TTL")) * time.Second,
			ReapInterval: time.Duration(v.GetInt("SESSION_REAP_INTERVAL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if v.IsSet("GEO_HIGH_ACCURACY") {
		cfg.Geo.HighAccuracy = v.GetBool("GEO_HIGH_ACCURACY")
	}

	if cfg.Supabase.URL == "" || cfg.Supabase.AnonKey == "" {
		return nil, ErrMissingStoreCredentials
	}

	applyDefaults(cfg)

	if cfg.Supabase.Source != SourceREST && cfg.Supabase.Source != SourcePostgres {
		return nil, fmt.Errorf("unknown LOCATIONS_SOURCE %q", cfg.Supabase.Source)
	}
	if cfg.Geo.TrackingMode != TrackingPan && cfg.Geo.TrackingMode != TrackingJump {
		return nil, fmt.Errorf("unknown TRACKING_MODE %q", cfg.Geo.TrackingMode)
	}

	return cfg, nil
}

// Set default values if not provided
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Supabase.Source == "" {
		cfg.Supabase.Source = SourceREST
	}
	if cfg.Supabase.RequestTimeout == 0 {
		cfg.Supabase.RequestTimeout = 30 * time.Second
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "require"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 5
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.SubscriberPoolSize == 0 {
		cfg.Redis.SubscriberPoolSize = 64
	}
	if cfg.Map.TileURL == "" {
		cfg.Map.TileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	}
	if cfg.Map.Attribution == "" {
		cfg.Map.Attribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	}
	if cfg.Map.DefaultZoom == 0 {
		cfg.Map.DefaultZoom = 2
	}
	if cfg.Map.IconURL == "" {
		cfg.Map.IconURL = "https://cdnjs.cloudflare.com/ajax/libs/leaflet/1.3.1/images/marker-icon.png"
	}
	if cfg.Map.IconRetinaURL == "" {
		cfg.Map.IconRetinaURL = "https://cdnjs.cloudflare.com/ajax/libs/leaflet/1.3.1/images/marker-icon-2x.png"
	}
	if cfg.Map.ShadowURL == "" {
		cfg.Map.ShadowURL = "https://cdnjs.cloudflare.com/ajax/libs/leaflet/1.3.1/images/marker-shadow.png"
	}
	if cfg.Map.LinkLabel == "" {
		cfg.Map.LinkLabel = "Instagram"
	}
	if cfg.Geo.MaximumAge == 0 {
		cfg.Geo.MaximumAge = time.Second
	}
	if cfg.Geo.Timeout == 0 {
		cfg.Geo.Timeout = 5 * time.Second
	}
	if cfg.Geo.TrackingMode == "" {
		cfg.Geo.TrackingMode = TrackingPan
	}
	if cfg.Session.IdleTTL == 0 {
		cfg.Session.IdleTTL = 10 * time.Minute
	}
	if cfg.Session.ReapInterval == 0 {
		cfg.Session.ReapInterval = time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN - строка подключения для драйвера pgx
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
