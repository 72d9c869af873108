package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // REPORT_TIMEZONE no depende de la base de zonas del sistema

	"github.com/spf13/viper"
)

// Backends de almacenamiento soportados para la tabla de inventario.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendGCS      = "gcs"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	Store  StoreConfig
	DB     DBConfig
	Redis  RedisConfig
	GCS    GCSConfig
	Photo  PhotoConfig
	Report ReportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	BodyLimitMB int // límite de subida (fotos y pedidos)
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig dónde vive la tabla de inventario.
type StoreConfig struct {
	Backend string // memory, postgres, redis, gcs
	Path    string // nombre lógico del archivo (data.csv)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig configuración de Redis.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// GCSConfig configuración de Google Cloud Storage.
type GCSConfig struct {
	Bucket          string
	CredentialsFile string // vacío = credenciales por defecto del entorno
}

// PhotoConfig compresión de fotos.
type PhotoConfig struct {
	MaxSide     int // lado máximo en píxeles
	JPEGQuality int
	MaxPixels   int // tope ancho x alto aceptado al decodificar
}

// ReportConfig reporte PDF de faltantes.
type ReportConfig struct {
	Timezone string
	FontPath string // TTF opcional con glifos CJK
}

// Location zona horaria del sello de tiempo del reporte.
func (c ReportConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_BACKEND, DB_HOST, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "xiuxiu-stock"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			BodyLimitMB: getInt(v, "HTTP_BODY_LIMIT_MB", 16),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getString(v, "STORE_BACKEND", BackendMemory)),
			Path:    getString(v, "STORE_PATH", "data.csv"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "xiuxiu_stock"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:      getString(v, "REDIS_ADDR", "localhost:6379"),
			Password:  getString(v, "REDIS_PASSWORD", ""),
			DB:        getInt(v, "REDIS_DB", 0),
			KeyPrefix: getString(v, "REDIS_KEY_PREFIX", "xiuxiu:stock"),
		},
		GCS: GCSConfig{
			Bucket:          getString(v, "GCS_BUCKET", ""),
			CredentialsFile: getString(v, "GCS_CREDENTIALS_FILE", ""),
		},
		Photo: PhotoConfig{
			MaxSide:     getInt(v, "PHOTO_MAX_SIDE", 300),
			JPEGQuality: getInt(v, "PHOTO_JPEG_QUALITY", 70),
			MaxPixels:   getInt(v, "PHOTO_MAX_PIXELS", 40_000_000),
		},
		Report: ReportConfig{
			Timezone: getString(v, "REPORT_TIMEZONE", "Asia/Kuala_Lumpur"),
			FontPath: getString(v, "REPORT_FONT_PATH", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendPostgres, BackendRedis:
	case BackendGCS:
		if c.GCS.Bucket == "" {
			return fmt.Errorf("GCS_BUCKET requerido con STORE_BACKEND=gcs")
		}
	default:
		return fmt.Errorf("STORE_BACKEND desconocido: %q", c.Store.Backend)
	}
	if c.Photo.MaxSide <= 0 || c.Photo.JPEGQuality < 1 || c.Photo.JPEGQuality > 100 {
		return fmt.Errorf("PHOTO_MAX_SIDE/PHOTO_JPEG_QUALITY fuera de rango")
	}
	if c.Photo.MaxPixels <= 0 {
		return fmt.Errorf("PHOTO_MAX_PIXELS debe ser positivo")
	}
	if _, err := c.Report.Location(); err != nil {
		return fmt.Errorf("REPORT_TIMEZONE inválido %q: %w", c.Report.Timezone, err)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
