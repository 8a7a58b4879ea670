package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "LUXDRIVE"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "LUXDRIVE_APP_ENV"
	EnvPort   = "LUXDRIVE_APP_PORT"
	EnvDBDSN  = "LUXDRIVE_DB_DSN"
	EnvDBHost = "LUXDRIVE_DB_HOST"
	EnvDBUser = "LUXDRIVE_DB_USER"
	EnvDBName = "LUXDRIVE_DB_NAME"

	EnvCloudinaryCloud  = "LUXDRIVE_CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryKey    = "LUXDRIVE_CLOUDINARY_API_KEY"
	EnvCloudinarySecret = "LUXDRIVE_CLOUDINARY_API_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Cloudinary   CloudinaryConfig
	Upload       UploadConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LUXDRIVE_APP_ENV" required:"true"`
	Port         string `envconfig:"LUXDRIVE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LUXDRIVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LUXDRIVE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig describes the write pool plus an optional read replica. ReadDSN
// being empty means all reads go through the write connection.
type DBConfig struct {
	DSN     string `envconfig:"LUXDRIVE_DB_DSN"`
	ReadDSN string `envconfig:"LUXDRIVE_DB_READ_DSN"`

	LegacyHost     string `envconfig:"LUXDRIVE_DB_HOST"`
	LegacyPort     int    `envconfig:"LUXDRIVE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LUXDRIVE_DB_USER"`
	LegacyPassword string `envconfig:"LUXDRIVE_DB_PASSWORD"`
	LegacyName     string `envconfig:"LUXDRIVE_DB_NAME"`
	LegacySSLMode  string `envconfig:"LUXDRIVE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LUXDRIVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LUXDRIVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LUXDRIVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LUXDRIVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type CloudinaryConfig struct {
	CloudName string `envconfig:"LUXDRIVE_CLOUDINARY_CLOUD_NAME"`
	APIKey    string `envconfig:"LUXDRIVE_CLOUDINARY_API_KEY"`
	APISecret string `envconfig:"LUXDRIVE_CLOUDINARY_API_SECRET"`
	Folder    string `envconfig:"LUXDRIVE_CLOUDINARY_FOLDER" default:"cars"`
}

// Enabled reports whether image hosting is configured. When disabled, car
// image uploads are rejected but the rest of the API keeps working.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type UploadConfig struct {
	MaxUploadMB int `envconfig:"LUXDRIVE_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes returns the multipart body limit in bytes.
func (u UploadConfig) MaxUploadBytes() int64 {
	return int64(u.MaxUploadMB) << 20
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"LUXDRIVE_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"LUXDRIVE_SQLITE_PATH" default:"luxurydrive.db"`
	AutoMigrate bool   `envconfig:"LUXDRIVE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
