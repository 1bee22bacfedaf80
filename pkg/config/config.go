package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Billing      BillingConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KANCHAN_APP_ENV" required:"true"`
	Port         string `envconfig:"KANCHAN_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"KANCHAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KANCHAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KANCHAN_DB_DSN"`
	Driver string `envconfig:"KANCHAN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KANCHAN_DB_HOST"`
	LegacyPort     int    `envconfig:"KANCHAN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KANCHAN_DB_USER"`
	LegacyPassword string `envconfig:"KANCHAN_DB_PASSWORD"`
	LegacyName     string `envconfig:"KANCHAN_DB_NAME"`
	LegacySSLMode  string `envconfig:"KANCHAN_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"KANCHAN_DB_SQLITE_PATH" default:"kanchan.db"`

	MaxOpenConns    int           `envconfig:"KANCHAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KANCHAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KANCHAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KANCHAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KANCHAN_REDIS_URL"`
	Address      string        `envconfig:"KANCHAN_REDIS_ADDR"`
	Password     string        `envconfig:"KANCHAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"KANCHAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KANCHAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KANCHAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KANCHAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KANCHAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KANCHAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint is configured at all. The API can
// run without redis; idempotency replay is skipped in that case.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type BillingConfig struct {
	BatchWorkers  int `envconfig:"KANCHAN_BILLING_BATCH_WORKERS" default:"8"`
	UpsertRetries int `envconfig:"KANCHAN_BILLING_UPSERT_RETRIES" default:"3"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"KANCHAN_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KANCHAN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KANCHAN_AUTO_MIGRATE" default:"false"`
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
