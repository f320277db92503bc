package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Trending      TrendingConfig
	Media         MediaConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"PHOTOSHARE_APP_ENV" required:"true"`
	Port         string `envconfig:"PHOTOSHARE_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"PHOTOSHARE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PHOTOSHARE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PHOTOSHARE_DB_DSN"`
	Driver string `envconfig:"PHOTOSHARE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PHOTOSHARE_DB_HOST"`
	LegacyPort     int    `envconfig:"PHOTOSHARE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PHOTOSHARE_DB_USER"`
	LegacyPassword string `envconfig:"PHOTOSHARE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PHOTOSHARE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PHOTOSHARE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PHOTOSHARE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PHOTOSHARE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PHOTOSHARE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PHOTOSHARE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PHOTOSHARE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PHOTOSHARE_REDIS_ADDR"`
	Password     string        `envconfig:"PHOTOSHARE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PHOTOSHARE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PHOTOSHARE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PHOTOSHARE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PHOTOSHARE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PHOTOSHARE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PHOTOSHARE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PHOTOSHARE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PHOTOSHARE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PHOTOSHARE_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"PHOTOSHARE_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PHOTOSHARE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PHOTOSHARE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PHOTOSHARE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PHOTOSHARE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PHOTOSHARE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PHOTOSHARE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PHOTOSHARE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PHOTOSHARE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PHOTOSHARE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PHOTOSHARE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PHOTOSHARE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// TrendingConfig controls the engagement-ranked feed and its cache.
type TrendingConfig struct {
	CacheTTL        time.Duration `envconfig:"PHOTOSHARE_TRENDING_CACHE_TTL" default:"15m"`
	WindowSize      int           `envconfig:"PHOTOSHARE_TRENDING_WINDOW_SIZE" default:"100"`
	DefaultPageSize int           `envconfig:"PHOTOSHARE_TRENDING_DEFAULT_PAGE_SIZE" default:"12"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"PHOTOSHARE_MAX_UPLOAD_MB" default:"50"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PHOTOSHARE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"PHOTOSHARE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PHOTOSHARE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"PHOTOSHARE_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"PHOTOSHARE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"PHOTOSHARE_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
	PublicBaseURL     string        `envconfig:"PHOTOSHARE_GCS_PUBLIC_BASE_URL"`
}

type PubSubConfig struct {
	MediaCleanupTopic        string `envconfig:"PHOTOSHARE_PUBSUB_MEDIA_CLEANUP_TOPIC" default:"ps-media-cleanup"`
	MediaCleanupSubscription string `envconfig:"PHOTOSHARE_PUBSUB_MEDIA_CLEANUP_SUBSCRIPTION"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PHOTOSHARE_AUTO_MIGRATE" default:"false"`
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
