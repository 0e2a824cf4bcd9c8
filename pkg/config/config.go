package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "mboashop"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "MBOASHOP_DB_DSN"
	EnvDBHost = "MBOASHOP_DB_HOST"
	EnvDBUser = "MBOASHOP_DB_USER"
	EnvDBName = "MBOASHOP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Mail     MailConfig
	WhatsApp WhatsAppConfig
	Orders   OrdersConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Outbox   OutboxConfig
	Flags    FeatureFlagsConfig
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
	Env          string `envconfig:"MBOASHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"MBOASHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MBOASHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MBOASHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MBOASHOP_DB_DSN"`
	Driver string `envconfig:"MBOASHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MBOASHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"MBOASHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MBOASHOP_DB_USER"`
	LegacyPassword string `envconfig:"MBOASHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"MBOASHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"MBOASHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MBOASHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MBOASHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MBOASHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MBOASHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MBOASHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MBOASHOP_REDIS_ADDR"`
	Password     string        `envconfig:"MBOASHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"MBOASHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MBOASHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MBOASHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MBOASHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MBOASHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MBOASHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MBOASHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MBOASHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MBOASHOP_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MBOASHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MBOASHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MBOASHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MBOASHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MBOASHOP_ARGON_KEY_LEN" default:"32"`
}

// MailConfig points at the SMTP relay used for transactional mail.
type MailConfig struct {
	Host     string `envconfig:"MBOASHOP_SMTP_HOST"`
	Port     int    `envconfig:"MBOASHOP_SMTP_PORT" default:"587"`
	Username string `envconfig:"MBOASHOP_SMTP_USERNAME"`
	Password string `envconfig:"MBOASHOP_SMTP_PASSWORD"`
	From     string `envconfig:"MBOASHOP_SMTP_FROM"`
}

// WhatsAppConfig points at the WhatsApp Cloud API sender.
type WhatsAppConfig struct {
	BaseURL       string        `envconfig:"MBOASHOP_WHATSAPP_BASE_URL" default:"https://graph.facebook.com/v19.0"`
	PhoneNumberID string        `envconfig:"MBOASHOP_WHATSAPP_PHONE_NUMBER_ID"`
	AccessToken   string        `envconfig:"MBOASHOP_WHATSAPP_ACCESS_TOKEN"`
	Timeout       time.Duration `envconfig:"MBOASHOP_WHATSAPP_TIMEOUT" default:"10s"`
	NotifyAdmins  bool          `envconfig:"MBOASHOP_WHATSAPP_NOTIFY_ADMINS" default:"false"`
}

// OrdersConfig tunes order lifecycle policy knobs.
type OrdersConfig struct {
	CodePrefix          string `envconfig:"MBOASHOP_ORDER_CODE_PREFIX" default:"MB"`
	StaleAfterDays      int    `envconfig:"MBOASHOP_ORDER_STALE_AFTER_DAYS" default:"14"`
	AdminCancelShipping bool   `envconfig:"MBOASHOP_ORDER_ADMIN_CANCEL_SHIPPING" default:"true"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"MBOASHOP_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic     string `envconfig:"MBOASHOP_PUBSUB_ORDERS_TOPIC" default:"mboashop-order-events"`
	RestaurantTopic string `envconfig:"MBOASHOP_PUBSUB_RESTAURANT_TOPIC" default:"mboashop-restaurant-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MBOASHOP_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MBOASHOP_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MBOASHOP_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"MBOASHOP_OUTBOX_RETENTION_DAYS" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MBOASHOP_AUTO_MIGRATE" default:"false"`
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
