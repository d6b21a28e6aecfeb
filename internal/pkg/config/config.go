package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// - empty optional addresses (REDIS_ADDR, NOTIFY_AMQP_URL, RESEND_API_KEY) turn the integration off
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
	Reservation ReservationConfig
	Paystack    PaystackConfig
	Sweeper     SweeperConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	Notify      NotifyConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// Operator tokens are issued by the identity service; only verification happens here.
type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type ReservationConfig struct {
	PaymentDeadline time.Duration `envconfig:"RESERVATION_PAYMENT_DEADLINE" default:"48h"`
	AmountMinor     int64         `envconfig:"RESERVATION_AMOUNT" default:"100000"`
	Currency        string        `envconfig:"RESERVATION_CURRENCY" default:"NGN"`
	ReferencePrefix string        `envconfig:"RESERVATION_REFERENCE_PREFIX" default:"TECHHUB"`
}

type PaystackConfig struct {
	SecretKey   string        `envconfig:"PAYSTACK_SECRET_KEY" required:"true"`
	BaseURL     string        `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	CallbackURL string        `envconfig:"PAYSTACK_CALLBACK_URL"`
	Timeout     time.Duration `envconfig:"PAYSTACK_TIMEOUT" default:"10s"`
}

type SweeperConfig struct {
	Enabled   bool          `envconfig:"SWEEPER_ENABLED" default:"true"`
	Interval  time.Duration `envconfig:"SWEEPER_INTERVAL" default:"1h"`
	BatchSize int           `envconfig:"SWEEPER_BATCH_SIZE" default:"500"`
	Timeout   time.Duration `envconfig:"SWEEPER_TIMEOUT" default:"2m"`
	LockTTL   time.Duration `envconfig:"SWEEPER_LOCK_TTL" default:"5m"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type RateLimitConfig struct {
	Enabled        bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"20"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"3s"`
	TTL            time.Duration `envconfig:"RATE_LIMIT_TTL" default:"10m"`
	Prefix         string        `envconfig:"RATE_LIMIT_PREFIX" default:"rl"`
}

type NotifyConfig struct {
	AMQPURL         string        `envconfig:"NOTIFY_AMQP_URL"`
	Queue           string        `envconfig:"NOTIFY_QUEUE" default:"reservation.notifications"`
	ConsumerEnabled bool          `envconfig:"NOTIFY_CONSUMER_ENABLED" default:"true"`
	ResendAPIKey    string        `envconfig:"RESEND_API_KEY"`
	ResendFrom      string        `envconfig:"RESEND_FROM" default:"Tech Hub <no-reply@techhub.local>"`
	ResendBaseURL   string        `envconfig:"RESEND_BASE_URL" default:"https://api.resend.com"`
	SendTimeout     time.Duration `envconfig:"NOTIFY_SEND_TIMEOUT" default:"10s"`
	PublicPayURL    string        `envconfig:"APP_PUBLIC_PAY_URL"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables win over file values.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Paystack.SecretKey) == "" {
		return errors.New("PAYSTACK_SECRET_KEY must not be empty")
	}
	if c.Reservation.PaymentDeadline <= 0 {
		return fmt.Errorf("RESERVATION_PAYMENT_DEADLINE must be positive, got %s", c.Reservation.PaymentDeadline)
	}
	if c.Reservation.AmountMinor <= 0 {
		return fmt.Errorf("RESERVATION_AMOUNT must be positive, got %d", c.Reservation.AmountMinor)
	}
	if c.Sweeper.Interval <= 0 {
		return fmt.Errorf("SWEEPER_INTERVAL must be positive, got %s", c.Sweeper.Interval)
	}
	if c.Sweeper.BatchSize < 1 {
		return fmt.Errorf("SWEEPER_BATCH_SIZE must be at least 1, got %d", c.Sweeper.BatchSize)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
			MinConns: 1,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Reservation: ReservationConfig{
			PaymentDeadline: 48 * time.Hour,
			AmountMinor:     100000,
			Currency:        "NGN",
			ReferencePrefix: "TECHHUB",
		},
		Paystack: PaystackConfig{
			SecretKey: "sk_test_secret",
			BaseURL:   "http://127.0.0.1:0",
			Timeout:   2 * time.Second,
		},
		Sweeper: SweeperConfig{
			Enabled:   false,
			Interval:  time.Hour,
			BatchSize: 100,
			Timeout:   30 * time.Second,
			LockTTL:   time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
		},
		Notify: NotifyConfig{
			Queue:       "reservation.notifications",
			ResendFrom:  "Tech Hub <no-reply@techhub.local>",
			SendTimeout: time.Second,
		},
	}
}
