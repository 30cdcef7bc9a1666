package configs

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is everything the service needs at startup. It is built once in main
// and handed to constructors; nothing reads the environment after that.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	StoreDriver   string // mongo | memory
	MongoURI      string
	MongoDatabase string

	JWTSecret       string
	JWTEmailSecret  string
	SessionTTL      time.Duration
	VerificationTTL time.Duration
	BcryptCost      int

	PublicBaseURL string // used to build verification links
	FrontendURL   string // verify-email redirects here when set
	CORSOrigins   []string

	MailDriver   string // log | brevo | kafka
	MailFrom     string
	MailFromName string
	BrevoAPIKey  string
	KafkaBrokers []string
	KafkaTopic   string
	MailTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AuthRateLimit  int // requests per minute per client on login/register
	AuthRateBurst  int
	RequestTimeout time.Duration
}

// Production reports whether cookies should be marked Secure.
func (c Config) Production() bool {
	return c.Env == "production"
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, relying on environment variables")
	}

	cfg := Config{
		Env:      getEnv("ENV", "dev"),
		Port:     getEnv("PORT", "5000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver:   getEnv("STORE_DRIVER", "mongo"),
		MongoURI:      EnvMongoURI(),
		MongoDatabase: getEnv("MONGO_DATABASE", "jobboard"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTEmailSecret:  os.Getenv("JWT_EMAIL_SECRET"),
		SessionTTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),
		VerificationTTL: getEnvDuration("VERIFICATION_TTL", 24*time.Hour),
		BcryptCost:      getEnvInt("BCRYPT_COST", 10),

		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:5000"), "/"),
		FrontendURL:   strings.TrimRight(os.Getenv("FRONTEND_URL"), "/"),
		CORSOrigins:   getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		MailDriver:   getEnv("MAIL_DRIVER", "log"),
		MailFrom:     os.Getenv("MAIL_FROM"),
		MailFromName: getEnv("MAIL_FROM_NAME", "Job Board"),
		BrevoAPIKey:  os.Getenv("BREVO_API_KEY"),
		KafkaBrokers: getEnvList("KAFKA_BROKERS", nil),
		KafkaTopic:   getEnv("KAFKA_MAIL_TOPIC", "mail.outbound"),
		MailTimeout:  getEnvDuration("MAIL_TIMEOUT", 10*time.Second),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateBurst:  getEnvInt("AUTH_RATE_BURST", 20),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if c.JWTSecret == "" || c.JWTEmailSecret == "" {
		return errors.New("JWT_SECRET and JWT_EMAIL_SECRET are required")
	}
	if c.JWTSecret == c.JWTEmailSecret {
		return errors.New("JWT_SECRET and JWT_EMAIL_SECRET must differ")
	}
	switch c.StoreDriver {
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGOURI is required for the mongo store")
		}
	case "memory":
	default:
		return errors.New("STORE_DRIVER must be mongo or memory")
	}
	switch c.MailDriver {
	case "log":
	case "brevo":
		if c.BrevoAPIKey == "" || c.MailFrom == "" {
			return errors.New("BREVO_API_KEY and MAIL_FROM are required for the brevo mail driver")
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for the kafka mail driver")
		}
	default:
		return errors.New("MAIL_DRIVER must be log, brevo or kafka")
	}
	return nil
}

func EnvMongoURI() string {
	return os.Getenv("MONGOURI")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

// getEnvDuration accepts Go durations ("24h") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
