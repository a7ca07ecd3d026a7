package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variable names
const (
	EnvBlogID             = "BLOG_ID"
	EnvClientID           = "CLIENT_ID"
	EnvClientSecret       = "CLIENT_SECRET"
	EnvRefreshToken       = "REFRESH_TOKEN"
	EnvPublishImmediately = "PUBLISH_IMMEDIATELY"
	EnvSimilarity         = "SIMILARITY_THRESHOLD"
	EnvCooldownDays       = "COOLDOWN_DAYS"
	EnvLookbackDays       = "LOOKBACK_DAYS"
	EnvTimezone           = "BLOG_TIMEZONE"
	EnvTokenURL           = "TOKEN_URL"
	EnvBloggerEndpoint    = "BLOGGER_ENDPOINT"
	EnvGenerator          = "GENERATOR"
	EnvCohereKey          = "COHERE_API_KEY"
	EnvCohereModel        = "COHERE_MODEL"
	EnvMasterPrompt       = "MASTER_PROMPT"
	EnvS3Bucket           = "S3_BUCKET"
	EnvS3Region           = "S3_REGION"
	EnvS3Profile          = "S3_PROFILE"
	EnvS3Prefix           = "S3_PREFIX"
	EnvS3PathStyle        = "S3_USE_PATH_STYLE"
	EnvRedisAddr          = "REDIS_ADDR"
	EnvRedisPass          = "REDIS_PASS"
	EnvLockTTLSeconds     = "LOCK_TTL_SECONDS"
	EnvCronSchedule       = "CRON_SCHEDULE"
)

// Config is built once at startup and handed to every component constructor.
type Config struct {
	Blog       BlogConfig
	Freshness  FreshnessConfig
	Generation GenerationConfig
	Archive    ArchiveConfig
	Lock       LockConfig
	Schedule   string
}

type BlogConfig struct {
	BlogID             string
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	PublishImmediately bool
	TokenURL           string // empty means Google's token endpoint
	Endpoint           string // empty means the public Blogger API
	Location           *time.Location
}

type FreshnessConfig struct {
	SimilarityThreshold float64
	Cooldown            time.Duration
	Lookback            time.Duration
}

type GenerationConfig struct {
	Kind         string
	CohereAPIKey string
	CohereModel  string
	MasterPrompt string
}

// ArchiveConfig is disabled when Bucket is empty.
type ArchiveConfig struct {
	Bucket       string
	Region       string
	Profile      string
	Prefix       string
	UsePathStyle bool
}

// LockConfig is disabled when Addr is empty.
type LockConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// LoadEnv loads .env files into the process environment. Missing files are not an error.
func LoadEnv(logger *logrus.Logger) {
	files := []string{".env"}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			if logger != nil {
				logger.WithError(err).Warnf("Failed to load %s", file)
			}
			continue
		}
		if logger != nil {
			logger.Debugf("Loaded env file %s", file)
		}
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv and validates it.
// Every missing or malformed variable is reported, not just the first one.
func LoadFrom(getenv func(string) string) (Config, error) {
	env := envReader{getenv: getenv}

	cfg := Config{
		Blog: BlogConfig{
			BlogID:             env.required(EnvBlogID),
			ClientID:           env.required(EnvClientID),
			ClientSecret:       env.required(EnvClientSecret),
			RefreshToken:       env.required(EnvRefreshToken),
			PublishImmediately: strings.ToLower(env.get(EnvPublishImmediately, "true")) == "true",
			TokenURL:           env.get(EnvTokenURL, ""),
			Endpoint:           env.get(EnvBloggerEndpoint, ""),
		},
		Freshness: FreshnessConfig{
			SimilarityThreshold: env.float(EnvSimilarity, DefaultSimilarityThreshold),
			Cooldown:            env.days(EnvCooldownDays, DefaultCooldown),
			Lookback:            env.days(EnvLookbackDays, DefaultLookback),
		},
		Generation: GenerationConfig{
			Kind:         strings.ToLower(env.get(EnvGenerator, GeneratorTemplate)),
			CohereAPIKey: env.get(EnvCohereKey, ""),
			CohereModel:  env.get(EnvCohereModel, DefaultCohereModel),
			MasterPrompt: env.get(EnvMasterPrompt, ""),
		},
		Archive: ArchiveConfig{
			Bucket:       env.get(EnvS3Bucket, ""),
			Region:       env.get(EnvS3Region, ""),
			Profile:      env.get(EnvS3Profile, ""),
			Prefix:       normalizePrefix(env.get(EnvS3Prefix, "")),
			UsePathStyle: strings.EqualFold(env.get(EnvS3PathStyle, ""), "true"),
		},
		Lock: LockConfig{
			Addr:     env.get(EnvRedisAddr, ""),
			Password: env.get(EnvRedisPass, ""),
			TTL:      env.seconds(EnvLockTTLSeconds, DefaultLockTTL),
		},
		Schedule: env.get(EnvCronSchedule, DefaultCronSchedule),
	}

	tz := env.get(EnvTimezone, DefaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		env.errs.Add(EnvTimezone, "unknown time zone "+strconv.Quote(tz))
		loc = time.UTC
	}
	cfg.Blog.Location = loc

	if t := cfg.Freshness.SimilarityThreshold; t <= 0 || t > 1 {
		env.errs.Add(EnvSimilarity, "must be in (0, 1]")
	}

	switch cfg.Generation.Kind {
	case GeneratorTemplate:
	case GeneratorCohere:
		if cfg.Generation.CohereAPIKey == "" {
			env.errs.Add(EnvCohereKey, "required when "+EnvGenerator+"="+GeneratorCohere)
		}
	default:
		env.errs.Add(EnvGenerator, "must be one of template, cohere")
	}

	if env.errs.HasAny() {
		return cfg, env.errs
	}
	return cfg, nil
}

// IsDraft is the isDraft flag sent with every insert
func (c Config) IsDraft() bool {
	return !c.Blog.PublishImmediately
}

type envReader struct {
	getenv func(string) string
	errs   ValidationError
}

func (r *envReader) get(key, defaultValue string) string {
	if value := strings.TrimSpace(r.getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func (r *envReader) required(key string) string {
	value := strings.TrimSpace(r.getenv(key))
	if value == "" {
		r.errs.Add(key, "missing required environment variable")
	}
	return value
}

func (r *envReader) float(key string, defaultValue float64) float64 {
	value := r.get(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.errs.Add(key, "not a number")
		return defaultValue
	}
	return parsed
}

func (r *envReader) days(key string, defaultValue time.Duration) time.Duration {
	return r.positiveInt(key, defaultValue, 24*time.Hour)
}

func (r *envReader) seconds(key string, defaultValue time.Duration) time.Duration {
	return r.positiveInt(key, defaultValue, time.Second)
}

func (r *envReader) positiveInt(key string, defaultValue, unit time.Duration) time.Duration {
	value := r.get(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		r.errs.Add(key, "must be a positive integer")
		return defaultValue
	}
	return time.Duration(parsed) * unit
}

func normalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return strings.Trim(prefix, "/") + "/"
}
