package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	UploadModeMultipart = "multipart"
	UploadModeRaw       = "raw"

	ImageTransformNone   = "none"
	ImageTransformResize = "resize"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName       string `mapstructure:"app_name"`
	Env           string `mapstructure:"app_env"`
	LogLevel      string `mapstructure:"log_level"`
	ProvidersFile string `mapstructure:"providers_file"`
	NotifiersFile string `mapstructure:"notifiers_file"`
	ProviderID    string `mapstructure:"provider_id"`

	NewsAPIKey   string `mapstructure:"news_api_key"`
	BotCookie    string `mapstructure:"app_bot_cookie"`
	PublicAppURL string `mapstructure:"public_app_url"`

	RunOnce             bool          `mapstructure:"run_once"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`

	FreshnessWindowSeconds int64         `mapstructure:"freshness_window_seconds"`
	FreshnessWindow        time.Duration `mapstructure:"-"`
	PostMaxChars           int           `mapstructure:"post_max_chars"`
	RequestTimeoutSeconds  int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout         time.Duration `mapstructure:"-"`

	ImageUploadMode   string `mapstructure:"image_upload_mode"`
	ImageUploadPublic bool   `mapstructure:"image_upload_public"`
	ImageTransform    string `mapstructure:"image_transform"`
	ImageMaxDimension int    `mapstructure:"image_max_dimension"`
	ImageJPEGQuality  int    `mapstructure:"image_jpeg_quality"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	bindRequired(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "samvad-headline-relay")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("providers_file", "./configs/providers.yaml")
	v.SetDefault("notifiers_file", "./configs/notifiers.yaml")
	v.SetDefault("provider_id", "")
	v.SetDefault("run_once", false)
	v.SetDefault("poll_interval", 60) // seconds
	v.SetDefault("freshness_window_seconds", int64((60*time.Minute)/time.Second))
	v.SetDefault("post_max_chars", 197)
	v.SetDefault("request_timeout_seconds", 5)
	v.SetDefault("image_upload_mode", UploadModeMultipart)
	v.SetDefault("image_upload_public", true)
	v.SetDefault("image_transform", ImageTransformResize)
	v.SetDefault("image_max_dimension", 750)
	v.SetDefault("image_jpeg_quality", 85)
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/relay.db")
	v.SetDefault("storage_ttl_seconds", int64((48*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))
	v.SetDefault("metrics_addr", "")
}

// bindRequired makes the secrets visible to Unmarshal even though they have no default.
func bindRequired(v *viper.Viper) {
	for _, key := range []string{"news_api_key", "app_bot_cookie", "public_app_url"} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}
}

func (cfg *Config) finalize() error {
	cfg.NewsAPIKey = strings.TrimSpace(cfg.NewsAPIKey)
	cfg.BotCookie = strings.TrimSpace(cfg.BotCookie)
	cfg.PublicAppURL = strings.TrimRight(strings.TrimSpace(cfg.PublicAppURL), "/")
	cfg.ImageUploadMode = strings.ToLower(strings.TrimSpace(cfg.ImageUploadMode))
	cfg.ImageTransform = strings.ToLower(strings.TrimSpace(cfg.ImageTransform))

	var missing []string
	if cfg.NewsAPIKey == "" {
		missing = append(missing, "NEWS_API_KEY")
	}
	if cfg.BotCookie == "" {
		missing = append(missing, "APP_BOT_COOKIE")
	}
	if cfg.PublicAppURL == "" {
		missing = append(missing, "PUBLIC_APP_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	if cfg.PollIntervalSeconds <= 0 {
		return fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.FreshnessWindowSeconds <= 0 {
		return fmt.Errorf("invalid freshness_window_seconds (must be positive seconds)")
	}
	cfg.FreshnessWindow = time.Duration(cfg.FreshnessWindowSeconds) * time.Second

	if cfg.PostMaxChars <= 0 {
		return fmt.Errorf("invalid post_max_chars (must be positive)")
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	switch cfg.ImageUploadMode {
	case UploadModeMultipart, UploadModeRaw:
	default:
		return fmt.Errorf("unsupported image_upload_mode %q", cfg.ImageUploadMode)
	}
	switch cfg.ImageTransform {
	case ImageTransformNone, ImageTransformResize:
	default:
		return fmt.Errorf("unsupported image_transform %q", cfg.ImageTransform)
	}
	if cfg.ImageTransform == ImageTransformResize {
		if cfg.ImageMaxDimension <= 0 {
			return fmt.Errorf("invalid image_max_dimension (must be positive)")
		}
		if cfg.ImageJPEGQuality < 1 || cfg.ImageJPEGQuality > 100 {
			return fmt.Errorf("invalid image_jpeg_quality (must be 1-100)")
		}
	}

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}

// Redacted returns a copy that is safe to log.
func (cfg Config) Redacted() Config {
	cfg.NewsAPIKey = redact(cfg.NewsAPIKey)
	cfg.BotCookie = redact(cfg.BotCookie)
	return cfg
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
