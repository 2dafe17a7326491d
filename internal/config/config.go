package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SCORECARD"

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Image     ImageConfig     `mapstructure:"image"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	Training  TrainingConfig  `mapstructure:"training"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type OCRConfig struct {
	Default   string                    `mapstructure:"default"`
	Enhanced  bool                      `mapstructure:"enhanced"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

type ProviderConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Language       string `mapstructure:"language"`
	Model          string `mapstructure:"model"`
}

func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

type ImageConfig struct {
	MaxWidth     int     `mapstructure:"max_width"`
	MaxHeight    int     `mapstructure:"max_height"`
	AllowUpscale bool    `mapstructure:"allow_upscale"`
	Contrast     float64 `mapstructure:"contrast"`
	Sharpen      float64 `mapstructure:"sharpen"`
}

type ReconcileConfig struct {
	// ConfidenceThreshold is the minimum overall confidence for creating a
	// verified course directly.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
}

// TrainingConfig holds the training-candidate thresholds. They are tuned
// independently of ReconcileConfig.ConfidenceThreshold.
type TrainingConfig struct {
	HighConfidence   float64 `mapstructure:"high_confidence"`
	HighCompleteness int     `mapstructure:"high_completeness"`
	LowConfidence    float64 `mapstructure:"low_confidence"`
	LowCompleteness  int     `mapstructure:"low_completeness"`
}

type PipelineConfig struct {
	Workers      int   `mapstructure:"workers"`
	MaxImageSize int64 `mapstructure:"max_image_size"`
}

// Provider returns the settings for the named provider, or an empty config
// when none are set.
func (c *Config) Provider(name string) ProviderConfig {
	if c.OCR.Providers == nil {
		return ProviderConfig{}
	}
	return c.OCR.Providers[name]
}

var providerNames = []string{"mock", "ocrspace", "google_vision", "textract", "vision_chat", "ollama", "tesseract"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "scorecards.db")

	v.SetDefault("ocr.default", "mock")
	v.SetDefault("ocr.enhanced", false)
	for _, name := range providerNames {
		v.SetDefault("ocr.providers."+name+".api_key", "")
		v.SetDefault("ocr.providers."+name+".base_url", "")
		v.SetDefault("ocr.providers."+name+".timeout_seconds", 30)
		v.SetDefault("ocr.providers."+name+".language", "eng")
		v.SetDefault("ocr.providers."+name+".model", "")
	}
	v.SetDefault("ocr.providers.ocrspace.base_url", "https://api.ocr.space")
	v.SetDefault("ocr.providers.google_vision.base_url", "https://vision.googleapis.com")
	v.SetDefault("ocr.providers.vision_chat.base_url", "https://api.openai.com")
	v.SetDefault("ocr.providers.vision_chat.model", "gpt-4o")
	v.SetDefault("ocr.providers.vision_chat.timeout_seconds", 60)
	v.SetDefault("ocr.providers.ollama.base_url", "http://localhost:11434")
	v.SetDefault("ocr.providers.ollama.model", "llama3.2-vision")
	v.SetDefault("ocr.providers.ollama.timeout_seconds", 60)

	v.SetDefault("image.max_width", 2000)
	v.SetDefault("image.max_height", 2000)
	v.SetDefault("image.allow_upscale", false)
	v.SetDefault("image.contrast", 20)
	v.SetDefault("image.sharpen", 1.0)

	v.SetDefault("reconcile.confidence_threshold", 0.85)

	v.SetDefault("training.high_confidence", 0.8)
	v.SetDefault("training.high_completeness", 70)
	v.SetDefault("training.low_confidence", 0.7)
	v.SetDefault("training.low_completeness", 60)

	v.SetDefault("pipeline.workers", 2)
	v.SetDefault("pipeline.max_image_size", 10*1024*1024)
}

// Default returns the built-in configuration. Environment overrides are not
// applied.
func Default() *Config {
	cfg, err := load("", false)
	if err != nil {
		// built-in defaults always decode and validate
		panic(err)
	}
	return cfg
}

// Load reads defaults, then the optional config file at path, then
// SCORECARD_* environment overrides (e.g. SCORECARD_OCR_DEFAULT).
func Load(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, env bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if env {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Reconcile.ConfidenceThreshold < 0 || c.Reconcile.ConfidenceThreshold > 1 {
		errs = append(errs, fmt.Errorf("reconcile.confidence_threshold must be in [0,1], got %v", c.Reconcile.ConfidenceThreshold))
	}
	if c.Pipeline.Workers < 1 {
		errs = append(errs, fmt.Errorf("pipeline.workers must be at least 1, got %d", c.Pipeline.Workers))
	}
	if c.Image.MaxWidth < 0 || c.Image.MaxHeight < 0 {
		errs = append(errs, errors.New("image maxima must not be negative"))
	}
	return errors.Join(errs...)
}
