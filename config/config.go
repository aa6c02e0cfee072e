package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultPort          = "8080"
	DefaultTessdataPath  = "/usr/share/tesseract-ocr/5/tessdata/"
	DefaultOCRLanguage   = "eng"
	DefaultRenderDPI     = 200
	DefaultMinTextLength = 10
	DefaultMaxFileSize   = 10 * 1024 * 1024 // 10 MB
	DefaultOCRTimeout    = 2 * time.Minute
	DefaultDBPath        = "orders.db"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	OCRLanguage       string

	// RenderDPI is the rasterization resolution used when a PDF has no
	// usable text layer and pages must be OCR'd.
	RenderDPI int

	// MinTextLength is the trimmed-character threshold below which
	// extracted text is treated as no text at all.
	MinTextLength int

	MaxFileSize int64
	OCRTimeout  time.Duration
	DBPath      string
}

// Load reads configuration from INTAKE_* environment variables and
// command line flags, flags taking precedence.
func Load() (*Config, error) {
	viper.SetEnvPrefix("INTAKE")
	viper.AutomaticEnv()

	viper.SetDefault("port", DefaultPort)
	viper.SetDefault("tessdata", DefaultTessdataPath)
	viper.SetDefault("ocrlang", DefaultOCRLanguage)
	viper.SetDefault("dpi", DefaultRenderDPI)
	viper.SetDefault("mintextlen", DefaultMinTextLength)
	viper.SetDefault("maxfilesize", DefaultMaxFileSize)
	viper.SetDefault("ocrtimeout", DefaultOCRTimeout)
	viper.SetDefault("dbpath", DefaultDBPath)

	pflag.String("port", DefaultPort, "HTTP server port")
	pflag.String("tessdata", DefaultTessdataPath, "Tesseract tessdata directory")
	pflag.String("ocrlang", DefaultOCRLanguage, "Tesseract language")
	pflag.Int("dpi", DefaultRenderDPI, "Rasterization DPI for scanned PDFs")
	pflag.String("dbpath", DefaultDBPath, "SQLite database path")
	pflag.Parse()

	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("tessdata", pflag.Lookup("tessdata"))
	_ = viper.BindPFlag("ocrlang", pflag.Lookup("ocrlang"))
	_ = viper.BindPFlag("dpi", pflag.Lookup("dpi"))
	_ = viper.BindPFlag("dbpath", pflag.Lookup("dbpath"))

	cfg := &Config{
		ServerPort:        viper.GetString("port"),
		TesseractDataPath: viper.GetString("tessdata"),
		OCRLanguage:       viper.GetString("ocrlang"),
		RenderDPI:         viper.GetInt("dpi"),
		MinTextLength:     viper.GetInt("mintextlen"),
		MaxFileSize:       viper.GetInt64("maxfilesize"),
		OCRTimeout:        viper.GetDuration("ocrtimeout"),
		DBPath:            viper.GetString("dbpath"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if c.RenderDPI <= 0 {
		return fmt.Errorf("render DPI must be positive, got %d", c.RenderDPI)
	}
	if c.MinTextLength <= 0 {
		return fmt.Errorf("min text length must be positive, got %d", c.MinTextLength)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}
