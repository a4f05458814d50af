package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/catourne/equipment-exporter/internal/errors"
)

type AppConfig struct {
	File   string        `json:"-"`
	API    *APIConfig    `json:"api,omitempty"`
	Export *ExportConfig `json:"export,omitempty"`
}

type APIConfig struct {
	BaseURL         string        `json:"base_url"`
	TokenFile       string        `json:"token_file"`
	PageSize        int           `json:"page_size"`
	RequestInterval time.Duration `json:"request_interval"`
	HTTPTimeout     time.Duration `json:"http_timeout"`
}

type ExportConfig struct {
	OutputDir string   `json:"output_dir"`
	SheetsDir string   `json:"sheets_dir"`
	Codes     []string `json:"codes"`
	Start     int      `json:"start"`
	Num       int      `json:"num"`
	Overwrite bool     `json:"overwrite"`
	Verbose   bool     `json:"verbose"`
	CheckAuth bool     `json:"check_auth"`
}

func LoadConfig() (*AppConfig, error) {
	bindFlagsAndEnv()

	configFile := getConfigFilePath()
	if configFile != "" {
		if err := loadFromFile(configFile); err != nil {
			return nil, err
		}
	}

	cfg := buildAppConfig(configFile)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func bindFlagsAndEnv() {
	pflag.String("config_file", "", "Configuration file in JSON format")

	// api
	pflag.String("base_url", "https://api.rentman.net", "Inventory API base URL")
	pflag.String("token_file", "JWT_TOKEN", "File holding the API bearer token")
	pflag.Int("page_size", 100, "Records per listing page")
	pflag.Duration("request_interval", 100*time.Millisecond, "Minimum interval between API requests")
	pflag.Duration("http_timeout", 30*time.Second, "Timeout per HTTP request")

	// export
	pflag.String("output_dir", "equipmentDump", "Export root directory")
	pflag.String("sheets_dir", "equipmentSheets", "Flat collection folder for equipment sheets")
	pflag.String("codes", "", "Comma-separated equipment codes to export; overrides --start/--num")
	pflag.Int("start", 0, "Start index into the equipment listing")
	pflag.Int("num", 0, "Number of records to export; 0 exports everything")
	pflag.Bool("overwrite", false, "Re-export records that already have a sidecar")
	pflag.Bool("verbose", false, "Print per-step details instead of the progress bar")
	pflag.Bool("check_auth", false, "Only probe the API with the configured token and exit")

	pflag.Parse()

	_ = viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit mapping
	_ = viper.BindEnv("base_url", "RENTMAN_BASE_URL")
	_ = viper.BindEnv("token_file", "RENTMAN_TOKEN_FILE")
	_ = viper.BindEnv("output_dir", "EXPORT_OUTPUT_DIR")
	_ = viper.BindEnv("sheets_dir", "EXPORT_SHEETS_DIR")
}

func getConfigFilePath() string {
	file := viper.GetString("config_file")
	if file == "" {
		file = os.Getenv("EQUIPMENT_EXPORTER_CONFIG_FILE")
	}
	return file
}

func loadFromFile(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("json")
	if err := viper.ReadInConfig(); err != nil {
		return errors.New(fmt.Sprintf("could not load config file: %s", err.Error()))
	}
	return nil
}

func buildAppConfig(file string) *AppConfig {
	return &AppConfig{
		File: file,
		API: &APIConfig{
			BaseURL:         viper.GetString("base_url"),
			TokenFile:       viper.GetString("token_file"),
			PageSize:        viper.GetInt("page_size"),
			RequestInterval: viper.GetDuration("request_interval"),
			HTTPTimeout:     viper.GetDuration("http_timeout"),
		},
		Export: &ExportConfig{
			OutputDir: viper.GetString("output_dir"),
			SheetsDir: viper.GetString("sheets_dir"),
			Codes:     splitCodes(viper.GetString("codes")),
			Start:     viper.GetInt("start"),
			Num:       viper.GetInt("num"),
			Overwrite: viper.GetBool("overwrite"),
			Verbose:   viper.GetBool("verbose"),
			CheckAuth: viper.GetBool("check_auth"),
		},
	}
}

func splitCodes(raw string) []string {
	if raw == "" {
		return nil
	}
	var codes []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

func validateConfig(cfg *AppConfig) error {
	if cfg.API.BaseURL == "" {
		return errors.New("API base URL is required")
	}
	if cfg.API.TokenFile == "" {
		return errors.New("Token file is required")
	}
	if cfg.API.PageSize <= 0 {
		return errors.New("Page size must be positive")
	}
	if cfg.Export.OutputDir == "" {
		return errors.New("Output directory is required")
	}
	if cfg.Export.Start < 0 {
		return errors.New("Start index must not be negative")
	}
	return nil
}
