package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresEnabled  bool

	RawDataPath       string
	ProcessedDataPath string
	FiguresDir        string
	ReportsDir        string

	RandomSeed          int64
	BootstrapIterations int
	ClusterCount        int
	MaxElbowClusters    int
	ShowPlots           bool

	PlotWidthInches  float64
	PlotHeightInches float64
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "survey"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "survey123"),
		PostgresDB:       getEnv("POSTGRES_DB", "survey_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),

		RawDataPath:       getEnv("RAW_DATA_PATH", "./data/raw/Furniture_Survey.csv"),
		ProcessedDataPath: getEnv("PROCESSED_DATA_PATH", "./data/processed/cleaned_furniture_data.csv"),
		FiguresDir:        getEnv("FIGURES_DIR", "./output/figures"),
		ReportsDir:        getEnv("REPORTS_DIR", "./output/reports"),

		RandomSeed:          int64(getEnvInt("RANDOM_SEED", 42)),
		BootstrapIterations: getEnvInt("BOOTSTRAP_ITERATIONS", 1000),
		ClusterCount:        getEnvInt("CLUSTER_COUNT", 3),
		MaxElbowClusters:    getEnvInt("MAX_ELBOW_CLUSTERS", 9),
		ShowPlots:           getEnvBool("SHOW_PLOTS", false),

		PlotWidthInches:  getEnvFloat("PLOT_WIDTH_INCHES", 12),
		PlotHeightInches: getEnvFloat("PLOT_HEIGHT_INCHES", 6),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// VerifyDataFile checks that the raw survey CSV exists before any analysis runs.
func (c *Config) VerifyDataFile() error {
	if _, err := os.Stat(c.RawDataPath); err != nil {
		return fmt.Errorf("config: raw data file not found at %s: %w", c.RawDataPath, err)
	}
	return nil
}

// VerifyDirectories ensures the output directories exist, creating them if needed.
func (c *Config) VerifyDirectories() error {
	dirs := []string{
		filepath.Dir(c.ProcessedDataPath),
		c.FiguresDir,
		c.ReportsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("config: create directory %s: %w", dir, err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
