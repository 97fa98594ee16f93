// Package config handles configuration for stepdriver.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultWorkers is the worker-pool size when MAX_WORKERS is unset.
const DefaultWorkers = 8

// DefaultObjectsPath is the conventional locator-repository location.
const DefaultObjectsPath = "object_repository/objects.json"

// Config represents the run configuration: the optional config.yaml
// merged with environment variables. Environment wins for credentials
// and worker count so CI can override a checked-in file.
type Config struct {
	// Target application
	AppURL   string `yaml:"appUrl"`
	Username string `yaml:"-"`
	Password string `yaml:"-"`

	// Execution settings
	Workers  int    `yaml:"workers"`  // Worker-pool size
	Mode     string `yaml:"mode"`     // "file" or "case" parallelism
	Headless bool   `yaml:"headless"` // Run the browser headless

	// Paths
	ObjectsPath   string `yaml:"objectsPath"`   // Locator repository JSON
	OutputDir     string `yaml:"outputDir"`     // Reports and results
	ScreenshotDir string `yaml:"screenshotDir"` // Screenshot artifacts
	LogDir        string `yaml:"logDir"`        // Per-case log files

	// Sign-in selectors for the pre-run login flow; empty selectors
	// skip sign-in entirely.
	Login LoginConfig `yaml:"login"`
}

// LoginConfig holds the selectors used to sign in before a session
// runs its test cases.
type LoginConfig struct {
	UsernameSelector string `yaml:"usernameSelector"`
	PasswordSelector string `yaml:"passwordSelector"`
	SubmitSelector   string `yaml:"submitSelector"`

	// ReadySelector marks a signed-in page; the session waits for it
	// after submitting credentials.
	ReadySelector string `yaml:"readySelector"`
}

// Load reads configuration from a yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory,
// falling back to environment-only configuration.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := defaults()
	cfg.applyEnv()
	return cfg, nil
}

// LoadEnvFile loads a dotenv file into the process environment before
// configuration is read. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func defaults() *Config {
	return &Config{
		Workers:       DefaultWorkers,
		Mode:          "file",
		Headless:      true,
		ObjectsPath:   DefaultObjectsPath,
		OutputDir:     "results",
		ScreenshotDir: "screenshots",
		LogDir:        "logs",
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("APP_URL"); v != "" {
		c.AppURL = v
	}
	if v := os.Getenv("APP_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("APP_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
}
