package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dshills/mrscope/internal/diffstream"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrConfig marks configuration failures: missing file when one was
// requested, unparseable YAML, or a required key resolving to empty.
var ErrConfig = errors.New("configuration error")

// ContextFileName is the fixed filename of the MR context artifact inside
// the output directory.
const ContextFileName = "mr_context.md"

// Paths maps the logical path names from the config store to filesystem
// locations. All values are treated as immutable for the run's duration.
type Paths struct {
	LogDir        string `mapstructure:"LOG_DIR" yaml:"LOG_DIR"`
	LogFile       string `mapstructure:"LOG_FILE" yaml:"LOG_FILE"`
	OutDir        string `mapstructure:"OUT_DIR" yaml:"OUT_DIR"`
	ChunksDir     string `mapstructure:"CHUNKS_DIR" yaml:"CHUNKS_DIR"`
	DiffDir       string `mapstructure:"DIFF_DIR" yaml:"DIFF_DIR"`
	SummaryFile   string `mapstructure:"SUMMARY_FILE" yaml:"SUMMARY_FILE"`
	ProjectsRoot  string `mapstructure:"PROJECTS_ROOT" yaml:"PROJECTS_ROOT"`
	ScriptPath    string `mapstructure:"SCRIPT_PATH" yaml:"SCRIPT_PATH,omitempty"`
	ContextScript string `mapstructure:"CONTEXT_SCRIPT" yaml:"CONTEXT_SCRIPT,omitempty"`
	SummaryScript string `mapstructure:"SUMMARY_SCRIPT" yaml:"SUMMARY_SCRIPT,omitempty"`
}

// LLM configures the built-in reviewer commands. The endpoint is any
// OpenAI-compatible chat completions API.
type LLM struct {
	APIURL        string  `mapstructure:"api_url" yaml:"api_url"`
	Model         string  `mapstructure:"model" yaml:"model"`
	MaxTokens     int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature   float64 `mapstructure:"temperature" yaml:"temperature"`
	CacheEnabled  bool    `mapstructure:"cache_enabled" yaml:"cache_enabled"`
	CacheDir      string  `mapstructure:"cache_dir" yaml:"cache_dir,omitempty"`
	CacheTTLSecs  int     `mapstructure:"cache_ttl_seconds" yaml:"cache_ttl_seconds"`
	RedactSecrets bool    `mapstructure:"redact_secrets" yaml:"redact_secrets"`
}

// Config is the full mrscope configuration.
type Config struct {
	Paths Paths `mapstructure:"paths" yaml:"paths"`
	LLM   LLM   `mapstructure:"llm" yaml:"llm"`
}

// Default returns a Config with all defaults applied. Workspace directories
// live under the platform data directory.
func Default() Config {
	data := dataDir()
	return Config{
		Paths: Paths{
			LogDir:       filepath.Join(data, "logs"),
			LogFile:      filepath.Join(data, "logs", "mrscope.log"),
			OutDir:       filepath.Join(data, "out"),
			ChunksDir:    filepath.Join(data, "chunks"),
			DiffDir:      filepath.Join(data, "diff"),
			SummaryFile:  filepath.Join(data, "summary.md"),
			ProjectsRoot: filepath.Join(data, "projects"),
		},
		LLM: LLM{
			APIURL:        "http://localhost:11434/v1/chat/completions",
			Model:         "qwen2.5-coder:32b",
			MaxTokens:     8192,
			Temperature:   0.2,
			CacheEnabled:  true,
			CacheTTLSecs:  86400,
			RedactSecrets: true,
		},
	}
}

// dataDir returns the platform-appropriate data directory for mrscope.
func dataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mrscope")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "mrscope")
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "mrscope")
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "mrscope")
		}
		return filepath.Join(home, "AppData", "Local", "mrscope")
	default:
		return filepath.Join(home, ".local", "share", "mrscope")
	}
}

// ConfigDir returns the directory searched for config.yml.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mrscope"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "mrscope"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "mrscope"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "mrscope"), nil
	default:
		return filepath.Join(home, ".config", "mrscope"), nil
	}
}

// ConfigPath returns the full path of the preferred config file location.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// Load builds the effective configuration. If cfgFile is non-empty it is
// read from exactly that location; otherwise the working directory and the
// user config directory are searched, and a missing file leaves the defaults
// in place. Environment variables prefixed MRSCOPE_ override file values.
func Load(cfgFile string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	// AutomaticEnv only consults keys viper already knows about, so every
	// key must be registered up front or an env override for a key absent
	// from the file would be silently ignored.
	registerKeys(v, cfg)
	v.SetEnvPrefix("MRSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return Config{}, fmt.Errorf("%w: reading %s: %v", ErrConfig, describeConfigSource(cfgFile), err)
		}
		// No file found anywhere: defaults apply.
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing %s: %v", ErrConfig, describeConfigSource(cfgFile), err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// registerKeys seeds every config key into viper with its default value.
func registerKeys(v *viper.Viper, def Config) {
	v.SetDefault("paths.LOG_DIR", def.Paths.LogDir)
	v.SetDefault("paths.LOG_FILE", def.Paths.LogFile)
	v.SetDefault("paths.OUT_DIR", def.Paths.OutDir)
	v.SetDefault("paths.CHUNKS_DIR", def.Paths.ChunksDir)
	v.SetDefault("paths.DIFF_DIR", def.Paths.DiffDir)
	v.SetDefault("paths.SUMMARY_FILE", def.Paths.SummaryFile)
	v.SetDefault("paths.PROJECTS_ROOT", def.Paths.ProjectsRoot)
	v.SetDefault("paths.SCRIPT_PATH", def.Paths.ScriptPath)
	v.SetDefault("paths.CONTEXT_SCRIPT", def.Paths.ContextScript)
	v.SetDefault("paths.SUMMARY_SCRIPT", def.Paths.SummaryScript)
	v.SetDefault("llm.api_url", def.LLM.APIURL)
	v.SetDefault("llm.model", def.LLM.Model)
	v.SetDefault("llm.max_tokens", def.LLM.MaxTokens)
	v.SetDefault("llm.temperature", def.LLM.Temperature)
	v.SetDefault("llm.cache_enabled", def.LLM.CacheEnabled)
	v.SetDefault("llm.cache_dir", def.LLM.CacheDir)
	v.SetDefault("llm.cache_ttl_seconds", def.LLM.CacheTTLSecs)
	v.SetDefault("llm.redact_secrets", def.LLM.RedactSecrets)
}

func describeConfigSource(cfgFile string) string {
	if cfgFile != "" {
		return cfgFile
	}
	return "config.yml"
}

// Validate checks that every path key the pipeline depends on is set.
func Validate(cfg Config) error {
	required := map[string]string{
		"paths.LOG_DIR":      cfg.Paths.LogDir,
		"paths.LOG_FILE":     cfg.Paths.LogFile,
		"paths.OUT_DIR":      cfg.Paths.OutDir,
		"paths.CHUNKS_DIR":   cfg.Paths.ChunksDir,
		"paths.DIFF_DIR":     cfg.Paths.DiffDir,
		"paths.SUMMARY_FILE": cfg.Paths.SummaryFile,
	}
	for key, val := range required {
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%w: %s is not set", ErrConfig, key)
		}
	}
	return nil
}

// Init writes a default config.yml at the preferred location. Fails if the
// file already exists unless force is set. Returns the written path.
func Init(force bool) (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s already exists (use --force to overwrite)", ErrConfig, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// WorkspaceDirs returns the directories the run state manager owns, in reset
// order.
func (p Paths) WorkspaceDirs() []string {
	return []string{p.ChunksDir, p.OutDir, p.DiffDir, p.LogDir}
}

// MergedDiffPath returns the fixed location of the merged diff.
func (p Paths) MergedDiffPath() string {
	return filepath.Join(p.DiffDir, diffstream.MergedDiffName)
}

// ContextFilePath returns the fixed location of the MR context artifact.
func (p Paths) ContextFilePath() string {
	return filepath.Join(p.OutDir, ContextFileName)
}
