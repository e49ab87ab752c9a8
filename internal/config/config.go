package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mrlokans/lightbox/internal/importer"
)

type (
	Config struct {
		Library
		Scanner
		Database
		HTTP
		Tasks
		Rescan
		Log
		Global
	}

	Library struct {
		Root string
		// VersionsPath holds edited versions; it is never scanned.
		VersionsPath string
	}
	Scanner struct {
		RawExtensions   []string
		ImageExtensions []string
		TempDir         string
		ThumbsDir       string
		Thumbs250Dir    string
		WorkExt         string // Extension of generated thumbnails
		Concurrency     int
		LockPath        string // Lock file preventing overlapping scans
	}
	Database struct {
		Path string
	}
	HTTP struct {
		Port int32
		Host string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Rescan struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Log struct {
		Level  string
		Pretty bool
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// NewConfig loads configuration from the environment only.
func NewConfig() *Config {
	cfg, err := Load("")
	if err != nil {
		// Without a config file the only failure is a malformed value, which
		// viper already replaces with the zero value.
		panic(err)
	}
	return cfg
}

// Load reads configuration from the optional file at path, then from
// LIGHTBOX_* environment variables, which take precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return &Config{
		Library: Library{
			Root:         v.GetString("library_root"),
			VersionsPath: v.GetString("versions_path"),
		},
		Scanner: Scanner{
			RawExtensions:   getList(v, "raw_extensions"),
			ImageExtensions: getList(v, "image_extensions"),
			TempDir:         v.GetString("temp_dir"),
			ThumbsDir:       v.GetString("thumbs_dir"),
			Thumbs250Dir:    v.GetString("thumbs250_dir"),
			WorkExt:         strings.TrimPrefix(strings.ToLower(v.GetString("work_ext")), "."),
			Concurrency:     v.GetInt("concurrency"),
			LockPath:        v.GetString("lock_path"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("tasks_enabled"),
			Workers:         v.GetInt("task_workers"),
			ReleaseAfter:    v.GetDuration("task_release_after"),
			CleanupInterval: v.GetDuration("task_cleanup_interval"),
		},
		Rescan: Rescan{
			Enabled:  v.GetBool("rescan_enabled"),
			Schedule: v.GetString("rescan_schedule"),
		},
		Log: Log{
			Level:  v.GetString("log_level"),
			Pretty: v.GetBool("log_pretty"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("library_root", "")
	v.SetDefault("versions_path", "")
	v.SetDefault("raw_extensions", DefaultRawExtensions)
	v.SetDefault("image_extensions", DefaultImageExtensions)
	v.SetDefault("temp_dir", filepath.Join(os.TempDir(), "lightbox"))
	v.SetDefault("thumbs_dir", filepath.Join(DefaultDataDir, "thumbs"))
	v.SetDefault("thumbs250_dir", filepath.Join(DefaultDataDir, "thumbs250"))
	v.SetDefault("work_ext", "jpg")
	v.SetDefault("concurrency", 3)
	v.SetDefault("lock_path", filepath.Join(DefaultDataDir, "scan.lock"))

	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "3h")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("rescan_enabled", false)
	v.SetDefault("rescan_schedule", "0 3 * * *") // Daily at 03:00

	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	v.SetDefault("shutdown_timeout_in_seconds", 5)
}

// getList accepts both comma-separated strings (environment) and lists
// (config files).
func getList(v *viper.Viper, key string) []string {
	var raw []string
	switch val := v.Get(key).(type) {
	case string:
		raw = strings.Split(val, ",")
	case []string:
		raw = val
	case []any:
		for _, item := range val {
			raw = append(raw, fmt.Sprint(item))
		}
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(item)), ".")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate reports every setting that would prevent a scan from running.
func (c *Config) Validate() error {
	errs := []error{c.ImporterConfig().Validate()}
	switch c.WorkExt {
	case "", "jpg", "jpeg", "png":
	default:
		errs = append(errs, fmt.Errorf("unsupported work_ext %q (want jpg, jpeg or png)", c.WorkExt))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database_path must be set"))
	}
	if c.Tasks.Enabled && c.Tasks.Workers < 1 {
		errs = append(errs, fmt.Errorf("task_workers must be at least 1, got %d", c.Tasks.Workers))
	}
	return errors.Join(errs...)
}

// ImporterConfig returns the settings consumed by the import pipeline.
func (c *Config) ImporterConfig() importer.Config {
	return importer.Config{
		RawExtensions:   c.RawExtensions,
		ImageExtensions: c.ImageExtensions,
		TempDir:         c.TempDir,
		ThumbsDir:       c.ThumbsDir,
		Thumbs250Dir:    c.Thumbs250Dir,
		WorkExt:         c.WorkExt,
		Concurrency:     c.Concurrency,
		VersionsPath:    c.VersionsPath,
	}
}
