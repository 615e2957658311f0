package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./newsdesk.db" description:"Path to the SQLite storage file (empty for in-memory storage)"`
	StorageQuota int64  `long:"storage-quota" env:"STORAGE_QUOTA" default:"5242880" description:"Maximum stored bytes per key, simulating a size-bounded device store"`

	// Application configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey   string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for mutating endpoints (optional)"`
	BackupDir      string `long:"backup-dir" env:"BACKUP_DIR" default:"./backups" description:"Directory for periodic data snapshots"`
	BackupInterval int    `long:"backup-interval" env:"BACKUP_INTERVAL" default:"0" description:"Snapshot interval in seconds (0 disables backups)"`
	WorkerCount    int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for scheduled tasks"`
	StrictRefs     bool   `long:"strict-refs" env:"STRICT_REFS" description:"Reject articles whose author id does not reference a known user"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Kolkata)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:         raw.DBPath,
		StorageQuota:   raw.StorageQuota,
		Port:           raw.Port,
		APIAccessKey:   raw.APIAccessKey,
		BackupDir:      raw.BackupDir,
		BackupInterval: raw.BackupInterval,
		WorkerCount:    raw.WorkerCount,
		StrictRefs:     raw.StrictRefs,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests.
func Set(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
