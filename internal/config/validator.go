package config

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/status"
)

// Validate checks the config for:
//   - Required fields
//   - Duplicate profile IDs and an existing default profile
//   - Status category labels that do not normalize to a known category
//   - A store driver with the settings it needs
//   - Positive engine sizes and timeouts
//
// Section names are checked when profiles are compiled against the section registry.
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string
	ids := make(map[string]int)

	for i, p := range cfg.Profiles {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("profiles[%d]: id is required", i))
			continue
		}
		if prev, ok := ids[p.ID]; ok {
			errs = append(errs, fmt.Sprintf("duplicate profile id %q (profiles[%d] and profiles[%d])", p.ID, prev, i))
		} else {
			ids[p.ID] = i
		}
		validateCategories(p.ID, "blocking_categories", p.BlockingCategories, &errs)
		validateCategories(p.ID, "leave_blocking_categories", p.LeaveBlockingCategories, &errs)
		if p.PrivilegeAge != nil && *p.PrivilegeAge < 0 {
			errs = append(errs, fmt.Sprintf("profile %s: privilege_age must not be negative", p.ID))
		}
	}
	if cfg.DefaultProfile != "" {
		if _, ok := ids[cfg.DefaultProfile]; !ok {
			errs = append(errs, fmt.Sprintf("default_profile %q is not defined", cfg.DefaultProfile))
		}
	}

	switch cfg.Store.Driver {
	case DriverNone:
	case DriverFile:
		if cfg.Store.Path == "" {
			errs = append(errs, "store: path is required for the file driver")
		}
	case DriverPostgres:
		if cfg.Store.DSN == "" {
			errs = append(errs, "store: dsn is required for the postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("store: unknown driver %q", cfg.Store.Driver))
	}

	if cfg.Engine.ReportWorkers < 1 || cfg.Engine.ShardWorkers < 1 {
		errs = append(errs, "engine: report_workers and shard_workers must be positive")
	}
	if cfg.Engine.QueueDepth < 1 {
		errs = append(errs, fmt.Sprintf("engine: queue_depth must be positive, got %d", cfg.Engine.QueueDepth))
	}
	if cfg.Engine.ReportTimeoutMs < 1 {
		errs = append(errs, fmt.Sprintf("engine: report_timeout_ms must be positive, got %d", cfg.Engine.ReportTimeoutMs))
	}
	if cfg.Engine.JobRetention < 1 {
		errs = append(errs, fmt.Sprintf("engine: job_retention must be positive, got %d", cfg.Engine.JobRetention))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateCategories(profileID, field string, labels []string, errs *[]string) {
	seen := make(map[status.Category]string)
	for _, l := range labels {
		c, err := status.ParseCategory(l)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("profile %s: %s: %s", profileID, field, err))
			continue
		}
		if prev, ok := seen[c]; ok {
			*errs = append(*errs, fmt.Sprintf("profile %s: %s: %q and %q are the same category", profileID, field, prev, l))
		}
		seen[c] = l
	}
}
