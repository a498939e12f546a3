package config

import (
	lcierrors "github.com/standardbeagle/tgch/internal/errors"
)

// Validator validates a Config and fills in smart defaults.
type Validator struct{}

// NewValidator creates a configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates cfg in place, clamping and filling
// in defaults where possible, and returns an InvalidArgument error for
// anything it cannot repair.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	switch cfg.StorageType {
	case StorageMemory, StorageDiskA, StorageDiskB, StorageDiskC:
	case "":
		cfg.StorageType = StorageMemory
	default:
		return lcierrors.InvalidArgument("Validate", "unknown storage_type "+string(cfg.StorageType))
	}

	if cfg.StorageType != StorageMemory && cfg.StoragePath == "" {
		return lcierrors.InvalidArgument("Validate", "storage_path is required for disk backends")
	}

	if cfg.CacheSize <= 0 {
		cfg.CacheSize = Default().CacheSize
	}
	if cfg.MaxMemory <= 0 || cfg.MaxMemory < cfg.CacheSize {
		cfg.MaxMemory = cfg.CacheSize
	}

	if cfg.DefaultSearch == (SearchOptions{}) {
		cfg.DefaultSearch = DefaultSearchOptions()
	}
	if err := validateSearchOptions(&cfg.DefaultSearch); err != nil {
		return err
	}

	return nil
}

// validateSearchOptions clamps max_distance into [0,3], replaces a zero
// limit with the default, and rejects a negative limit or a
// score_threshold outside [0.0, 1.0].
func validateSearchOptions(o *SearchOptions) error {
	if o.MaxDistance < 0 {
		o.MaxDistance = 0
	}
	if o.MaxDistance > 3 {
		o.MaxDistance = 3
	}
	if o.ScoreThreshold < 0.0 || o.ScoreThreshold > 1.0 {
		return lcierrors.InvalidArgument("Validate", "score_threshold must be in [0.0, 1.0]")
	}
	if o.Limit == 0 {
		o.Limit = DefaultSearchOptions().Limit
	}
	if o.Limit < 0 {
		return lcierrors.InvalidArgument("Validate", "limit must be >= 1")
	}
	return nil
}

// ValidateSearchOptions is the entry point store.Index.Search uses to
// validate and default per-call options (as opposed to the embedded
// default_search in Config, which goes through ValidateAndSetDefaults).
// Unlike the Config path, a caller-supplied options value with Limit==0
// is rejected outright rather than defaulted.
func ValidateSearchOptions(o SearchOptions, explicit bool) (SearchOptions, error) {
	if !explicit {
		return o, validateSearchOptions(&o)
	}
	if o.Limit == 0 {
		return o, lcierrors.InvalidArgument("Search", "limit must be >= 1")
	}
	if err := validateSearchOptions(&o); err != nil {
		return o, err
	}
	return o, nil
}
