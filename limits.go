package cursorpager

const (
	MaxLimit     = 100
	DefaultLimit = 10
)

// Config is the page-size configuration consumed (not owned) by a Paginator.
// A zero DefaultLimit falls back to the package DefaultLimit; a zero MaxLimit
// disables clamping.
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

func DefaultConfig() Config {
	return Config{
		DefaultLimit: DefaultLimit,
		MaxLimit:     MaxLimit,
	}
}

func (c Config) withDefaults() Config {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultLimit
	}

	return c
}

func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if limit <= 0 {
		return DefaultLimit, false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}

// normalizeLimitWith resolves the effective page size: the explicit limit if
// given, else the default; an over-large limit is silently clamped to the
// maximum, never rejected.
func normalizeLimitWith(limit int, cfg Config) int {
	if limit <= 0 {
		return cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		return cfg.MaxLimit
	}

	return limit
}
