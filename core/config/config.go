package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// cache holds one loaded value per configuration type.
	cache sync.Map // reflect.Type -> loaded config value

	// dotenvOnce loads .env files once per process, before the first parse.
	dotenvOnce sync.Once
)

// Load parses environment variables into cfg. Each configuration type is
// loaded once per process; subsequent calls for the same type return the
// cached value, so concurrent callers always observe identical configuration.
//
// A .env file in the working directory is loaded automatically on first use;
// a missing file is not an error.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	t := reflect.TypeOf(*cfg)
	if v, ok := cache.Load(t); ok {
		*cfg = v.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: failed to load %T: %w", *cfg, err)
	}

	// LoadOrStore keeps the first successfully parsed value under a racing
	// first load, so every caller ends up with the same configuration.
	actual, _ := cache.LoadOrStore(t, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is like Load but panics on failure.
// Useful at application startup where missing configuration is fatal.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
