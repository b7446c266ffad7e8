package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file when present. Variables already set in the environment win.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Lookup returns the trimmed value of name, or false when it is unset or blank.
func Lookup(name string) (string, bool) {
	v, found := os.LookupEnv(name)
	if !found || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Parse converts an environment value to the desired type.
func Parse[T any](v string) (T, error) {
	var zero T

	switch any(zero).(type) {
	case string:
		return any(v).(T), nil
	case bool:
		val, err := strconv.ParseBool(v)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as bool: %v", v, err)
		}
		return any(val).(T), nil
	case int:
		val, err := strconv.Atoi(v)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as int: %v", v, err)
		}
		return any(val).(T), nil
	case float64:
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as float64: %v", v, err)
		}
		return any(val).(T), nil
	case time.Duration:
		val, err := time.ParseDuration(v)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as duration: %v", v, err)
		}
		return any(val).(T), nil
	}

	return zero, fmt.Errorf("unsupported config type %T", zero)
}

// Get returns the parsed value of name, or def when the variable is unset.
func Get[T any](name string, def T) (T, error) {
	v, ok := Lookup(name)
	if !ok {
		return def, nil
	}
	val, err := Parse[T](v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", name, err)
	}
	return val, nil
}
