package common

import (
	"os"
	"strconv"
	"time"
)

// GetEnvOrDefault returns the named environment variable or def when unset.
func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvOrDefaultInt returns the named variable parsed as int, or def when
// unset or unparseable.
func GetEnvOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetEnvOrDefaultFloat returns the named variable parsed as float64, or def
// when unset or unparseable.
func GetEnvOrDefaultFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// GetEnvOrDefaultDuration returns the named variable parsed as a duration
// string ("5s", "300ms"), or def when unset or unparseable.
func GetEnvOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// GetEnvOrDefaultBool returns the named variable parsed as bool, or def when
// unset.
func GetEnvOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1"
}
