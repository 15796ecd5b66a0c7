package cmd

import (
	"strconv"
	"time"
)

// Config carries the environment configuration of the service. Values come
// in as strings from the environment; typed accessors parse them and fall
// back to defaults.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       string

	JWTSecret string

	MinBatteryPercent     string
	DispatchRadiusKm      string
	DispatchRetrySchedule string
	DispatchLockTTL       string

	VNPayTmnCode    string
	VNPayHashSecret string
	VNPayBaseURL    string
	VNPayReturnURL  string
}

const (
	defaultMinBatteryPercent     = 20
	defaultDispatchRadiusKm      = 10.0
	defaultDispatchRetrySchedule = "*/15 * * * * *"
	defaultDispatchLockTTL       = 30 * time.Second
)

// RedisDBNumber parses the redis database index, defaulting to 0.
func (c Config) RedisDBNumber() int {
	n, err := strconv.Atoi(c.RedisDB)
	if err != nil {
		return 0
	}
	return n
}

// MinBattery parses the dispatch battery floor in percent.
func (c Config) MinBattery() int {
	n, err := strconv.Atoi(c.MinBatteryPercent)
	if err != nil {
		return defaultMinBatteryPercent
	}
	return n
}

// DispatchRadius parses the dispatch search radius in kilometers.
func (c Config) DispatchRadius() float64 {
	f, err := strconv.ParseFloat(c.DispatchRadiusKm, 64)
	if err != nil {
		return defaultDispatchRadiusKm
	}
	return f
}

// DispatchSchedule returns the cron expression of the retry sweep.
func (c Config) DispatchSchedule() string {
	if c.DispatchRetrySchedule == "" {
		return defaultDispatchRetrySchedule
	}
	return c.DispatchRetrySchedule
}

// LockTTL parses the dispatch lock time-to-live.
func (c Config) LockTTL() time.Duration {
	d, err := time.ParseDuration(c.DispatchLockTTL)
	if err != nil {
		return defaultDispatchLockTTL
	}
	return d
}
