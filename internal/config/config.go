package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/playmatatu/fairway/internal/physics"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	MigrateOnStart bool
	MigrationsDir  string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Simulation
	SimTickHz              int
	SessionIdleMinutes     int
	IdleWorkerPollInterval int // seconds
	SnapshotTTLMinutes     int

	// Physics overrides; zero keeps the default
	BallMaxSpeed   float64
	BallStopSpeed  float64
	BallRestFrames int
	PhysicsSeed    int64

	// Security
	JWTSecret     string
	TokenTTLHours int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/fairway?sslmode=disable"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),

		// Redis
		RedisURL: redisURL(),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation
		SimTickHz:              getEnvInt("SIM_TICK_HZ", 60),
		SessionIdleMinutes:     getEnvInt("SESSION_IDLE_MINUTES", 15),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_SECONDS", 30),
		SnapshotTTLMinutes:     getEnvInt("SNAPSHOT_TTL_MINUTES", 60),

		// Physics
		BallMaxSpeed:   getEnvFloat("BALL_MAX_SPEED", 0),
		BallStopSpeed:  getEnvFloat("BALL_STOP_SPEED", 0),
		BallRestFrames: getEnvInt("BALL_REST_FRAMES", 0),
		PhysicsSeed:    int64(getEnvInt("PHYSICS_SEED", 1)),

		// Security
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 24),
	}
}

// PhysicsParams returns the default ball tuning with any configured
// overrides applied.
func (c *Config) PhysicsParams() physics.Params {
	p := physics.DefaultParams()
	if c == nil {
		return p
	}
	if c.BallMaxSpeed > 0 {
		p.MaxSpeed = c.BallMaxSpeed
	}
	if c.BallStopSpeed > 0 {
		p.StopSpeed = c.BallStopSpeed
	}
	if c.BallRestFrames > 0 {
		p.RestFrames = c.BallRestFrames
	}
	p.Seed = c.PhysicsSeed
	return p
}

// TickSeconds is the fixed simulation step derived from SimTickHz.
func (c *Config) TickSeconds() float64 {
	if c == nil || c.SimTickHz <= 0 {
		return 1.0 / 60
	}
	return 1 / float64(c.SimTickHz)
}

// redisURL returns REDIS_URL, or "" when it is set to "off" to run without
// Redis.
func redisURL() string {
	u := getEnv("REDIS_URL", "redis://localhost:6379/0")
	if strings.EqualFold(u, "off") {
		return ""
	}
	return u
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}
