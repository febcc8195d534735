// Package config provides centralized default values for the NeuroHub dashboard gateway
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func loadEnvFile() {
	if err := godotenv.Load(); err != nil {
		return
	}
	log.Println("Loading configuration overrides from .env file...")
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration

	// Upstream MES API
	UpstreamBaseURL      string
	UpstreamTimeout      time.Duration
	UpstreamServiceID    string
	UpstreamJWTSecret    string
	UpstreamTokenTTL     time.Duration
	LabelPrintingEnabled bool

	// Query Cache Policies (per resource)
	DashboardStaleTime        time.Duration
	DashboardRefetchInterval  time.Duration
	LotListStaleTime          time.Duration
	ProcessWipStaleTime       time.Duration
	ProcessWipRefetchInterval time.Duration
	CycleTimeStaleTime        time.Duration
	WipDetailStaleTime        time.Duration

	// Cache Limits & Cleanup
	EntryIdleTimeout time.Duration
	CleanupInterval  time.Duration
	CleanupVerbose   bool

	// Snapshot Store
	SnapshotDBPath           string
	SnapshotDBURL            string
	SnapshotAuthToken        string
	SnapshotMaxAge           time.Duration
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Ops Auth
	OpsPassword string
	JWTSecret   string
	OpsTokenTTL time.Duration

	// Notifications
	ToastDefaultDuration time.Duration
	SSEHeartbeatInterval time.Duration

	// Alert Email
	AlertEmailEnabled bool
	AlertEmailFrom    string
	AlertEmailTo      string
	ResendAPIKey      string
	AlertCooldown     time.Duration

	// Observability
	LogDir               string
	SlowOperationWarning time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	// 0 disables the write deadline; the SSE and websocket streams are
	// long-lived and would be cut off by any finite value.
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 0)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)

	// Upstream MES API
	UpstreamBaseURL = getEnvString("MES_BASE_URL", "http://localhost:9000/api")
	UpstreamTimeout = getEnvDuration("MES_TIMEOUT", 10*time.Second)
	UpstreamServiceID = getEnvString("MES_SERVICE_ID", "neurohub-gateway")
	UpstreamJWTSecret = getEnvString("MES_JWT_SECRET", "")
	UpstreamTokenTTL = getEnvDuration("MES_TOKEN_TTL", 5*time.Minute)
	LabelPrintingEnabled = getEnvBool("LABEL_PRINTING_ENABLED", false)

	// Query Cache Policies
	DashboardStaleTime = getEnvDuration("DASHBOARD_STALE_TIME", 30*time.Second)
	DashboardRefetchInterval = getEnvDuration("DASHBOARD_REFETCH_INTERVAL", 60*time.Second)
	LotListStaleTime = getEnvDuration("LOT_LIST_STALE_TIME", 30*time.Second)
	ProcessWipStaleTime = getEnvDuration("PROCESS_WIP_STALE_TIME", 15*time.Second)
	ProcessWipRefetchInterval = getEnvDuration("PROCESS_WIP_REFETCH_INTERVAL", 30*time.Second)
	CycleTimeStaleTime = getEnvDuration("CYCLE_TIME_STALE_TIME", 5*time.Minute)
	WipDetailStaleTime = getEnvDuration("WIP_DETAIL_STALE_TIME", 10*time.Second)

	// Cache Limits & Cleanup
	EntryIdleTimeout = getEnvDuration("CACHE_ENTRY_IDLE_TIMEOUT", 30*time.Minute)
	CleanupInterval = getEnvDuration("CACHE_CLEANUP_INTERVAL", 10*time.Minute)
	CleanupVerbose = getEnvBool("CACHE_CLEANUP_VERBOSE", true)

	// Snapshot Store
	SnapshotDBPath = getEnvString("SNAPSHOT_DB_PATH", "./snapshots.db")
	SnapshotDBURL = getEnvString("SNAPSHOT_DB_URL", "")
	SnapshotAuthToken = getEnvString("SNAPSHOT_AUTH_TOKEN", "")
	SnapshotMaxAge = getEnvDuration("SNAPSHOT_MAX_AGE", 24*time.Hour)
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Ops Auth
	OpsPassword = getEnvString("OPS_PASSWORD", "")
	JWTSecret = getEnvString("JWT_SECRET", "")
	OpsTokenTTL = getEnvDuration("OPS_TOKEN_TTL", 24*time.Hour)

	// Notifications
	ToastDefaultDuration = getEnvDuration("TOAST_DEFAULT_DURATION", 5*time.Second)
	SSEHeartbeatInterval = getEnvDuration("SSE_HEARTBEAT_INTERVAL", 30*time.Second)

	// Alert Email
	AlertEmailEnabled = getEnvBool("ALERT_EMAIL_ENABLED", false)
	AlertEmailFrom = getEnvString("ALERT_EMAIL_FROM", "alerts@neurohub.local")
	AlertEmailTo = getEnvString("ALERT_EMAIL_TO", "")
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	AlertCooldown = getEnvDuration("ALERT_COOLDOWN", 10*time.Minute)

	// Observability
	LogDir = getEnvString("LOG_DIR", "./log")
	SlowOperationWarning = getEnvDuration("SLOW_OPERATION_WARNING", 500*time.Millisecond)
}
