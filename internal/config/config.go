package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time parses backoff durations
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints and durations
// for the retry policy.
type Config struct {
	Env                string        // application environment (e.g. "dev", "prod")
	Port               string        // HTTP port to listen on
	DBUser             string        // database username
	DBPass             string        // database password (optional)
	DBHost             string        // database host address
	DBPort             string        // database port number
	DBName             string        // database name
	JWTSecret          string        // secret shared with the external auth service
	ReserveMaxAttempts int           // attempts before a reservation gives up on conflicts
	ReserveBackoffBase time.Duration // base delay between conflicted attempts
	ReserveBackoffCap  time.Duration // upper bound on the backoff delay
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. The retry knobs are
// optional and default to the booking package's values.
func Load() Config {
	return Config{
		Env:                must("APP_ENV"),     // environment (dev/test/prod)
		Port:               must("APP_PORT"),    // port to bind the HTTP server
		DBUser:             must("DB_USER"),     // database user
		DBPass:             os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:             must("DB_HOST"),     // database host
		DBPort:             must("DB_PORT"),     // database port
		DBName:             must("DB_NAME"),     // database name
		JWTSecret:          must("JWT_SECRET"),  // secret used to verify tokens from the auth service
		ReserveMaxAttempts: envInt("RESERVE_MAX_ATTEMPTS", 5),
		ReserveBackoffBase: envDur("RESERVE_BACKOFF_BASE", 10*time.Millisecond),
		ReserveBackoffCap:  envDur("RESERVE_BACKOFF_CAP", 200*time.Millisecond),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
