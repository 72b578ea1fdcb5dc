package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time resolves the raid event timezone
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for costs.
type Config struct {
	Env             string         // application environment (e.g. "dev", "prod")
	Port            string         // HTTP port to listen on
	DBUser          string         // database username
	DBPass          string         // database password (optional)
	DBHost          string         // database host address
	DBPort          string         // database port number
	DBName          string         // database name
	DBSSLMode       string         // postgres sslmode (disable/require/verify-full)
	MigrationsDir   string         // directory containing .sql migration files
	BcryptCost      int            // bcrypt cost for hashing union secrets
	SuperAdminToken string         // bearer password for the /unions management API
	RaidLocation    *time.Location // timezone raid battle timestamps are recorded in
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		DBSSLMode:       getenv("DB_SSLMODE", "disable"),
		MigrationsDir:   getenv("MIGRATIONS_DIR", "migrations"),
		BcryptCost:      mustInt("BCRYPT_COST"),
		SuperAdminToken: must("SUPER_ADMIN_PASSWORD"),
		RaidLocation:    mustLocation(getenv("RAID_TZ", "Asia/Seoul")),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// mustLocation resolves an IANA timezone name or exits.  Raid battle
// timestamps are recorded in this zone because the in-game reset follows a
// fixed locale, not wherever the server happens to run.
func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", name, err)
	}
	return loc
}
