// Package cloudsql resolves the PostgreSQL connection string for the two
// supported deployments: a direct DATABASE_URL locally, or a Unix-socket
// connection to a Cloud SQL instance mounted by Cloud Run.
package cloudsql

import (
	"fmt"
	"os"
	"strings"
)

// ResolveDatabaseURL returns the connection string the audit store should
// dial. The configured DATABASE_URL wins when set. Otherwise
// INSTANCE_CONNECTION_NAME, DB_USER, DB_PASSWORD and DB_NAME describe a
// Cloud SQL socket mounted at /cloudsql/{instance}. An empty string with a
// nil error means no database is configured at all, which is a supported
// degraded mode.
func ResolveDatabaseURL(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	instance := os.Getenv("INSTANCE_CONNECTION_NAME")
	if instance == "" {
		return "", nil
	}

	user := os.Getenv("DB_USER")
	name := os.Getenv("DB_NAME")
	if user == "" || name == "" {
		return "", fmt.Errorf("DB_USER and DB_NAME must be set with INSTANCE_CONNECTION_NAME")
	}

	conn := fmt.Sprintf("host=/cloudsql/%s user=%s dbname=%s sslmode=disable", instance, user, name)
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		conn += " password=" + password
	}
	return conn, nil
}

// RedactURL masks the password portion of a postgres:// URL for logging.
func RedactURL(url string) string {
	if !strings.HasPrefix(url, "postgresql://") && !strings.HasPrefix(url, "postgres://") {
		return url
	}
	parts := strings.SplitN(url, "@", 2)
	if len(parts) != 2 {
		return url
	}
	userParts := strings.SplitN(parts[0], ":", 3)
	if len(userParts) < 3 {
		return url
	}
	return userParts[0] + ":" + userParts[1] + ":***@" + parts[1]
}
