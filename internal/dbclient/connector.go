package dbclient

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bizloader/internal/domain"
)

// Connector is the storage sink for one load run. It is opened once,
// used for a single batch write and closed on every exit path.
type Connector interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// EnsureSchema prepares the target so duplicate business names are
	// rejected: a unique index (MongoDB) or a UNIQUE column (SQL).
	EnsureSchema(ctx context.Context) error

	// InsertMany writes the batch and returns how many documents were stored.
	InsertMany(ctx context.Context, records []domain.Business) (int, error)

	// Close releases the connection.
	Close() error
}

// NewConnector creates a Connector for the given sink connection.
func NewConnector(conn *domain.DatabaseConnection, logger *zap.Logger) (Connector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch conn.Driver {
	case domain.DatabaseDriverMongoDB:
		return newMongoConnector(conn, logger)
	case domain.DatabaseDriverSQLite:
		return newSQLiteConnector(conn, logger)
	case domain.DatabaseDriverMySQL:
		dsn, err := buildMySQLDSN(conn.URI)
		if err != nil {
			return nil, err
		}
		return newSQLConnector(mysqlDialect, dsn, conn.Collection, logger)
	case domain.DatabaseDriverPostgres:
		return newSQLConnector(postgresDialect, conn.URI, conn.Collection, logger)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}

// ParseConnection derives the driver from the URI scheme.
func ParseConnection(uri, database, collection string) (*domain.DatabaseConnection, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("connection string is empty")
	}
	if strings.HasPrefix(uri, "file:") && !strings.HasPrefix(uri, "file://") {
		uri = "file://" + strings.TrimPrefix(uri, "file:")
	}
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, fmt.Errorf("connection string has no scheme: %s", MaskURI(uri))
	}

	var driver domain.DatabaseDriver
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		driver = domain.DatabaseDriverMongoDB
	case "postgres", "postgresql":
		driver = domain.DatabaseDriverPostgres
	case "mysql":
		driver = domain.DatabaseDriverMySQL
	case "sqlite", "file":
		driver = domain.DatabaseDriverSQLite
	default:
		return nil, fmt.Errorf("unsupported connection scheme %q", scheme)
	}

	return &domain.DatabaseConnection{
		Driver:     driver,
		URI:        uri,
		Database:   database,
		Collection: collection,
	}, nil
}

// MaskURI hides the password component of a connection string for logging.
// Multi-host URIs (h1,h2) are handled, which net/url rejects.
func MaskURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	authority := rest
	if i := strings.IndexAny(rest, "/?"); i != -1 {
		authority = rest[:i]
	}
	at := strings.LastIndex(authority, "@")
	if at == -1 {
		return uri
	}
	user, _, hasPass := strings.Cut(authority[:at], ":")
	if !hasPass {
		return uri
	}
	return scheme + "://" + user + ":***" + rest[at:]
}
