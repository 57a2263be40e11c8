package dbclient

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bizloader/internal/domain"

	_ "modernc.org/sqlite"
)

// newSQLiteConnector opens a local SQLite file as the sink.
// Accepts sqlite:///abs/path.db, sqlite://rel/path.db and file:path.db.
func newSQLiteConnector(conn *domain.DatabaseConnection, logger *zap.Logger) (*sqlConnector, error) {
	path := sqlitePath(conn.URI)
	if path == "" {
		return nil, fmt.Errorf("sqlite uri has no path")
	}
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	return newSQLConnector(sqliteDialect, dsn, conn.Collection, logger)
}

func sqlitePath(uri string) string {
	for _, prefix := range []string{"sqlite://", "file://", "file:"} {
		if strings.HasPrefix(uri, prefix) {
			uri = strings.TrimPrefix(uri, prefix)
			break
		}
	}
	if i := strings.Index(uri, "?"); i != -1 {
		uri = uri[:i]
	}
	return uri
}
