package dbclient

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"bizloader/internal/domain"
)

// sqlDialect captures the differences between the SQL drivers.
type sqlDialect struct {
	driverName   string
	documentType string // column type for the JSON document
	placeholder  func(n int) string
}

var (
	postgresDialect = sqlDialect{
		driverName:   "postgres",
		documentType: "JSONB",
		placeholder:  func(n int) string { return fmt.Sprintf("$%d", n) },
	}
	mysqlDialect = sqlDialect{
		driverName:   "mysql",
		documentType: "JSON",
		placeholder:  func(int) string { return "?" },
	}
	sqliteDialect = sqlDialect{
		driverName:   "sqlite",
		documentType: "TEXT",
		placeholder:  func(int) string { return "?" },
	}
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sqlConnector stores each business as a JSON document in a table named
// after the collection, with business_name declared UNIQUE.
type sqlConnector struct {
	dialect sqlDialect
	db      *sql.DB
	table   string
	logger  *zap.Logger
}

// newSQLConnector creates a generic SQL connector.
func newSQLConnector(d sqlDialect, dsn, table string, logger *zap.Logger) (*sqlConnector, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driverName, err)
	}
	// Single-owner, single-use: one connection is all a batch needs.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &sqlConnector{
		dialect: d,
		db:      db,
		table:   table,
		logger:  logger.With(zap.String("sink", d.driverName)),
	}, nil
}

func (c *sqlConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.db.PingContext(ctx)
}

func (c *sqlConnector) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		external_id VARCHAR(255) NOT NULL,
		business_name VARCHAR(255) NOT NULL UNIQUE,
		document %s NOT NULL
	)`, c.table, c.dialect.documentType)
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", c.table, err)
	}
	return nil
}

// InsertMany writes the batch in one transaction: a duplicate business
// name rolls back the whole batch.
func (c *sqlConnector) InsertMany(ctx context.Context, records []domain.Business) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("INSERT INTO %s (external_id, business_name, document) VALUES (%s)",
		c.table, c.placeholders(3))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		b := &records[i]
		doc, err := json.Marshal(b)
		if err != nil {
			return 0, fmt.Errorf("encode %q: %w", b.BusinessName, err)
		}
		if _, err := stmt.ExecContext(ctx, b.ExternalID, b.BusinessName, string(doc)); err != nil {
			c.logger.Error("insert failed", zap.String("businessName", b.BusinessName), zap.Error(err))
			return 0, fmt.Errorf("insert %q: %w", b.BusinessName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	c.logger.Info("inserted documents", zap.Int("count", len(records)), zap.String("table", c.table))
	return len(records), nil
}

func (c *sqlConnector) Close() error {
	return c.db.Close()
}

func (c *sqlConnector) placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = c.dialect.placeholder(i + 1)
	}
	return strings.Join(ps, ", ")
}
