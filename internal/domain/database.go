package domain

// DatabaseDriver represents the type of database engine used as the sink.
type DatabaseDriver string

const (
	DatabaseDriverMySQL    DatabaseDriver = "mysql"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
	DatabaseDriverMongoDB  DatabaseDriver = "mongodb"
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
)

// DatabaseConnection holds what is needed to reach the sink.
// URI is the raw connection string; Driver is derived from its scheme.
type DatabaseConnection struct {
	Driver     DatabaseDriver `json:"driver"`
	URI        string         `json:"uri"`
	Database   string         `json:"database"`   // ignored by SQL drivers, the URI names the database
	Collection string         `json:"collection"` // collection, or table for SQL drivers
}
