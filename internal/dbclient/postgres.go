package dbclient

// lib/pq accepts postgres:// URLs directly as a DSN.
import _ "github.com/lib/pq"
