package secret

// SecretStore provides a pluggable interface for reading sensitive
// configuration such as the sink connection string.
type SecretStore interface {
	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)
}
