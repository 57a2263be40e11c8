package secret

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no env files are configured.
const DefaultEnvFile = ".env.local"

// EnvStore implements SecretStore over the process environment, falling
// back to dotenv files. The real environment always wins; earlier files
// win over later ones. Missing files are ignored.
type EnvStore struct {
	Files []string

	once sync.Once
	vals map[string]string
	err  error
}

// NewEnvStore creates an EnvStore reading the given dotenv files.
func NewEnvStore(files ...string) *EnvStore {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}
	return &EnvStore{Files: files}
}

// Get returns the value of key from the environment or the dotenv files.
func (s *EnvStore) Get(key string) ([]byte, error) {
	if v, ok := os.LookupEnv(key); ok {
		return []byte(v), nil
	}
	s.once.Do(s.load)
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vals[key]; ok {
		return []byte(v), nil
	}
	return nil, nil
}

func (s *EnvStore) load() {
	s.vals = make(map[string]string)
	for _, f := range s.Files {
		vals, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			s.err = fmt.Errorf("read env file %s: %w", f, err)
			return
		}
		for k, v := range vals {
			if _, exists := s.vals[k]; !exists {
				s.vals[k] = v
			}
		}
	}
}
