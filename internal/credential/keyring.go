package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "pocketboard"

// Keyring item names.
const (
	KeyAPIKey   = "trello-api-key"
	KeyAPIToken = "trello-api-token"
)

// Environment overrides, checked before the keyring.
const (
	EnvAPIKey   = "TRELLO_API_KEY"
	EnvAPIToken = "TRELLO_API_TOKEN"
)

// ErrMissing is returned by Load when a credential is in neither the
// environment nor the keyring.
var ErrMissing = errors.New("credential not configured")

// Credentials authenticate every Trello request.
type Credentials struct {
	APIKey string
	Token  string
}

// Store reads and writes credentials in a keyring.
type Store struct {
	ring   keyring.Keyring
	getenv func(string) string
}

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/pocketboard/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("pocketboard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Open returns a Store backed by the system keyring.
func Open() (*Store, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}
	return NewStore(ring), nil
}

// NewStore wraps ring. Environment overrides are read from the process
// environment.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring, getenv: os.Getenv}
}

// Get retrieves a credential value by key.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a credential value by key.
func (s *Store) Set(key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "pocketboard " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key.
func (s *Store) Delete(key string) error {
	if err := s.ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// Load returns the API key and token. Each is taken from its
// environment variable when set, otherwise from the keyring.
func (s *Store) Load() (Credentials, error) {
	key, err := s.lookup(EnvAPIKey, KeyAPIKey)
	if err != nil {
		return Credentials{}, err
	}
	token, err := s.lookup(EnvAPIToken, KeyAPIToken)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{APIKey: key, Token: token}, nil
}

// Save writes both credentials to the keyring.
func (s *Store) Save(c Credentials) error {
	if err := s.Set(KeyAPIKey, strings.TrimSpace(c.APIKey)); err != nil {
		return err
	}
	return s.Set(KeyAPIToken, strings.TrimSpace(c.Token))
}

// Forget removes both credentials. Missing entries are not an error.
func (s *Store) Forget() error {
	for _, key := range []string{KeyAPIKey, KeyAPIToken} {
		if err := s.Delete(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return err
		}
	}
	return nil
}

func (s *Store) lookup(env, key string) (string, error) {
	if v := strings.TrimSpace(s.getenv(env)); v != "" {
		return v, nil
	}
	v, err := s.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%s: %w (set %s or run setup)", key, ErrMissing, env)
	}
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissing)
	}
	return v, nil
}
