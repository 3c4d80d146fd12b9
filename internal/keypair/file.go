package keypair

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	keysDirName = "keys"
	filePerms   = 0600 // Owner read/write only
)

var ErrKeyNotFound = errors.New("key pair not found")

// ReadFile loads a key pair stored as a JSON array of the 64 secret key
// bytes, the format wallet CLIs use for keypair files.
func ReadFile(path string) (*KeyPair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}
	return Unmarshal(raw)
}

// WriteFile writes kp to path in the JSON array format.
func WriteFile(path string, kp *KeyPair) error {
	raw, err := Marshal(kp)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create keypair directory: %w", err)
	}
	if err := os.WriteFile(path, raw, filePerms); err != nil {
		return fmt.Errorf("write keypair file: %w", err)
	}
	return nil
}

// Marshal encodes the secret key as a JSON array of byte values.
func Marshal(kp *KeyPair) ([]byte, error) {
	secret := kp.SecretKey()
	// []byte marshals as base64, the file format wants plain numbers
	ints := make([]int, len(secret))
	for i, b := range secret {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

// Unmarshal decodes a JSON byte array into a key pair.
func Unmarshal(raw []byte) (*KeyPair, error) {
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
	}
	secret := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte %d out of range", ErrInvalidSecretKey, i)
		}
		secret[i] = byte(v)
	}
	return FromSecretKey(secret)
}

// FileName is the conventional file name for a key pair: <base58 pubkey>.json
func FileName(pk PublicKey) string {
	return pk.String() + ".json"
}

// Store keeps test key pairs under dataDir/keys, one file per key.
type Store struct {
	dir string
}

// NewStore creates the keys directory if needed.
func NewStore(dataDir string) (*Store, error) {
	dir := filepath.Join(dataDir, keysDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keys directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the key files
func (s *Store) Dir() string {
	return s.dir
}

// Create generates and stores a new key pair
func (s *Store) Create() (*KeyPair, string, error) {
	kp, err := Generate(nil)
	if err != nil {
		return nil, "", err
	}
	path, err := s.Save(kp)
	if err != nil {
		return nil, "", err
	}
	return kp, path, nil
}

// Save writes kp into the store and returns its path
func (s *Store) Save(kp *KeyPair) (string, error) {
	path := filepath.Join(s.dir, FileName(kp.PublicKey()))
	if err := WriteFile(path, kp); err != nil {
		return "", err
	}
	return path, nil
}

// Import copies a keypair file into the store
func (s *Store) Import(path string) (*KeyPair, string, error) {
	kp, err := ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	dst, err := s.Save(kp)
	if err != nil {
		return nil, "", err
	}
	return kp, dst, nil
}

// Load reads the key pair for pk
func (s *Store) Load(pk PublicKey) (*KeyPair, error) {
	path := filepath.Join(s.dir, FileName(pk))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, ErrKeyNotFound
	}
	return ReadFile(path)
}

// List returns the public keys of all stored key pairs, sorted by their
// base58 form.
func (s *Store) List() ([]PublicKey, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read keys directory: %w", err)
	}

	var out []PublicKey
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		pk, err := ParsePublicKey(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		out = append(out, pk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
