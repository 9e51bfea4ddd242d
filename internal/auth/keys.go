package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// keyFileName holds the hex-encoded PASETO symmetric key under the data directory.
const keyFileName = "token.key"

// LoadOrGenerateKey returns the server's token signing key, generating and
// persisting one on first boot. The key file is hex-encoded and readable only
// by the server user.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, keyFileName)

	if data, err := os.ReadFile(keyPath); err == nil {
		keyHex := strings.TrimSpace(string(data))
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("decode key file %s: %w", keyPath, err)
		}
		if len(key) != keyBytesSize {
			return nil, fmt.Errorf("key file %s holds %d bytes, want %d", keyPath, len(key), keyBytesSize)
		}
		return key, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read key file %s: %w", keyPath, err)
	}

	key := make([]byte, keyBytesSize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("write key file %s: %w", keyPath, err)
	}

	return key, nil
}
