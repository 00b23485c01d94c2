package configs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
}

var errKeysNotSet = errors.New("APP_AUTH_KEY and APP_ENC_KEY must be set")

// LoadSessionKeys decodes the base64 cookie keys from env. Outside
// production missing keys are replaced by random ones, which invalidates
// sessions on every restart.
func LoadSessionKeys(env ENV) (*SessionKeys, bool, error) {
	if env.AppAuthKey == "" || env.AppEncKey == "" {
		if env.IsProduction() {
			return nil, false, errKeysNotSet
		}
		return &SessionKeys{
			AuthKey: securecookie.GenerateRandomKey(64),
			EncKey:  securecookie.GenerateRandomKey(32),
		}, true, nil
	}

	authKey, err := base64.URLEncoding.DecodeString(env.AppAuthKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode APP_AUTH_KEY from Base64: %w", err)
	}
	encKey, err := base64.URLEncoding.DecodeString(env.AppEncKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode APP_ENC_KEY from Base64: %w", err)
	}

	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, false, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}
	return &SessionKeys{AuthKey: authKey, EncKey: encKey}, false, nil
}

// GenerateSessionKeys writes a fresh APP_AUTH_KEY/APP_ENC_KEY pair to out
// and, when path is not empty, to that file.
func GenerateSessionKeys(out io.Writer, path string) error {
	authKey := securecookie.GenerateRandomKey(64)
	if authKey == nil {
		return errors.New("could not generate authentication key")
	}
	encKey := securecookie.GenerateRandomKey(32)
	if encKey == nil {
		return errors.New("could not generate encryption key")
	}

	lines := fmt.Sprintf("APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encKey))

	fmt.Fprint(out, lines)
	if path == "" {
		return nil
	}

	if err := os.WriteFile(path, []byte(lines), 0o600); err != nil {
		return fmt.Errorf("failed to write keys to file %s: %w", path, err)
	}
	fmt.Fprintf(out, "\nKeys have been written to '%s'. Copy them into your .env file.\n", path)
	fmt.Fprintln(out, "Regenerating keys invalidates every existing session.")
	return nil
}
