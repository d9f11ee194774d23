package security

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"talentscout-be/internal/pkg/logger"

	"github.com/fatih/color"
	"golang.org/x/crypto/hkdf"
)

// KeySource reports which tier produced the field encryption key.
type KeySource string

const (
	KeySourceEnvironment   KeySource = "environment"
	KeySourceSecretManager KeySource = "secret_manager"
	KeySourceDevelopment   KeySource = "development"
)

const developmentEnvironment = "development"

// hkdfInfoFieldKey separates the candidate store key from any other use of
// the same input material. Changing it invalidates every sealed field.
var hkdfInfoFieldKey = []byte("talentscout.candidate-store.v1")

// KeyMaterial is a resolved 32-byte key and where it came from.
type KeyMaterial struct {
	Key    []byte
	Source KeySource
}

type KeyProviderConfig struct {
	EnvironmentKey string // raw ENCRYPTION_KEY value, may be empty
	SecretName     string // secret manager id, empty disables the tier
	SecretField    string // JSON field holding the key when the secret is an object
	Environment    string // deployment tag, "development" enables generated keys
}

// KeyProvider resolves the field encryption key: environment first, then the
// managed secret store, then (development only) a freshly generated key.
type KeyProvider struct {
	cfg      KeyProviderConfig
	secrets  SecretManager
	logger   logger.ILogger
	announce func(encodedKey string)
}

// NewKeyProvider builds a provider. secrets may be nil when no secret manager
// is configured.
func NewKeyProvider(cfg KeyProviderConfig, secrets SecretManager, log logger.ILogger) *KeyProvider {
	if cfg.SecretField == "" {
		cfg.SecretField = "ENCRYPTION_KEY"
	}
	return &KeyProvider{
		cfg:      cfg,
		secrets:  secrets,
		logger:   log,
		announce: announceDevelopmentKey,
	}
}

// WithAnnouncer replaces the stderr banner used to surface a generated key.
func (p *KeyProvider) WithAnnouncer(fn func(encodedKey string)) *KeyProvider {
	p.announce = fn
	return p
}

// Resolve returns the key or a *ConfigurationError when none is usable
// outside development.
func (p *KeyProvider) Resolve(ctx context.Context) (*KeyMaterial, error) {
	if raw := strings.TrimSpace(p.cfg.EnvironmentKey); raw != "" {
		key, err := NormalizeKey(raw)
		if err != nil {
			return nil, &ConfigurationError{Reason: "ENCRYPTION_KEY is not usable", Err: err}
		}
		p.logger.Info("SECURITY", "Using encryption key from environment", nil)
		return &KeyMaterial{Key: key, Source: KeySourceEnvironment}, nil
	}

	var lastErr error
	if p.secrets != nil && p.cfg.SecretName != "" {
		key, err := p.fromSecretManager(ctx)
		if err == nil {
			p.logger.Info("SECURITY", "Using encryption key from secret manager", map[string]interface{}{
				"secret_name": p.cfg.SecretName,
			})
			return &KeyMaterial{Key: key, Source: KeySourceSecretManager}, nil
		}
		lastErr = err
		p.logger.Warn("SECURITY", "Secret manager key retrieval failed", map[string]interface{}{
			"secret_name": p.cfg.SecretName,
			"error":       err.Error(),
		})
	} else {
		lastErr = errors.New("no secret manager configured")
	}

	if strings.EqualFold(p.cfg.Environment, developmentEnvironment) {
		key, encoded, err := GenerateKey()
		if err != nil {
			return nil, &ConfigurationError{Reason: "generating development key", Err: err}
		}
		p.logger.Warn("SECURITY", "Generated ephemeral development encryption key; data sealed with it is lost once the key is", nil)
		if p.announce != nil {
			p.announce(encoded)
		}
		return &KeyMaterial{Key: key, Source: KeySourceDevelopment}, nil
	}

	p.logger.Error("SECURITY", "Encryption key unavailable in production", map[string]interface{}{
		"environment": p.cfg.Environment,
		"error":       lastErr.Error(),
	})
	return nil, &ConfigurationError{Reason: "encryption key unavailable in production", Err: lastErr}
}

func (p *KeyProvider) fromSecretManager(ctx context.Context) ([]byte, error) {
	secret, err := p.secrets.GetSecret(ctx, p.cfg.SecretName)
	if err != nil {
		return nil, err
	}
	raw, err := extractSecretKey(secret, p.cfg.SecretField)
	if err != nil {
		return nil, err
	}
	return NormalizeKey(raw)
}

// extractSecretKey accepts either a bare key or a JSON object holding the key
// under field.
func extractSecretKey(secret, field string) (string, error) {
	secret = strings.TrimSpace(secret)
	if !strings.HasPrefix(secret, "{") {
		return secret, nil
	}
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(secret), &fields); err != nil {
		return "", fmt.Errorf("parsing secret JSON: %w", err)
	}
	value, ok := fields[field].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%s missing in secret", field)
	}
	return value, nil
}

// NormalizeKey turns key material into a KeySize key. Input that already
// base64-decodes to KeySize bytes is used verbatim; any other non-empty input
// is stretched with HKDF-SHA256.
func NormalizeKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty key material")
	}

	encodings := []*base64.Encoding{
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawURLEncoding,
		base64.RawStdEncoding,
	}
	for _, enc := range encodings {
		if decoded, err := enc.DecodeString(raw); err == nil && len(decoded) == KeySize {
			return decoded, nil
		}
	}

	return deriveKey([]byte(raw))
}

func deriveKey(inputKeyMaterial []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, inputKeyMaterial, nil, hkdfInfoFieldKey)
	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, fmt.Errorf("HKDF key derivation failed: %w", err)
	}
	return derived, nil
}

// GenerateKey returns a random key and its base64url form, suitable for
// ENCRYPTION_KEY.
func GenerateKey() ([]byte, string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, "", fmt.Errorf("reading random key: %w", err)
	}
	return key, base64.URLEncoding.EncodeToString(key), nil
}

func announceDevelopmentKey(encodedKey string) {
	warn := color.New(color.FgYellow, color.Bold)
	rule := strings.Repeat("=", 60)
	warn.Fprintln(os.Stderr, rule)
	warn.Fprintln(os.Stderr, "GENERATED NEW ENCRYPTION KEY FOR DEVELOPMENT")
	color.New(color.FgCyan).Fprintf(os.Stderr, "ENCRYPTION_KEY=%s\n", encodedKey)
	warn.Fprintln(os.Stderr, "Save it to .env or the secret manager, it cannot be recovered.")
	warn.Fprintln(os.Stderr, rule)
}
