package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the size in bytes of the field encryption key.
const KeySize = chacha20poly1305.KeySize

// sealedFieldVersion is the first byte of every sealed field. It is also the
// additional authenticated data, so flipping it fails authentication.
const sealedFieldVersion byte = 0x01

// sealedFieldOverhead is version + XChaCha20 nonce + Poly1305 tag.
const sealedFieldOverhead = 1 + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead

// CipherBox encrypts and decrypts individual string fields with
// XChaCha20-Poly1305. Sealed fields are stored as unpadded base64url text:
//
//	[version: 1 byte] [nonce: 24 bytes] [ciphertext+tag: N+16 bytes]
//
// A CipherBox is safe for concurrent use.
type CipherBox struct {
	key []byte
}

// NewCipherBox wraps a resolved key. The key must be exactly KeySize bytes.
func NewCipherBox(key []byte) (*CipherBox, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("field encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	// Probe once so a bad key fails at construction rather than on first write.
	if _, err := chacha20poly1305.NewX(key); err != nil {
		return nil, fmt.Errorf("creating XChaCha20-Poly1305 cipher: %w", err)
	}
	owned := make([]byte, KeySize)
	copy(owned, key)
	return &CipherBox{key: owned}, nil
}

// Encrypt seals plaintext. The empty string encrypts to the empty string so
// optional fields that were never collected stay empty at rest.
func (c *CipherBox) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("creating XChaCha20-Poly1305 cipher: %w", err)
	}

	var nonce [chacha20poly1305.NonceSizeX]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generating random nonce: %w", err)
	}

	output := make([]byte, 1+chacha20poly1305.NonceSizeX, sealedFieldOverhead+len(plaintext))
	output[0] = sealedFieldVersion
	copy(output[1:], nonce[:])
	output = aead.Seal(output, nonce[:], []byte(plaintext), []byte{sealedFieldVersion})

	return base64.RawURLEncoding.EncodeToString(output), nil
}

// Decrypt opens a field produced by Encrypt. The empty string decrypts to the
// empty string; anything else that cannot be authenticated is a
// *DecryptionError.
func (c *CipherBox) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	blob, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", &DecryptionError{Reason: "ciphertext is not base64url", Err: err}
	}
	if len(blob) < sealedFieldOverhead {
		return "", &DecryptionError{Reason: fmt.Sprintf("ciphertext is %d bytes, minimum is %d", len(blob), sealedFieldOverhead)}
	}
	if blob[0] != sealedFieldVersion {
		return "", &DecryptionError{Reason: fmt.Sprintf("unsupported ciphertext version %d", blob[0])}
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("creating XChaCha20-Poly1305 cipher: %w", err)
	}

	nonce := blob[1 : 1+chacha20poly1305.NonceSizeX]
	plaintext, err := aead.Open(nil, nonce, blob[1+chacha20poly1305.NonceSizeX:], blob[:1])
	if err != nil {
		return "", &DecryptionError{Reason: "authentication failed (wrong key or tampered data)", Err: err}
	}
	return string(plaintext), nil
}
