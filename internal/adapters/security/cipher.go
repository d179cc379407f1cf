package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/mailagent/server/internal/domain"
)

// AESCipher seals user secrets with AES-256-GCM. The key is derived from the
// server secret, so rotating the secret invalidates every stored ciphertext.
type AESCipher struct {
	aead cipher.AEAD
}

func NewAESCipher(secret string) (*AESCipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret cipher: secret is empty")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("secret cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secret cipher: %w", err)
	}
	return &AESCipher{aead: aead}, nil
}

// Encrypt returns base64url(nonce || sealed). The empty string passes
// through so optional fields stay empty in storage.
func (c *AESCipher) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("encrypt secret: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

func (c *AESCipher) Decrypt(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	raw, err := base64.URLEncoding.DecodeString(sealed)
	if err != nil {
		return "", domain.ErrDecryptFailed
	}
	if len(raw) < c.aead.NonceSize() {
		return "", domain.ErrDecryptFailed
	}
	nonce, body := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, body, nil)
	if err != nil {
		return "", domain.ErrDecryptFailed
	}
	return string(plain), nil
}
