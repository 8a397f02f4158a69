package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

// MinKeyLen is the minimal accepted secret length
const MinKeyLen = 32

// Sealer encrypts stored values with AES-GCM. The nonce is prepended to the
// sealed data
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives an AES-256 key from the secret
func NewSealer(secret string) (*Sealer, error) {
	if l := len(secret); l < MinKeyLen {
		return nil, fmt.Errorf("key length must be >= %d bytes, got %d", MinKeyLen, l)
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts data, id is bound as additional data so a value can't be
// moved under another key
func (s *Sealer) Seal(id string, data []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, data, []byte(id)), nil
}

// Open decrypts data sealed with the same id
func (s *Sealer) Open(id string, data []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(data) < ns {
		return nil, fmt.Errorf("ciphertext too short")
	}
	return s.aead.Open(nil, data[:ns], data[ns:], []byte(id))
}
