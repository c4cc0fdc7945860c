package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrWrongPassword is returned by Open when authentication fails. A
// tampered header or a mismatched label fails the same way.
var ErrWrongPassword = errors.New("wrong password or corrupted wallet")

// Sealed box layout. The header is authenticated as associated data
// together with the caller's label.
//
//	version(1) | salt(16) | memory(4) | iterations(4) | parallelism(1) | nonce(24) | ciphertext
const (
	sealVersion = 2
	SaltSize    = 16
	headerSize  = 1 + SaltSize + 4 + 4 + 1

	// maxMemoryKiB caps the Argon2 memory a sealed box may demand (4 GiB).
	maxMemoryKiB  = 4 << 20
	maxIterations = 64
)

// EncryptionParams holds Argon2id parameters.
type EncryptionParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns the Argon2id cost used for new wallets.
func DefaultParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
	}
}

// Validate rejects parameters Argon2 cannot run with or that exceed the
// limits Open will accept.
func (p EncryptionParams) Validate() error {
	switch {
	case p.Iterations == 0 || p.Iterations > maxIterations:
		return fmt.Errorf("argon2 iterations must be in [1, %d], got %d", maxIterations, p.Iterations)
	case p.Parallelism == 0:
		return errors.New("argon2 parallelism must be positive")
	case p.Memory < 8*uint32(p.Parallelism) || p.Memory > maxMemoryKiB:
		return fmt.Errorf("argon2 memory must be in [%d, %d] KiB, got %d", 8*uint32(p.Parallelism), maxMemoryKiB, p.Memory)
	}
	return nil
}

func (p EncryptionParams) key(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Parallelism, chacha20poly1305.KeySize)
}

func appendHeader(dst, salt []byte, p EncryptionParams) []byte {
	dst = append(dst, sealVersion)
	dst = append(dst, salt...)
	dst = binary.LittleEndian.AppendUint32(dst, p.Memory)
	dst = binary.LittleEndian.AppendUint32(dst, p.Iterations)
	return append(dst, p.Parallelism)
}

func parseHeader(b []byte) (salt []byte, p EncryptionParams, err error) {
	if b[0] != sealVersion {
		return nil, p, fmt.Errorf("unsupported sealed box version %d", b[0])
	}
	salt = b[1 : 1+SaltSize]
	p = EncryptionParams{
		Memory:      binary.LittleEndian.Uint32(b[1+SaltSize:]),
		Iterations:  binary.LittleEndian.Uint32(b[5+SaltSize:]),
		Parallelism: b[9+SaltSize],
	}
	if err := p.Validate(); err != nil {
		return nil, p, fmt.Errorf("sealed box header: %w", err)
	}
	return salt, p, nil
}

func associatedData(header []byte, label string) []byte {
	ad := make([]byte, 0, len(header)+len(label))
	ad = append(ad, header...)
	return append(ad, label...)
}

// Seal encrypts data under password with Argon2id and XChaCha20-Poly1305.
// label is bound to the ciphertext and must be passed to Open unchanged.
func Seal(data, password []byte, label string, params EncryptionParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := params.key(password, salt)
	defer zero(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	out := appendHeader(make([]byte, 0, headerSize+aead.NonceSize()+len(data)+aead.Overhead()), salt, params)
	header := out[:headerSize]
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	out = append(out, nonce...)
	return aead.Seal(out, nonce, data, associatedData(header, label)), nil
}

// Open decrypts a box produced by Seal with the same password and label.
func Open(sealed, password []byte, label string) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	if minSize := headerSize + nonceSize + chacha20poly1305.Overhead; len(sealed) < minSize {
		return nil, fmt.Errorf("sealed box too short: %d bytes, need at least %d", len(sealed), minSize)
	}
	header := sealed[:headerSize]
	salt, params, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	key := params.key(password, salt)
	defer zero(key)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	nonce := sealed[headerSize : headerSize+nonceSize]
	plaintext, err := aead.Open(nil, nonce, sealed[headerSize+nonceSize:], associatedData(header, label))
	if err != nil {
		return nil, ErrWrongPassword
	}
	return plaintext, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
