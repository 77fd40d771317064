// Package cryptox holds the key handling and AEAD primitives behind the
// encrypted credential vault and the session token signer.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrijs2005/accountsetup/internal/common"
	"github.com/dmitrijs2005/accountsetup/internal/filex"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of the install key and of every derived key.
const KeySize = 32

// DeriveKey stretches secret with argon2id under the given salt and returns a
// KeySize-byte key. The same inputs always produce the same key, so distinct
// salts give independent keys from one install secret.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// LoadOrCreateKey reads the hex-encoded install key at path. When the file
// does not exist a fresh random key is generated and written with 0600
// permissions, creating parent directories as needed.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil || len(key) != KeySize {
			return nil, fmt.Errorf("key file %s: %w", path, common.ErrInvalidKey)
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	if err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("create key dir: %w", err)
	}

	key := common.GenerateRandByteArray(KeySize)
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext with AES-GCM under key. A new random nonce is
// generated per call and returned separately; aad is authenticated but not
// encrypted and must be passed unchanged to Open.
func Seal(key, plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Open reverses Seal. It fails when the key, nonce, aad or ciphertext do not
// match what was sealed.
func Open(key, ciphertext, nonce, aad []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, fmt.Errorf("nonce size %d: %w", len(nonce), common.ErrInvalidKey)
	}
	return aesgcm.Open(nil, nonce, ciphertext, aad)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
