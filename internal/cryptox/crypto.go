// Package cryptox holds the primitives behind the encrypted local store:
// argon2id key derivation, a verifier for detecting a wrong passphrase, and
// AES-GCM sealing of string values.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length produced by DeriveKey.
const KeySize = 32

// ErrMalformedCiphertext is returned by OpenString when the sealed value is
// not valid base64 or is shorter than a nonce.
var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// DeriveKey stretches passphrase with argon2id using salt.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// MakeVerifier returns sha256(key). It is stored next to the salt so a
// wrong passphrase is detected before any value is decrypted.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// SealString encrypts plaintext with AES-GCM under key and returns
// base64(nonce || ciphertext). aad is authenticated but not stored; the same
// bytes must be passed to OpenString. A fresh nonce is drawn for every call.
func SealString(plaintext string, key, aad []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), aad)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenString reverses SealString. Tampered data, a wrong key or different
// aad yields an error from the AEAD.
func OpenString(sealed string, key, aad []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	if len(raw) < aesgcm.NonceSize() {
		return "", ErrMalformedCiphertext
	}

	nonce, ciphertext := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}
