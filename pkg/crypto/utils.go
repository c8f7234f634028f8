package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gtank/cryptopasta"
	"golang.org/x/crypto/argon2"
)

const saltSize = 16

// argon2id parameters; changing them makes existing sealed files unreadable.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
)

// Seal encrypts & base64 encodes plaintext under keys derived from
// passphrase. The result is `salt.cyphertext.hmac`.
func Seal(plaintext []byte, passphrase string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	enckey, sigkey, err := deriveKeys(passphrase, salt)
	if err != nil {
		return "", err
	}

	cyphertext, err := cryptopasta.Encrypt(plaintext, enckey)
	if err != nil {
		return "", err
	}

	// the salt is covered by the signature too
	signature := cryptopasta.GenerateHMAC(signed(salt, cyphertext), sigkey)

	return strings.Join([]string{
		base64.RawURLEncoding.EncodeToString(salt),
		base64.RawURLEncoding.EncodeToString(cyphertext),
		base64.RawURLEncoding.EncodeToString(signature),
	}, "."), nil
}

// Open is the inverse of Seal, checking the HMAC and decrypting the
// encoded data, if possible.
func Open(encoded, passphrase string) ([]byte, error) {
	bits := strings.Split(strings.TrimSpace(encoded), ".")
	if len(bits) != 3 {
		return nil, fmt.Errorf("decryption failed, encoded string invalid")
	}

	raw := make([][]byte, len(bits))
	for i, b := range bits {
		data, err := base64.RawURLEncoding.DecodeString(b)
		if err != nil {
			return nil, err
		}
		raw[i] = data
	}
	salt, cyphertext, signature := raw[0], raw[1], raw[2]

	enckey, sigkey, err := deriveKeys(passphrase, salt)
	if err != nil {
		return nil, err
	}

	if !cryptopasta.CheckHMAC(signed(salt, cyphertext), signature, sigkey) {
		return nil, fmt.Errorf("signature validation failed (wrong key?)")
	}

	return cryptopasta.Decrypt(cyphertext, enckey)
}

// deriveKeys stretches a passphrase into separate encryption and signing
// keys, as needed by the cryptopasta library.
func deriveKeys(passphrase string, salt []byte) (*[32]byte, *[32]byte, error) {
	if passphrase == "" {
		return nil, nil, fmt.Errorf("a passphrase is required for encryption")
	}
	if len(salt) != saltSize {
		return nil, nil, fmt.Errorf("invalid salt length %d", len(salt))
	}

	material := argon2.IDKey([]byte(passphrase), salt, kdfTime, kdfMemory, kdfThreads, 64)

	enc, sig := &[32]byte{}, &[32]byte{}
	copy(enc[:], material[:32])
	copy(sig[:], material[32:])
	return enc, sig, nil
}

func signed(salt, cyphertext []byte) []byte {
	data := make([]byte, 0, len(salt)+len(cyphertext))
	data = append(data, salt...)
	return append(data, cyphertext...)
}
