package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/voidshard/budget/pkg/crypto"
	"github.com/voidshard/budget/pkg/domain"
)

// Sealed is a JSONFile whose contents are encrypted & signed with a key
// derived from a passphrase.
type Sealed struct {
	filename   string
	passphrase string
}

func NewSealed(filename, passphrase string) (Store, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("sealed store %s needs a passphrase", filename)
	}
	return &Sealed{filename: filename, passphrase: passphrase}, nil
}

func (s *Sealed) Read() (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.filename)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", s.filename).Msg("no sealed ledger yet, starting empty")
		return domain.NewSnapshot(), nil
	}
	if err != nil {
		return nil, err
	}

	plain, err := crypto.Open(string(data), s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Decode(plain)
}

func (s *Sealed) Write(snap *domain.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	sealed, err := crypto.Seal(data, s.passphrase)
	if err != nil {
		return err
	}
	return writeFile(s.filename, []byte(sealed+"\n"), 0600)
}

func (s *Sealed) Close() error {
	return nil
}
