package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/voidshard/budget/pkg/domain"
)

type JSONFile struct {
	filename string
}

func NewJSONFile(filename string) Store {
	return &JSONFile{filename: filename}
}

func (f *JSONFile) Read() (*domain.Snapshot, error) {
	data, err := os.ReadFile(f.filename)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", f.filename).Msg("no ledger file yet, starting empty")
		return domain.NewSnapshot(), nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (f *JSONFile) Write(snap *domain.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	return writeFile(f.filename, data, 0644)
}

func (f *JSONFile) Close() error {
	return nil
}

// writeFile replaces filename in one step: the data goes to a temp file in
// the same directory which is then renamed over the original.
func writeFile(filename string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return err
	}

	log.Debug().Str("file", filename).Int("bytes", len(data)).Msg("wrote ledger")
	return nil
}
