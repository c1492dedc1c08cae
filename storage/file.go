package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	accessTokenFile = "access_token"
	identityFile    = "identity.json"

	fileMode   = 0o600
	folderMode = 0o700
)

// FileStorage keeps the token and identity as two files under a data folder.
type FileStorage struct {
	folder string
}

// NewFileStorage creates the data folder if needed and returns a store
// rooted at it.
func NewFileStorage(folder string) (*FileStorage, error) {
	if strings.TrimSpace(folder) == "" {
		return nil, errors.New("[NewFileStorage] folder is required")
	}
	if err := os.MkdirAll(folder, folderMode); err != nil {
		return nil, errors.Wrap(err, "[NewFileStorage] os.MkdirAll")
	}
	return &FileStorage{folder: folder}, nil
}

func (s *FileStorage) AccessToken() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.folder, accessTokenFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "[FileStorage.AccessToken] os.ReadFile")
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStorage) SetAccessToken(token string) error {
	path := filepath.Join(s.folder, accessTokenFile)
	if err := os.WriteFile(path, []byte(token), fileMode); err != nil {
		return errors.Wrap(err, "[FileStorage.SetAccessToken] os.WriteFile")
	}
	return nil
}

func (s *FileStorage) Identity() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.folder, identityFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStorage.Identity] os.ReadFile")
	}
	return data, nil
}

func (s *FileStorage) SetIdentity(identity []byte) error {
	path := filepath.Join(s.folder, identityFile)
	if err := os.WriteFile(path, identity, fileMode); err != nil {
		return errors.Wrap(err, "[FileStorage.SetIdentity] os.WriteFile")
	}
	return nil
}

func (s *FileStorage) Clear() error {
	for _, name := range []string{accessTokenFile, identityFile} {
		if err := os.Remove(filepath.Join(s.folder, name)); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "[FileStorage.Clear] os.Remove %s", name)
		}
	}
	return nil
}

var _ Storage = (*FileStorage)(nil)
