// Package storage keeps uploaded avatar images on local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxAvatarSize = 5 << 20

// ErrInvalidFile is returned for uploads with a bad type or size.
var ErrInvalidFile = errors.New("invalid avatar file")

var allowedExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// LocalStore writes files under dir and serves them below baseURL/uploads/.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// Save stores the avatar under a fresh name and returns its public URL.
func (s *LocalStore) Save(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: unsupported extension %q", ErrInvalidFile, ext)
	}

	name := fmt.Sprintf("%s-%s%s", userID, uuid.NewString(), ext)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	n, err := io.Copy(f, io.LimitReader(r, MaxAvatarSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxAvatarSize {
		err = fmt.Errorf("%w: larger than %d bytes", ErrInvalidFile, MaxAvatarSize)
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}

	return s.baseURL + "/uploads/" + name, nil
}
