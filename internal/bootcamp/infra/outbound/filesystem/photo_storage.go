package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
)

// DiskPhotoStorage guarda las fotos de bootcamps en un directorio local (FILE_UPLOAD_PATH).
type DiskPhotoStorage struct {
	dir string
}

func NewDiskPhotoStorage(dir string) (*DiskPhotoStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir %s: %w", dir, err)
	}
	return &DiskPhotoStorage{dir: dir}, nil
}

// Save escribe en un temporal y lo renombra, así nunca se sirve una foto a medias.
func (s *DiskPhotoStorage) Save(ctx context.Context, name string, content io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("invalid photo name %q", name)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		return fmt.Errorf("problem with file upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}

func (s *DiskPhotoStorage) Dir() string { return s.dir }

var _ bootcampDomain.PhotoStorage = (*DiskPhotoStorage)(nil)
