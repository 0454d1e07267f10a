package invoice

import (
	"os"
	"path/filepath"
	"strings"
)

// Store persists a rendered invoice and returns a durable public URL.
type Store interface {
	Save(name string, pdf []byte) (string, error)
}

// DiskStore writes invoices under a local directory that the server serves
// as static files. Names come from Number, so writes never collide.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func (s *DiskStore) Save(name string, pdf []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	filename := name + ".pdf"
	if err := os.WriteFile(filepath.Join(s.Dir, filename), pdf, 0o644); err != nil {
		return "", err
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + filename, nil
}
