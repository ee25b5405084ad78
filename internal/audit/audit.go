package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Archive keeps JSON snapshots of bulk operations, such as the outcome of
// a catalog import, next to the database audit trail.
type Archive struct {
	Dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{
		Dir: dir,
	}
}

// SaveJSON writes data to <kind>-<date>-<uuid>.json and returns the filename.
func (a *Archive) SaveJSON(kind string, data any) (string, error) {
	if err := a.ensureDir(); err != nil {
		return "", fmt.Errorf("failed to ensure archive directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s-%s.json", kind, time.Now().Format("20060102"), uuid.New().String())
	path := filepath.Join(a.Dir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	log.Printf("Saved %s archive: %s", kind, path)
	return filename, nil
}

func (a *Archive) ensureDir() error {
	if _, err := os.Stat(a.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	return nil
}
