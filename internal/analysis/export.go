package analysis

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
)

const (
	filePrefix     = "bookshelf_analysis_"
	fileTimeLayout = "20060102_150405"
	mirrorPrefix   = "exports"
	csvContentType = "text/csv"
	maxNameTries   = 1000
)

var csvHeader = []string{"title", "author", "confidence", "analysis_date", "photo_filename"}

// Exporter writes analysis results to CSV files in a local directory and
// optionally mirrors them to object storage.
type Exporter struct {
	dir     string
	storage model.Storage
	logger  *logger.Logger
	now     func() time.Time
}

// NewExporter creates exporter writing into dir. storage may be nil.
func NewExporter(dir string, storage model.Storage, logger *logger.Logger) *Exporter {
	return &Exporter{
		dir:     dir,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Export writes records to a new CSV file and returns its base name.
// Existing files are never overwritten: on a name collision a numeric
// suffix is appended. Mirror objects that already exist are left alone.
func (e *Exporter) Export(ctx context.Context, records []model.BookshelfRecord, photoFilename string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	file, name, err := e.createFile()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Title,
			r.Author,
			string(r.Confidence),
			e.now().Format(time.RFC3339),
			photoFilename,
		}
		if err := w.Write(row); err != nil {
			file.Close()
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	if _, err := file.Write(buf.Bytes()); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write csv file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close csv file: %w", err)
	}

	e.mirror(ctx, name, buf.Bytes())

	return name, nil
}

func (e *Exporter) createFile() (*os.File, string, error) {
	base := filePrefix + e.now().Format(fileTimeLayout)

	for i := 0; i < maxNameTries; i++ {
		name := base + ".csv"
		if i > 0 {
			name = base + "_" + strconv.Itoa(i) + ".csv"
		}

		file, err := os.OpenFile(filepath.Join(e.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to create csv file: %w", err)
		}
		return file, name, nil
	}

	return nil, "", fmt.Errorf("failed to create csv file: too many exports named %s", base)
}

func (e *Exporter) mirror(ctx context.Context, name string, content []byte) {
	if e.storage == nil {
		return
	}

	key := path.Join(mirrorPrefix, name)
	exists, err := e.storage.Exists(ctx, key)
	if err != nil {
		e.logger.Error("failed to check mirrored export", "key", key, "error", err)
		return
	}
	if exists {
		e.logger.Warn("export already mirrored, skipping", "key", key)
		return
	}

	if err := e.storage.Upload(ctx, key, bytes.NewReader(content), csvContentType); err != nil {
		e.logger.Error("failed to mirror export", "key", key, "error", err)
		return
	}
	e.logger.Debug("export mirrored", "key", key)
}
