package output

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/Taichi-iskw/yt-harvest/internal/errors"
	"github.com/Taichi-iskw/yt-harvest/internal/model"
)

// Encode writes records as an indented JSON array without HTML escaping
func Encode(w io.Writer, records []model.HarvestRecord) error {
	if records == nil {
		records = []model.HarvestRecord{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// WriteFile writes records to path. The file is written next to its destination
// and renamed into place, so a failed write never leaves a partial artifact.
func WriteFile(path string, records []model.HarvestRecord) error {
	if path == "" {
		return errors.New(errors.CodeInvalidArg, "output path is required")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create output file")
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, records); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.CodeInternal, "failed to encode output")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to write output file")
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to set output file mode")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to move output file into place")
	}

	return nil
}
