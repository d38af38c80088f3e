package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/ulikunitz/xz"
)

// DefaultPath is where the generator writes the dataset.
const DefaultPath = "elliott_impulse_dataset.json"

// FileStore reads and writes a Dataset as a single JSON document. Paths
// ending in .xz hold the same document xz-compressed.
type FileStore struct {
	Path string

	// Strict makes Load fail when any sample does not validate.
	Strict bool
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (fs *FileStore) compressed() bool {
	return strings.HasSuffix(fs.Path, ".xz")
}

// Load reads the dataset. A missing file yields an empty dataset and no
// error; deciding whether empty is fatal is up to the caller.
func (fs *FileStore) Load() (Dataset, error) {
	f, err := os.Open(fs.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if fs.compressed() {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz dataset: %w", err)
		}
		r = xr
	}

	var ds Dataset
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, nil
		}
		return nil, fmt.Errorf("decode dataset %s: %w", fs.Path, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode dataset %s: unexpected data after the sample list", fs.Path)
	}
	if ds == nil {
		ds = Dataset{}
	}

	if fs.Strict {
		if issues := ds.Check(); len(issues) > 0 {
			return nil, fmt.Errorf("dataset %s: %d invalid samples, first: %s", fs.Path, len(issues), issues[0])
		}
	}
	return ds, nil
}

// Save rewrites the whole dataset. The document is written to a pending
// file in the same directory and renamed over the target, so a failed
// write leaves the previous file intact. An existing file keeps its mode.
func (fs *FileStore) Save(ds Dataset) error {
	if ds == nil {
		ds = Dataset{}
	}

	pf, err := renameio.NewPendingFile(fs.Path,
		renameio.WithTempDir(filepath.Dir(fs.Path)),
		renameio.WithPermissions(0644),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	defer pf.Cleanup()

	if err := fs.encode(pf, ds); err != nil {
		return err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

func (fs *FileStore) encode(w io.Writer, ds Dataset) error {
	if !fs.compressed() {
		return writeJSON(w, ds)
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("open xz writer: %w", err)
	}
	if err := writeJSON(xw, ds); err != nil {
		xw.Close()
		return err
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("flush xz dataset: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, ds Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}
