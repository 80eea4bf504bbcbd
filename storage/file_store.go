package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aircraft-scraper/models"
)

// DateLayout is the format of the date partition directory.
const DateLayout = "2006-01-02"

// IOError reports a local storage failure. It is never retried: a failing
// disk or permission problem affects every later write as well.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FileStore keeps raw listing HTML under
// <root>/<site>/<YYYY-MM-DD>/<site>_<listing_id>.html.
type FileStore struct {
	root string
}

// NewFileStore creates the root directory if needed and checks that it is
// writable, so that an unusable root fails at startup rather than mid-run.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &IOError{Op: "create root", Path: root, Err: err}
	}

	probe, err := os.CreateTemp(root, ".write-probe-*")
	if err != nil {
		return nil, &IOError{Op: "probe root", Path: root, Err: err}
	}
	name := probe.Name()
	_ = probe.Close()
	if err := os.Remove(name); err != nil {
		return nil, &IOError{Op: "probe root", Path: root, Err: err}
	}

	return &FileStore{root: root}, nil
}

// Root returns the storage root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Path returns the deterministic file path for a listing on a given date.
func (s *FileStore) Path(site models.Site, date time.Time, listingID string) string {
	name := fmt.Sprintf("%s_%s.html", site, sanitizeID(listingID))
	return filepath.Join(s.root, string(site), date.Format(DateLayout), name)
}

// Exists reports whether the listing was already saved for that date. It
// never creates directories.
func (s *FileStore) Exists(site models.Site, date time.Time, listingID string) (bool, error) {
	path := s.Path(site, date, listingID)
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, &IOError{Op: "stat", Path: path, Err: err}
	}
}

// Save writes html to the listing's path, overwriting any previous copy.
// The content goes to a temp file first and is renamed into place, so a
// crash never leaves a truncated file that would later count as saved.
func (s *FileStore) Save(site models.Site, date time.Time, listingID string, html []byte) (string, error) {
	path := s.Path(site, date, listingID)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &IOError{Op: "create dir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.html")
	if err != nil {
		return "", &IOError{Op: "create temp", Path: dir, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(html); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return "", &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", &IOError{Op: "rename", Path: path, Err: err}
	}

	return path, nil
}

// sanitizeID keeps listing ids from escaping their date directory.
func sanitizeID(id string) string {
	r := strings.NewReplacer("/", "_", "\\", "_")
	id = r.Replace(strings.TrimSpace(id))
	if id == "" || id == "." || id == ".." {
		return "_" + id
	}
	return id
}
