package source

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/corvidlabs/uasig/errs"
)

// FileSource is a Source backed by an open file on disk. A single *os.File
// handle is shared across every Reader the pool hands out; concurrent
// ReadAt calls are safe because os.File.ReadAt is implemented on top of
// pread(2), so the handle needs no internal locking of its own.
//
// When a FileSource is created over a private working copy of a data
// file (see NewTempFileSource, used by the watcher before it reopens a
// changed file), deleteOnClose removes that copy once the source is
// closed.
type FileSource struct {
	path          string
	file          *os.File
	size          int64
	deleteOnClose bool
}

// OpenFileSource opens path read-only as a Source.
func OpenFileSource(path string) (*FileSource, error) {
	return openFileSource(path, false)
}

// Path returns the file path this source was opened from.
func (s *FileSource) Path() string {
	return s.path
}

// NewTempFileSource writes data to a new file in dir, named with a uuid v4
// suffix to avoid collisions between concurrent dataset swaps, and opens
// it as a Source that deletes the file on Close.
func NewTempFileSource(dir string, data []byte) (*FileSource, error) {
	name := filepath.Join(dir, "uasig-"+uuid.New().String()+".dat")
	if err := os.WriteFile(name, data, 0o600); err != nil {
		return nil, errs.ErrDataFileIO
	}

	src, err := openFileSource(name, true)
	if err != nil {
		os.Remove(name)
		return nil, err
	}

	return src, nil
}

func openFileSource(path string, deleteOnClose bool) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.ErrDataFileIO
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errs.ErrDataFileIO
	}

	return &FileSource{path: path, file: f, size: info.Size(), deleteOnClose: deleteOnClose}, nil
}

func (s *FileSource) ReadAt(buf []byte, offset int64) (int, error) {
	n, err := s.file.ReadAt(buf, offset)
	if err != nil && n < len(buf) {
		return n, errs.ErrDataFileIO
	}

	return n, nil
}

func (s *FileSource) Size() int64 {
	return s.size
}

func (s *FileSource) Close() error {
	err := s.file.Close()
	if s.deleteOnClose {
		os.Remove(s.path)
	}
	if err != nil {
		return errs.ErrDataFileIO
	}

	return nil
}
