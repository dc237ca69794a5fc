package source

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/corvidlabs/uasig/errs"
)

// MemorySource is a Source backed by a memory-mapped file: reads come
// straight out of the page cache with no syscall per access, at the cost
// of an address-space reservation for the file's full size for as long
// as the dataset using it stays open.
type MemorySource struct {
	data []byte
}

// OpenMemorySource mmaps path read-only.
func OpenMemorySource(path string) (*MemorySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.ErrDataFileIO
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errs.ErrDataFileIO
	}
	size := info.Size()
	if size == 0 {
		return &MemorySource{data: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errs.ErrDataFileIO
	}

	return &MemorySource{data: data}, nil
}

func (s *MemorySource) ReadAt(buf []byte, offset int64) (int, error) {
	if offset < 0 || offset > int64(len(s.data)) {
		return 0, errs.ErrOffsetOutOfRange
	}

	n := copy(buf, s.data[offset:])
	if n < len(buf) {
		return n, errs.ErrOffsetOutOfRange
	}

	return n, nil
}

func (s *MemorySource) Size() int64 {
	return int64(len(s.data))
}

func (s *MemorySource) Close() error {
	if s.data == nil {
		return nil
	}

	err := unix.Munmap(s.data)
	s.data = nil
	if err != nil {
		return errs.ErrDataFileIO
	}

	return nil
}
