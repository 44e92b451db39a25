package tiered

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// Medium is the backing medium contract (§6): a random-access byte store.
// Short reads are permitted (Heap loops until it has the full block);
// short writes are not (a write either transfers the whole buffer or
// returns an error). SetLength beyond the current length appends bytes
// whose contents are not observable before a write, per §6.
type Medium interface {
	SetPosition(pos uint64)
	Read(buf []byte) (int, error)
	Write(buf []byte) error
	SetLength(n uint64) error
	Length() uint64
	Close() error
}

// Flusher is implemented by Mediums that support forcing pending writes
// to stable storage without closing. memoryMedium has nothing to flush
// and does not implement it.
type Flusher interface {
	Flush() error
}

// memoryMedium is an in-memory Medium backed by a growable byte slice
// (§4.2, "a resizable byte buffer whose length equals heap_length").
type memoryMedium struct {
	buf []byte
	pos uint64
}

// NewMemoryMedium returns a Medium backed entirely by process memory.
func NewMemoryMedium() Medium {
	return &memoryMedium{}
}

func (m *memoryMedium) SetPosition(pos uint64) { m.pos = pos }

func (m *memoryMedium) Read(buf []byte) (int, error) {
	if m.pos >= uint64(len(m.buf)) {
		if len(buf) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(buf, m.buf[m.pos:])
	m.pos += uint64(n)
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memoryMedium) Write(buf []byte) error {
	if m.pos+uint64(len(buf)) > uint64(len(m.buf)) {
		return io.ErrShortBuffer
	}
	copy(m.buf[m.pos:], buf)
	m.pos += uint64(len(buf))
	return nil
}

func (m *memoryMedium) SetLength(n uint64) error {
	switch {
	case n == uint64(len(m.buf)):
		// no-op
	case n < uint64(len(m.buf)):
		m.buf = m.buf[:n]
	default:
		grown := make([]byte, n)
		copy(grown, m.buf)
		m.buf = grown
	}
	return nil
}

func (m *memoryMedium) Length() uint64 { return uint64(len(m.buf)) }

func (m *memoryMedium) Close() error { return nil }

// fileMedium is a stream-backed Medium over a real file, accessed via
// ReadAt/WriteAt so SetPosition never races a shared OS file cursor
// (§4.2, "a random-access byte medium, typically a temporary file").
type fileMedium struct {
	f        *os.File
	pos      uint64
	length   uint64
	mmap     []byte // non-nil when memory-mapped
	path     string
	removeOn bool // delete path on Close (owned scratch file)
	useMmap  bool // (re)map the file after every SetLength
}

// NewFileMedium opens (creating if necessary) a Medium over path. The
// returned Medium does not delete path on Close; the caller owns the file
// on disk, matching the teacher's borrowed-stream convention for a
// caller-supplied path.
func NewFileMedium(path string) (Medium, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileMedium{f: f, length: uint64(info.Size()), path: path}, nil
}

// NewTempFileMedium creates a uuid-suffixed scratch file in dir (or
// os.TempDir() if dir is empty) and returns a Medium that deletes the file
// on Close, optionally memory-mapped. This is the factory referred to by
// §6's "factory for the backing medium" and §5's "scoped acquisition."
func NewTempFileMedium(dir string, useMmap bool) (Medium, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "tiered-"+uuid.NewString()+".heap")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	fm := &fileMedium{f: f, path: path, removeOn: true, useMmap: useMmap}
	if useMmap {
		if err := fm.mapExisting(); err != nil {
			f.Close()
			os.Remove(path)
			return nil, err
		}
	}
	return fm, nil
}

func (m *fileMedium) SetPosition(pos uint64) { m.pos = pos }

func (m *fileMedium) Read(buf []byte) (int, error) {
	if m.mmap != nil {
		if m.pos >= uint64(len(m.mmap)) {
			if len(buf) == 0 {
				return 0, nil
			}
			return 0, io.EOF
		}
		n := copy(buf, m.mmap[m.pos:])
		m.pos += uint64(n)
		if n < len(buf) {
			return n, io.EOF
		}
		return n, nil
	}
	n, err := m.f.ReadAt(buf, int64(m.pos))
	m.pos += uint64(n)
	return n, err
}

func (m *fileMedium) Write(buf []byte) error {
	if m.mmap != nil {
		if m.pos+uint64(len(buf)) > uint64(len(m.mmap)) {
			return io.ErrShortBuffer
		}
		copy(m.mmap[m.pos:], buf)
		m.pos += uint64(len(buf))
		return nil
	}
	n, err := m.f.WriteAt(buf, int64(m.pos))
	if err != nil {
		return err
	}
	if n != len(buf) {
		return io.ErrShortWrite
	}
	m.pos += uint64(n)
	return nil
}

func (m *fileMedium) SetLength(n uint64) error {
	if m.useMmap {
		if err := m.unmap(); err != nil {
			return err
		}
		if err := m.f.Truncate(int64(n)); err != nil {
			return err
		}
		m.length = n
		return m.mapExisting()
	}
	if err := m.f.Truncate(int64(n)); err != nil {
		return err
	}
	m.length = n
	return nil
}

func (m *fileMedium) Length() uint64 { return m.length }

func (m *fileMedium) Close() error {
	var firstErr error
	if m.mmap != nil {
		if err := m.unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := m.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if m.removeOn {
		if err := os.Remove(m.path); err != nil && firstErr == nil && !os.IsNotExist(err) {
			firstErr = err
		}
	}
	return firstErr
}

// Flush forces pending writes to stable storage without closing the
// medium: an msync of the mapped region if memory-mapped, or an fsync of
// the file otherwise. Grounded on the teacher's Flush, generalized from
// N independently-tracked shards to the single medium a Heap addresses.
func (m *fileMedium) Flush() error {
	if m.mmap != nil {
		return unix.Msync(m.mmap, unix.MS_SYNC)
	}
	return m.f.Sync()
}

// mapExisting (re)establishes the mmap region over the file's current
// length, mirroring the teacher's UseMmap option in cache.go.
func (m *fileMedium) mapExisting() error {
	if m.length == 0 {
		m.mmap = nil
		return nil
	}
	region, err := unix.Mmap(int(m.f.Fd()), 0, int(m.length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return err
	}
	m.mmap = region
	return nil
}

func (m *fileMedium) unmap() error {
	if m.mmap == nil {
		return nil
	}
	if err := unix.Msync(m.mmap, unix.MS_SYNC); err != nil {
		return err
	}
	err := unix.Munmap(m.mmap)
	m.mmap = nil
	return err
}
