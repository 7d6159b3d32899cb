// Package tailer reads the bytes appended to a file since a caller-tracked
// offset. It is stateless across calls: offset, carry, and dirty tracking
// live in the caller's FileState, not here.
package tailer

import (
	"io"
	"os"

	"github.com/standardbeagle/watchstats/internal/alloc"
	wserrors "github.com/standardbeagle/watchstats/internal/errors"
)

// Status classifies the outcome of one ReadAppended call.
type Status int

const (
	StatusReadSome Status = iota
	StatusNoData
	StatusTruncatedReset
	StatusFileNotFound
	StatusAccessDenied
	StatusIoError
)

func (s Status) String() string {
	switch s {
	case StatusReadSome:
		return "read_some"
	case StatusNoData:
		return "no_data"
	case StatusTruncatedReset:
		return "truncated_reset"
	case StatusFileNotFound:
		return "file_not_found"
	case StatusAccessDenied:
		return "access_denied"
	case StatusIoError:
		return "io_error"
	default:
		return "unknown"
	}
}

// DefaultChunkSize is the pooled read-buffer size used when a Tailer is
// constructed with a non-positive chunk size.
const DefaultChunkSize = 64 * 1024

// Result reports what ReadAppended observed and, on success, where the
// caller's offset should advance to.
type Result struct {
	Status    Status
	NewOffset int64
	BytesRead int64
	// Ino is the file's inode number at stat time, 0 if unavailable. The
	// caller passes it back as knownIno on its next ReadAppended call, which
	// compares it to detect a delete-and-recreate that reused the same path.
	Ino uint64
}

// Tailer reads appended bytes using a pool of reusable chunk buffers shared
// across every path a coordinator worker touches.
type Tailer struct {
	chunkPool *alloc.SlabAllocator[byte]
	chunkSize int
}

// New creates a Tailer whose reads are buffered through chunkSize-sized
// pooled buffers. A non-positive chunkSize falls back to DefaultChunkSize.
func New(chunkSize int) *Tailer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Tailer{
		chunkPool: alloc.NewChunkSlabAllocator[byte](),
		chunkSize: chunkSize,
	}
}

// ReadAppended opens path, compares its current length against offset, and
// streams any appended bytes to onChunk as borrowed views — valid only for
// the duration of each call. It never advances the caller's stored offset;
// the caller commits Result.NewOffset itself, per the advance-only-on-success
// rule the processor enforces.
//
// knownIno is the inode the caller last observed for path, or 0 if unknown.
// If the file now open at path reports a different inode, offset cannot be
// trusted — the path was deleted and recreated, or replaced out from under
// the watch — so ReadAppended treats it like a truncation and reads from
// byte zero instead of seeking to a stale offset into unrelated data.
//
// When open, stat, or seek fails (FileNotFound, AccessDenied, or IoError),
// onChunk is never invoked. A read error after some chunks were already
// delivered also reports IoError, with BytesRead and NewOffset covering the
// delivered bytes. Every returned error is a *errors.TailError suitable for
// logging.
func (t *Tailer) ReadAppended(path string, offset int64, knownIno uint64, onChunk func([]byte)) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		status := classifyOpenError(err)
		return Result{Status: status}, wserrors.NewTailError("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{Status: StatusIoError}, wserrors.NewTailError("stat", path, err)
	}
	length := info.Size()
	ino := inodeOf(info)

	effectiveOffset := offset
	truncated := false
	if knownIno != 0 && ino != 0 && ino != knownIno {
		effectiveOffset = 0
		truncated = true
	} else if length < offset {
		effectiveOffset = 0
		truncated = true
	}
	if effectiveOffset >= length {
		status := StatusNoData
		if truncated {
			status = StatusTruncatedReset
		}
		return Result{Status: status, NewOffset: effectiveOffset, Ino: ino}, nil
	}

	if _, err := f.Seek(effectiveOffset, io.SeekStart); err != nil {
		return Result{Status: StatusIoError, Ino: ino}, wserrors.NewTailError("seek", path, err)
	}

	buf := t.chunkPool.Get(t.chunkSize)
	buf = buf[:cap(buf)]
	defer t.chunkPool.Put(buf)

	var bytesRead int64
	var readErr error
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			onChunk(buf[:n])
			bytesRead += int64(n)
		}
		if rerr != nil {
			if rerr != io.EOF {
				readErr = rerr
			}
			break
		}
	}

	if readErr != nil {
		return Result{
			Status:    StatusIoError,
			NewOffset: effectiveOffset + bytesRead,
			BytesRead: bytesRead,
			Ino:       ino,
		}, wserrors.NewTailError("read", path, readErr)
	}

	if bytesRead == 0 {
		status := StatusNoData
		if truncated {
			status = StatusTruncatedReset
		}
		return Result{Status: status, NewOffset: effectiveOffset, Ino: ino}, nil
	}
	return Result{
		Status:    StatusReadSome,
		NewOffset: effectiveOffset + bytesRead,
		BytesRead: bytesRead,
		Ino:       ino,
	}, nil
}

func classifyOpenError(err error) Status {
	if os.IsNotExist(err) {
		return StatusFileNotFound
	}
	if os.IsPermission(err) {
		return StatusAccessDenied
	}
	return StatusIoError
}
