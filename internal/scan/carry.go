// Package scan implements the zero-copy UTF-8 line scanner (carryover
// across chunk boundaries) and the partial-line buffer it grows into.
//
// The design mirrors the teacher's core.LineScanner — a single-pass,
// allocation-free cursor over a byte slice — generalized from "scan a
// whole file's bytes" to "scan a stream of chunks with a carried
// remainder", which a tailer needs when a read boundary falls mid-line.
package scan

// Carry is a growable byte buffer holding a partial line left over from one
// chunk until the newline that completes it arrives in a later chunk. It is
// lazily allocated on first append and Clear releases the backing array so
// a long-lived FileState doesn't pin megabytes of memory for an idle file.
type Carry struct {
	buf []byte
}

// Len returns the number of carried bytes.
func (c *Carry) Len() int {
	return len(c.buf)
}

// Bytes returns the carried bytes. Valid until the next mutation.
func (c *Carry) Bytes() []byte {
	return c.buf
}

// Append grows the carry buffer by the given bytes, allocating lazily.
func (c *Carry) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	c.buf = append(c.buf, p...)
}

// Set replaces the carry contents with p, copying it so the caller's slice
// (which may be a borrowed chunk view) can be reused or released freely.
func (c *Carry) Set(p []byte) {
	if len(p) == 0 {
		c.Clear()
		return
	}
	if cap(c.buf) < len(p) {
		c.buf = make([]byte, len(p))
	} else {
		c.buf = c.buf[:len(p)]
	}
	copy(c.buf, p)
}

// Clear empties the carry and releases the backing array for GC hygiene,
// per spec: "cleared means length = 0 and buffer reference released".
func (c *Carry) Clear() {
	c.buf = nil
}
