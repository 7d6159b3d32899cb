package scan

import "bytes"

// Scan processes the logical concatenation of carry followed by chunk,
// invoking emit once per complete line with a borrowed byte view that
// excludes the terminating LF and, if present, one preceding CR. Bytes
// after the last newline (a partial trailing line) become the new carry
// contents; Scan never emits them.
//
// The slice passed to emit is only valid for the duration of that single
// call — it may alias carry's backing array, which Scan mutates and
// clears as soon as the carried prefix has been consumed. Callers that
// need the line beyond the callback must copy it.
func Scan(chunk []byte, carry *Carry, emit func(line []byte)) {
	start := 0
	for {
		idx := bytes.IndexByte(chunk[start:], '\n')
		if idx < 0 {
			carry.Append(chunk[start:])
			return
		}

		lineEnd := start + idx
		var line []byte
		if carry.Len() > 0 {
			carry.Append(chunk[start:lineEnd])
			line = trimCR(carry.Bytes())
			emit(line)
			carry.Clear()
		} else {
			line = trimCR(chunk[start:lineEnd])
			emit(line)
		}

		start = lineEnd + 1
	}
}

// trimCR drops one trailing CR, implementing CRLF handling without
// allocating.
func trimCR(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}
