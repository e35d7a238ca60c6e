package streamhash

import "fmt"

// Buffer is a bounded, append-only byte accumulator with a fill cursor.
// The engine uses it to hold the trailing partial block between AddData
// calls and, during finalization, the padded final block(s).
//
// Capacity is fixed at construction and sized by the owning engine to the
// worst case its algorithm needs; Buffer itself never observes the block
// size. Exceeding capacity is an engine bug, not an input error, so it
// panics rather than returning an error.
type Buffer struct {
	data []byte
	n    int
}

// NewBuffer returns a Buffer holding up to capacity bytes.
func NewBuffer(capacity int) Buffer {
	return Buffer{data: make([]byte, capacity)}
}

// Append copies p onto the tail of the buffer.
func (b *Buffer) Append(p []byte) {
	if b.n+len(p) > len(b.data) {
		panic(fmt.Sprintf("streamhash: buffer overflow: %d bytes into %d/%d", len(p), b.n, len(b.data)))
	}
	copy(b.data[b.n:], p)
	b.n += len(p)
}

// Fill appends count copies of c.
func (b *Buffer) Fill(c byte, count int) {
	if b.n+count > len(b.data) {
		panic(fmt.Sprintf("streamhash: buffer overflow: %d bytes into %d/%d", count, b.n, len(b.data)))
	}
	for i := 0; i < count; i++ {
		b.data[b.n+i] = c
	}
	b.n += count
}

// Clear resets the fill cursor to zero and scrubs the storage.
func (b *Buffer) Clear() {
	for i := range b.data {
		b.data[i] = 0
	}
	b.n = 0
}

// Len returns the current fill length.
func (b *Buffer) Len() int { return b.n }

// Cap returns the reserved capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Bytes returns the filled portion of the buffer. The slice aliases the
// buffer's storage and is invalidated by the next mutation.
func (b *Buffer) Bytes() []byte { return b.data[:b.n] }

// clone returns a deep copy, used by Engine.Sum to finalize a snapshot
// without disturbing the live state.
func (b *Buffer) clone() Buffer {
	c := Buffer{data: make([]byte, len(b.data)), n: b.n}
	copy(c.data, b.data)
	return c
}
