// Package streamhash provides the shared streaming engine behind the md4,
// blake256 and blake2s packages: a bounded block buffer, an explicit
// Accumulating/Finalized lifecycle, and a hash.Hash adapter.
//
// Each algorithm package supplies a Core (state vector, counter,
// compression transform, padding rule); the engine owns everything the
// cores have in common: partial-block carry-over across AddData calls,
// bulk absorption of whole blocks, and the one-way transition from
// accepting input to a finalized, read-only digest.
package streamhash

import "errors"

// Sequence errors. Misuse of the lifecycle is reported instead of
// silently mixing fresh input into padded state; Reset is the only way
// back to Accumulating.
var (
	ErrFinalized    = errors.New("streamhash: engine already finalized")
	ErrNotFinalized = errors.New("streamhash: digest requested before finalize")
)

// Core is the per-algorithm contract. A Core owns the running state
// vector and the message-length counter; the engine owns the buffer and
// the lifecycle.
type Core interface {
	// Init loads the algorithm's published initialization constants and
	// zeroes the counter.
	Init()

	// BlockSize returns the compression block size in bytes.
	BlockSize() int

	// DigestSize returns the digest length in bytes.
	DigestSize() int

	// BufferBlocks returns the buffer capacity, in blocks, needed for the
	// algorithm's worst-case padding (1 or 2).
	BufferBlocks() int

	// RetainsLastBlock reports whether the final message block must stay
	// buffered until Final so it can be compressed with final-block
	// signaling (true for BLAKE2s, false for length-padded algorithms).
	RetainsLastBlock() bool

	// Absorb compresses one or more whole message blocks and advances the
	// counter. len(blocks) is always a positive multiple of BlockSize.
	Absorb(blocks []byte)

	// Final appends the algorithm's padding to buf, which holds the
	// trailing message bytes, and compresses the resulting final block(s)
	// with the algorithm's final-block signaling. Padding never advances
	// the message counter.
	Final(buf *Buffer)

	// AppendDigest serializes the state vector in the algorithm's digest
	// byte order and appends it to dst.
	AppendDigest(dst []byte) []byte

	// Clone returns an independent copy of the core.
	Clone() Core
}

// Engine is the incremental hash state a caller holds. It is created by
// an algorithm package's New function, starts in the accumulating state,
// and is not safe for concurrent use.
type Engine struct {
	core      Core
	buf       Buffer
	finalized bool
}

// NewEngine wraps core in a ready-to-use engine. Algorithm packages call
// this from their New functions.
func NewEngine(core Core) *Engine {
	e := &Engine{
		core: core,
		buf:  NewBuffer(core.BlockSize() * core.BufferBlocks()),
	}
	e.core.Init()
	return e
}

// Reset returns the engine to a freshly constructed state, discarding
// all absorbed input. Legal in any state.
func (e *Engine) Reset() {
	e.core.Init()
	e.buf.Clear()
	e.finalized = false
}

// AddData absorbs p into the running hash. Complete blocks are
// compressed as soon as they form; at most one block's worth of trailing
// bytes stays buffered. Returns ErrFinalized after Finalize.
func (e *Engine) AddData(p []byte) error {
	if e.finalized {
		return ErrFinalized
	}
	if len(p) == 0 {
		return nil
	}
	bs := e.core.BlockSize()

	if e.core.RetainsLastBlock() {
		// Flush only when more input follows, so the last block of the
		// message is still in the buffer when Final runs.
		if left := bs - e.buf.Len(); len(p) > left {
			e.buf.Append(p[:left])
			p = p[left:]
			e.core.Absorb(e.buf.Bytes())
			e.buf.Clear()
		}
		if len(p) > bs {
			n := len(p) &^ (bs - 1)
			if n == len(p) {
				n -= bs
			}
			e.core.Absorb(p[:n])
			p = p[n:]
		}
		e.buf.Append(p)
		return nil
	}

	// Eager drain: top up a partial buffer and absorb it the moment it
	// reaches a full block.
	if e.buf.Len() > 0 {
		n := bs - e.buf.Len()
		if n > len(p) {
			n = len(p)
		}
		e.buf.Append(p[:n])
		p = p[n:]
		if e.buf.Len() == bs {
			e.core.Absorb(e.buf.Bytes())
			e.buf.Clear()
		}
	}
	if len(p) >= bs {
		n := len(p) &^ (bs - 1)
		e.core.Absorb(p[:n])
		p = p[n:]
	}
	e.buf.Append(p)
	return nil
}

// Finalize pads and absorbs the trailing input and moves the engine to
// the finalized state. Calling it twice without Reset returns
// ErrFinalized.
func (e *Engine) Finalize() error {
	if e.finalized {
		return ErrFinalized
	}
	e.core.Final(&e.buf)
	e.buf.Clear()
	e.finalized = true
	return nil
}

// Digest returns the digest bytes. Legal only after Finalize.
func (e *Engine) Digest() ([]byte, error) {
	if !e.finalized {
		return nil, ErrNotFinalized
	}
	return e.core.AppendDigest(nil), nil
}

// Finalized reports whether Finalize has been called since the last
// Reset.
func (e *Engine) Finalized() bool { return e.finalized }

// Size returns the digest length in bytes.
func (e *Engine) Size() int { return e.core.DigestSize() }

// BlockSize returns the compression block size in bytes.
func (e *Engine) BlockSize() int { return e.core.BlockSize() }

// Write implements io.Writer / hash.Hash. It is AddData with the
// io.Writer signature; after Finalize it reports ErrFinalized instead of
// corrupting the padded state.
func (e *Engine) Write(p []byte) (int, error) {
	if err := e.AddData(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Sum implements hash.Hash. It finalizes a snapshot of the current
// state, leaving the engine itself untouched and still accepting input.
func (e *Engine) Sum(in []byte) []byte {
	if e.finalized {
		return e.core.AppendDigest(in)
	}
	snap := e.snapshot()
	snap.core.Final(&snap.buf)
	return snap.core.AppendDigest(in)
}

// snapshot deep-copies the engine state.
func (e *Engine) snapshot() *Engine {
	return &Engine{
		core:      e.core.Clone(),
		buf:       e.buf.clone(),
		finalized: e.finalized,
	}
}
