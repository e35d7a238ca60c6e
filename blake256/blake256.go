// Package blake256 implements the BLAKE-256 hash algorithm (SHA-3
// finalist, 14-round final version) on top of the streamhash engine.
// Salt and the 224-bit variant are not supported.
package blake256

import (
	"encoding/binary"
	"math/bits"

	"streamhash"
)

// Size is the digest length in bytes.
const Size = 32

// BlockSize is the compression block size in bytes.
const BlockSize = 64

var (
	iv = [8]uint32{
		0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
		0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
	}

	// First 512 bits of the fractional part of pi.
	u256 = [16]uint32{
		0x243f6a88, 0x85a308d3, 0x13198a2e, 0x03707344,
		0xa4093822, 0x299f31d0, 0x082efa98, 0xec4e6c89,
		0x452821e6, 0x38d01377, 0xbe5466cf, 0x34e90c6c,
		0xc0ac29b7, 0xc97c50dd, 0x3f84d5b5, 0xb5470917,
	}

	// Message/constant permutations shared by the BLAKE family. The 14
	// rounds reuse rows 0..3 after row 9.
	sigma = [10][16]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
		{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
		{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
		{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
		{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
		{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
		{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
		{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
		{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
	}

	// Column then diagonal (a, b, c, d) indices for the 8 G applications
	// of one round.
	rows = [8][4]int{
		{0, 4, 8, 12}, {1, 5, 9, 13}, {2, 6, 10, 14}, {3, 7, 11, 15},
		{0, 5, 10, 15}, {1, 6, 11, 12}, {2, 7, 8, 13}, {3, 4, 9, 14},
	}
)

type core struct {
	h [8]uint32
	t uint64 // message bits absorbed, excluding padding
}

// New returns an engine computing the BLAKE-256 checksum.
func New() *streamhash.Engine {
	return streamhash.NewEngine(new(core))
}

// Sum returns the BLAKE-256 digest of data.
func Sum(data []byte) [Size]byte {
	e := New()
	e.AddData(data)
	e.Finalize()
	d, _ := e.Digest()
	var out [Size]byte
	copy(out[:], d)
	return out
}

func (d *core) Init() {
	d.h = iv
	d.t = 0
}

func (d *core) BlockSize() int  { return BlockSize }
func (d *core) DigestSize() int { return Size }

// BufferBlocks is 2: the marker bit plus the 8-byte length field can
// push the padding into a second block.
func (d *core) BufferBlocks() int { return 2 }

func (d *core) RetainsLastBlock() bool { return false }

func (d *core) Absorb(blocks []byte) {
	for len(blocks) > 0 {
		d.t += BlockSize * 8
		d.compress(blocks[:BlockSize], d.t, true)
		blocks = blocks[BlockSize:]
	}
}

// Final pads per the BLAKE rule: a 0x80 byte, zeros, a 0x01 marker bit
// in the byte before the length, then the total bit count big-endian.
// The counter fed to each final block is the total message bit count
// when the block carries message bytes, and is skipped for blocks of
// pure padding.
func (d *core) Final(buf *streamhash.Buffer) {
	n := buf.Len()
	total := d.t + uint64(n)*8

	var lb [8]byte
	binary.BigEndian.PutUint64(lb[:], total)

	switch {
	case n == 55:
		// Exactly one padding byte fits before the length: marker and
		// terminator collapse into 0x81.
		buf.Fill(0x81, 1)
		buf.Append(lb[:])
		d.compress(buf.Bytes(), total, true)

	case n < 55:
		buf.Fill(0x80, 1)
		buf.Fill(0x00, 54-n)
		buf.Fill(0x01, 1)
		buf.Append(lb[:])
		d.compress(buf.Bytes(), total, n != 0)

	default: // 56..63: padding spills into a second block
		buf.Fill(0x80, 1)
		buf.Fill(0x00, 63-n)
		buf.Fill(0x00, 55)
		buf.Fill(0x01, 1)
		buf.Append(lb[:])
		blocks := buf.Bytes()
		d.compress(blocks[:BlockSize], total, true)
		d.compress(blocks[BlockSize:], 0, false)
	}

	d.t = total
}

func (d *core) AppendDigest(dst []byte) []byte {
	for _, w := range d.h {
		dst = binary.BigEndian.AppendUint32(dst, w)
	}
	return dst
}

func (d *core) Clone() streamhash.Core {
	c := *d
	return &c
}

// compress folds one 64-byte block into the state. t is the counter
// value for this block; counted is false for pure padding blocks, which
// leave v12..v15 untouched.
func (d *core) compress(block []byte, t uint64, counted bool) {
	var m [16]uint32
	for i := range m {
		m[i] = binary.BigEndian.Uint32(block[4*i:])
	}

	var v [16]uint32
	copy(v[:8], d.h[:])
	copy(v[8:], u256[:8])
	if counted {
		t0, t1 := uint32(t), uint32(t>>32)
		v[12] ^= t0
		v[13] ^= t0
		v[14] ^= t1
		v[15] ^= t1
	}

	for r := 0; r < 14; r++ {
		s := &sigma[r%10]
		for i, q := range rows {
			a, b, c, e := q[0], q[1], q[2], q[3]
			x, y := s[2*i], s[2*i+1]

			v[a] += v[b] + (m[x] ^ u256[y])
			v[e] = bits.RotateLeft32(v[e]^v[a], -16)
			v[c] += v[e]
			v[b] = bits.RotateLeft32(v[b]^v[c], -12)
			v[a] += v[b] + (m[y] ^ u256[x])
			v[e] = bits.RotateLeft32(v[e]^v[a], -8)
			v[c] += v[e]
			v[b] = bits.RotateLeft32(v[b]^v[c], -7)
		}
	}

	for i := range d.h {
		d.h[i] ^= v[i] ^ v[i+8]
	}
}
