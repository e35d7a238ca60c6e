// Package md4 implements the MD4 hash algorithm as defined in RFC 1320,
// on top of the streamhash engine.
//
// MD4 is cryptographically broken and is provided for interoperability
// with legacy formats only.
package md4

import (
	"encoding/binary"
	"math/bits"

	"streamhash"
)

// Size is the digest length in bytes.
const Size = 16

// BlockSize is the compression block size in bytes.
const BlockSize = 64

// Message word order and left-rotation amounts per round, from RFC 1320.
// Round 1 consumes the words in natural order.
var (
	xIndex2 = [16]int{0, 4, 8, 12, 1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15}
	xIndex3 = [16]int{0, 8, 4, 12, 2, 10, 6, 14, 1, 9, 5, 13, 3, 11, 7, 15}

	shift1 = [4]int{3, 7, 11, 19}
	shift2 = [4]int{3, 5, 9, 13}
	shift3 = [4]int{3, 9, 11, 15}
)

type core struct {
	s   [4]uint32
	len uint64 // message bytes absorbed, excluding padding
}

// New returns an engine computing the MD4 checksum.
func New() *streamhash.Engine {
	return streamhash.NewEngine(new(core))
}

// Sum returns the MD4 digest of data.
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
	d.s = [4]uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476}
	d.len = 0
}

func (d *core) BlockSize() int  { return BlockSize }
func (d *core) DigestSize() int { return Size }

// BufferBlocks is 2: the 8-byte length field can push the padding into a
// second block.
func (d *core) BufferBlocks() int { return 2 }

func (d *core) RetainsLastBlock() bool { return false }

func (d *core) Absorb(blocks []byte) {
	d.len += uint64(len(blocks))
	d.compress(blocks)
}

func (d *core) Final(buf *streamhash.Buffer) {
	// The bit count wraps mod 2^64 by construction.
	bitLen := d.len + uint64(buf.Len())
	bitLen *= 8

	n := buf.Len()
	buf.Fill(0x80, 1)
	buf.Fill(0x00, (55-n+64)%64) // up to length ≡ 56 (mod 64)

	var lb [8]byte
	binary.LittleEndian.PutUint64(lb[:], bitLen)
	buf.Append(lb[:])

	d.compress(buf.Bytes())
}

func (d *core) AppendDigest(dst []byte) []byte {
	for _, w := range d.s {
		dst = binary.LittleEndian.AppendUint32(dst, w)
	}
	return dst
}

func (d *core) Clone() streamhash.Core {
	c := *d
	return &c
}

// compress folds one or more 64-byte blocks into the state: 48 steps in
// three rounds, then additive feedback.
func (d *core) compress(p []byte) {
	a, b, c, dd := d.s[0], d.s[1], d.s[2], d.s[3]
	var x [16]uint32

	for len(p) > 0 {
		for i := range x {
			x[i] = binary.LittleEndian.Uint32(p[4*i:])
		}
		aa, bb, cc, ddd := a, b, c, dd

		// Round 1: F(b,c,d) = (b AND c) OR (NOT b AND d).
		for i := 0; i < 16; i++ {
			f := ((c ^ dd) & b) ^ dd
			a += f + x[i]
			a = bits.RotateLeft32(a, shift1[i%4])
			a, b, c, dd = dd, a, b, c
		}

		// Round 2: G(b,c,d) = majority, constant 0x5a827999.
		for i := 0; i < 16; i++ {
			g := (b & c) | (b & dd) | (c & dd)
			a += g + x[xIndex2[i]] + 0x5a827999
			a = bits.RotateLeft32(a, shift2[i%4])
			a, b, c, dd = dd, a, b, c
		}

		// Round 3: H(b,c,d) = b XOR c XOR d, constant 0x6ed9eba1.
		for i := 0; i < 16; i++ {
			h := b ^ c ^ dd
			a += h + x[xIndex3[i]] + 0x6ed9eba1
			a = bits.RotateLeft32(a, shift3[i%4])
			a, b, c, dd = dd, a, b, c
		}

		a += aa
		b += bb
		c += cc
		dd += ddd

		p = p[BlockSize:]
	}

	d.s[0], d.s[1], d.s[2], d.s[3] = a, b, c, dd
}
