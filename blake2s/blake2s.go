// Package blake2s implements the unkeyed BLAKE2s-256 hash algorithm
// (RFC 7693) on top of the streamhash engine. Keying, salt and
// personalization are not supported; the parameter block encodes only
// the digest length.
package blake2s

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

	rows = [8][4]int{
		{0, 4, 8, 12}, {1, 5, 9, 13}, {2, 6, 10, 14}, {3, 7, 11, 15},
		{0, 5, 10, 15}, {1, 6, 11, 12}, {2, 7, 8, 13}, {3, 4, 9, 14},
	}
)

// Parameter block word 0 for an unkeyed sequential hash: digest length
// 32, fanout 1, depth 1.
const param0 = 0x01010000 ^ Size

type core struct {
	h [8]uint32
	t uint64 // message bytes absorbed, excluding padding
}

// New returns an engine computing the BLAKE2s-256 checksum.
func New() *streamhash.Engine {
	return streamhash.NewEngine(new(core))
}

// Sum256 returns the BLAKE2s-256 digest of data.
func Sum256(data []byte) [Size]byte {
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
	d.h[0] ^= param0
	d.t = 0
}

func (d *core) BlockSize() int  { return BlockSize }
func (d *core) DigestSize() int { return Size }

// BufferBlocks is 1: BLAKE2s never appends a length field inside the
// block, so padding always fits the block being finalized.
func (d *core) BufferBlocks() int { return 1 }

// RetainsLastBlock is true: the final message block must be compressed
// with the final flag set, so the engine may not absorb it eagerly.
func (d *core) RetainsLastBlock() bool { return true }

func (d *core) Absorb(blocks []byte) {
	for len(blocks) > 0 {
		d.t += BlockSize
		d.compress(blocks[:BlockSize], false)
		blocks = blocks[BlockSize:]
	}
}

// Final zero-pads the trailing block and compresses it with the final
// flag. The byte counter advances by the genuine trailing bytes only,
// never by padding.
func (d *core) Final(buf *streamhash.Buffer) {
	n := buf.Len()
	d.t += uint64(n)
	buf.Fill(0x00, BlockSize-n)
	d.compress(buf.Bytes(), true)
}

func (d *core) AppendDigest(dst []byte) []byte {
	for _, w := range d.h {
		dst = binary.LittleEndian.AppendUint32(dst, w)
	}
	return dst
}

func (d *core) Clone() streamhash.Core {
	c := *d
	return &c
}

// compress folds one 64-byte block into the state: the byte counter
// halves enter at v12/v13 and v14 is inverted exactly once, on the
// final block.
func (d *core) compress(block []byte, final bool) {
	var m [16]uint32
	for i := range m {
		m[i] = binary.LittleEndian.Uint32(block[4*i:])
	}

	var v [16]uint32
	copy(v[:8], d.h[:])
	copy(v[8:], iv[:])
	v[12] ^= uint32(d.t)
	v[13] ^= uint32(d.t >> 32)
	if final {
		v[14] = ^v[14]
	}

	for r := 0; r < 10; r++ {
		s := &sigma[r]
		for i, q := range rows {
			a, b, c, e := q[0], q[1], q[2], q[3]

			v[a] += v[b] + m[s[2*i]]
			v[e] = bits.RotateLeft32(v[e]^v[a], -16)
			v[c] += v[e]
			v[b] = bits.RotateLeft32(v[b]^v[c], -12)
			v[a] += v[b] + m[s[2*i+1]]
			v[e] = bits.RotateLeft32(v[e]^v[a], -8)
			v[c] += v[e]
			v[b] = bits.RotateLeft32(v[b]^v[c], -7)
		}
	}

	for i := range d.h {
		d.h[i] ^= v[i] ^ v[i+8]
	}
}
