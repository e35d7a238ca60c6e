package streamhash_test

import (
	"bytes"
	"errors"
	"hash"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"streamhash"
	"streamhash/blake2s"
	"streamhash/md4"
)

// The engines double as hash.Hash for interoperability with code that
// expects the standard interface.
var (
	_ hash.Hash = md4.New()
	_ hash.Hash = blake2s.New()
)

func TestSequenceErrors(t *testing.T) {
	e := md4.New()
	if _, err := e.Digest(); !errors.Is(err, streamhash.ErrNotFinalized) {
		t.Fatalf("Digest before Finalize: got %v, want ErrNotFinalized", err)
	}
	if err := e.AddData([]byte("abc")); err != nil {
		t.Fatalf("AddData: %v", err)
	}
	if err := e.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := e.Finalize(); !errors.Is(err, streamhash.ErrFinalized) {
		t.Fatalf("second Finalize: got %v, want ErrFinalized", err)
	}
	if err := e.AddData([]byte("more")); !errors.Is(err, streamhash.ErrFinalized) {
		t.Fatalf("AddData after Finalize: got %v, want ErrFinalized", err)
	}
	if _, err := e.Write([]byte("more")); !errors.Is(err, streamhash.ErrFinalized) {
		t.Fatalf("Write after Finalize: got %v, want ErrFinalized", err)
	}

	// Reset recovers the engine completely.
	e.Reset()
	if e.Finalized() {
		t.Fatal("engine still finalized after Reset")
	}
	if err := e.AddData([]byte("abc")); err != nil {
		t.Fatalf("AddData after Reset: %v", err)
	}
	if err := e.Finalize(); err != nil {
		t.Fatalf("Finalize after Reset: %v", err)
	}
	got, err := e.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	want := md4.Sum([]byte("abc"))
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("digest after Reset: got %x, want %x", got, want)
	}
}

func TestChunkingInvariance(t *testing.T) {
	data := []byte(strings.Repeat("streamhash chunking invariance ", 9)) // 279 bytes
	var digests [][]byte
	for _, chunk := range []int{1, 7, 63, 64, 65, 128, len(data)} {
		e := blake2s.New()
		for off := 0; off < len(data); off += chunk {
			end := off + chunk
			if end > len(data) {
				end = len(data)
			}
			if err := e.AddData(data[off:end]); err != nil {
				t.Fatalf("chunk %d: AddData: %v", chunk, err)
			}
		}
		if err := e.Finalize(); err != nil {
			t.Fatalf("chunk %d: Finalize: %v", chunk, err)
		}
		d, err := e.Digest()
		if err != nil {
			t.Fatalf("chunk %d: Digest: %v", chunk, err)
		}
		digests = append(digests, d)
	}
	for i := 1; i < len(digests); i++ {
		if diff := cmp.Diff(digests[0], digests[i]); diff != "" {
			t.Fatalf("chunking changed the digest (-first +other):\n%s", diff)
		}
	}
}

func TestSumIsNonDestructive(t *testing.T) {
	e := md4.New()
	e.AddData([]byte("ab"))

	partial := e.Sum(nil)
	wantPartial := md4.Sum([]byte("ab"))
	if !bytes.Equal(partial, wantPartial[:]) {
		t.Fatalf("Sum snapshot: got %x, want %x", partial, wantPartial)
	}

	// The engine must still be accumulating.
	if err := e.AddData([]byte("c")); err != nil {
		t.Fatalf("AddData after Sum: %v", err)
	}
	if err := e.Finalize(); err != nil {
		t.Fatalf("Finalize after Sum: %v", err)
	}
	got, _ := e.Digest()
	want := md4.Sum([]byte("abc"))
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("digest after Sum snapshot: got %x, want %x", got, want)
	}

	// Sum on a finalized engine appends the digest directly.
	if again := e.Sum(nil); !bytes.Equal(again, want[:]) {
		t.Fatalf("Sum after Finalize: got %x, want %x", again, want)
	}
}

func TestBuffer(t *testing.T) {
	b := streamhash.NewBuffer(8)
	if b.Cap() != 8 || b.Len() != 0 {
		t.Fatalf("fresh buffer: cap %d len %d", b.Cap(), b.Len())
	}
	b.Append([]byte{1, 2, 3})
	b.Fill(0xaa, 2)
	if b.Len() != 5 {
		t.Fatalf("Len = %d, want 5", b.Len())
	}
	if want := []byte{1, 2, 3, 0xaa, 0xaa}; !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("Bytes = %x, want %x", b.Bytes(), want)
	}
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("Len after Clear = %d", b.Len())
	}
}

func TestBufferOverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on overflow")
		}
	}()
	b := streamhash.NewBuffer(4)
	b.Append([]byte{1, 2, 3, 4, 5})
}

func TestHexString(t *testing.T) {
	if got := streamhash.HexString([]byte{0x00, 0xab, 0xcd, 0x0f}); got != "00abcd0f" {
		t.Fatalf("HexString = %q", got)
	}
	if got := streamhash.HexString(nil); got != "" {
		t.Fatalf("HexString(nil) = %q", got)
	}
}

func TestUint64(t *testing.T) {
	cases := []struct {
		in   []byte
		want uint64
	}{
		{nil, 0},
		{[]byte{0x01}, 0x01},
		{[]byte{0x01, 0x02}, 0x0102},
		{[]byte{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa, 0x99, 0x88}, 0xffeeddccbbaa9988},
		// Longer digests truncate to the most-significant 8 bytes.
		{[]byte{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa, 0x99, 0x88, 0x77, 0x66}, 0xffeeddccbbaa9988},
	}
	for _, c := range cases {
		if got := streamhash.Uint64(c.in); got != c.want {
			t.Errorf("Uint64(%x) = %#x, want %#x", c.in, got, c.want)
		}
	}
}
