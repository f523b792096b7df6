package bitstream

import (
	"bytes"
	"testing"
)

func TestReads(t *testing.T) {
	r := New([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	if got := r.Uint8(); got != 0x01 {
		t.Errorf("Uint8 = %#x, want 0x01", got)
	}
	if got := r.Uint16(); got != 0x0302 {
		t.Errorf("Uint16 = %#x, want 0x0302", got)
	}
	if got := r.Uint24(); got != 0x060504 {
		t.Errorf("Uint24 = %#x, want 0x060504", got)
	}
	if got := r.Pos(); got != 48 {
		t.Errorf("Pos = %d, want 48", got)
	}
	if err := r.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUint32AtBitOffset(t *testing.T) {
	data := make([]byte, 16)
	copy(data[10:], []byte{0x78, 0x56, 0x34, 0x12})

	r := New(data)
	r.SetPos(10 * 8)
	if got := r.Uint32(); got != 0x12345678 {
		t.Errorf("Uint32 = %#x, want 0x12345678", got)
	}
}

func TestBytesAndSkip(t *testing.T) {
	r := New([]byte("abcdefgh"))
	r.Skip(2)
	if got := r.Bytes(3); !bytes.Equal(got, []byte("cde")) {
		t.Errorf("Bytes = %q, want cde", got)
	}
}

func TestReadPastEndIsSticky(t *testing.T) {
	r := New([]byte{0x01})
	r.Uint32()
	if r.Err() == nil {
		t.Fatal("expected an error reading past the end")
	}

	// Later reads keep failing and return zero values.
	if got := r.Uint8(); got != 0 {
		t.Errorf("Uint8 after error = %#x, want 0", got)
	}
	if r.Err() == nil {
		t.Error("error must stay sticky")
	}
}

func TestSetPosRecoversFromError(t *testing.T) {
	r := New([]byte{0x42, 0x43})
	r.SetPos(8)
	r.Uint32()
	if r.Err() == nil {
		t.Fatal("expected an error reading past the end")
	}

	r.SetPos(0)
	if r.Err() != nil {
		t.Error("SetPos must clear the sticky error")
	}
	if got := r.Uint8(); got != 0x42 {
		t.Errorf("Uint8 after recovery = %#x, want 0x42", got)
	}
}

func TestUnalignedReadFails(t *testing.T) {
	r := New([]byte{0x01, 0x02})
	r.SetPos(3)
	r.Uint8()
	if r.Err() == nil {
		t.Error("expected an error for an unaligned read")
	}
}

func TestFindAll(t *testing.T) {
	r := New([]byte("..qSvE....qSvE..qeSM"))

	offsets := r.FindAll([]byte("qSvE"))
	want := []int64{2 * 8, 10 * 8}
	if len(offsets) != len(want) {
		t.Fatalf("got %d offsets, want %d", len(offsets), len(want))
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Errorf("offset[%d] = %d, want %d", i, offsets[i], want[i])
		}
	}
}

func TestFindAllOverlapping(t *testing.T) {
	r := New([]byte("aaaa"))
	if got := len(r.FindAll([]byte("aa"))); got != 3 {
		t.Errorf("got %d occurrences, want 3", got)
	}
}

func TestFindAllNoMatch(t *testing.T) {
	r := New([]byte("abc"))
	if got := r.FindAll([]byte("zz")); len(got) != 0 {
		t.Errorf("got %d occurrences, want 0", len(got))
	}
}
