package entropy

import "testing"

func TestFrwdReaderBasic(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	f := newFrwdReader(data, 0, len(data), 0xFF)
	if got := f.fetch() & 1; got != 1 {
		t.Fatalf("first bit = %d, want 1", got)
	}
	f.advance(1)
	if got := f.fetch() & 1; got != 0 {
		t.Fatalf("second bit = %d, want 0", got)
	}
}

func TestFrwdReaderFillByteOnExhaustion(t *testing.T) {
	data := []byte{0x00}
	f := newFrwdReader(data, 0, 1, 0xFF)
	f.advance(8) // consume the one real byte
	if got := f.fetch() & 0xFF; got != 0xFF {
		t.Fatalf("fill byte = %#x, want 0xff", got)
	}
}

func TestFrwdReaderUnstuffing(t *testing.T) {
	// A byte > 0x8F forces the next byte to contribute only 7 bits (its
	// top bit is a stuffing bit, not data).
	data := []byte{0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	f := newFrwdReader(data, 0, len(data), 0)
	f.advance(8) // consume the first 0xFF
	// The second byte is 0xFF but only its low 7 bits count; bit 7 of the
	// raw byte is dropped, so the 7 available bits are all 1s still.
	if got := f.fetch() & 0x7F; got != 0x7F {
		t.Fatalf("unstuffed bits = %#x, want 0x7f", got)
	}
}

func TestRevReaderVLCSeed(t *testing.T) {
	// lengths1=4: seed byte at index 2 (high nibble 0b1010), one more
	// byte at index 1 (scup=3 reaches one byte past the seed).
	data := []byte{0x00, 0x55, 0xA3, 0x00}
	v := newVLCReader(data, 4, 3)
	if got := v.fetch() & 0xF; got != 0xA {
		t.Fatalf("seed nibble = %#x, want 0xa", got)
	}
}

func TestRevReaderMRPPadsWithZero(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00}
	m := newMRPReader(data, 0, 3) // lengths1=0, lengths2=3: tail is data[0:3]
	// All three real bytes are zero; well past their bit count the reader
	// has nothing left to pull and must keep yielding zero bits.
	for i := 0; i < 30; i++ {
		m.advance(1)
	}
	if got := m.fetch() & 1; got != 0 {
		t.Fatalf("padded bit = %d, want 0", got)
	}
}
