package entropy

import "testing"

// setupSingleSignificant builds a 2x2 blockDecoder with (0,0) already
// significant, as if the cleanup pass had just run.
func setupSingleSignificant() (*blockDecoder, []int32) {
	d := newBlockDecoder(2, 2, 2)
	d.sigma[0][0] = 0b0001 // bit0 = (col%2)*2+row%2 for (row=0,col=0)
	out := make([]int32, 4)
	out[0] = 12 // sign 0, magnitude 12, matching the cleanup convention
	return d, out
}

func TestDecodeSPPPromotesOneNeighbor(t *testing.T) {
	d, out := setupSingleSignificant()

	// Bits consumed in raster order, skipping the already-significant
	// (0,0): (0,1) gets bit=1 (promote) + sign=0, (1,0) gets bit=0,
	// (1,1) gets bit=0. Packed LSB-first into one byte: 0b0001.
	data := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	d.decodeSPP(out, data, 0, len(data), 3)

	if out[1] != 6 { // mag = 3 << (p-2) = 3<<1 = 6
		t.Fatalf("sample (0,1) = %d, want 6", out[1])
	}
	if out[2] != 0 || out[3] != 0 {
		t.Fatalf("samples (1,0)/(1,1) changed: %d, %d", out[2], out[3])
	}
	if !d.sampleSignificant(0, 1) {
		t.Fatalf("(0,1) should be marked significant after SPP")
	}
	if d.sampleSignificant(1, 0) || d.sampleSignificant(1, 1) {
		t.Fatalf("(1,0)/(1,1) should remain insignificant")
	}
}

func TestDecodeSPPSkipsNonAdjacentSamples(t *testing.T) {
	// A 4x4 block with only (0,0) significant: (3,3) is not 8-adjacent to
	// it and must never consult the bit-stream, regardless of its
	// content, so it must stay insignificant and untouched.
	d := newBlockDecoder(4, 4, 4)
	d.sigma[0][0] = 0b0001
	out := make([]int32, 16)
	out[0] = 12

	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	d.decodeSPP(out, data, 0, len(data), 3)

	if d.sampleSignificant(3, 3) {
		t.Fatalf("(3,3) should not be reachable by SPP from a single corner seed")
	}
	if out[3*4+3] != 0 {
		t.Fatalf("sample (3,3) = %d, want 0", out[3*4+3])
	}
}

func TestDecodeMRPRefinesSignificantSamples(t *testing.T) {
	d, out := setupSingleSignificant()

	sppData := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	d.decodeSPP(out, sppData, 0, len(sppData), 3)

	// MagRef bits consumed in raster order over significant samples only:
	// (0,0) then (0,1), both bit=1 (bit p-1 is not toggled; the half-step
	// is ORed in).
	mrpData := []byte{0x03}
	d.decodeMRP(out, mrpData, 0, 1, 3)

	if out[0] != 14 { // 12 | (1<<(p-2)) = 12|2
		t.Fatalf("sample (0,0) after MRP = %d, want 14", out[0])
	}
	if out[1] != 6 { // 6 already has bit (p-2) set
		t.Fatalf("sample (0,1) after MRP = %d, want 6", out[1])
	}
	if out[2] != 0 || out[3] != 0 {
		t.Fatalf("insignificant samples must be untouched by MRP: %d, %d", out[2], out[3])
	}
}

func TestDecodeMRPZeroShiftBoundary(t *testing.T) {
	// p==1 (missingMSBs==29) must not panic via a negative shift amount.
	d, out := setupSingleSignificant()
	data := []byte{0xFF}
	d.decodeMRP(out, data, 0, 1, 1)
}

func TestDecodeSPPZeroShiftBoundary(t *testing.T) {
	d, out := setupSingleSignificant()
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	d.decodeSPP(out, data, 0, len(data), 1)
}
