package entropy

import "testing"

func TestMELReaderRunSequence(t *testing.T) {
	// data[0] = 0b00000010: bit0=0 (terminating run, state k=0->0),
	// bit1=1 (non-terminating, k becomes 1), bit2..7=0 (terminating runs,
	// k drops back to 0 after each since e=melExp[0 or 1]=0).
	data := []byte{0x02, 0x00, 0x00, 0x00}
	m := newMELReader(data, 3, 3) // lengths1-scup=0, scup-1=2 bytes

	r1 := m.getRun()
	if r1&1 != 1 {
		t.Fatalf("run1 should terminate, got %#x", r1)
	}
	r2 := m.getRun()
	if r2&1 != 0 {
		t.Fatalf("run2 should not terminate, got %#x", r2)
	}
	r3 := m.getRun()
	if r3&1 != 1 {
		t.Fatalf("run3 should terminate, got %#x", r3)
	}
}

func TestMELReaderAllOnesNeverTerminates(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	m := newMELReader(data, 4, 4)
	for i := 0; i < 8; i++ {
		if run := m.getRun(); run&1 == 1 {
			t.Fatalf("run %d terminated unexpectedly: %#x", i, run)
		}
	}
}
