package entropy

// melExp is the adaptive exponent table for the MEL run decoder, indexed
// by state k in [0,12]. Ported verbatim from the teacher's ht.go and the
// OpenJPH reference (mel_exp[13] in ojph_block_decoder.cpp); it is a named
// constant of the standard, not a tunable.
var melExp = [13]uint{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 4, 5}

// melReader is the stateful adaptive run-length decoder described in
// spec section 4.B. It reads from a forward, 0xFF-padded bit-stream
// sharing the same bytes as the VLC reader (MEL grows upward from the low
// address, VLC grows downward from the high address, inside the cleanup
// segment's SCUP tail).
type melReader struct {
	f       frwdReader
	k       int
	runs    [8]int // queued run records: (count<<1)|terminates
	numRuns int

	// runRemaining/runTerm track progress through the current run record
	// across multiple zero-context quad decisions: a single record can
	// span more than one quad (spec section 4.D step 2), so nextQuad
	// must be able to answer "insignificant" several times before it
	// needs a fresh record.
	runRemaining int
	runTerm      bool
}

func newMELReader(data []byte, lengths1, scup int) *melReader {
	m := &melReader{}
	m.f = *newFrwdReader(data, lengths1-scup, scup-1, 0xFF)
	return m
}

// decodeMore fills the run queue to its capacity of 8 records.
func (m *melReader) decodeMore() {
	for m.numRuns < 8 {
		bits := m.f.fetch()
		bit := bits & 1
		var run int
		if bit == 1 {
			e := melExp[m.k]
			run = (1<<e - 1) << 1
			if m.k < 12 {
				m.k++
			}
			m.f.advance(1)
		} else {
			e := melExp[m.k]
			m.f.advance(1)
			v := m.f.fetch() & uint32(1<<e-1)
			m.f.advance(uint32(e))
			run = (int(v) << 1) | 1
			if m.k > 0 {
				m.k--
			}
		}
		m.runs[m.numRuns] = run
		m.numRuns++
	}
}

// getRun returns the next 7-bit run record: bit 0 is the "terminates in a
// one" flag, the remaining bits are the run count.
func (m *melReader) getRun() int {
	if m.numRuns == 0 {
		m.decodeMore()
	}
	r := m.runs[0]
	for i := 1; i < m.numRuns; i++ {
		m.runs[i-1] = m.runs[i]
	}
	m.numRuns--
	return r
}

// nextQuad advances the MEL run state by exactly one zero-context quad and
// reports whether that quad's significance must be read from the VLC table
// (the run's terminating event, per spec section 4.D step 2) or is forced
// insignificant because it falls inside the run's zero-length prefix.
//
// A run record packs (count<<1)|terminates. A run with terminates==0 only
// ever contributes to the zero-run-length count: MEL's adaptive state k
// keeps climbing and the caller must fetch another record to learn what
// eventually terminates the run. A run with terminates==1 contributes
// count more insignificant quads followed immediately by one quad whose
// significance is genuinely decided by the VLC table. Both cases funnel
// through the same pending counter so a run spanning several quads is
// consumed one quad at a time instead of collapsing to a single decision.
func (m *melReader) nextQuad() bool {
	for {
		if m.runRemaining > 0 {
			m.runRemaining--
			return false
		}
		if m.runTerm {
			m.runTerm = false
			return true
		}
		run := m.getRun()
		m.runRemaining = run >> 1
		m.runTerm = run&1 == 1
	}
}
