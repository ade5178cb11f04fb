package entropy

// Params carries the block parameters from spec section 6's external
// interface. The bit readers bounds-check every byte they read and
// synthesise fill bytes past the end of a segment or of CodedData, so
// CodedData needs no padding past Lengths1+Lengths2.
type Params struct {
	CodedData   []byte
	DecodedData []int32
	MissingMSBs int
	NumPasses   int
	Lengths1    int
	Lengths2    int
	Width       int
	Height      int
	Stride      int
}

// Decode runs the three HT passes described in spec section 4 against
// Params and writes significant samples into DecodedData. It returns a
// *DecodeError for every fatal condition in spec section 7; the one soft
// condition, TruncatedRefinement, is also returned rather than silently
// clamped, per spec section 9's resolution of that open question -
// callers that want the lenient behaviour should call DecodeTolerant.
func Decode(p Params) error {
	if p.NumPasses > 3 {
		return newDecodeError(UnsupportedPassCount, p.NumPasses)
	}
	if p.MissingMSBs > 29 && p.NumPasses > 1 {
		return newDecodeError(TooManyMissingMsbs, p.MissingMSBs)
	}
	if p.NumPasses > 1 && p.Lengths2 == 0 {
		return newDecodeError(TruncatedRefinement, p.Lengths2)
	}

	scup, err := computeSCUP(p.CodedData, p.Lengths1)
	if err != nil {
		return err
	}

	pPlane := 30 - p.MissingMSBs
	mmsbp1 := p.MissingMSBs + 1

	d := getBlockDecoder(p.Width, p.Height, p.Stride)
	defer putBlockDecoder(d)

	if err := d.decodeCleanup(p.DecodedData, p.CodedData, p.Lengths1, scup, pPlane, mmsbp1); err != nil {
		return err
	}

	if p.NumPasses >= 2 {
		d.decodeSPP(p.DecodedData, p.CodedData, p.Lengths1, p.Lengths2, pPlane)
	}
	if p.NumPasses >= 3 {
		d.decodeMRP(p.DecodedData, p.CodedData, p.Lengths1, p.Lengths2, pPlane)
	}
	return nil
}

// DecodeTolerant behaves like Decode but downgrades a TruncatedRefinement
// condition by clamping NumPasses to 1 and retrying once, mirroring the
// unconditional clamp-and-continue behaviour of the OpenJPH reference
// decoder for callers that want it opt-in rather than automatic.
func DecodeTolerant(p Params) error {
	err := Decode(p)
	var de *DecodeError
	if e, ok := err.(*DecodeError); ok {
		de = e
	}
	if de != nil && de.Kind == TruncatedRefinement {
		p.NumPasses = 1
		return Decode(p)
	}
	return err
}

// computeSCUP derives and validates the SCUP value per spec section 3:
// scup = (code[L1-1] << 4) | (code[L1-2] & 0x0F). It fails with
// MalformedScup unless 2 <= lengths1 <= len(code), 2 <= scup <= lengths1
// and scup <= 4079; lengths1 itself is not bounded by 4079.
func computeSCUP(code []byte, lengths1 int) (int, error) {
	if lengths1 < 2 || lengths1 > len(code) {
		return 0, newDecodeError(MalformedScup, lengths1)
	}
	scup := (int(code[lengths1-1]) << 4) | int(code[lengths1-2]&0x0F)
	if scup < 2 || scup > lengths1 || scup > 4079 {
		return 0, newDecodeError(MalformedScup, scup)
	}
	return scup, nil
}
