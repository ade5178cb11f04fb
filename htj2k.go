// Package htj2k decodes High-Throughput JPEG 2000 (HTJ2K, ITU-T T.814)
// code-block bit-streams into sign-magnitude sample planes.
//
// The decoder is a pure function of its inputs: it performs no I/O and
// keeps no state between calls; its per-block scratch buffers are pooled
// internally, while the bit readers and the significance snapshot of the
// refinement pass are allocated on each call. Everything upstream of a single code-block
// - the JP2/J2K container, tier-2 packet parsing, tile and resolution
// partitioning, the wavelet transform, colour transforms and image-format
// I/O - lives outside this package.
package htj2k

import "github.com/ochiba/htj2k/internal/entropy"

// ErrorKind classifies why a block decode failed.
type ErrorKind int

const (
	// MalformedScup means the SCUP value derived from the last two bytes
	// of the cleanup segment is out of range (scup<2, scup>lengths1, or
	// scup>4079).
	MalformedScup ErrorKind = iota
	// TooManyMissingMsbs means missingMSBs > 29 while numPasses > 1.
	TooManyMissingMsbs
	// UnreachableBitplane means a decoded U_q exceeded missingMSBs+1.
	UnreachableBitplane
	// TruncatedRefinement means numPasses > 1 but lengths2 == 0. This is
	// the one soft failure: callers may retry with DecodeBlockTolerant,
	// which clamps numPasses to 1 instead of failing.
	TruncatedRefinement
	// UnsupportedPassCount means numPasses > 3.
	UnsupportedPassCount
)

func (k ErrorKind) String() string {
	return entropy.ErrorKind(k).String()
}

// BlockError reports a failed block decode, carrying enough context (the
// offending value) for a caller to log something useful; the decoder
// itself never logs.
type BlockError struct {
	Kind  ErrorKind
	Value int
}

func (e *BlockError) Error() string {
	return (&entropy.DecodeError{Kind: entropy.ErrorKind(e.Kind), Value: e.Value}).Error()
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	de, ok := err.(*entropy.DecodeError)
	if !ok {
		return err
	}
	return &BlockError{Kind: ErrorKind(de.Kind), Value: de.Value}
}

// BlockParams is the complete external interface of spec section 6: a
// flat byte buffer plus the integer parameters the code-block header
// carries, and the caller-owned plane to decode into.
type BlockParams struct {
	// CodedData is the code-block bit-stream: Lengths1+Lengths2 bytes.
	// Trailing padding is allowed but not required: the bit readers never
	// index past the end of the slice and synthesise fill bytes instead.
	CodedData []byte
	// DecodedData is the caller-owned sample plane, Stride*Height int32
	// samples. Each written sample is sign-magnitude: bit 31 is the
	// sign (1 = negative), bits 30..0 are the magnitude - not two's
	// complement. Samples this decoder doesn't touch are left as-is.
	DecodedData []int32
	// MissingMSBs is the number of all-zero MSB bit-planes skipped by
	// the encoder, in [0,30].
	MissingMSBs int
	// NumPasses selects cleanup only (1), cleanup+SPP (2), or
	// cleanup+SPP+MRP (3).
	NumPasses int
	// Lengths1 is the byte length of the cleanup segment.
	Lengths1 int
	// Lengths2 is the byte length of the refinement segment (0 when
	// NumPasses == 1).
	Lengths2 int
	// Width and Height are the block dimensions, each in [1,1024].
	Width, Height int
	// Stride is the row stride of DecodedData, >= Width.
	Stride int
}

func (p BlockParams) toInternal() entropy.Params {
	return entropy.Params{
		CodedData:   p.CodedData,
		DecodedData: p.DecodedData,
		MissingMSBs: p.MissingMSBs,
		NumPasses:   p.NumPasses,
		Lengths1:    p.Lengths1,
		Lengths2:    p.Lengths2,
		Width:       p.Width,
		Height:      p.Height,
		Stride:      p.Stride,
	}
}

// DecodeBlock decodes one HTJ2K code-block per spec section 6. On failure
// the returned error is always a *BlockError; the plane is not guaranteed
// to be cleared - callers should zero or discard it themselves.
func DecodeBlock(p BlockParams) error {
	return wrapError(entropy.Decode(p.toInternal()))
}

// DecodeBlockTolerant behaves like DecodeBlock but treats
// TruncatedRefinement as recoverable: it clamps NumPasses to 1 and
// retries once instead of failing, matching the OpenJPH reference
// decoder's unconditional clamp (surfaced here as an explicit opt-in per
// spec section 9).
func DecodeBlockTolerant(p BlockParams) error {
	return wrapError(entropy.DecodeTolerant(p.toInternal()))
}
