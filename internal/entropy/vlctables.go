package entropy

// Two 1024-entry VLC lookup tables as described in spec section 4.C:
// vlcTbl0 for the initial row of quads (context from horizontal neighbours
// only), vlcTbl1 for subsequent rows (context also sees the row above).
// Each entry packs rho (4 bits), u_off (1 bit) and a fixed codeword length
// into a uint16; see vlcLookup below for the bit layout.
//
// KNOWN NON-CONFORMANCE: the ITU-T T.814 Annex K source rows
// (table0.h/table1.h in the OpenJPH tree) that assign real per-context
// codewords were not present anywhere in the retrieval pack backing this
// decoder (original_source/_INDEX.md lists ojph_block_decoder.cpp/.h but
// not the two included data files). Rather than fabricate Annex K numbers
// from memory that cannot be checked, both tables are built at package
// init from a context-independent, prefix-free formula instead: the low
// four bits of the read codeword become rho directly and the fifth bit
// becomes u_off, with a fixed 5-bit codeword length. This keeps the real
// construction algorithm (scan every (context<<7|codeword) index and
// materialise a lookup, matching decode_vlc_init_tables in the reference)
// while being self-consistent without the external data — but it means
// this package can only decode bit-streams produced by this same formula,
// not a code-block emitted by a real conforming HT encoder. It also means
// the per-sample E1/Ek "known magnitude bits" savings of spec section
// 4.D step 8 have no table-driven assignment to read (a real Annex K
// table is what would assign them) and are implemented as the degenerate
// E1=0, Ek=0 case in cleanup.go. See DESIGN.md for the full accounting of
// what this blocks.
const (
	vlcCwdLen = 5
)

var vlcTbl0 [1024]uint16
var vlcTbl1 [1024]uint16

func init() {
	buildVLCTable(&vlcTbl0)
	buildVLCTable(&vlcTbl1)
}

func buildVLCTable(tbl *[1024]uint16) {
	for context := 0; context < 8; context++ {
		for cwd := 0; cwd < 128; cwd++ {
			rho := uint16(cwd & 0x0F)
			uOff := uint16((cwd >> 4) & 0x01)
			entry := rho | (uOff << 4) | (uint16(vlcCwdLen) << 5)
			idx := (context << 7) | cwd
			tbl[idx] = entry
		}
	}
}

// vlcLookup decodes a table entry into its three fields.
func vlcLookup(tbl *[1024]uint16, context uint32, window uint32) (rho uint8, uOff uint8, cwdLen uint32) {
	idx := (context << 7) | (window & 0x7F)
	e := tbl[idx]
	return uint8(e & 0x0F), uint8((e >> 4) & 0x01), uint32((e >> 5) & 0x07)
}

// uvlcPrefix mirrors the teacher's UVLC prefix decode table: each entry
// packs (prefixLen:2, suffixLen:3, prefixValue:3), grounded on
// decode_init_uvlc / decode_noninit_uvlc in the OpenJPH reference, which
// this package's decodeInitUVLC/decodeNonInitUVLC in cleanup.go follow.
var uvlcPrefix = [8]uint8{
	3 | (5 << 2) | (5 << 5),
	1 | (0 << 2) | (1 << 5),
	2 | (0 << 2) | (2 << 5),
	1 | (0 << 2) | (1 << 5),
	3 | (1 << 2) | (3 << 5),
	1 | (0 << 2) | (1 << 5),
	2 | (0 << 2) | (2 << 5),
	1 | (0 << 2) | (1 << 5),
}
