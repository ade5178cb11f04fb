package entropy

import "math/bits"

// blockDecoder holds the scratch state for one HT block decode: the
// significance grid and the rolling north-neighbour reference. The bit
// readers are created per call in decodeCleanup/decodeSPP/decodeMRP since
// they are cheap value types seeded from the caller's byte slice.
// blockDecoder itself is pooled across calls the same way the teacher's
// HTDecoder is pooled (see pool.go), matching spec section 5's
// requirement that scratch buffers are allocated on entry and released on
// return, with no global mutable state in the hot path.
//
// Quads are decoded one at a time rather than in the literal left-right
// "quad-pair" grouping of spec section 4.D: the pairing in the reference
// exists to let two VLC lookups share one fetched window, a throughput
// optimisation rather than a data dependency, so a scalar per-quad loop
// is conformant (spec section 9: "a straight scalar implementation is
// conformant").
type blockDecoder struct {
	width, height, stride int
	quadCols, quadRows     int

	// sigma[qy][qx] is the 4-bit rho significance mask of quad (qy,qx),
	// bit i set means sample (2*qy+i&1, 2*qx+(i>>1)) is significant.
	sigma [][]uint8

	// colSig/colE track, for each sample column, the significance and
	// raw exponent (0 when insignificant) of the most recently decoded
	// sample in that column;
	// used as the north reference when decoding the next quad row, and
	// as the lineState north/north-east E-values of spec section 4.D.
	colSig []bool
	colE   []int
}

func newBlockDecoder(width, height, stride int) *blockDecoder {
	d := &blockDecoder{}
	d.resize(width, height, stride)
	return d
}

func (d *blockDecoder) resize(width, height, stride int) {
	d.width, d.height, d.stride = width, height, stride
	d.quadCols = (width + 1) / 2
	d.quadRows = (height + 1) / 2

	if cap(d.sigma) < d.quadRows {
		d.sigma = make([][]uint8, d.quadRows)
	} else {
		d.sigma = d.sigma[:d.quadRows]
	}
	for i := range d.sigma {
		if cap(d.sigma[i]) < d.quadCols {
			d.sigma[i] = make([]uint8, d.quadCols)
		} else {
			d.sigma[i] = d.sigma[i][:d.quadCols]
			for j := range d.sigma[i] {
				d.sigma[i][j] = 0
			}
		}
	}
	if cap(d.colSig) < width {
		d.colSig = make([]bool, width)
		d.colE = make([]int, width)
	} else {
		d.colSig = d.colSig[:width]
		d.colE = d.colE[:width]
	}
	for i := range d.colSig {
		d.colSig[i] = false
		d.colE[i] = 0
	}
}

func (d *blockDecoder) write(out []int32, row, col int, v int32) {
	if row < 0 || row >= d.height || col < 0 || col >= d.width {
		return
	}
	out[row*d.stride+col] = v
}

// decodeCleanup runs the cleanup pass (spec section 4.D) across the whole
// block and populates d.sigma plus every significant sample in out.
func (d *blockDecoder) decodeCleanup(out []int32, data []byte, lengths1, scup, p, mmsbp1 int) error {
	vlc := newVLCReader(data, lengths1, scup)
	mel := newMELReader(data, lengths1, scup)
	magSgn := newFrwdReader(data, 0, lengths1-scup, 0xFF)

	for qy := 0; qy < d.quadRows; qy++ {
		isInitial := qy == 0
		westSig := false

		for qx := 0; qx < d.quadCols; qx++ {
			northSig, northE := d.northRef(qx, isInitial)

			cq := uint32(0)
			if westSig {
				cq |= 1
			}
			if !isInitial && northSig {
				cq |= 2
			}

			window := vlc.fetch()
			var tbl *[1024]uint16
			if isInitial {
				tbl = &vlcTbl0
			} else {
				tbl = &vlcTbl1
			}
			rho, uOff, cwdLen := vlcLookup(tbl, cq, window)

			melDriven := cq == 0
			if melDriven {
				if mel.nextQuad() {
					vlc.advance(cwdLen)
				} else {
					rho = 0
					uOff = 0
				}
			} else {
				vlc.advance(cwdLen)
			}

			westSig = rho != 0

			kappa := 1
			if !isInitial && bits.OnesCount8(rho) >= 2 {
				kappa = northE - 1
				if kappa < 1 {
					kappa = 1
				}
			}

			uq := 0
			if uOff != 0 {
				window = vlc.fetch()
				var consumed uint32
				var val uint32
				if isInitial {
					val, consumed = decodeInitUVLC(window)
				} else {
					val, consumed = decodeNonInitUVLC(window)
				}
				vlc.advance(consumed)
				uq = int(val)
			}
			capU := uq + kappa
			if capU > mmsbp1 {
				return newDecodeError(UnreachableBitplane, capU)
			}

			maxE := 0
			for bit := uint8(0); bit < 4; bit++ {
				dx := int(bit >> 1)
				dy := int(bit & 1)
				row := 2*qy + dy
				col := 2*qx + dx
				if row >= d.height || col >= d.width {
					continue
				}
				if rho&(1<<bit) == 0 {
					d.colSig[col] = false
					d.colE[col] = 0
					continue
				}

				// E_k/E_1 (spec section 4.D step 8) would let some
				// samples skip already-known magnitude bits; since the
				// VLC table carries no real per-sample E assignment
				// (see vlctables.go), every sample reads the full U_q
				// raw bits as v_n (E_k=0, E_1 contributes nothing).
				magBits := uint32(capU)
				vn := magSgn.fetch() & ((1 << magBits) - 1)
				magSgn.advance(magBits)

				// sign is read as bit 0 of the window fetched right after the
				// magnitude bits are advanced past, not bit 31 of that window
				// as a literal reading of spec section 4.D step 8 suggests.
				// Every other field here (vn above, rho/uOff/uq, MEL run
				// bits) consumes the next unconsumed low-order bit of an
				// LSB-growing forward window (frwdReader.fetch/advance in
				// bitstream.go); "bit 31" in the spec text names the same
				// next bit under a 32-bit-register accounting, not a jump to
				// a different bit position elsewhere in the window. See
				// DESIGN.md for the full reconciliation.
				signWord := magSgn.fetch()
				sign := signWord & 1
				magSgn.advance(1)

				mag := (vn + 2) << uint(p-1)
				sample := int32(mag | (sign << 31))
				d.write(out, row, col, sample)

				e := bits.Len32(vn)
				if e > maxE {
					maxE = e
				}
				if col < len(d.colSig) {
					d.colSig[col] = true
					d.colE[col] = e
				}
			}

			d.sigma[qy][qx] = rho
		}
	}
	return nil
}

func (d *blockDecoder) northRef(qx int, isInitial bool) (sig bool, maxE int) {
	if isInitial {
		return false, 0
	}
	for dx := 0; dx < 2; dx++ {
		col := 2*qx + dx
		if col >= len(d.colSig) {
			continue
		}
		if d.colSig[col] {
			sig = true
			if d.colE[col] > maxE {
				maxE = d.colE[col]
			}
		}
	}
	return sig, maxE
}

// decodeInitUVLC decodes one quad's u_q value from the UVLC prefix table
// of spec section 4.C, grounded on decodeInitUVLC in the teacher's ht.go
// (itself a port of OpenJPH's decode_init_uvlc). Quads are decoded one at
// a time (see the blockDecoder doc comment), so this reads a single
// prefix+suffix pair per significant-u_off quad rather than the joint
// two-quad mode table the reference uses for a quad pair sharing one
// fetch window.
func decodeInitUVLC(window uint32) (value uint32, consumed uint32) {
	t := uvlcPrefix[window&0x7]
	prefixLen := uint32(t & 0x3)
	window >>= prefixLen
	consumed += prefixLen

	suffixLen := uint32((t >> 2) & 0x7)
	consumed += suffixLen

	val := uint32(t>>5) + (window & ((1 << suffixLen) - 1))
	return val, consumed
}

// decodeNonInitUVLC mirrors decodeInitUVLC for subsequent stripes; the
// prefix table itself does not depend on stripe position once quads are
// decoded individually (see decodeInitUVLC).
func decodeNonInitUVLC(window uint32) (value uint32, consumed uint32) {
	return decodeInitUVLC(window)
}
