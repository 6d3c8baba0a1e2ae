package vacmap

// The map dumps carry an undocumented header whose size varies between
// robot firmware versions (0, 32 and 48 bytes have all been observed in
// the wild), and some channels are not even byte-per-cell. Rather than
// hard-coding any one layout, the prober walks a fixed, ordered candidate
// list and accepts the first (offset, element type) pair that looks like
// real grid data. Candidate ordering is fixed, so identical inputs always
// resolve to the same layout.

// ElemType describes one candidate element encoding.
type ElemType struct {
	Name string
	Size int // bytes per element
}

// Candidate element encodings, tried in order.
var (
	ElemUint8   = ElemType{"uint8", 1}
	ElemInt16   = ElemType{"int16", 2}
	ElemUint16  = ElemType{"uint16", 2}
	ElemInt32   = ElemType{"int32", 4}
	ElemFloat32 = ElemType{"float32", 4}
)

// DefaultElemTypes is the standard probe order, narrowest element first.
var DefaultElemTypes = []ElemType{ElemUint8, ElemInt16, ElemUint16, ElemInt32, ElemFloat32}

// DefaultHeaderOffsets is the standard set of candidate header sizes.
var DefaultHeaderOffsets = []int{0, 4, 8, 16, 20, 32, 48, 64, 128}

// ProbeResult identifies the accepted layout.
type ProbeResult struct {
	Offset int
	Elem   ElemType
}

// GridBytes slices the element region for a width x height grid out of
// data. The result is only valid for the buffer the probe ran against.
func (r ProbeResult) GridBytes(data []byte, width, height int) []byte {
	return data[r.Offset : r.Offset+width*height*r.Elem.Size]
}

// ProbeOptions narrows the candidate space. Zero values select the
// defaults.
type ProbeOptions struct {
	Offsets []int
	Elems   []ElemType

	// MaxDistinct, when positive, enables the "auto" plausibility test
	// used for ambiguous channels: a region is only accepted when its
	// distinct element count is below this bound. Regions with a single
	// distinct value are always rejected as degenerate.
	MaxDistinct int
}

// ProbeFormat finds the first candidate (header offset, element type)
// whose region (1) fits inside the buffer, (2) holds exactly
// width*height elements, and (3) is not a solid fill. Exhausting all
// candidates returns ErrFormatNotFound; an undersized buffer is never a
// panic, just an unsuitable candidate.
func ProbeFormat(data []byte, width, height int, opts ProbeOptions) (ProbeResult, error) {
	if width <= 0 || height <= 0 {
		return ProbeResult{}, ErrFormatNotFound
	}

	offsets := opts.Offsets
	if offsets == nil {
		offsets = DefaultHeaderOffsets
	}
	elems := opts.Elems
	if elems == nil {
		elems = DefaultElemTypes
	}

	limit := 2
	if opts.MaxDistinct > 0 {
		limit = opts.MaxDistinct
	}

	for _, off := range offsets {
		if off < 0 {
			continue
		}
		for _, et := range elems {
			need := width * height * et.Size
			if need <= 0 || off+need > len(data) {
				continue
			}
			distinct := countDistinct(data[off:off+need], et.Size, limit)
			if distinct < 2 {
				// Solid fill; not map data.
				continue
			}
			if opts.MaxDistinct > 0 && distinct >= opts.MaxDistinct {
				// Too noisy to be a labeled channel.
				continue
			}
			return ProbeResult{Offset: off, Elem: et}, nil
		}
	}
	return ProbeResult{}, ErrFormatNotFound
}

// ScanOffsets enumerates offsets 0, step, 2*step, ... up to bound
// inclusive, for exhaustive probing of unusual headers.
func ScanOffsets(bound, step int) []int {
	if bound < 0 || step <= 0 {
		return nil
	}
	offsets := make([]int, 0, bound/step+1)
	for off := 0; off <= bound; off += step {
		offsets = append(offsets, off)
	}
	return offsets
}

// countDistinct counts distinct elements of the given byte width in
// region, stopping early once limit is reached. The returned value is
// therefore min(actual, limit).
func countDistinct(region []byte, size, limit int) int {
	seen := make(map[string]struct{}, limit)
	for i := 0; i+size <= len(region); i += size {
		seen[string(region[i:i+size])] = struct{}{}
		if len(seen) >= limit {
			return limit
		}
	}
	return len(seen)
}
