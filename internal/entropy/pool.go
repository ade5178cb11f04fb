package entropy

import "sync"

// decoderPool recycles blockDecoder scratch buffers across calls, the same
// pooling idiom the teacher's ht.go uses for HTDecoder (htDecoderPool /
// GetHTDecoder / PutHTDecoder), generalised to the variable block sizes
// this decoder supports (up to 1024x1024 per spec section 5).
var decoderPool = sync.Pool{
	New: func() interface{} {
		return newBlockDecoder(64, 64, 64)
	},
}

// getBlockDecoder returns a pooled blockDecoder resized for the given
// dimensions.
func getBlockDecoder(width, height, stride int) *blockDecoder {
	d := decoderPool.Get().(*blockDecoder)
	d.resize(width, height, stride)
	return d
}

// putBlockDecoder returns a blockDecoder to the pool.
func putBlockDecoder(d *blockDecoder) {
	decoderPool.Put(d)
}
