package project

import (
	"sort"

	"github.com/bhostetler18/GBExtractorPublic/pkg/bitstream"
)

// Record identity tags as they appear in the buffer. The container stores
// its four-character codes reversed, so "qSvE" is an EvSq record and so
// on.
var identityTags = [][]byte{
	[]byte("qSvE"),
	[]byte("qeSM"),
	[]byte("qSxT"),
	[]byte("karT"),
	[]byte("tSnI"),
	[]byte("tSxT"),
	[]byte("ivnE"),
}

var (
	tagTrackName = string(identityTags[2]) // qSxT
	tagTrack     = string(identityTags[3]) // karT
	tagEvSq      = string(identityTags[0]) // qSvE
	tagMSeq      = string(identityTags[1]) // qeSM
)

// ScanOffsets finds every byte-aligned occurrence of the known identity
// tags and returns their bit offsets in ascending order. Records must be
// decoded in stream order: a later record's header is the recovery point
// after any partial advance through the previous one.
func ScanOffsets(r *bitstream.Reader) []int64 {
	var offsets []int64
	for _, tag := range identityTags {
		offsets = append(offsets, r.FindAll(tag)...)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}
