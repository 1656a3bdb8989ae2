package chunkfeed

import (
	"github.com/cespare/xxhash/v2"
)

// Chunk is one numbered piece of a stream. Seq is the chunk's position in
// the stream, assigned by the producer; chunks may arrive in any order and
// are reassembled by sequence.
type Chunk struct {
	Seq      int    `json:"seq"`
	Data     string `json:"data"`
	Checksum uint64 `json:"checksum"`
}

// Sum64 returns the XXH64 digest of the chunk payload.
// See https://github.com/cespare/xxhash - the algorithm is fast and cheap
// enough to run on every chunk.
func (c *Chunk) Sum64() uint64 {
	return xxhash.Sum64String(c.Data)
}

// Verify reports whether the payload still matches its recorded checksum.
func (c *Chunk) Verify() bool {
	return c.Checksum == c.Sum64()
}

type ChunkResponsePayload struct {
	StreamID string  `json:"streamId"`
	Chunks   []Chunk `json:"chunks"`
}
