package chunkfeed

import (
	"fmt"

	"golang.org/x/exp/rand"
)

type ChunkRequestPayload struct {
	StreamID string `json:"streamId"`
	Seqs     []int  `json:"seqs"`
}

// GenerateChunkPayload generates a stream of N synthetic chunks with valid
// checksums, for demos and local chunk servers.
func GenerateChunkPayload(n int) ChunkResponsePayload {
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}

	chunks := make([]Chunk, n)
	for i := 0; i < n; i++ {
		// Random filler so checksums differ between chunks of the same rank
		data := fmt.Sprintf("chunk-%d-%s-%d", i, words[rand.Intn(len(words))], rand.Intn(1<<16))

		chunks[i] = Chunk{
			Seq:  i,
			Data: data,
		}
		chunks[i].Checksum = chunks[i].Sum64()
	}

	return ChunkResponsePayload{
		StreamID: fmt.Sprintf("stream-%d", rand.Intn(1<<20)),
		Chunks:   chunks,
	}
}
