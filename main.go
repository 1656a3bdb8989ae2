package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/exp/rand"

	"github.com/zhongshixi/seqqueue/chunkfeed"
	"github.com/zhongshixi/seqqueue/seqqueue"
)

const numChunks = 64
const numFetchers = 8
const chunksPerRequest = 4
const windowSize = 8

type Stats struct {
	FetchSuccess atomic.Int64
	FetchFailed  atomic.Int64

	ChecksumOK  atomic.Int64
	ChecksumBad atomic.Int64

	PutSuccess atomic.Int64
	PutFailed  atomic.Int64
}

func (s *Stats) String() string {
	return fmt.Sprintf("fetch success: %d, fetch failed: %d, checksum ok: %d, checksum bad: %d, put success: %d, put failed: %d", s.FetchSuccess.Load(), s.FetchFailed.Load(), s.ChecksumOK.Load(), s.ChecksumBad.Load(), s.PutSuccess.Load(), s.PutFailed.Load())
}

// serveChunks runs a local chunk server that answers batch requests with a
// random delay, so responses come back in a scrambled order.
func serveChunks(stream chunkfeed.ChunkResponsePayload) (string, func()) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chunks", func(w http.ResponseWriter, r *http.Request) {
		var req chunkfeed.ChunkRequestPayload
		if err := sonnet.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)

		resp := chunkfeed.ChunkResponsePayload{StreamID: stream.StreamID}
		for _, seq := range req.Seqs {
			if seq < 0 || seq >= len(stream.Chunks) {
				http.Error(w, "seq out of range", http.StatusBadRequest)
				return
			}
			resp.Chunks = append(resp.Chunks, stream.Chunks[seq])
		}
		if err := sonnet.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)

	return "http://" + ln.Addr().String(), func() { srv.Close() }
}

func main() {

	config := seqqueue.Config{
		StartIndex: 0,
		MaxSize:    windowSize,
	}

	queue, err := seqqueue.New[chunkfeed.Chunk](config)
	if err != nil {
		panic(err)
	}

	stream := chunkfeed.GenerateChunkPayload(numChunks)
	endpoint, stop := serveChunks(stream)
	defer stop()

	api := chunkfeed.NewChunkAPI(endpoint, "local-demo-token")

	stats := &Stats{}

	// batches of sequence numbers, handed out in order; the random server
	// delay scrambles completion across fetchers. In-order hand-out keeps
	// the fetcher owning the needed batch able to make progress even when
	// the others are parked on far-future puts.
	batches := make(chan []int, numChunks/chunksPerRequest)
	for start := 0; start < numChunks/chunksPerRequest; start++ {
		seqs := make([]int, 0, chunksPerRequest)
		for i := 0; i < chunksPerRequest; i++ {
			seqs = append(seqs, start*chunksPerRequest+i)
		}
		batches <- seqs
	}
	close(batches)

	var wg sync.WaitGroup
	wg.Add(numFetchers)
	for i := 0; i < numFetchers; i++ {
		go func() {
			defer wg.Done()

			for seqs := range batches {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				response, err := api.FetchChunks(ctx, chunkfeed.ChunkRequestPayload{
					StreamID: stream.StreamID,
					Seqs:     seqs,
				})
				if err != nil {
					fmt.Printf("request failed: %v\n", err)
					stats.FetchFailed.Add(1)
					cancel()
					continue
				}
				stats.FetchSuccess.Add(1)

				for _, chunk := range response.Chunks {
					if err := queue.Put(ctx, chunk.Seq, chunk); err != nil {
						fmt.Printf("put failed for chunk %d: %v\n", chunk.Seq, err)
						stats.PutFailed.Add(1)
						continue
					}
					stats.PutSuccess.Add(1)
				}
				cancel()
			}
		}()
	}

	// single consumer drains in sequence order while fetchers are still racing
	drained := make(chan struct{})
	go func() {
		defer close(drained)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for i := 0; i < numChunks; i++ {
			item, err := queue.Get(ctx)
			if err != nil {
				fmt.Printf("get failed at index %d: %v\n", i, err)
				return
			}
			if item.Value.Verify() {
				stats.ChecksumOK.Add(1)
			} else {
				stats.ChecksumBad.Add(1)
			}
		}
	}()

	wg.Wait()
	<-drained

	fmt.Printf("stats: %s, queue stats: %+v, next index: %d\n", stats.String(), queue.Stats(), queue.NextIndex())
}
