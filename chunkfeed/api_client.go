package chunkfeed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sugawarayuuta/sonnet"
)

type ChunkAPI struct {
	endpoint  string
	fetchPath string
	token     string

	Client *http.Client
}

func NewChunkAPI(endpoint, token string) *ChunkAPI {
	return &ChunkAPI{
		endpoint:  endpoint,
		fetchPath: "/v1/chunks",
		token:     token,
		Client: &http.Client{
			Transport: &http.Transport{},
		},
	}
}

func (a *ChunkAPI) FetchChunks(ctx context.Context, payload ChunkRequestPayload) (*ChunkResponsePayload, error) {
	payloadBy, err := sonnet.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.endpoint+a.fetchPath, bytes.NewBuffer(payloadBy))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("accept", "application/json")
	req.Header.Add("content-type", "application/json")
	req.Header.Add("authorization", "Bearer "+a.token)

	res, err := a.Client.Do(req)
	defer func() {
		if res != nil {
			res.Body.Close()
		}
	}()

	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status code %d", res.StatusCode)
	}

	resPayloadBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	data := &ChunkResponsePayload{}
	if err := sonnet.Unmarshal(resPayloadBytes, data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	return data, nil
}
