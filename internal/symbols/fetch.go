package symbols

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/sharanyeole/tickerhound/internal/config"
)

// mappingClient downloads a symbol-mapping document over HTTP. The
// transport's automatic decompression is disabled so brotli can be
// offered alongside gzip and deflate.
type mappingClient struct {
	client      *http.Client
	maxBodySize int64
}

func newMappingClient(cfg *config.Symbols) *mappingClient {
	return &mappingClient{
		client: &http.Client{
			Transport: &http.Transport{
				DisableCompression: true,
			},
			Timeout: cfg.RequestTimeout,
		},
		maxBodySize: cfg.MaxBodySize,
	}
}

func (c *mappingClient) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mapping fetch returned status %d", resp.StatusCode)
	}

	body, err := decompress(resp)
	if err != nil {
		return nil, fmt.Errorf("decompress mapping: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(body, c.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxBodySize {
		return nil, fmt.Errorf("mapping exceeds max body size %d", c.maxBodySize)
	}
	return data, nil
}

func decompress(resp *http.Response) (io.Reader, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "br":
		return brotli.NewReader(resp.Body), nil
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return flate.NewReader(resp.Body), nil
	case "", "identity":
		return resp.Body, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}
