package preload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrRangeUnsupported is returned when a remote source has to be skipped
// forward but the server ignores Range requests.
var ErrRangeUnsupported = errors.New("server does not support range requests")

// discardThreshold is the largest forward skip served by reading and
// discarding from the open response instead of issuing a new request.
const discardThreshold = 64 << 10

// rangeReader reads a remote source from the start and skips forward with
// Range requests, so a moov box stored after a large mdat is reachable
// without downloading the media data. Bytes actually read are capped at
// budget across all requests; skipped bytes are free.
type rangeReader struct {
	ctx    context.Context
	client *http.Client
	src    string

	body   io.ReadCloser // nil until the next Read opens a request
	offset int64
	budget int64
}

func newRangeReader(ctx context.Context, client *http.Client, src string, body io.ReadCloser, budget int64) *rangeReader {
	return &rangeReader{ctx: ctx, client: client, src: src, body: body, budget: budget}
}

func (r *rangeReader) Read(p []byte) (int, error) {
	if r.budget <= 0 {
		return 0, io.EOF
	}
	if r.body == nil {
		if err := r.request(); err != nil {
			return 0, err
		}
	}
	if int64(len(p)) > r.budget {
		p = p[:r.budget]
	}
	n, err := r.body.Read(p)
	r.offset += int64(n)
	r.budget -= int64(n)
	return n, err
}

// Seek supports forward moves relative to the current offset only.
func (r *rangeReader) Seek(offset int64, whence int) (int64, error) {
	if whence != io.SeekCurrent || offset < 0 {
		return r.offset, fmt.Errorf("unsupported seek (%d, whence %d)", offset, whence)
	}
	if r.body != nil && offset <= discardThreshold {
		if _, err := io.CopyN(io.Discard, r, offset); err != nil {
			return r.offset, fmt.Errorf("skip box: %w", err)
		}
		return r.offset, nil
	}
	r.closeBody()
	r.offset += offset
	return r.offset, nil
}

// request opens the source at the current offset.
func (r *rangeReader) request() error {
	req, err := http.NewRequestWithContext(r.ctx, http.MethodGet, r.src, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if r.offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", r.offset))
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable:
		resp.Body.Close()
		return io.EOF
	case r.offset > 0 && resp.StatusCode != http.StatusPartialContent:
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return ErrRangeUnsupported
		}
		return fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		resp.Body.Close()
		return fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	r.body = resp.Body
	return nil
}

func (r *rangeReader) closeBody() {
	if r.body != nil {
		r.body.Close()
		r.body = nil
	}
}

func (r *rangeReader) Close() error {
	r.closeBody()
	return nil
}
