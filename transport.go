package xfer

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// Response is the normalized shape of a completed HTTP request: a
// status code, response headers, the server-reported Content-Length
// (which may disagree with len(Body)), and the received body.
type Response struct {
	StatusCode    int
	Headers       ResponseHeaders
	ContentLength int64
	Body          []byte
}

// TransportRequest is everything a Transport needs to issue one request.
type TransportRequest struct {
	Method   string
	Locator  ResourceLocator
	Range    *ByteRange
	Body     []byte
	OnSent   ProgressFunc // called with bytes written as the body is sent
	OnRecv   ProgressFunc // called with bytes read as the response body arrives
	RecvBase int64        // added to the bytes-received count reported to OnRecv
	RecvDen  int64        // denominator reported alongside bytes received; <= 0 means use the response's Content-Length (-1 when unknown)
}

// Transport issues a single HTTP request and reports its outcome.
// A non-nil error means the request could not be sent or the connection
// was lost (a transport-level failure, never a status code). Non-2xx
// status codes are a *successful* transport outcome classified by the
// caller.
type Transport interface {
	Do(ctx context.Context, req TransportRequest) (*Response, error)
}

// httpTransport is the default Transport, built on net/http the way
// the teacher library configures its client: bounded idle connections
// and a TLS handshake timeout.
type httpTransport struct {
	client *http.Client
}

func newHTTPTransport() *httpTransport {
	return &httpTransport{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

func (t *httpTransport) Do(ctx context.Context, treq TransportRequest) (*Response, error) {
	var body io.Reader
	if treq.Body != nil {
		body = &progressReader{
			r:          bytes.NewReader(treq.Body),
			total:      int64(len(treq.Body)),
			onProgress: treq.OnSent,
		}
	}

	req, cancel, err := buildRequest(ctx, treq.Method, treq.Locator, treq.Range, body)
	if err != nil {
		return nil, err
	}
	defer cancel()

	// The progress wrapper hides the body's size from net/http, so set it
	// explicitly; otherwise the upload would be sent chunked.
	if treq.Body != nil {
		req.ContentLength = int64(len(treq.Body))
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	reader := io.Reader(res.Body)
	if treq.OnRecv != nil {
		den := treq.RecvDen
		if den <= 0 {
			den = res.ContentLength
		}
		reader = &progressReader{
			r:          res.Body,
			baseline:   treq.RecvBase,
			total:      den,
			onProgress: treq.OnRecv,
		}
	}

	data, readErr := io.ReadAll(reader)
	if readErr != nil {
		return nil, readErr
	}

	return &Response{
		StatusCode:    res.StatusCode,
		Headers:       headersFromMap(res.Header),
		ContentLength: res.ContentLength,
		Body:          data,
	}, nil
}

// progressReader wraps a reader, reporting cumulative bytes read (plus
// a fixed baseline, e.g. a chunk's starting offset) after every Read.
type progressReader struct {
	r          io.Reader
	read       int64
	baseline   int64
	total      int64
	onProgress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.read+p.baseline, p.total)
		}
	}
	return n, err
}
