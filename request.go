package xfer

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent on every request unless overridden by the
// caller's headers.
const DefaultUserAgent = "xfer/1.0"

// buildRequest constructs an *http.Request for method against loc's URL,
// applying loc's headers, an optional Range header, and an optional body
// reader. A non-zero timeout bounds the request via its own context deadline.
func buildRequest(ctx context.Context, method string, loc ResourceLocator, rng *ByteRange, body io.Reader) (*http.Request, context.CancelFunc, error) {
	var cancel context.CancelFunc

	if t := loc.normalizedTimeout(); t > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(t)*time.Second)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	req, err := http.NewRequestWithContext(ctx, method, loc.URL, body)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	req.Header.Set("User-Agent", DefaultUserAgent)

	for k, v := range loc.Headers {
		req.Header.Set(k, v)
	}

	if loc.ContentType != "" {
		req.Header.Set("Content-Type", loc.ContentType)
	}

	if rng != nil {
		req.Header.Set("Range", rng.Header())
	}

	return req, cancel, nil
}
