package xfer

import "context"

// probeOutcome replaces the original source's overloaded -304/0 sentinel
// (spec.md §9 flags it explicitly) with a proper tagged result.
type probeOutcome int

const (
	probeSizeKnown probeOutcome = iota
	probeNotModified
	probeUnknown
)

type probeResult struct {
	outcome probeOutcome
	size    int64
}

// probeSize issues a HEAD request to discover a resource's Content-Length.
func probeSize(ctx context.Context, t Transport, loc ResourceLocator) probeResult {
	res, err := t.Do(ctx, TransportRequest{
		Method:  "HEAD",
		Locator: loc,
	})

	if err != nil || res == nil {
		return probeResult{outcome: probeUnknown}
	}

	if res.StatusCode == 304 {
		return probeResult{outcome: probeNotModified}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return probeResult{outcome: probeUnknown}
	}

	if res.ContentLength <= 0 {
		return probeResult{outcome: probeUnknown}
	}

	return probeResult{outcome: probeSizeKnown, size: res.ContentLength}
}
