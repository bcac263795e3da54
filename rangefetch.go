package xfer

import "context"

// fetchRange issues one ranged GET and classifies the response per
// spec.md §4.3. Preconditions failing yields DownloadFailed without
// issuing the request.
func fetchRange(ctx context.Context, t Transport, loc ResourceLocator, totalSize int64, rng ByteRange, onProgress ProgressFunc) DownloadResult {
	if rng.Lo < 0 || rng.Hi <= 0 || rng.Lo > rng.Hi {
		return DownloadResult{Outcome: DownloadFailed}
	}

	if rng.Len() > totalSize {
		return DownloadResult{Outcome: DownloadFailed}
	}

	res, err := t.Do(ctx, TransportRequest{
		Method:   "GET",
		Locator:  loc,
		Range:    &rng,
		OnRecv:   onProgress,
		RecvBase: rng.Lo,
		RecvDen:  totalSize,
	})

	if err != nil || res == nil {
		return DownloadResult{Outcome: DownloadFailed}
	}

	headers := res.Headers

	if res.StatusCode == 304 {
		return DownloadResult{Outcome: DownloadNotModified, Headers: headers}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return DownloadResult{Outcome: DownloadFailed, Headers: headers}
	}

	if len(res.Body) <= 0 {
		return DownloadResult{Outcome: DownloadFailed, Headers: headers}
	}

	if res.ContentLength != rng.Len() {
		return DownloadResult{Outcome: DownloadFailed, Headers: headers}
	}

	return DownloadResult{Outcome: DownloadSuccess, Data: res.Body, Headers: headers}
}
