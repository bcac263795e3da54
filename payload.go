package xfer

import "context"

// fetchPayload issues a single non-ranged GET. Classification mirrors
// fetchRange except there is no range-length comparison; a 2xx result
// is tagged Success here — the orchestrator relabels it to
// SucceededByPayload when entered via fallback.
func fetchPayload(ctx context.Context, t Transport, loc ResourceLocator, onProgress ProgressFunc) DownloadResult {
	res, err := t.Do(ctx, TransportRequest{
		Method:  "GET",
		Locator: loc,
		OnRecv:  onProgress,
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

	return DownloadResult{Outcome: DownloadSuccess, Data: res.Body, Headers: headers}
}
