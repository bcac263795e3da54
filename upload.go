package xfer

import "context"

// Upload issues a single PUT of body and classifies the result per
// spec.md §4.6. Unlike download's 2xx acceptance, only status exactly
// 200 is treated as success.
func (e *Engine) Upload(ctx context.Context, loc ResourceLocator, body []byte, onProgress ProgressFunc) UploadResult {
	log := newOperationLogger(loc.URL)

	if !e.isAlive() {
		log.Warn().Msg("engine released before upload")
		return UploadResult{Outcome: UploadFailed}
	}
	if e.isCancelled() {
		log.Warn().Msg("upload canceled before start")
		return UploadResult{Outcome: UploadCancelled}
	}

	t := e.scoped()
	res, err := t.Do(ctx, TransportRequest{
		Method:  "PUT",
		Locator: loc,
		Body:    body,
		OnSent:  onProgress,
	})

	if !e.isAlive() {
		log.Warn().Msg("engine released during upload")
		return UploadResult{Outcome: UploadFailed}
	}
	if e.isCancelled() {
		log.Warn().Msg("upload canceled during flight")
		return UploadResult{Outcome: UploadCancelled}
	}

	if err != nil || res == nil {
		log.Error().Err(err).Msg("upload transport failure")
		e.metrics.OperationFinished(UploadFailed.String())
		return UploadResult{Outcome: UploadFailed}
	}

	if res.StatusCode != 200 {
		log.Error().Int("status", res.StatusCode).Msg("upload rejected")
		e.metrics.OperationFinished(UploadFailed.String())
		return UploadResult{Outcome: UploadFailed}
	}

	log.Info().Int("bytes", len(body)).Msg("upload succeeded")
	e.metrics.BytesTransferred(int64(len(body)))
	e.metrics.OperationFinished(UploadSuccess.String())

	return UploadResult{Outcome: UploadSuccess}
}
