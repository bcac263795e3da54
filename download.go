package xfer

import (
	"context"

	"github.com/rs/zerolog"
)

// Download runs the chunk-downloader state machine of spec.md §4.4:
// probe -> partition -> iterate ranged GETs -> assemble, falling back
// to a single payload GET when the server can't satisfy the ranged
// plan before any chunk has been accepted (once a chunk is accepted, a
// failed fetch is surfaced as DownloadFailed). forceByPayload skips the
// probe entirely.
func (e *Engine) Download(ctx context.Context, loc ResourceLocator, maxChunkSize int64, forceByPayload bool, onProgress ProgressFunc) DownloadResult {
	log := newOperationLogger(loc.URL)
	t := e.scoped()

	if e.isCancelled() {
		log.Warn().Msg("download canceled before start")
		return DownloadResult{Outcome: DownloadCancelled}
	}

	if forceByPayload {
		return e.downloadByPayload(ctx, t, loc, onProgress, log)
	}

	probe := probeSize(ctx, t, loc)

	if !e.isAlive() {
		log.Warn().Msg("engine released while probing size")
		return DownloadResult{Outcome: DownloadFailed}
	}
	if e.isCancelled() {
		log.Warn().Msg("download canceled during probe")
		return DownloadResult{Outcome: DownloadCancelled}
	}

	switch probe.outcome {
	case probeNotModified:
		log.Info().Msg("resource not modified")
		return DownloadResult{Outcome: DownloadNotModified}
	case probeUnknown:
		log.Warn().Msg("unable to determine content size, falling back to payload")
		e.metrics.FallbackTriggered()
		return e.downloadByPayload(ctx, t, loc, onProgress, log)
	}

	if maxChunkSize <= 0 {
		log.Error().Msg("max chunk size <= 0, falling back to payload")
		e.metrics.FallbackTriggered()
		return e.downloadByPayload(ctx, t, loc, onProgress, log)
	}

	contentSize := probe.size
	buffer := make([]byte, contentSize)
	chunkDelivered := false

	rng := firstRange(contentSize, maxChunkSize)

	for {
		if !e.isAlive() {
			log.Warn().Msg("engine released mid-chunk")
			return DownloadResult{Outcome: DownloadFailed}
		}
		if e.isCancelled() {
			log.Warn().Str("range", rng.Header()).Msg("download canceled mid-chunk")
			return DownloadResult{Outcome: DownloadCancelled}
		}

		result := fetchRange(ctx, t, loc, contentSize, rng, onProgress)

		if !e.isAlive() {
			log.Warn().Msg("engine released after chunk fetch")
			return DownloadResult{Outcome: DownloadFailed}
		}
		if e.isCancelled() {
			log.Warn().Str("range", rng.Header()).Msg("download canceled after chunk fetch")
			return DownloadResult{Outcome: DownloadCancelled}
		}

		if result.Outcome == DownloadCancelled {
			return result
		}

		if result.Outcome != DownloadSuccess {
			if !chunkDelivered {
				log.Warn().Str("range", rng.Header()).Msg("ranged fetch failed before any chunk was delivered, falling back to payload")
				e.metrics.FallbackTriggered()
				return e.downloadByPayload(ctx, t, loc, onProgress, log)
			}
			log.Error().Str("range", rng.Header()).Msg("ranged fetch failed after a partial download; surfacing failure")
			e.metrics.OperationFinished(DownloadFailed.String())
			return DownloadResult{Outcome: DownloadFailed, Headers: result.Headers}
		}

		offset := rng.Lo
		length := int64(len(result.Data))

		if offset < 0 || offset >= contentSize || offset+length > contentSize {
			log.Error().Int64("offset", offset).Int64("length", length).Int64("content_size", contentSize).
				Msg("chunk offset out of range, falling back to payload")
			e.metrics.FallbackTriggered()
			return e.downloadByPayload(ctx, t, loc, onProgress, log)
		}

		copy(buffer[offset:offset+length], result.Data)
		chunkDelivered = true
		e.metrics.ChunkCompleted()
		e.metrics.BytesTransferred(length)

		if offset+length >= contentSize {
			log.Info().Int64("bytes", contentSize).Msg("ranged download complete")
			e.metrics.OperationFinished(DownloadSuccess.String())
			return DownloadResult{Outcome: DownloadSuccess, Data: buffer, Headers: result.Headers}
		}

		rng = nextRange(offset+length, contentSize, maxChunkSize)
	}
}

// downloadByPayload issues a single non-ranged GET and relabels a
// successful result as SucceededByPayload, signaling that no length
// was available or the ranged path was abandoned.
func (e *Engine) downloadByPayload(ctx context.Context, t Transport, loc ResourceLocator, onProgress ProgressFunc, log zerolog.Logger) DownloadResult {
	if !e.isAlive() {
		log.Warn().Msg("engine released before payload fallback")
		return DownloadResult{Outcome: DownloadFailed}
	}
	if e.isCancelled() {
		log.Warn().Msg("download canceled before payload fallback")
		return DownloadResult{Outcome: DownloadCancelled}
	}

	result := fetchPayload(ctx, t, loc, onProgress)

	if !e.isAlive() {
		log.Warn().Msg("engine released during payload fallback")
		return DownloadResult{Outcome: DownloadFailed}
	}
	if e.isCancelled() {
		log.Warn().Msg("download canceled during payload fallback")
		return DownloadResult{Outcome: DownloadCancelled}
	}

	if result.Outcome == DownloadSuccess {
		result.Outcome = DownloadSucceededByPayload
		e.metrics.BytesTransferred(int64(len(result.Data)))
	}

	e.metrics.OperationFinished(result.Outcome.String())
	log.Info().Str("outcome", result.Outcome.String()).Msg("payload download finished")

	return result
}
