package xfer

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
)

// StorageOutcome extends DownloadOutcome with the file-system failure
// modes of the embedding ("download-to-storage") surface layer named
// in spec.md §6. The engine itself never produces these — they are
// assigned by DownloadToFile.
type StorageOutcome int

const (
	StorageSuccess StorageOutcome = iota
	StorageSucceededByPayload
	StorageNotModified
	StorageCancelled
	StorageDownloadFailed
	StorageSaveFailed
	StorageDirectoryCreationFailed
	StorageInvalidURL
	StorageInvalidSavePath
)

func (o StorageOutcome) String() string {
	switch o {
	case StorageSuccess:
		return "Success"
	case StorageSucceededByPayload:
		return "SucceededByPayload"
	case StorageNotModified:
		return "NotModified"
	case StorageCancelled:
		return "Cancelled"
	case StorageDownloadFailed:
		return "DownloadFailed"
	case StorageSaveFailed:
		return "SaveFailed"
	case StorageDirectoryCreationFailed:
		return "DirectoryCreationFailed"
	case StorageInvalidURL:
		return "InvalidURL"
	case StorageInvalidSavePath:
		return "InvalidSavePath"
	default:
		return "Unknown"
	}
}

func fromDownloadOutcome(o DownloadOutcome) StorageOutcome {
	switch o {
	case DownloadSuccess:
		return StorageSuccess
	case DownloadSucceededByPayload:
		return StorageSucceededByPayload
	case DownloadNotModified:
		return StorageNotModified
	case DownloadCancelled:
		return StorageCancelled
	default:
		return StorageDownloadFailed
	}
}

// DownloadToFile runs a chunk download and persists the resulting
// buffer to destPath, creating its parent directory if necessary. This
// is the file-I/O collaborator spec.md §1 explicitly places outside
// the engine's core.
func DownloadToFile(ctx context.Context, e *Engine, loc ResourceLocator, destPath string, maxChunkSize int64, forceByPayload bool, onProgress ProgressFunc) StorageOutcome {
	if destPath == "" {
		return StorageInvalidSavePath
	}

	if _, err := url.ParseRequestURI(loc.URL); err != nil {
		return StorageInvalidURL
	}

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return StorageDirectoryCreationFailed
		}
	}

	result := e.Download(ctx, loc, maxChunkSize, forceByPayload, onProgress)

	switch result.Outcome {
	case DownloadSuccess, DownloadSucceededByPayload:
		if err := os.WriteFile(destPath, result.Data, 0o644); err != nil {
			return StorageSaveFailed
		}
		return fromDownloadOutcome(result.Outcome)
	default:
		return fromDownloadOutcome(result.Outcome)
	}
}

// UploadFromFile reads srcPath and uploads its contents, classifying
// filesystem failures distinctly from transport failures per
// spec.md §3's UploadResult tags.
func UploadFromFile(ctx context.Context, e *Engine, loc ResourceLocator, srcPath string, onProgress ProgressFunc) UploadResult {
	if srcPath == "" {
		return UploadResult{Outcome: UploadInvalidPath}
	}

	if _, err := url.ParseRequestURI(loc.URL); err != nil {
		return UploadResult{Outcome: UploadInvalidURL}
	}

	body, err := os.ReadFile(srcPath)
	if err != nil {
		return UploadResult{Outcome: UploadLoadFailed}
	}

	return e.Upload(ctx, loc, body, onProgress)
}
