// Package xfer implements a runtime HTTP (and S3) file transfer engine:
// ranged chunked downloads into memory with fallback to a single payload
// GET, and whole-body PUT uploads. Chunks are fetched serially; the
// engine owns cancellation, the destination buffer, and the fallback
// policy when a server can't satisfy the ranged-download plan.
package xfer
