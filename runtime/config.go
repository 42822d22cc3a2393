package runtime

import (
	"io"

	"go.uber.org/zap"
)

// Config holds configuration for runtime creation.
type Config struct {
	// Logger receives guest log calls and runtime diagnostics.
	// nil means the package logger.
	Logger *zap.Logger

	// Stdout and Stderr receive WASI output of the guest. nil discards it.
	Stdout io.Writer
	Stderr io.Writer

	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// CloseOnContextDone aborts a running guest call when its context is
	// cancelled or times out.
	CloseOnContextDone bool

	// WASI instantiates wasi_snapshot_preview1 so guests built by toolchains
	// that target WASI can be loaded.
	WASI bool
}

func (c *Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return Logger()
}
