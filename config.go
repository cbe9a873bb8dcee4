package binbin

import "go.uber.org/zap"

// Config holds configuration for writer creation
type Config struct {
	// Logger receives debug events for slot, resolve, and derive activity.
	// Nil means the package Logger.
	Logger *zap.Logger

	// Padding is the initial byte used by Skip and Align.
	// It can be changed later with SetPadding.
	Padding byte
}
