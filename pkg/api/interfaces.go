// Package api provides interfaces for dependency injection
package api

import "context"

// ArchiveOpener opens the backup archive
type ArchiveOpener interface {
	// OpenArchive opens or creates the archive in dir
	OpenArchive(dir string) (ArchiveCloser, error)
}

// ArchiveCloser is an archive that owns resources.
type ArchiveCloser interface {
	IArchive
	Close() error
}

// ArchiveFactory creates archive openers
type ArchiveFactory interface {
	CreateArchiveOpener() ArchiveOpener
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves the API until ctx is cancelled
	StartServer(ctx context.Context, archive IArchive, config ServerConfig) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
