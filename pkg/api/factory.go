// Package api provides factory implementations for dependency injection
package api

import (
	"context"

	"github.com/ssargent/cartsave/pkg/archive"
)

// DefaultArchiveFactory is the default implementation of ArchiveFactory
type DefaultArchiveFactory struct{}

// NewArchiveFactory creates a new archive factory
func NewArchiveFactory() ArchiveFactory {
	return &DefaultArchiveFactory{}
}

// CreateArchiveOpener creates a pebble-backed archive opener
func (f *DefaultArchiveFactory) CreateArchiveOpener() ArchiveOpener {
	return &DefaultArchiveOpener{}
}

// DefaultArchiveOpener opens archives with archive.Open
type DefaultArchiveOpener struct{}

// OpenArchive opens or creates the archive in dir
func (o *DefaultArchiveOpener) OpenArchive(dir string) (ArchiveCloser, error) {
	a, err := archive.Open(dir)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(ctx context.Context, archive IArchive, config ServerConfig) error {
	return StartServer(ctx, archive, config)
}
