package di

import (
	"context"
	"testing"

	"github.com/ssargent/cartsave/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStarter struct {
	called bool
}

func (s *stubStarter) StartServer(ctx context.Context, archive api.IArchive, config api.ServerConfig) error {
	s.called = true
	return nil
}

type stubServerFactory struct {
	starter *stubStarter
}

func (f *stubServerFactory) CreateServerStarter() api.ServerStarter {
	return f.starter
}

func TestContainer_Defaults(t *testing.T) {
	c := NewContainer()
	require.NotNil(t, c.GetArchiveFactory())
	require.NotNil(t, c.GetServerFactory())

	a, err := c.GetArchiveFactory().CreateArchiveOpener().OpenArchive(t.TempDir())
	require.NoError(t, err)
	list, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, a.Close())
}

func TestContainer_Override(t *testing.T) {
	c := NewContainer()
	starter := &stubStarter{}
	c.SetServerFactory(&stubServerFactory{starter: starter})

	err := c.GetServerFactory().CreateServerStarter().StartServer(context.Background(), nil, api.ServerConfig{})
	require.NoError(t, err)
	assert.True(t, starter.called)
}
