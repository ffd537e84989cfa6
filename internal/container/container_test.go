package container

import (
	"bytes"
	"context"
	"testing"

	"csvexplorer/domain/core"
	domain "csvexplorer/domain/dataset"
	"csvexplorer/internal"
	"csvexplorer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(nil, internal.Discard)
	assert.Error(t, err)

	c, err := New(config.Default(), internal.Discard)
	require.NoError(t, err)
	assert.NotNil(t, c.Explorer)
	assert.NotNil(t, c.Processor)
	assert.Same(t, c.Store, c.SessionRepo)
}

func TestContainer_WiresMetricsAndShutdown(t *testing.T) {
	ctx := context.Background()
	c, err := New(config.Default(), internal.Discard)
	require.NoError(t, err)

	data := []byte("a\n1\n")
	_, err = c.Explorer.Upload(ctx, core.NewSessionID(), &domain.DatasetUpload{
		Filename: "a.csv",
		File:     bytes.NewReader(data),
		Size:     int64(len(data)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Store.Len())

	families, err := c.Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["csvexplorer_uploads_total"])
	assert.True(t, names["csvexplorer_active_sessions"])
	assert.True(t, names["go_goroutines"])

	require.NoError(t, c.Shutdown(ctx))
	assert.Equal(t, 0, c.Store.Len())
}
