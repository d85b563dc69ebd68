package chartsink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/rfin/internal/common"
)

func TestRenderStoresArtifact(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewSink(common.NewSilentLogger(), filepath.Join(dir, "charts"))
	require.NoError(t, err)

	name, err := sink.Render("close_price.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "close_price.png", name)

	data, err := os.ReadFile(sink.Path(name))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	// Repeated names overwrite
	_, err = sink.Render("close_price.png", []byte("newer"))
	require.NoError(t, err)
	data, err = os.ReadFile(sink.Path(name))
	require.NoError(t, err)
	assert.Equal(t, []byte("newer"), data)
}

func TestRenderRejectsPathTraversal(t *testing.T) {
	sink, err := NewSink(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../escape.png", "nested/chart.png"} {
		_, err := sink.Render(name, []byte("x"))
		assert.Error(t, err, name)
	}
}
