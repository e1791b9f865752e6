package platform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/tokbulk/internal/model"
	"github.com/ytget/tokbulk/internal/platform"
)

func newEmitter(t *testing.T, dir string, reveal func(string) error) *platform.FileEmitter {
	t.Helper()

	e, err := platform.NewFileEmitter(platform.EmitterConfig{
		Dir:        dir,
		AutoReveal: reveal != nil,
		Now:        func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
		Reveal:     reveal,
	})
	require.NoError(t, err)
	return e
}

func TestFileEmitterEmit(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := filepath.Join(t.TempDir(), "out")
	e := newEmitter(t, dir, nil)

	path, err := e.Emit(context.Background(), platform.Artifact{
		TaskID:   "task-1",
		URL:      "https://www.tiktok.com/@u/video/1",
		Filename: "My: cat?",
		Quality:  model.QualityFHD1080,
	})
	require.NoError(err)
	assert.Equal(filepath.Join(dir, "My cat.mp4"), path)

	data, err := os.ReadFile(path)
	require.NoError(err)
	assert.Contains(string(data), "Source: https://www.tiktok.com/@u/video/1")
	assert.Contains(string(data), "Caption: My: cat?")
	assert.Contains(string(data), "Quality: 1080p")
	assert.Contains(string(data), "Downloaded: 2025-01-02 03:04:05")
}

func TestFileEmitterEmitDoesNotOverwrite(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	e := newEmitter(t, dir, nil)
	a := platform.Artifact{TaskID: "task-1", Filename: "same"}

	var paths []string
	for i := 0; i < 3; i++ {
		p, err := e.Emit(context.Background(), a)
		require.NoError(err)
		paths = append(paths, filepath.Base(p))
	}

	assert.Equal([]string{"same.mp4", "same (1).mp4", "same (2).mp4"}, paths)
}

func TestFileEmitterEmitLongUnicodeName(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	e := newEmitter(t, dir, nil)
	a := platform.Artifact{TaskID: "task-1", Filename: strings.Repeat("ж", 147) + "..."}

	for i := 0; i < 2; i++ {
		p, err := e.Emit(context.Background(), a)
		require.NoError(err)

		base := filepath.Base(p)
		assert.LessOrEqual(len(base), 255)
		assert.True(utf8.ValidString(base))
		if i == 1 {
			assert.True(strings.HasSuffix(base, " (1).mp4"), base)
		}
	}
}

func TestFileEmitterEmitEmptyName(t *testing.T) {
	dir := t.TempDir()
	e := newEmitter(t, dir, nil)

	path, err := e.Emit(context.Background(), platform.Artifact{TaskID: "task-9", Filename: "\n\n"})
	require.NoError(t, err)
	assert.Equal(t, "video-task-9.mp4", filepath.Base(path))
}

func TestFileEmitterAutoReveal(t *testing.T) {
	tests := map[string]struct {
		revealErr error
	}{
		"Reveal should be called with the emitted path.": {},
		"A reveal error should not fail the emit.": {
			revealErr: errors.New("no file manager"),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var revealed string
			e := newEmitter(t, t.TempDir(), func(p string) error {
				revealed = p
				return test.revealErr
			})

			path, err := e.Emit(context.Background(), platform.Artifact{TaskID: "1", Filename: "x"})
			require.NoError(t, err)
			assert.Equal(t, path, revealed)
		})
	}
}

func TestFileEmitterSetDir(t *testing.T) {
	e := newEmitter(t, t.TempDir(), nil)
	other := t.TempDir()
	e.SetDir(other)
	assert.Equal(t, other, e.Dir())

	path, err := e.Emit(context.Background(), platform.Artifact{TaskID: "1", Filename: "x"})
	require.NoError(t, err)
	assert.Equal(t, other, filepath.Dir(path))
}

func TestFileEmitterEmitCancelled(t *testing.T) {
	e := newEmitter(t, t.TempDir(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Emit(ctx, platform.Artifact{TaskID: "1", Filename: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
