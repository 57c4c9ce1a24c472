package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state", "state.bin"), NewZlibEncoder(NewJsonSerializer()))
	require.NoError(t, err)

	return s
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshot of a fresh store is nil", func(t *testing.T) {
		s := newTestFileStore(t)

		snapshot, err := s.Snapshot(ctx)
		require.NoError(t, err)
		require.Nil(t, snapshot)
	})

	t.Run("set and read back the current skin", func(t *testing.T) {
		s := newTestFileStore(t)

		err := s.SetCurrentSkin(ctx, "http://example.com/skin.png", "Thinkofdeath")
		require.NoError(t, err)

		snapshot, err := s.Snapshot(ctx)
		require.NoError(t, err)
		require.Equal(t, "http://example.com/skin.png", snapshot.CurrentSkin)
		require.Equal(t, "Thinkofdeath", snapshot.CurrentPlayerName)
	})

	t.Run("uploaded skin stores no player name", func(t *testing.T) {
		s := newTestFileStore(t)

		require.NoError(t, s.SetCurrentSkin(ctx, "http://example.com/skin.png", "Thinkofdeath"))
		require.NoError(t, s.SetCurrentSkin(ctx, "data:image/png;base64,iVBORw0KGgo=", ""))

		snapshot, err := s.Snapshot(ctx)
		require.NoError(t, err)
		require.Equal(t, "data:image/png;base64,iVBORw0KGgo=", snapshot.CurrentSkin)
		require.Empty(t, snapshot.CurrentPlayerName)
	})

	t.Run("clear keeps the animation preference", func(t *testing.T) {
		s := newTestFileStore(t)

		require.NoError(t, s.SetCurrentSkin(ctx, "http://example.com/skin.png", "Thinkofdeath"))
		require.NoError(t, s.SetAnimationEnabled(ctx, false))
		require.NoError(t, s.ClearCurrentSkin(ctx))

		snapshot, err := s.Snapshot(ctx)
		require.NoError(t, err)
		require.Empty(t, snapshot.CurrentSkin)
		require.Empty(t, snapshot.CurrentPlayerName)
		require.Equal(t, "false", snapshot.AnimationEnabled)
		require.False(t, snapshot.AnimationOn())
	})

	t.Run("animation preference round trip", func(t *testing.T) {
		s := newTestFileStore(t)

		require.NoError(t, s.SetAnimationEnabled(ctx, true))

		snapshot, err := s.Snapshot(ctx)
		require.NoError(t, err)
		require.Equal(t, "true", snapshot.AnimationEnabled)
		require.True(t, snapshot.AnimationOn())
	})

	t.Run("state survives a reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.bin")
		serializer := NewZlibEncoder(NewJsonSerializer())

		first, err := NewFileStore(path, serializer)
		require.NoError(t, err)
		require.NoError(t, first.SetCurrentSkin(ctx, "http://example.com/skin.png", "Thinkofdeath"))

		second, err := NewFileStore(path, serializer)
		require.NoError(t, err)

		snapshot, err := second.Snapshot(ctx)
		require.NoError(t, err)
		require.Equal(t, "http://example.com/skin.png", snapshot.CurrentSkin)
		require.Equal(t, "Thinkofdeath", snapshot.CurrentPlayerName)
	})

	t.Run("ping", func(t *testing.T) {
		s := newTestFileStore(t)
		require.NoError(t, s.Ping(ctx))
	})
}
