package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retro_site_builder/internal/shell"
)

func TestStoreCreateGetDelete(t *testing.T) {
	st, err := NewStore(4, shell.Viewport{Width: 800, Height: 600})
	require.NoError(t, err)

	s := st.Create(shell.Viewport{})
	assert.Equal(t, shell.Viewport{Width: 800, Height: 600}, s.Snapshot().Viewport)

	got, err := st.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	assert.True(t, st.Delete(s.ID()))
	assert.True(t, s.Closed())
	assert.False(t, st.Delete(s.ID()))

	_, err = st.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreEvictsAndClosesOldest(t *testing.T) {
	st, err := NewStore(2, shell.Viewport{})
	require.NoError(t, err)

	first := st.Create(shell.Viewport{})
	second := st.Create(shell.Viewport{})
	_, _ = st.Get(first.ID())
	third := st.Create(shell.Viewport{})

	assert.Equal(t, 2, st.Len())
	assert.True(t, second.Closed())
	assert.False(t, first.Closed())
	assert.False(t, third.Closed())

	st.Close()
	assert.True(t, first.Closed())
	assert.Equal(t, 0, st.Len())
}
