package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-persona-studio/pkg/editing"
	"github.com/shouni/go-persona-studio/pkg/gemini"
	"github.com/shouni/go-persona-studio/pkg/prompts"
	"github.com/shouni/go-persona-studio/pkg/studio"
)

func testFactory(t *testing.T) Factory {
	t.Helper()
	composer, err := prompts.NewComposer()
	require.NoError(t, err)
	return func() (*studio.Studio, error) {
		return studio.New(gemini.New(gemini.Options{}), composer, editing.NewRasterizer())
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store, err := NewStore(time.Hour, testFactory(t))
	require.NoError(t, err)

	id, created, err := store.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Same(t, created, got, "同じIDからは同じ集約が返ること")
	assert.Equal(t, 1, store.Len())
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store, err := NewStore(time.Hour, testFactory(t))
	require.NoError(t, err)

	idA, a, err := store.Create()
	require.NoError(t, err)
	idB, b, err := store.Create()
	require.NoError(t, err)

	assert.NotEqual(t, idA, idB)
	assert.NotSame(t, a, b)

	a.AddCanonImage("only-a.png", []byte("x"), "image/png")
	assert.Len(t, a.References(), 1)
	assert.Empty(t, b.References(), "セッション間で状態が共有されないこと")
}

func TestStore_MissingSession(t *testing.T) {
	store, err := NewStore(time.Hour, testFactory(t))
	require.NoError(t, err)

	_, err = store.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(time.Hour, testFactory(t))
	require.NoError(t, err)

	id, _, err := store.Create()
	require.NoError(t, err)

	store.Delete(id)
	_, err = store.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewStore_Validation(t *testing.T) {
	_, err := NewStore(time.Hour, nil)
	assert.Error(t, err)

	_, err = NewStore(0, testFactory(t))
	assert.Error(t, err)
}
