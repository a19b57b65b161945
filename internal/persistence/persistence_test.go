package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := Open("", nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put([]byte("partition-a"), []byte("synopsis-blob")))

	blob, ok, err := store.Get([]byte("partition-a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "synopsis-blob", string(blob))
}

func TestGetMissingKeyIsNotAnError(t *testing.T) {
	store, err := Open("", nil)
	require.NoError(t, err)
	defer store.Close()

	blob, ok, err := store.Get([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, blob)
}

func TestEachVisitsEveryKey(t *testing.T) {
	store, err := Open("", nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put([]byte("a"), []byte("1")))
	require.NoError(t, store.Put([]byte("b"), []byte("2")))

	seen := map[string]string{}
	err = store.Each(func(key []byte, get func() ([]byte, error)) error {
		v, err := get()
		if err != nil {
			return err
		}
		seen[string(key)] = string(v)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, seen)
}
