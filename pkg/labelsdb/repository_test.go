package labelsdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertInsertAppends(t *testing.T) {
	repo := NewRepository(nil)

	for i, sig := range []Signature{0x30, 0x10, 0x20} {
		res, err := repo.Upsert(sig, testBlock(byte(i)))
		require.NoError(t, err)
		assert.Equal(t, Inserted, res)
		assert.Equal(t, i+1, repo.Count())
	}

	assert.Equal(t, []Signature{0x30, 0x10, 0x20}, repo.Signatures())
}

func TestUpsertUpdateKeepsPosition(t *testing.T) {
	repo := NewRepository(testContainer(t, 0x30, 0x10, 0x20))

	res, err := repo.Upsert(0x10, testBlock(0x99))
	require.NoError(t, err)
	assert.Equal(t, Updated, res)
	assert.Equal(t, 3, repo.Count())
	assert.Equal(t, []Signature{0x30, 0x10, 0x20}, repo.Signatures())

	entries := repo.Entries()
	assert.Equal(t, testBlock(1), entries[0].Pixels)
	assert.Equal(t, testBlock(0x99), entries[1].Pixels)
	assert.Equal(t, testBlock(3), entries[2].Pixels)
}

func TestUpsertValidation(t *testing.T) {
	repo := NewRepository(nil)

	_, err := repo.Upsert(1, make([]byte, PixelBytes-1))
	require.ErrorIs(t, err, ErrBadPixelLength)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, PixelBytes-1, ve.Got)
	assert.Equal(t, PixelBytes, ve.Want)

	_, err = repo.Upsert(Signature(Terminator), testBlock(1))
	require.ErrorIs(t, err, ErrBadSignature)

	assert.Equal(t, 0, repo.Count())
}

func TestUpsertCapacity(t *testing.T) {
	block := testBlock(1)
	c := &Container{Entries: make([]Entry, IndexCapacity)}
	for i := range c.Entries {
		c.Entries[i] = Entry{Signature: Signature(i), Pixels: block}
	}
	repo := NewRepository(c)

	_, err := repo.Upsert(IndexCapacity+10, block)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, IndexCapacity, repo.Count())

	// Updates still work at capacity
	res, err := repo.Upsert(5, testBlock(2))
	require.NoError(t, err)
	assert.Equal(t, Updated, res)
}

func TestUpsertCopiesPixels(t *testing.T) {
	repo := NewRepository(nil)
	block := testBlock(1)
	_, err := repo.Upsert(1, block)
	require.NoError(t, err)

	block[0] ^= 0xFF
	got, ok := repo.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, testBlock(1), got)
}

func TestRemove(t *testing.T) {
	repo := NewRepository(testContainer(t, 4, 3, 2, 1))

	require.NoError(t, repo.Remove(3))
	assert.Equal(t, []Signature{4, 2, 1}, repo.Signatures())

	require.NoError(t, repo.Remove(1))
	assert.Equal(t, []Signature{4, 2}, repo.Signatures())

	err := repo.Remove(3)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []Signature{4, 2}, repo.Signatures())

	entries := repo.Entries()
	assert.Equal(t, testBlock(1), entries[0].Pixels)
	assert.Equal(t, testBlock(3), entries[1].Pixels)
}

func TestEntriesIsACopy(t *testing.T) {
	repo := NewRepository(testContainer(t, 1, 2))

	entries := repo.Entries()
	entries[0].Signature = 99
	entries[1].Pixels[0] ^= 0xFF

	assert.Equal(t, []Signature{1, 2}, repo.Signatures())
	got, _ := repo.Lookup(2)
	assert.Equal(t, testBlock(2), got)

	snap := repo.Container()
	snap.Entries = nil
	assert.Equal(t, 2, repo.Count())
}

func TestRepositoryEncodeSortsOnlyOutput(t *testing.T) {
	repo := NewRepository(testContainer(t, 0x30, 0x10))
	_, err := repo.Upsert(0x20, testBlock(7))
	require.NoError(t, err)

	out, err := repo.Encode()
	require.NoError(t, err)

	assert.Equal(t, []Signature{0x30, 0x10, 0x20}, repo.Signatures())
	assert.Equal(t, uint32(0x10), slot(out, 0))
	assert.Equal(t, uint32(0x20), slot(out, 1))
	assert.Equal(t, uint32(0x30), slot(out, 2))

	decoded, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, testBlock(7), decoded.Entries[1].Pixels)
}
