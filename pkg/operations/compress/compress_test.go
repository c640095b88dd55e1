package compress

import (
	"bytes"
	"testing"

	"github.com/provide-io/labelsdb/pkg/operations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistered(t *testing.T) {
	for _, id := range []uint8{operations.OP_GZIP, operations.OP_BZIP2} {
		op, err := operations.Get(id)
		require.NoError(t, err)
		assert.Equal(t, id, op.ID())
		assert.Equal(t, operations.GetName(id), op.Name())
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("labels database thumbnail "), 500)

	testCases := []struct {
		name string
		op   operations.Operation
	}{
		{name: "gzip", op: NewGzipOperation()},
		{name: "bzip2", op: NewBzip2Operation()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			packed, err := tc.op.Apply(payload)
			require.NoError(t, err)
			assert.Less(t, len(packed), len(payload))

			unpacked, err := tc.op.Reverse(packed)
			require.NoError(t, err)
			assert.Equal(t, payload, unpacked)

			_, err = tc.op.Reverse([]byte("definitely not compressed"))
			require.Error(t, err)
		})
	}
}

func TestChainRoundTrip(t *testing.T) {
	payload := []byte("chain payload")
	ops := []uint8{operations.OP_GZIP, operations.OP_BZIP2}

	packed, err := operations.ApplyChain(payload, ops)
	require.NoError(t, err)

	unpacked, err := operations.ReverseChain(packed, ops)
	require.NoError(t, err)
	assert.Equal(t, payload, unpacked)
}

func TestReverseHonoursMaxOutput(t *testing.T) {
	payload := bytes.Repeat([]byte{'x'}, 4096)
	packed, err := NewGzipOperation().Apply(payload)
	require.NoError(t, err)

	small := NewGzipOperation().(*operations.Codec)
	small.MaxOutput = 100
	_, err = small.Reverse(packed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 100 bytes")

	small.MaxOutput = int64(len(payload))
	got, err := small.Reverse(packed)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRegisterTwicePanics(t *testing.T) {
	assert.Panics(t, func() { operations.Register(NewGzipOperation()) })
	assert.Panics(t, func() { operations.Register(&operations.Codec{OpID: operations.OP_ZIP}) })
}
