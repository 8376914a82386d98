package trace

import (
	"errors"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		g, ok := ByName(name)
		require.True(t, ok, "pattern %q must resolve", name)
		require.NotNil(t, g)
	}

	_, ok := ByName("no-such-pattern")
	assert.False(t, ok)
}

func TestNames_StableOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"hotcold", "loop", "scan", "uniform", "zipf"}, Names())
}

func TestSequential_AllDistinct(t *testing.T) {
	t.Parallel()

	seq := Sequential(1000, 64, 1)
	require.Len(t, seq, 1000)

	seen := make(map[uint64]bool, len(seq))
	for _, k := range seq {
		require.False(t, seen[k], "key %d repeated", k)
		seen[k] = true
	}
}

func TestLoop_PeriodExceedsCapacity(t *testing.T) {
	t.Parallel()

	const capacity = 100
	seq := Loop(1000, capacity, 1)
	period := capacity + capacity/4

	for i, k := range seq {
		require.Equal(t, uint64(i%period), k)
	}
}

func TestZipf_DeterministicAndBounded(t *testing.T) {
	t.Parallel()

	const capacity = 64
	a := Zipf(5000, capacity, 7)
	b := Zipf(5000, capacity, 7)
	assert.Equal(t, a, b, "same seed must yield the same trace")

	for _, k := range a {
		require.Less(t, k, uint64(16*capacity))
	}

	c := Zipf(5000, capacity, 8)
	assert.NotEqual(t, a, c, "different seeds must yield different traces")
}

func TestUniform_Bounded(t *testing.T) {
	t.Parallel()

	const capacity = 64
	for _, k := range Uniform(5000, capacity, 1) {
		require.Less(t, k, uint64(4*capacity))
	}
}

func TestHotCold_SkewsHot(t *testing.T) {
	t.Parallel()

	const capacity = 64
	seq := HotCold(10000, capacity, 1)

	hot := 0
	for _, k := range seq {
		if k < capacity {
			hot++
		}
	}
	// 90% nominal; leave slack for sampling noise.
	assert.Greater(t, hot, 8500)
	assert.Less(t, hot, 9500)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"# recorded trace",
		"42",
		"",
		"  7 ",
		"user:alice",
		"42",
	}, "\n")

	seq, err := Load(strings.NewReader(in))
	require.NoError(t, err)

	want := []uint64{42, 7, xxhash.Sum64String("user:alice"), 42}
	assert.Equal(t, want, seq)
}

func TestLoad_Empty(t *testing.T) {
	t.Parallel()

	seq, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, seq)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestLoad_ReaderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk gone")
	_, err := Load(failingReader{err: boom})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
