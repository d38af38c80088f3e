package review

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/wavelabel/dataset"
	"github.com/rustyeddy/wavelabel/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data    dataset.Dataset
	loadErr error
	saveErr error
	saves   int
	saved   dataset.Dataset
}

func (f *fakeStore) Load() (dataset.Dataset, error) {
	return append(dataset.Dataset(nil), f.data...), f.loadErr
}

func (f *fakeStore) Save(ds dataset.Dataset) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(dataset.Dataset(nil), ds...)
	return nil
}

func sample(symbol string) dataset.Sample {
	return dataset.Sample{
		Symbol: symbol,
		Data: []market.Candle{
			{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
			{Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 20},
			{Open: 2.5, High: 2.8, Low: 1.8, Close: 2, Volume: 15},
		},
		WaveIndices: []int{0, 1, 2, 1, 2, 1},
		WavePrices:  []float64{0.5, 3, 1.8, 3, 1.8, 3},
	}
}

func samples(symbols ...string) dataset.Dataset {
	ds := make(dataset.Dataset, len(symbols))
	for i, s := range symbols {
		ds[i] = sample(s)
	}
	return ds
}

func symbolsOf(ds dataset.Dataset) []string {
	out := make([]string, len(ds))
	for i, s := range ds {
		out[i] = s.Symbol
	}
	return out
}

func openFile(t *testing.T, ds dataset.Dataset) (*Session, *dataset.FileStore) {
	t.Helper()

	fs := dataset.NewFileStore(filepath.Join(t.TempDir(), "dataset.json"))
	require.NoError(t, fs.Save(ds))

	s, err := Open(fs)
	require.NoError(t, err)
	return s, fs
}

func TestOpenHaltsWithoutData(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		fs := dataset.NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
		s, err := Open(fs)
		assert.ErrorIs(t, err, ErrEmptyDataset)
		assert.Nil(t, s)
	})

	t.Run("empty array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

		s, err := Open(dataset.NewFileStore(path))
		assert.ErrorIs(t, err, ErrEmptyDataset)
		assert.Nil(t, s)
	})

	t.Run("no writes", func(t *testing.T) {
		fs := &fakeStore{data: dataset.Dataset{}}
		_, err := Open(fs)
		assert.ErrorIs(t, err, ErrEmptyDataset)
		assert.Zero(t, fs.saves)
	})
}

func TestOpenLoadError(t *testing.T) {
	t.Parallel()

	_, err := Open(&fakeStore{loadErr: assert.AnError})
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, errors.Is(err, ErrEmptyDataset))
}

func TestOpenStartsAtFirst(t *testing.T) {
	t.Parallel()

	s, err := Open(&fakeStore{data: samples("A", "B")})
	require.NoError(t, err)

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "A", cur.Symbol)

	st := s.State()
	assert.Equal(t, 0, st.Cursor)
	assert.Equal(t, 1, st.Position)
	assert.Equal(t, 2, st.Total)
	assert.Len(t, s.ID(), 26)
}

func TestCursorBounds(t *testing.T) {
	t.Parallel()

	const n = 5
	fs := &fakeStore{data: samples("A", "B", "C", "D", "E")}
	s, err := Open(fs)
	require.NoError(t, err)

	st := s.Prev()
	assert.Equal(t, 0, st.Cursor, "prev at first sample is a no-op")

	for i := 0; i < n+3; i++ {
		st = s.Next()
	}
	assert.Equal(t, n-1, st.Cursor, "next at last sample is a no-op")

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		if rng.Intn(2) == 0 {
			st = s.Prev()
		} else {
			st = s.Next()
		}
		require.GreaterOrEqual(t, st.Cursor, 0)
		require.LessOrEqual(t, st.Cursor, n-1)
		require.Equal(t, st.Cursor+1, st.Position)
	}

	assert.Zero(t, fs.saves, "navigation never persists")
}

func TestDeleteShrinksAndPersists(t *testing.T) {
	t.Parallel()

	for c := 0; c < 4; c++ {
		s, fs := openFile(t, samples("A", "B", "C", "D"))
		for i := 0; i < c; i++ {
			s.Next()
		}

		want := samples("A", "B", "C", "D")
		want = append(want[:c], want[c+1:]...)

		st, err := s.DeleteCurrent()
		require.NoError(t, err)
		assert.Equal(t, 3, st.Total)
		assert.Equal(t, want, s.Samples())

		reloaded, err := fs.Load()
		require.NoError(t, err)
		assert.Equal(t, s.Samples(), reloaded)
	}
}

func TestDeleteSlidesNextUnderCursor(t *testing.T) {
	t.Parallel()

	s, err := Open(&fakeStore{data: samples("A", "B", "C")})
	require.NoError(t, err)

	st, err := s.DeleteCurrent()
	require.NoError(t, err)
	assert.Equal(t, 0, st.Cursor)
	assert.Equal(t, "B", st.Sample.Symbol)
}

func TestDeleteLastClampsCursor(t *testing.T) {
	t.Parallel()

	s, err := Open(&fakeStore{data: samples("A", "B", "C")})
	require.NoError(t, err)
	s.Next()
	s.Next()

	st, err := s.DeleteCurrent()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Cursor)
	assert.Equal(t, 2, st.Position)
	assert.Equal(t, "B", st.Sample.Symbol)

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "B", cur.Symbol)
}

func TestDeleteToEmpty(t *testing.T) {
	t.Parallel()

	s, fs := openFile(t, samples("A", "B"))

	_, err := s.DeleteCurrent()
	require.NoError(t, err)
	st, err := s.DeleteCurrent()
	require.NoError(t, err)

	assert.True(t, st.Empty())
	assert.Nil(t, st.Sample)
	assert.Zero(t, s.Len())

	_, err = s.Current()
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = s.DeleteCurrent()
	assert.ErrorIs(t, err, ErrNoSamples)
	_, err = s.KeepCurrent()
	assert.ErrorIs(t, err, ErrNoSamples)
	assert.True(t, s.Prev().Empty())
	assert.True(t, s.Next().Empty())

	reloaded, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, reloaded)

	_, err = Open(fs)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestDeleteWriteFailure(t *testing.T) {
	t.Parallel()

	fs := &fakeStore{data: samples("A", "B"), saveErr: assert.AnError}
	s, err := Open(fs)
	require.NoError(t, err)

	var decisions []Decision
	s.OnDecision(func(d Decision) { decisions = append(decisions, d) })

	_, err = s.DeleteCurrent()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, decisions)
}

func TestKeepNeverWrites(t *testing.T) {
	t.Parallel()

	s, fs := openFile(t, samples("A", "B", "C"))
	before, err := os.ReadFile(fs.Path)
	require.NoError(t, err)

	var st State
	for i := 0; i < 10; i++ {
		st, err = s.KeepCurrent()
		require.NoError(t, err)
		assert.LessOrEqual(t, st.Cursor, 2)
	}
	assert.Equal(t, 2, st.Cursor)
	assert.Equal(t, 3, s.Len())

	after, err := os.ReadFile(fs.Path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDecisionHooks(t *testing.T) {
	t.Parallel()

	s, err := Open(&fakeStore{data: samples("A", "B", "C")})
	require.NoError(t, err)

	var got []Decision
	s.OnDecision(func(d Decision) { got = append(got, d) })

	_, err = s.KeepCurrent()
	require.NoError(t, err)
	_, err = s.DeleteCurrent()
	require.NoError(t, err)
	s.Prev()

	require.Len(t, got, 2)
	assert.Equal(t, Decision{SessionID: s.ID(), Action: ActionKeep, Symbol: "A", Position: 1, Total: 3}, got[0])
	assert.Equal(t, Decision{SessionID: s.ID(), Action: ActionDelete, Symbol: "B", Position: 2, Total: 3}, got[1])
}

func TestReviewScenario(t *testing.T) {
	t.Parallel()

	s, fs := openFile(t, samples("A", "B", "C"))

	st := s.Next()
	assert.Equal(t, 1, st.Cursor)
	assert.Equal(t, "B", st.Sample.Symbol)

	st, err := s.DeleteCurrent()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Cursor)
	assert.Equal(t, "C", st.Sample.Symbol)
	assert.Equal(t, []string{"A", "C"}, symbolsOf(s.Samples()))

	onDisk, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, symbolsOf(onDisk))

	st = s.Prev()
	assert.Equal(t, 0, st.Cursor)
	assert.Equal(t, "A", st.Sample.Symbol)

	s.Next()
	st = s.Next()
	assert.Equal(t, 1, st.Cursor)
	assert.Equal(t, "C", st.Sample.Symbol)
}

func TestDeleteLeavesLoadedSliceAlone(t *testing.T) {
	store := &fakeStore{data: samples("A", "B", "C")}
	s, err := Open(store)
	require.NoError(t, err)

	_, err = s.DeleteCurrent()
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, symbolsOf(store.data))
	assert.Equal(t, []string{"B", "C"}, symbolsOf(store.saved))
}
