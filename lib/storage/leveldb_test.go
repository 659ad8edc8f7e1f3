package storage

import (
	"fmt"
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
)

func TestNewConfigFromString(t *testing.T) {
	config, err := NewConfigFromString("memory://")
	require.NoError(t, err)
	require.Equal(t, "memory", config.Scheme)

	config, err = NewConfigFromString("file:///tmp/governance")
	require.NoError(t, err)
	require.Equal(t, "file", config.Scheme)
	require.Equal(t, "/tmp/governance", config.Path)

	_, err = NewConfigFromString("file://")
	require.True(t, errors.Is(err, errors.StorageCoreError))

	_, err = NewConfigFromString("redis://localhost")
	require.True(t, errors.Is(err, errors.StorageCoreError))
}

func TestLevelDBBackendInitFileStorage(t *testing.T) {
	path, _ := ioutil.TempDir("/tmp", "governance")
	defer CleanDB(path)

	config, err := NewConfigFromString("file://" + path)
	require.NoError(t, err)

	st := &LevelDBBackend{}
	require.NoError(t, st.Init(config))
	require.NoError(t, st.New("showme", 1))
	require.NoError(t, st.Close())

	st = &LevelDBBackend{}
	require.NoError(t, st.Init(config))
	defer st.Close()

	var n int
	require.NoError(t, st.Get("showme", &n))
	require.Equal(t, 1, n)
}

func TestLevelDBBackendNewSetRemove(t *testing.T) {
	st := NewTestMemoryLevelDBBackend()
	defer st.Close()

	input := map[string]string{"a": "1"}
	require.NoError(t, st.New("showme", input))
	require.True(t, errors.Is(st.New("showme", input), errors.StorageRecordAlreadyExists))

	fetched := map[string]string{}
	require.NoError(t, st.Get("showme", &fetched))
	require.Equal(t, input, fetched)

	require.True(t, errors.Is(st.Set("vacuum", input), errors.StorageRecordDoesNotExist))
	require.NoError(t, st.Set("showme", map[string]string{"b": "2"}))

	exists, err := st.Has("showme")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, st.Remove("showme"))
	require.True(t, errors.Is(st.Remove("showme"), errors.StorageRecordDoesNotExist))

	_, err = st.GetRaw("showme")
	require.Equal(t, errors.StorageRecordDoesNotExist, err)

	require.NoError(t, st.Put("showme", 1))
	require.NoError(t, st.Put("showme", 2))
}

func TestLevelDBBackendNews(t *testing.T) {
	st := NewTestMemoryLevelDBBackend()
	defer st.Close()

	var items []Item
	for i := 0; i < 10; i++ {
		items = append(items, Item{Key: fmt.Sprintf("%d", i), Value: i})
	}
	require.NoError(t, st.News(items...))

	for _, item := range items {
		var n int
		require.NoError(t, st.Get(item.Key, &n))
		require.Equal(t, item.Value, n)
	}

	// one existing key fails the whole batch
	err := st.News(Item{Key: "new", Value: 1}, Item{Key: "3", Value: 3})
	require.True(t, errors.Is(err, errors.StorageRecordAlreadyExists))
	exists, _ := st.Has("new")
	require.False(t, exists)
}

func TestLevelDBBackendTransaction(t *testing.T) {
	st := NewTestMemoryLevelDBBackend()
	defer st.Close()

	{ // discarded
		ts, err := st.OpenTransaction()
		require.NoError(t, err)
		require.True(t, ts.IsTransaction())

		_, err = ts.OpenTransaction()
		require.True(t, errors.Is(err, errors.StorageTransactionFailed))

		require.NoError(t, ts.New("showme", 1))
		exists, _ := ts.Has("showme")
		require.True(t, exists)
		exists, _ = st.Has("showme")
		require.False(t, exists)

		require.NoError(t, ts.Discard())
		exists, _ = st.Has("showme")
		require.False(t, exists)
	}

	{ // committed
		ts, err := st.OpenTransaction()
		require.NoError(t, err)
		require.NoError(t, ts.New("showme", 1))
		require.NoError(t, ts.Commit())

		exists, _ := st.Has("showme")
		require.True(t, exists)
	}

	require.True(t, errors.Is(st.Commit(), errors.StorageTransactionFailed))
	require.True(t, errors.Is(st.Discard(), errors.StorageTransactionFailed))
}

func TestLevelDBBackendWalk(t *testing.T) {
	st := NewTestMemoryLevelDBBackend()
	defer st.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, st.New(fmt.Sprintf("item-%02d", i), i))
	}
	require.NoError(t, st.New("other-00", 100))

	collect := func(option *WalkOption) (found []int) {
		err := st.Walk("item-", option, func(k, v []byte) (bool, error) {
			var n int
			require.NoError(t, common.DecodeJSONValue(v, &n))
			found = append(found, n)
			return true, nil
		})
		require.NoError(t, err)
		return
	}

	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, collect(nil))
	require.Equal(t, []int{0, 1, 2}, collect(NewWalkOption("", 3, false)))
	require.Equal(t, []int{3, 4, 5}, collect(NewWalkOption("item-02", 3, false)))
	require.Equal(t, []int{9, 8}, collect(NewWalkOption("", 2, true)))
	require.Equal(t, []int{4, 3}, collect(NewWalkOption("item-05", 2, true)))

	var stopped []string
	st.Walk("item-", nil, func(k, v []byte) (bool, error) {
		stopped = append(stopped, string(k))
		return len(stopped) < 2, nil
	})
	require.Equal(t, []string{"item-00", "item-01"}, stopped)
}

func TestLevelDBBackendSnapshot(t *testing.T) {
	st := NewTestMemoryLevelDBBackend()
	defer st.Close()

	require.NoError(t, st.New("showme", 1))

	snapshot, err := st.OpenSnapshot()
	require.NoError(t, err)
	defer snapshot.Release()

	require.NoError(t, st.Set("showme", 2))

	var n int
	require.NoError(t, snapshot.Get("showme", &n))
	require.Equal(t, 1, n)
	require.True(t, errors.Is(snapshot.Put("showme", 3), errors.StorageCoreError))
}
