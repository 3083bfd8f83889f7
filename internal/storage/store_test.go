package storage

import (
	"testing"
	"time"

	"github.com/dashpay/dashwallet/wallet"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

// TestStoreRoundTrip verifies a record survives a put and get cycle.
func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	in := wallet.AddressRecord{
		Address:   "XabcExampleAddress",
		Change:    true,
		CreatedAt: time.Unix(1_700_000_000, 0).UTC(),
	}
	require.NoError(t, store.Put("addr/"+in.Address, &in))

	var out wallet.AddressRecord
	require.NoError(t, store.Get("addr/"+in.Address, &out))
	require.Equal(t, in, out)
}

// TestStoreGetMissing verifies missing keys map to the wallet sentinel.
func TestStoreGetMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	var out wallet.AddressRecord
	err := store.Get("addr/missing", &out)
	require.ErrorIs(t, err, wallet.ErrRecordNotFound)
}

// TestStorePutReplaces verifies a second put under the same key replaces
// the record.
func TestStorePutReplaces(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	rec := wallet.TxRecord{TxID: "aa", Status: "submitted"}
	require.NoError(t, store.Put("tx/aa", &rec))

	rec.Status = "confirmed"
	rec.BlockHeight = 1_234
	require.NoError(t, store.Put("tx/aa", &rec))

	var out wallet.TxRecord
	require.NoError(t, store.Get("tx/aa", &out))
	require.Equal(t, "confirmed", out.Status)
	require.Equal(t, uint32(1_234), out.BlockHeight)
}

// TestStoreDelete verifies deletion, including deleting a missing
// record.
func TestStoreDelete(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	rec := wallet.AddressRecord{Address: "Xabc"}
	require.NoError(t, store.Put("addr/Xabc", &rec))
	require.NoError(t, store.Delete("addr/Xabc", &wallet.AddressRecord{}))

	err := store.Get("addr/Xabc", &wallet.AddressRecord{})
	require.ErrorIs(t, err, wallet.ErrRecordNotFound)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete("addr/Xabc", &wallet.AddressRecord{}))
}

// TestStoreQuery verifies field filtering, sorting and pagination.
func TestStoreQuery(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	base := time.Unix(1_700_000_000, 0).UTC()
	records := []wallet.AddressRecord{
		{Address: "Xaa", Change: false, CreatedAt: base},
		{Address: "Xbb", Change: true, CreatedAt: base.Add(time.Minute)},
		{Address: "Xcc", Change: false, CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range records {
		key := "addr/" + records[i].Address
		require.NoError(t, store.Put(key, &records[i]))
	}

	// All records in creation order.
	var all []wallet.AddressRecord
	err := store.Query(&all, &wallet.RecordQuery{
		SortBy: []string{"CreatedAt"},
	})
	require.NoError(t, err)
	require.Equal(t, records, all)

	// Filtered to the change address.
	var change []wallet.AddressRecord
	err = store.Query(&change, &wallet.RecordQuery{
		Field:  "Change",
		Equals: true,
	})
	require.NoError(t, err)
	require.Equal(t, []wallet.AddressRecord{records[1]}, change)

	// Newest first with a window.
	var window []wallet.AddressRecord
	err = store.Query(&window, &wallet.RecordQuery{
		SortBy:  []string{"CreatedAt"},
		Reverse: true,
		Limit:   1,
		Offset:  1,
	})
	require.NoError(t, err)
	require.Equal(t, []wallet.AddressRecord{records[1]}, window)
}
