package wallet

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/dashpay/dashwallet/chain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockSyncClient mocks the external sync client boundary.
type mockSyncClient struct {
	mock.Mock
}

var _ chain.SyncClient = (*mockSyncClient)(nil)

func (m *mockSyncClient) Watch(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *mockSyncClient) Unwatch(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *mockSyncClient) SpendableUTXOs(ctx context.Context,
	address string) ([]chain.UTXO, error) {

	args := m.Called(ctx, address)
	utxos, _ := args.Get(0).([]chain.UTXO)

	return utxos, args.Error(1)
}

func (m *mockSyncClient) Broadcast(ctx context.Context,
	rawTx []byte) (string, error) {

	args := m.Called(ctx, rawTx)
	return args.String(0), args.Error(1)
}

func (m *mockSyncClient) Confirmations(ctx context.Context,
	txid string) (chain.TxConfs, error) {

	args := m.Called(ctx, txid)
	confs, _ := args.Get(0).(chain.TxConfs)

	return confs, args.Error(1)
}

func (m *mockSyncClient) IsInstantLocked(ctx context.Context,
	txid string) (bool, error) {

	args := m.Called(ctx, txid)
	return args.Bool(0), args.Error(1)
}

// memStore is an in-memory Store used to keep wallet tests independent
// of the badger-backed implementation.
type memStore struct {
	mu    sync.Mutex
	addrs map[string]AddressRecord
	txs   map[string]TxRecord
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		addrs: make(map[string]AddressRecord),
		txs:   make(map[string]TxRecord),
	}
}

func (m *memStore) Put(key string, record any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch r := record.(type) {
	case *AddressRecord:
		m.addrs[key] = *r
	case *TxRecord:
		m.txs[key] = *r
	}

	return nil
}

func (m *memStore) Get(key string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch o := out.(type) {
	case *AddressRecord:
		rec, ok := m.addrs[key]
		if !ok {
			return ErrRecordNotFound
		}
		*o = rec
	case *TxRecord:
		rec, ok := m.txs[key]
		if !ok {
			return ErrRecordNotFound
		}
		*o = rec
	}

	return nil
}

func (m *memStore) Delete(key string, record any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch record.(type) {
	case *AddressRecord:
		delete(m.addrs, key)
	case *TxRecord:
		delete(m.txs, key)
	}

	return nil
}

func (m *memStore) Query(out any, q *RecordQuery) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch o := out.(type) {
	case *[]AddressRecord:
		var records []AddressRecord
		for _, rec := range m.addrs {
			if q.Field == "Change" && rec.Change != q.Equals.(bool) {
				continue
			}
			records = append(records, rec)
		}

		sort.Slice(records, func(i, j int) bool {
			if q.Reverse {
				i, j = j, i
			}
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		})
		*o = paginate(records, q)

	case *[]TxRecord:
		var records []TxRecord
		for _, rec := range m.txs {
			records = append(records, rec)
		}

		sort.Slice(records, func(i, j int) bool {
			if q.Reverse {
				i, j = j, i
			}
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		})
		*o = paginate(records, q)
	}

	return nil
}

func paginate[T any](records []T, q *RecordQuery) []T {
	if q.Offset > 0 {
		if q.Offset >= len(records) {
			return nil
		}
		records = records[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(records) {
		records = records[:q.Limit]
	}

	return records
}

// testAddress encodes a deterministic P2PKH address valid for the given
// params.
func testAddress(seed byte, params *Params) string {
	hash := make([]byte, hash160Size)
	for i := range hash {
		hash[i] = seed
	}

	return base58.CheckEncode(hash, params.PubKeyHashAddrID)
}

// testUTXO builds a confirmed UTXO with the given index and value.
func testUTXO(index uint32, value btcutil.Amount,
	confirmations uint32) chain.UTXO {

	var txid chainhash.Hash
	txid[0] = byte(index)
	txid[1] = byte(index >> 8)

	return chain.UTXO{
		OutPoint:      wire.OutPoint{Hash: txid, Index: index},
		Value:         value,
		Confirmations: confirmations,
	}
}

// newTestWallet builds a wallet over the given mock sync client and an
// in-memory store.
func newTestWallet(t *testing.T, client *mockSyncClient) (*Wallet,
	*memStore) {

	t.Helper()

	store := newMemStore()
	w, err := New(&Config{
		Params: &MainNetParams,
		Chain:  client,
		Store:  store,
	})
	require.NoError(t, err)

	return w, store
}
