// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/dashpay/dashwallet/chain"
	"github.com/jellydator/ttlcache/v3"
)

// Store is the persistence boundary of the ledger facade. Records are
// addressed by string keys within per-type tables; Query reads a filtered,
// sorted window of a whole table.
type Store interface {
	// Get loads the record stored under key into out. Returns an error
	// wrapping ErrRecordNotFound when no record exists.
	Get(key string, out any) error

	// Put stores record under key, replacing any previous record.
	Put(key string, record any) error

	// Delete removes the record of the given type stored under key.
	// Deleting a missing record is not an error.
	Delete(key string, record any) error

	// Query loads records matching q into out, which must be a pointer
	// to a slice of the record type.
	Query(out any, q *RecordQuery) error
}

// RecordQuery describes a filtered, sorted, paginated read.
type RecordQuery struct {
	// Field and Equals restrict the result to records whose Field
	// equals Equals. An empty Field matches all records.
	Field  string
	Equals any

	// SortBy names the fields to order by.
	SortBy []string

	// Reverse inverts the sort order.
	Reverse bool

	// Limit bounds the result size; zero means no bound.
	Limit int

	// Offset skips the first Offset matching records.
	Offset int
}

// AddressRecord is a watched address.
type AddressRecord struct {
	// Address is the encoded address.
	Address string

	// Change marks the address designated for change outputs.
	Change bool

	// CreatedAt is when the address was first watched.
	CreatedAt time.Time
}

// TxRecord is a transaction the wallet has broadcasted.
type TxRecord struct {
	// TxID is the transaction id.
	TxID string

	// Raw is the serialized transaction.
	Raw []byte

	// Label is an optional caller-supplied memo.
	Label string

	// Status is the last observed confirmation status.
	Status string

	// BlockHeight is the confirming block height, once confirmed.
	BlockHeight uint32

	// CreatedAt is the broadcast time.
	CreatedAt time.Time
}

// Store key prefixes. Keys are unique within a record type's table.
const (
	addrKeyPrefix = "addr/"
	txKeyPrefix   = "tx/"
)

// balanceCacheKey is the single key under which the aggregated balance
// is cached.
const balanceCacheKey = "balance"

// ledger is the wallet's view over watched addresses, balances and
// broadcasted transactions. It is the only component touching the record
// store, and it treats the sync client's UTXO sets as read-only
// snapshots.
type ledger struct {
	cfg          *Config
	reservations *reservationManager

	// balance caches the aggregated spendable balance inside a bounded
	// freshness window, so repeated balance reads do not hit the sync
	// client.
	balance *ttlcache.Cache[string, btcutil.Amount]
}

// newLedger creates a ledger over the configured store and sync client.
func newLedger(cfg *Config, reservations *reservationManager) *ledger {
	return &ledger{
		cfg:          cfg,
		reservations: reservations,
		balance: ttlcache.New[string, btcutil.Amount](
			ttlcache.WithTTL[string, btcutil.Amount](
				balanceCacheTTL,
			),
			ttlcache.WithDisableTouchOnHit[string, btcutil.Amount](),
		),
	}
}

// watchAddress validates the address, registers it with the sync client
// and persists it as watched.
func (l *ledger) watchAddress(ctx context.Context, address string,
	change bool) error {

	// Decoding proves the address is well-formed for this network
	// before it reaches the sync client.
	if _, err := PayToAddrScript(address, l.cfg.Params); err != nil {
		return err
	}

	if err := l.cfg.Chain.Watch(ctx, address); err != nil {
		return err
	}

	err := l.cfg.Store.Put(addrKeyPrefix+address, &AddressRecord{
		Address:   address,
		Change:    change,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("unable to persist watched address: %w", err)
	}

	l.balance.Delete(balanceCacheKey)

	return nil
}

// unwatchAddress removes the address from the sync client and the store.
func (l *ledger) unwatchAddress(ctx context.Context, address string) error {
	if err := l.cfg.Chain.Unwatch(ctx, address); err != nil {
		return err
	}

	err := l.cfg.Store.Delete(addrKeyPrefix+address, &AddressRecord{})
	if err != nil {
		return fmt.Errorf("unable to delete watched address: %w", err)
	}

	l.balance.Delete(balanceCacheKey)

	return nil
}

// watchedAddresses returns all watched addresses in watch order.
func (l *ledger) watchedAddresses() ([]AddressRecord, error) {
	var records []AddressRecord
	err := l.cfg.Store.Query(&records, &RecordQuery{
		SortBy: []string{"CreatedAt"},
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// spendableUTXOs aggregates the spendable outputs of every watched
// address into a fresh snapshot. Outputs reserved by an in-flight
// pipeline are excluded, as are unconfirmed outputs without an
// InstantSend lock. The returned slice is owned by the caller.
func (l *ledger) spendableUTXOs(ctx context.Context) ([]chain.UTXO, error) {
	addrs, err := l.watchedAddresses()
	if err != nil {
		return nil, err
	}

	var snapshot []chain.UTXO
	for _, addr := range addrs {
		utxos, err := l.cfg.Chain.SpendableUTXOs(ctx, addr.Address)
		if err != nil {
			return nil, err
		}

		for _, utxo := range utxos {
			if utxo.Confirmations == 0 && !utxo.InstantLocked {
				continue
			}

			if l.reservations.isReserved(utxo.OutPoint) {
				continue
			}

			snapshot = append(snapshot, utxo)
		}
	}

	return snapshot, nil
}

// spendableBalance returns the summed value of the spendable snapshot,
// served from the balance cache while it is fresh.
func (l *ledger) spendableBalance(ctx context.Context) (btcutil.Amount,
	error) {

	if item := l.balance.Get(balanceCacheKey); item != nil {
		return item.Value(), nil
	}

	utxos, err := l.spendableUTXOs(ctx)
	if err != nil {
		return 0, err
	}

	total := btcutil.Amount(0)
	for _, utxo := range utxos {
		total += utxo.Value
	}

	l.balance.Set(balanceCacheKey, total, ttlcache.DefaultTTL)

	return total, nil
}

// changeAddress returns the output script of the change destination: the
// designated change address when one exists, otherwise the oldest
// watched address.
func (l *ledger) changeAddress() ([]byte, error) {
	var changeAddrs []AddressRecord
	err := l.cfg.Store.Query(&changeAddrs, &RecordQuery{
		Field:  "Change",
		Equals: true,
		SortBy: []string{"CreatedAt"},
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}

	if len(changeAddrs) == 0 {
		addrs, err := l.watchedAddresses()
		if err != nil {
			return nil, err
		}
		if len(addrs) == 0 {
			return nil, ErrNoChangeAddress
		}

		changeAddrs = addrs[:1]
	}

	return PayToAddrScript(changeAddrs[0].Address, l.cfg.Params)
}

// recordBroadcast persists a broadcasted transaction in the submitted
// state and invalidates the balance cache.
func (l *ledger) recordBroadcast(tx *wire.MsgTx, txid, label string) error {
	var raw bytes.Buffer
	raw.Grow(tx.SerializeSize())
	if err := tx.Serialize(&raw); err != nil {
		return err
	}

	err := l.cfg.Store.Put(txKeyPrefix+txid, &TxRecord{
		TxID:      txid,
		Raw:       raw.Bytes(),
		Label:     label,
		Status:    string(StatusSubmitted),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	l.balance.Delete(balanceCacheKey)

	return nil
}

// updateTxStatus records the terminal confirmation state of a
// transaction. Unknown txids are ignored.
func (l *ledger) updateTxStatus(state *ConfirmationState) {
	var rec TxRecord
	err := l.cfg.Store.Get(txKeyPrefix+state.TxID, &rec)
	if err != nil {
		log.Warnf("Unable to load tx record %v: %v", state.TxID, err)
		return
	}

	rec.Status = string(state.Status)
	rec.BlockHeight = state.BlockHeight

	if err := l.cfg.Store.Put(txKeyPrefix+state.TxID, &rec); err != nil {
		log.Warnf("Unable to update tx record %v: %v", state.TxID, err)
	}
}

// listTransactions returns broadcasted transactions, newest first.
func (l *ledger) listTransactions(limit, offset int) ([]TxRecord, error) {
	var records []TxRecord
	err := l.cfg.Store.Query(&records, &RecordQuery{
		SortBy:  []string{"CreatedAt"},
		Reverse: true,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}
