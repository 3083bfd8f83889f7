// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/wire"
	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// reservationManager tracks outputs tentatively reserved by in-flight
// payment pipelines. A reservation is taken after coin selection and
// released either when the broadcast succeeds or when the pipeline
// aborts, so concurrently constructed transactions can never select the
// same output.
type reservationManager struct {
	mu sync.Mutex

	// reserved is the set of all currently reserved outpoints.
	reserved fn.Set[wire.OutPoint]

	// byID maps a reservation id to the outpoints it holds.
	byID map[uuid.UUID][]wire.OutPoint
}

// newReservationManager creates an empty reservation manager.
func newReservationManager() *reservationManager {
	return &reservationManager{
		reserved: fn.NewSet[wire.OutPoint](),
		byID:     make(map[uuid.UUID][]wire.OutPoint),
	}
}

// reserve atomically reserves all given outpoints and returns the
// reservation id. If any outpoint is already held by another
// reservation, nothing is reserved and ErrOutputReserved is returned.
func (m *reservationManager) reserve(
	outpoints []wire.OutPoint) (uuid.UUID, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range outpoints {
		if m.reserved.Contains(op) {
			return uuid.Nil, fmt.Errorf("%w: %v",
				ErrOutputReserved, op)
		}
	}

	id := uuid.New()
	held := make([]wire.OutPoint, len(outpoints))
	copy(held, outpoints)

	for _, op := range held {
		m.reserved.Add(op)
	}
	m.byID[id] = held

	log.Debugf("Reserved %d outputs under reservation %v", len(held), id)

	return id, nil
}

// release frees all outpoints held by the given reservation. Releasing
// an unknown id is a no-op.
func (m *reservationManager) release(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	held, ok := m.byID[id]
	if !ok {
		return
	}

	for _, op := range held {
		m.reserved.Remove(op)
	}
	delete(m.byID, id)

	log.Debugf("Released reservation %v (%d outputs)", id, len(held))
}

// isReserved reports whether the outpoint is held by any reservation.
func (m *reservationManager) isReserved(op wire.OutPoint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.reserved.Contains(op)
}
