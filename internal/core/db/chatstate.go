package db

import (
	"encoding/json"

	"github.com/charmbracelet/log"

	"hondachat/internal/core/store"
)

// chatStateSlot is the named slot holding the persisted chat state.
const chatStateSlot = "chat-storage"

// SaveState mirrors the store's persisted projection to the chat slot.
// Implements store.Persister.
func (db *DB) SaveState(state store.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return db.setSlot(chatStateSlot, string(payload))
}

// LoadState rehydrates the chat state written by SaveState. A missing
// slot yields the empty initial state. A corrupt payload is discarded
// and also yields the empty state; startup must not fail because a
// previous run wrote garbage.
func (db *DB) LoadState() (store.State, error) {
	payload, ok, err := db.getSlot(chatStateSlot)
	if err != nil {
		return store.State{}, err
	}
	if !ok {
		return store.State{}, nil
	}

	var state store.State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		log.Warn("discarding corrupt chat state", "error", err)
		if err := db.clearSlot(chatStateSlot); err != nil {
			return store.State{}, err
		}
		return store.State{}, nil
	}
	return state, nil
}
