package db

import "encoding/json"

// authSlot mirrors the layout the web client keeps in localStorage:
// the bearer token nested under state.
const authSlot = "auth-storage"

type authState struct {
	State struct {
		Token string `json:"token"`
	} `json:"state"`
}

// Token returns the stored bearer credential, or the empty string when
// none has been saved.
func (db *DB) Token() (string, error) {
	payload, ok, err := db.getSlot(authSlot)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	var auth authState
	if err := json.Unmarshal([]byte(payload), &auth); err != nil {
		// Treat a corrupt credential slot like an absent one.
		return "", nil
	}
	return auth.State.Token, nil
}

// SetToken stores the bearer credential. An empty token clears it.
func (db *DB) SetToken(token string) error {
	if token == "" {
		return db.clearSlot(authSlot)
	}

	var auth authState
	auth.State.Token = token
	payload, err := json.Marshal(auth)
	if err != nil {
		return err
	}
	return db.setSlot(authSlot, string(payload))
}
