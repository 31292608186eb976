// Package auth is the boundary to the external identity provider. The
// provider itself lives outside this program; all we hold is the bearer
// credential it yielded, stored locally, plus an env escape hatch.
package auth

import (
	"os"

	"hondachat/internal/core/db"
)

// TokenSource yields the bearer credential for authenticated backend
// requests. An empty token with a nil error means "not signed in";
// message sends then go out anonymous and the history sync is skipped.
type TokenSource interface {
	Token() (string, error)
}

// Static is a fixed token, for tests and one-off invocations.
type Static string

func (s Static) Token() (string, error) { return string(s), nil }

type dbSource struct {
	database *db.DB
}

// NewSource returns the standard token source: HONDACHAT_TOKEN when
// set, otherwise the credential stored in the local database.
func NewSource(database *db.DB) TokenSource {
	return &dbSource{database: database}
}

func (s *dbSource) Token() (string, error) {
	if token := os.Getenv("HONDACHAT_TOKEN"); token != "" {
		return token, nil
	}
	return s.database.Token()
}
