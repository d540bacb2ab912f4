package sqlite

import (
	"database/sql"

	"github.com/guilherme-santos/calmeetings/internal"
)

type Account struct {
	ID         string
	Platform   string
	Name       string
	Auth       string
	LastFetch  sql.NullTime `db:"last_fetch"`
	LastStatus string       `db:"last_status"`
}

func (a Account) Convert() *internal.Account {
	acc := &internal.Account{
		Platform:   internal.ProviderKey(a.Platform),
		Name:       a.Name,
		Auth:       a.Auth,
		LastStatus: a.LastStatus,
	}
	if a.LastFetch.Valid {
		acc.LastFetch = a.LastFetch.Time
	}
	return acc
}
