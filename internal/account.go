package internal

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

type Account struct {
	Platform   ProviderKey
	Name       string
	Auth       string
	LastFetch  time.Time
	LastStatus string
}

func (a Account) ID() string {
	return a.Platform.String() + "/" + a.Name
}

func (a Account) String() string {
	return a.ID()
}

// NewAuth encodes an access token the way accounts store it.
func NewAuth(accessToken string) (string, error) {
	v, err := json.Marshal(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// AccessToken returns the bearer token stored in the account.
func (a Account) AccessToken() (string, error) {
	var tok oauth2.Token
	if err := json.Unmarshal([]byte(a.Auth), &tok); err != nil {
		return "", fmt.Errorf("account %s: decoding auth: %w", a, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("account %s: empty access token", a)
	}
	return tok.AccessToken, nil
}
