package entity

import "github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"

type Account struct {
	Owner   string            `json:"owner"`
	Balance valueobject.Asset `json:"balance"`
}

func NewAccount(owner string, balance valueobject.Asset) *Account {
	return &Account{Owner: owner, Balance: balance}
}
