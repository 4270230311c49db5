package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	CREDIT_TX_PURCHASE = "purchase"
	CREDIT_TX_BONUS    = "bonus"
	CREDIT_TX_CONSUME  = "consume"
	CREDIT_TX_REFUND   = "refund"
)

// CreditTransaction is an immutable ledger entry. Amount is signed; the
// balance is always the running sum, never stored on its own.
type CreditTransaction struct {
	bun.BaseModel `bun:"table:credit_transaction"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	Type          string    `bun:"type" json:"type"`
	Amount        int       `bun:"amount" json:"amount"`
	BalanceAfter  int       `bun:"balance_after" json:"balance_after"`
	Description   string    `bun:"description" json:"description"`
	RelatedID     string    `bun:"related_id" json:"related_id,omitempty"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type TotalCredits struct {
	UserID string `json:"user_id"`
	Total  int    `json:"total"`
}

type CreditPackage struct {
	bun.BaseModel `bun:"table:credit_package"`
	ID            int64   `bun:"id,pk,autoincrement" json:"id"`
	Name          string  `bun:"name" json:"name"`
	Credits       int     `bun:"credits" json:"credits"`
	Price         float64 `bun:"price" json:"price"`
	Discount      int     `bun:"discount,default:0" json:"discount"`
	Popular       bool    `bun:"popular,default:false" json:"popular"`
	Active        bool    `bun:"active,default:true" json:"active"`
}

var DefaultCreditPackages = []CreditPackage{
	{Name: "Starter", Credits: 100, Price: 2},
	{Name: "Popular", Credits: 500, Price: 9, Discount: 10, Popular: true},
	{Name: "Pro", Credits: 1000, Price: 16, Discount: 20},
	{Name: "Enterprise", Credits: 5000, Price: 70, Discount: 30},
}
