package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
)

// NormalizeCurrencyCode returns the canonical upper-case form of a currency
// code. Equality across the system is case-insensitive, storage is normalized.
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Wallet holds the balance of a single currency within a portfolio.
// The balance never goes below zero; mutations go through Deposit/Withdraw.
type Wallet struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// NewWallet creates an empty wallet for the given currency code.
func NewWallet(currencyCode string) *Wallet {
	return &Wallet{
		CurrencyCode: NormalizeCurrencyCode(currencyCode),
		Balance:      decimal.Zero,
	}
}

// Deposit credits the wallet. The amount must be positive.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: deposit of %s", apperrors.ErrInvalidAmount, amount.String())
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// Withdraw debits the wallet. The amount must be positive and must not
// exceed the current balance; on rejection the balance is unchanged.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: withdrawal of %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if amount.GreaterThan(w.Balance) {
		return &apperrors.InsufficientFundsError{
			Available:    w.Balance,
			Requested:    amount,
			CurrencyCode: w.CurrencyCode,
		}
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

// Portfolio is the per-user collection of wallets. A USD wallet exists from
// creation; other wallets are created lazily on first credit and are never
// removed. Version supports optimistic concurrency on write.
type Portfolio struct {
	UserID  string             `json:"userID"`
	Wallets map[string]*Wallet `json:"wallets"`
	Version int64              `json:"-"`
	AuditFields
}

// NewPortfolio creates a portfolio holding a single USD wallet seeded with
// the given starting balance.
func NewPortfolio(userID string, startingUSD decimal.Decimal) *Portfolio {
	usd := NewWallet(SettlementCurrency)
	if startingUSD.GreaterThan(decimal.Zero) {
		usd.Balance = startingUSD
	}
	return &Portfolio{
		UserID:  userID,
		Wallets: map[string]*Wallet{SettlementCurrency: usd},
	}
}

// Wallet returns the wallet for the given code, if present.
func (p *Portfolio) Wallet(code string) (*Wallet, bool) {
	w, ok := p.Wallets[NormalizeCurrencyCode(code)]
	return w, ok
}

// EnsureWallet returns the wallet for the given code, creating an empty one
// if it does not exist yet.
func (p *Portfolio) EnsureWallet(code string) *Wallet {
	code = NormalizeCurrencyCode(code)
	if w, ok := p.Wallets[code]; ok {
		return w
	}
	w := NewWallet(code)
	p.Wallets[code] = w
	return w
}

// CurrencyCodes returns the wallet currency codes in sorted order, for
// deterministic iteration.
func (p *Portfolio) CurrencyCodes() []string {
	codes := make([]string, 0, len(p.Wallets))
	for code := range p.Wallets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
