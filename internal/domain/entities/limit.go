package entities

import "github.com/shopspring/decimal"

// LimitState is the normalized daily-limit plus token-bucket state for one
// leg of a transfer. All values are already divided by token decimals.
type LimitState struct {
	Remain          decimal.Decimal `json:"remain"`
	MaxCapacity     decimal.Decimal `json:"maxCapacity"`
	CurrentCapacity decimal.Decimal `json:"currentCapacity"`
	FillRate        decimal.Decimal `json:"fillRate"`
	IsEnable        bool            `json:"isEnable"`
}

// MergedLimit is the effective constraint after min-combining the receipt
// and swap legs. The capacity check flags are carried explicitly because a
// disabled leg suppresses checks rather than blocking the transfer.
type MergedLimit struct {
	Remain               decimal.Decimal `json:"remain"`
	MaxCapacity          decimal.Decimal `json:"maxCapacity"`
	CurrentCapacity      decimal.Decimal `json:"currentCapacity"`
	FillRate             decimal.Decimal `json:"fillRate"`
	CheckMaxCapacity     bool            `json:"checkMaxCapacity"`
	CheckCurrentCapacity bool            `json:"checkCurrentCapacity"`
}
