// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentFrequency describes how often a subscription bills.
type PaymentFrequency string

// Payment frequency constants.
const (
	FrequencyWeekly  PaymentFrequency = "weekly"
	FrequencyMonthly PaymentFrequency = "monthly"
	FrequencyYearly  PaymentFrequency = "yearly"
)

// Subscription represents a recurring payment tracked by the backend.
type Subscription struct {
	NextPaymentDate time.Time        `json:"next_payment_date"`
	CreatedAt       time.Time        `json:"created_at"`
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Currency        string           `json:"currency"`
	Frequency       PaymentFrequency `json:"frequency"`
	PaymentType     string           `json:"payment_type"`
	CategoryID      string           `json:"category_id,omitempty"`
	CategoryName    string           `json:"category_name,omitempty"`
	CardID          string           `json:"card_id,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	IsActive        bool             `json:"is_active"`
}

// MonthlyAmount normalizes the subscription cost to a per-month figure.
func (s Subscription) MonthlyAmount() decimal.Decimal {
	switch s.Frequency {
	case FrequencyWeekly:
		// 52 weeks over 12 months
		return s.Amount.Mul(decimal.NewFromInt(52)).Div(decimal.NewFromInt(12)).Round(2)
	case FrequencyYearly:
		return s.Amount.Div(decimal.NewFromInt(12)).Round(2)
	default:
		return s.Amount
	}
}

// PaymentCard represents a stored payment card, displayed as-is.
type PaymentCard struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastFour string `json:"last_four"`
	Network  string `json:"network"`
	Currency string `json:"currency"`
}

// Category represents a spending category owned by the backend.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}
