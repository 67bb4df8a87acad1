package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDetectedCandidate_ConfidenceBand(t *testing.T) {
	tests := []struct {
		name       string
		want       ConfidenceBand
		confidence float64
	}{
		{name: "certain", confidence: 1.0, want: ConfidenceHigh},
		{name: "at high threshold", confidence: 0.8, want: ConfidenceHigh},
		{name: "just below high", confidence: 0.79, want: ConfidenceMedium},
		{name: "at medium threshold", confidence: 0.5, want: ConfidenceMedium},
		{name: "just below medium", confidence: 0.49, want: ConfidenceLow},
		{name: "zero", confidence: 0, want: ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DetectedCandidate{Confidence: tt.confidence}
			assert.Equal(t, tt.want, c.ConfidenceBand())
		})
	}
}

func TestDetectedCandidate_IsDuplicate(t *testing.T) {
	assert.True(t, DetectedCandidate{Status: CandidateDuplicate}.IsDuplicate())
	assert.False(t, DetectedCandidate{Status: CandidateNew}.IsDuplicate())
}

func TestSubscription_MonthlyAmount(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		want      string
		frequency PaymentFrequency
	}{
		{name: "monthly passes through", amount: "9.99", frequency: FrequencyMonthly, want: "9.99"},
		{name: "yearly divided by twelve", amount: "120.00", frequency: FrequencyYearly, want: "10"},
		{name: "weekly scaled to month", amount: "3.00", frequency: FrequencyWeekly, want: "13"},
		{name: "unknown frequency treated as monthly", amount: "5.00", frequency: "", want: "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Subscription{
				Amount:    decimal.RequireFromString(tt.amount),
				Frequency: tt.frequency,
			}
			assert.True(t, s.MonthlyAmount().Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", s.MonthlyAmount(), tt.want)
		})
	}
}
