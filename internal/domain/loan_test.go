package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

func TestNewLoan_Pricing(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		wantTotal string
	}{
		{name: "twenty percent", principal: "1000", rate: "20", wantTotal: "1200"},
		{name: "fifteen percent", principal: "1000", rate: "15", wantTotal: "1150"},
		{name: "zero interest", principal: "500", rate: "0", wantTotal: "500"},
		{name: "rounds to cent", principal: "333.33", rate: "10", wantTotal: "366.66"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan, err := NewLoan(uuid.New(), LoanTerms{
				Principal:    decimal.RequireFromString(tt.principal),
				InterestRate: decimal.RequireFromString(tt.rate),
				Frequency:    FrequencyDaily,
				IssuedOn:     testIssuedOn,
			})
			require.NoError(t, err)

			assert.True(t, loan.Total.Equal(decimal.RequireFromString(tt.wantTotal)),
				"total: got %s want %s", loan.Total, tt.wantTotal)
			assert.Equal(t, LoanStatusOpen, loan.Status)
			assert.True(t, loan.TotalPaid.IsZero())
			assert.True(t, loan.IssuedOn.Equal(testIssuedOn))
		})
	}
}

func TestNewLoan_DefaultsIssuedOnToToday(t *testing.T) {
	loan, err := NewLoan(uuid.New(), LoanTerms{
		Principal:    decimal.RequireFromString("100"),
		InterestRate: decimal.Zero,
		Frequency:    FrequencyDaily,
	})
	require.NoError(t, err)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	assert.True(t, loan.IssuedOn.Equal(today))
}

func TestNewLoan_InvalidTerms(t *testing.T) {
	tests := []struct {
		name  string
		terms LoanTerms
	}{
		{
			name: "zero principal",
			terms: LoanTerms{
				Principal: decimal.Zero,
				Frequency: FrequencyDaily,
			},
		},
		{
			name: "negative principal",
			terms: LoanTerms{
				Principal: decimal.RequireFromString("-10"),
				Frequency: FrequencyDaily,
			},
		},
		{
			name: "negative interest rate",
			terms: LoanTerms{
				Principal:    decimal.RequireFromString("100"),
				InterestRate: decimal.RequireFromString("-1"),
				Frequency:    FrequencyDaily,
			},
		},
		{
			name: "unknown frequency",
			terms: LoanTerms{
				Principal: decimal.RequireFromString("100"),
				Frequency: Frequency("fortnightly"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan, err := NewLoan(uuid.New(), tt.terms)
			assert.Nil(t, loan)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTerms)
		})
	}
}

func TestReprice(t *testing.T) {
	loan := newTestLoan(t, "1000", "20", FrequencyDaily, testIssuedOn)

	err := loan.Reprice(LoanTerms{
		Principal:    decimal.RequireFromString("2000"),
		InterestRate: decimal.RequireFromString("10"),
		Frequency:    FrequencyWeekly,
	})
	require.NoError(t, err)

	assert.True(t, loan.Total.Equal(decimal.RequireFromString("2200")))
	assert.Equal(t, FrequencyWeekly, loan.Frequency)
	// Zero IssuedOn in the new terms keeps the original date.
	assert.True(t, loan.IssuedOn.Equal(testIssuedOn))
}

func TestRefreshAggregates(t *testing.T) {
	loan := newTestLoan(t, "100", "0", FrequencyDaily, testIssuedOn)
	installments := loan.GenerateInstallments(4)

	installments[0].AmountPaid = decimal.RequireFromString("25")
	installments[1].AmountPaid = decimal.RequireFromString("10")

	loan.RefreshAggregates(installments)
	assert.True(t, loan.TotalPaid.Equal(decimal.RequireFromString("35")))
	assert.Equal(t, LoanStatusOpen, loan.Status)
	assert.True(t, loan.Outstanding().Equal(decimal.RequireFromString("65")))

	for _, inst := range installments {
		inst.AmountPaid = inst.Amount
	}

	loan.RefreshAggregates(installments)
	assert.True(t, loan.TotalPaid.Equal(loan.Total))
	assert.Equal(t, LoanStatusSettled, loan.Status)
	assert.True(t, loan.Outstanding().IsZero())
}
