package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoan(t *testing.T, principal, rate string, freq Frequency, issuedOn time.Time) *Loan {
	t.Helper()
	loan, err := NewLoan(uuid.New(), LoanTerms{
		Principal:    decimal.RequireFromString(principal),
		InterestRate: decimal.RequireFromString(rate),
		Frequency:    freq,
		IssuedOn:     issuedOn,
	})
	require.NoError(t, err)
	return loan
}

// A Monday, so daily schedules have a Sunday inside the first week.
var testIssuedOn = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func TestGenerateInstallments_AmountDistribution(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		count     int
		want      []string
	}{
		{
			name:      "even split",
			principal: "1000",
			rate:      "20",
			count:     3,
			want:      []string{"400", "400", "400"},
		},
		{
			name:      "last absorbs rounding remainder",
			principal: "1000",
			rate:      "15",
			count:     3,
			want:      []string{"383.33", "383.33", "383.34"},
		},
		{
			name:      "zero interest",
			principal: "100",
			rate:      "0",
			count:     3,
			want:      []string{"33.33", "33.33", "33.34"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := newTestLoan(t, tt.principal, tt.rate, FrequencyDaily, testIssuedOn)
			installments := loan.GenerateInstallments(tt.count)

			require.Len(t, installments, tt.count)

			sum := decimal.Zero
			for i, inst := range installments {
				assert.True(t, inst.Amount.Equal(decimal.RequireFromString(tt.want[i])),
					"installment %d: got %s want %s", i+1, inst.Amount, tt.want[i])
				assert.Equal(t, fmt.Sprintf("%d/%d", i+1, tt.count), inst.Label)
				assert.Equal(t, InstallmentStatusPending, inst.Status)
				assert.True(t, inst.AmountPaid.IsZero())
				assert.Equal(t, loan.ID, inst.LoanID)
				sum = sum.Add(inst.Amount)
			}

			assert.True(t, sum.Equal(loan.Total), "schedule sums to %s, loan total is %s", sum, loan.Total)
		})
	}
}

func TestGenerateInstallments_DailySkipsSundays(t *testing.T) {
	// Issued Friday 2024-07-05; the next Sunday is 2024-07-07.
	loan := newTestLoan(t, "700", "0", FrequencyDaily, time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC))
	installments := loan.GenerateInstallments(7)

	wantDays := []int{6, 8, 9, 10, 11, 12, 13}
	require.Len(t, installments, len(wantDays))
	for i, inst := range installments {
		assert.Equal(t, wantDays[i], inst.DueOn.Day(), "installment %d", i+1)
		assert.NotEqual(t, time.Sunday, inst.DueOn.Weekday())
	}
}

func TestGenerateInstallments_DailyDefaultCount(t *testing.T) {
	loan := newTestLoan(t, "2000", "10", FrequencyDaily, testIssuedOn)

	assert.Len(t, loan.GenerateInstallments(0), DefaultDailyInstallments)
	assert.Len(t, loan.GenerateInstallments(-3), DefaultDailyInstallments)
	assert.Len(t, loan.GenerateInstallments(12), 12)
}

func TestGenerateInstallments_WeeklyFixedCount(t *testing.T) {
	loan := newTestLoan(t, "1000", "20", FrequencyWeekly, testIssuedOn)

	// A weekly loan is always four installments, whatever the caller asks.
	installments := loan.GenerateInstallments(10)
	require.Len(t, installments, WeeklyInstallments)

	for i, inst := range installments {
		want := testIssuedOn.AddDate(0, 0, 7*(i+1))
		assert.True(t, inst.DueOn.Equal(want), "installment %d: got %s want %s", i+1, inst.DueOn, want)
		assert.True(t, inst.Amount.Equal(decimal.RequireFromString("300")))
	}
}

func TestGenerateInstallments_WeeklySundayBumped(t *testing.T) {
	// Issued Sunday 2024-06-30: every week boundary lands on a Sunday and
	// must be pushed to the Monday after.
	issued := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, "400", "0", FrequencyWeekly, issued)

	for i, inst := range loan.GenerateInstallments(0) {
		want := issued.AddDate(0, 0, 7*(i+1)+1)
		assert.True(t, inst.DueOn.Equal(want), "installment %d: got %s want %s", i+1, inst.DueOn, want)
		assert.Equal(t, time.Monday, inst.DueOn.Weekday())
	}
}

func TestGenerateInstallments_MonthlySingleInstallment(t *testing.T) {
	loan := newTestLoan(t, "1000", "20", FrequencyMonthly, testIssuedOn)

	installments := loan.GenerateInstallments(5)
	require.Len(t, installments, MonthlyInstallments)

	inst := installments[0]
	assert.True(t, inst.Amount.Equal(loan.Total))
	assert.True(t, inst.DueOn.Equal(testIssuedOn.AddDate(0, 0, 30)))
	assert.Equal(t, "1/1", inst.Label)
}

func TestGenerateInstallments_SumInvariantAcrossTotals(t *testing.T) {
	principals := []string{"1000", "997.31", "1234.56", "0.03", "150000"}
	rates := []string{"0", "15", "20", "33.3"}

	for _, p := range principals {
		for _, r := range rates {
			loan := newTestLoan(t, p, r, FrequencyDaily, testIssuedOn)
			sum := decimal.Zero
			for _, inst := range loan.GenerateInstallments(7) {
				sum = sum.Add(inst.Amount)
			}
			assert.True(t, sum.Equal(loan.Total),
				"principal=%s rate=%s: schedule sums to %s, loan total is %s", p, r, sum, loan.Total)
		}
	}
}
