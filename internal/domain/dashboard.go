package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Typed dashboard view models. Every query result has a named shape; no
// untyped key-value maps cross the service boundary.

// DashboardFilter narrows a dashboard to a region and/or collector.
// Nil fields mean no filtering on that axis.
type DashboardFilter struct {
	RegionID    *uuid.UUID
	CollectorID *uuid.UUID
}

// LoanSummary is the per-loan slice of a dashboard row.
type LoanSummary struct {
	Loan         *Loan           `json:"loan"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"`
}

// ClientSummary aggregates one client's loans for dashboard display.
type ClientSummary struct {
	Client        *Client         `json:"client"`
	Loans         []LoanSummary   `json:"loans"`
	TotalDue      decimal.Decimal `json:"total_due"`
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalPending  decimal.Decimal `json:"total_pending"`
	TotalOverdue  decimal.Decimal `json:"total_overdue"`
}

// AdminSummary is the admin dashboard: portfolio-wide totals plus the
// per-client breakdown within the selected scope.
type AdminSummary struct {
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalPending  decimal.Decimal `json:"total_pending"`
	TotalOverdue  decimal.Decimal `json:"total_overdue"`
	Clients       []ClientSummary `json:"clients"`
}

// InstallmentDue is one installment on a collector's route for the day.
type InstallmentDue struct {
	Installment *Installment `json:"installment"`
	ClientID    uuid.UUID    `json:"client_id"`
	ClientName  string       `json:"client_name"`
}

// CollectorSummary is the collector dashboard for one reference date.
type CollectorSummary struct {
	Date          time.Time         `json:"date"`
	DueToday      []*InstallmentDue `json:"due_today"`
	TotalDueToday decimal.Decimal   `json:"total_due_today"`
	PaidToday     decimal.Decimal   `json:"paid_today"`
	MissedToday   decimal.Decimal   `json:"missed_today"`
	Clients       []ClientSummary   `json:"clients"`
}
