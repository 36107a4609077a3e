package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/mocks"
	"github.com/guilhermeviannac/credpix/pkg/auth"
	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

type dashboardMocks struct {
	clientRepo *mocks.MockClientRepository
	loanRepo   *mocks.MockLoanRepository
	regionRepo *mocks.MockRegionRepository
	userRepo   *mocks.MockUserRepository
}

// newDashboardService wires a service without redis: cache reads miss and
// cache writes are skipped, so tests always exercise the build path.
func newDashboardService(m *dashboardMocks) *DashboardService {
	return NewDashboardService(m.clientRepo, m.loanRepo, m.regionRepo, m.userRepo, nil, time.Minute, testLogger())
}

func newDashboardMocks() *dashboardMocks {
	return &dashboardMocks{
		clientRepo: new(mocks.MockClientRepository),
		loanRepo:   new(mocks.MockLoanRepository),
		regionRepo: new(mocks.MockRegionRepository),
		userRepo:   new(mocks.MockUserRepository),
	}
}

func adminPrincipal() auth.Principal {
	return auth.Principal{UserID: uuid.New(), Username: "dona.rosa", Role: auth.RoleAdmin}
}

func collectorPrincipal() auth.Principal {
	return auth.Principal{UserID: uuid.New(), Username: "ze.cobrador", Role: auth.RoleCollector}
}

func TestDashboardService_AdminDashboard_ForbiddenForCollectors(t *testing.T) {
	m := newDashboardMocks()
	svc := newDashboardService(m)

	summary, err := svc.AdminDashboard(context.Background(), collectorPrincipal(), domain.DashboardFilter{})

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.clientRepo.AssertNotCalled(t, "ListScoped", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardService_AdminDashboard_Totals(t *testing.T) {
	region := &domain.Region{ID: uuid.New(), Name: "Centro"}
	client := &domain.Client{ID: uuid.New(), Name: "Maria Souza", RegionID: region.ID}

	loan, err := domain.NewLoan(client.ID, domain.LoanTerms{
		Principal:    decimal.RequireFromString("100"),
		InterestRate: decimal.Zero,
		Frequency:    domain.FrequencyDaily,
		IssuedOn:     time.Now().AddDate(0, 0, -30),
	})
	require.NoError(t, err)

	// Four overdue installments of 25: one fully paid, one half paid.
	installments := loan.GenerateInstallments(4)
	installments[0].AmountPaid = installments[0].Amount
	installments[0].Status = domain.InstallmentStatusPaid
	installments[1].AmountPaid = decimal.RequireFromString("12.50")
	installments[1].Status = domain.InstallmentStatusPartiallyPaid

	m := newDashboardMocks()
	m.regionRepo.On("List", mock.Anything).Return([]*domain.Region{region}, nil)
	m.clientRepo.On("ListScoped", mock.Anything, []uuid.UUID{region.ID}, (*uuid.UUID)(nil)).
		Return([]*domain.Client{client}, nil)
	m.loanRepo.On("ListByClient", mock.Anything, client.ID).Return([]*domain.Loan{loan}, nil)
	m.loanRepo.On("GetInstallments", mock.Anything, loan.ID).Return(installments, nil)

	svc := newDashboardService(m)
	summary, err := svc.AdminDashboard(context.Background(), adminPrincipal(), domain.DashboardFilter{})

	require.NoError(t, err)
	assert.True(t, summary.TotalReceived.Equal(decimal.RequireFromString("37.50")),
		"received: got %s", summary.TotalReceived)
	assert.True(t, summary.TotalPending.Equal(decimal.RequireFromString("62.50")),
		"pending: got %s", summary.TotalPending)
	// All unpaid installments are past due on a loan issued 30 days ago.
	assert.True(t, summary.TotalOverdue.Equal(decimal.RequireFromString("62.50")),
		"overdue: got %s", summary.TotalOverdue)

	require.Len(t, summary.Clients, 1)
	cs := summary.Clients[0]
	assert.True(t, cs.TotalDue.Equal(decimal.RequireFromString("100")))
	require.Len(t, cs.Loans, 1)
	assert.True(t, cs.Loans[0].TotalPaid.Equal(decimal.RequireFromString("37.50")))
}

func TestDashboardService_AdminDashboard_RegionFilter(t *testing.T) {
	regionID := uuid.New()

	m := newDashboardMocks()
	m.regionRepo.On("GetByID", mock.Anything, regionID).Return(&domain.Region{ID: regionID}, nil)
	m.clientRepo.On("ListScoped", mock.Anything, []uuid.UUID{regionID}, (*uuid.UUID)(nil)).
		Return([]*domain.Client{}, nil)

	svc := newDashboardService(m)
	summary, err := svc.AdminDashboard(context.Background(), adminPrincipal(), domain.DashboardFilter{RegionID: &regionID})

	require.NoError(t, err)
	assert.Empty(t, summary.Clients)
	// The filtered region is looked up, the full region list is not.
	m.regionRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestDashboardService_CollectorDashboard_ScopedToOwnRegions(t *testing.T) {
	principal := collectorPrincipal()
	region := &domain.Region{ID: uuid.New(), Name: "Zona Norte"}
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	due := []*domain.InstallmentDue{
		{
			Installment: &domain.Installment{
				Amount:     decimal.RequireFromString("50"),
				AmountPaid: decimal.RequireFromString("20"),
				DueOn:      day,
			},
			ClientID:   uuid.New(),
			ClientName: "Maria Souza",
		},
		{
			Installment: &domain.Installment{
				Amount:     decimal.RequireFromString("30"),
				AmountPaid: decimal.Zero,
				DueOn:      day,
			},
			ClientID:   uuid.New(),
			ClientName: "João Lima",
		},
	}

	m := newDashboardMocks()
	m.userRepo.On("GetRegions", mock.Anything, principal.UserID).Return([]*domain.Region{region}, nil)
	m.loanRepo.On("DueOn", mock.Anything, day, []uuid.UUID{region.ID}, (*uuid.UUID)(nil)).Return(due, nil)
	m.clientRepo.On("ListScoped", mock.Anything, []uuid.UUID{region.ID}, (*uuid.UUID)(nil)).
		Return([]*domain.Client{}, nil)

	svc := newDashboardService(m)
	summary, err := svc.CollectorDashboard(context.Background(), principal, day, domain.DashboardFilter{})

	require.NoError(t, err)
	assert.Len(t, summary.DueToday, 2)
	assert.True(t, summary.TotalDueToday.Equal(decimal.RequireFromString("80")))
	assert.True(t, summary.PaidToday.Equal(decimal.RequireFromString("20")))
	assert.True(t, summary.MissedToday.Equal(decimal.RequireFromString("60")))
	assert.True(t, summary.Date.Equal(day))
	m.userRepo.AssertExpectations(t)
}

func TestDashboardService_CollectorDashboard_AdminUsesFilter(t *testing.T) {
	principal := adminPrincipal()
	collectorID := uuid.New()
	region := &domain.Region{ID: uuid.New()}
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	m := newDashboardMocks()
	m.regionRepo.On("List", mock.Anything).Return([]*domain.Region{region}, nil)
	m.loanRepo.On("DueOn", mock.Anything, day, []uuid.UUID{region.ID}, &collectorID).
		Return([]*domain.InstallmentDue{}, nil)
	m.clientRepo.On("ListScoped", mock.Anything, []uuid.UUID{region.ID}, &collectorID).
		Return([]*domain.Client{}, nil)

	svc := newDashboardService(m)
	summary, err := svc.CollectorDashboard(context.Background(), principal, day, domain.DashboardFilter{CollectorID: &collectorID})

	require.NoError(t, err)
	assert.True(t, summary.TotalDueToday.IsZero())
	m.userRepo.AssertNotCalled(t, "GetRegions", mock.Anything, mock.Anything)
}
