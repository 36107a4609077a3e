package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/repository"
	"github.com/guilhermeviannac/credpix/pkg/auth"
	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

// DashboardService builds the role-scoped dashboards. Admins see the
// whole portfolio (optionally narrowed to a region or collector);
// collectors see only the regions assigned to them. Summaries are cached
// in redis with a short TTL since they join the full loan tree.
type DashboardService struct {
	clientRepo repository.ClientRepository
	loanRepo   repository.LoanRepository
	regionRepo repository.RegionRepository
	userRepo   repository.UserRepository
	redis      *redis.Client
	cacheTTL   time.Duration
	logger     *slog.Logger
}

func NewDashboardService(
	clientRepo repository.ClientRepository,
	loanRepo repository.LoanRepository,
	regionRepo repository.RegionRepository,
	userRepo repository.UserRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		clientRepo: clientRepo,
		loanRepo:   loanRepo,
		regionRepo: regionRepo,
		userRepo:   userRepo,
		redis:      redisClient,
		cacheTTL:   cacheTTL,
		logger:     logger.With("component", "DashboardService"),
	}
}

// AdminDashboard returns portfolio totals and per-client breakdowns for
// the admin view. Only admins may call it.
func (s *DashboardService) AdminDashboard(ctx context.Context, principal auth.Principal, filter domain.DashboardFilter) (*domain.AdminSummary, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.WrapForbidden("admin dashboard requires the admin role")
	}

	today := truncateToDay(time.Now())

	cacheKey := adminCacheKey(filter, today)
	if cached, ok := s.cachedAdminSummary(ctx, cacheKey); ok {
		return cached, nil
	}

	regionIDs, err := s.adminRegionScope(ctx, filter)
	if err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.ListScoped(ctx, regionIDs, filter.CollectorID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	summaries, err := s.buildClientSummaries(ctx, clients, today)
	if err != nil {
		return nil, err
	}

	summary := &domain.AdminSummary{
		TotalReceived: decimal.Zero,
		TotalPending:  decimal.Zero,
		TotalOverdue:  decimal.Zero,
		Clients:       summaries,
	}
	for _, cs := range summaries {
		summary.TotalReceived = summary.TotalReceived.Add(cs.TotalReceived)
		summary.TotalPending = summary.TotalPending.Add(cs.TotalPending)
		summary.TotalOverdue = summary.TotalOverdue.Add(cs.TotalOverdue)
	}

	s.cacheSummary(ctx, cacheKey, summary)

	return summary, nil
}

// CollectorDashboard returns the day's collection route and per-client
// totals for the caller's regions. Admins may pass a region or collector
// filter; collectors are always scoped to their own assignments.
func (s *DashboardService) CollectorDashboard(ctx context.Context, principal auth.Principal, day time.Time, filter domain.DashboardFilter) (*domain.CollectorSummary, error) {
	if day.IsZero() {
		day = time.Now()
	}
	day = truncateToDay(day)

	var (
		regionIDs   []uuid.UUID
		collectorID *uuid.UUID
		err         error
	)

	if principal.IsAdmin() {
		regionIDs, err = s.adminRegionScope(ctx, filter)
		collectorID = filter.CollectorID
	} else {
		regionIDs, err = s.collectorRegionScope(ctx, principal.UserID)
	}
	if err != nil {
		return nil, err
	}

	dueToday, err := s.loanRepo.DueOn(ctx, day, regionIDs, collectorID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	totalDue := decimal.Zero
	paidToday := decimal.Zero
	for _, due := range dueToday {
		totalDue = totalDue.Add(due.Installment.Amount)
		paidToday = paidToday.Add(due.Installment.AmountPaid)
	}

	clients, err := s.clientRepo.ListScoped(ctx, regionIDs, collectorID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	summaries, err := s.buildClientSummaries(ctx, clients, day)
	if err != nil {
		return nil, err
	}

	return &domain.CollectorSummary{
		Date:          day,
		DueToday:      dueToday,
		TotalDueToday: totalDue,
		PaidToday:     paidToday,
		MissedToday:   totalDue.Sub(paidToday),
		Clients:       summaries,
	}, nil
}

// SnapshotDailyCollections precomputes each region's due-today totals
// into redis. Run by the scheduler before collectors start their routes.
func (s *DashboardService) SnapshotDailyCollections(ctx context.Context, day time.Time) error {
	day = truncateToDay(day)

	regions, err := s.regionRepo.List(ctx)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	for _, region := range regions {
		due, err := s.loanRepo.DueOn(ctx, day, []uuid.UUID{region.ID}, nil)
		if err != nil {
			return apperrors.WrapDatabaseError(err)
		}

		total := decimal.Zero
		unpaid := 0
		for _, d := range due {
			total = total.Add(d.Installment.Amount)
			if d.Installment.Status != domain.InstallmentStatusPaid {
				unpaid++
			}
		}

		snapshot := struct {
			RegionID     uuid.UUID       `json:"region_id"`
			Date         string          `json:"date"`
			Installments int             `json:"installments"`
			Unpaid       int             `json:"unpaid"`
			TotalDue     decimal.Decimal `json:"total_due"`
		}{
			RegionID:     region.ID,
			Date:         day.Format("2006-01-02"),
			Installments: len(due),
			Unpaid:       unpaid,
			TotalDue:     total,
		}

		payload, err := json.Marshal(snapshot)
		if err != nil {
			return err
		}

		key := fmt.Sprintf("snapshot:%s:%s", snapshot.Date, region.ID)
		if err := s.redis.Set(ctx, key, payload, 48*time.Hour).Err(); err != nil {
			s.logger.Warn("snapshot cache write failed", "region_id", region.ID, "error", err)
		}

		s.logger.Info("daily collection snapshot",
			"region", region.Name,
			"date", snapshot.Date,
			"installments", snapshot.Installments,
			"unpaid", snapshot.Unpaid,
			"total_due", total,
		)
	}

	return nil
}

// buildClientSummaries walks each client's loans and rolls installment
// figures into the typed per-client dashboard rows.
func (s *DashboardService) buildClientSummaries(ctx context.Context, clients []*domain.Client, asOf time.Time) ([]domain.ClientSummary, error) {
	summaries := make([]domain.ClientSummary, 0, len(clients))

	for _, client := range clients {
		loans, err := s.loanRepo.ListByClient(ctx, client.ID)
		if err != nil {
			return nil, apperrors.WrapDatabaseError(err)
		}

		cs := domain.ClientSummary{
			Client:        client,
			Loans:         make([]domain.LoanSummary, 0, len(loans)),
			TotalDue:      decimal.Zero,
			TotalReceived: decimal.Zero,
			TotalPending:  decimal.Zero,
			TotalOverdue:  decimal.Zero,
		}

		for _, loan := range loans {
			installments, err := s.loanRepo.GetInstallments(ctx, loan.ID)
			if err != nil {
				return nil, apperrors.WrapDatabaseError(err)
			}

			ls := domain.LoanSummary{
				Loan:         loan,
				TotalPaid:    decimal.Zero,
				TotalPending: decimal.Zero,
			}

			for _, inst := range installments {
				cs.TotalDue = cs.TotalDue.Add(inst.Amount)
				cs.TotalReceived = cs.TotalReceived.Add(inst.AmountPaid)
				ls.TotalPaid = ls.TotalPaid.Add(inst.AmountPaid)

				if inst.Status != domain.InstallmentStatusPaid {
					remaining := inst.Remaining()
					cs.TotalPending = cs.TotalPending.Add(remaining)
					ls.TotalPending = ls.TotalPending.Add(remaining)

					if inst.DueOn.Before(asOf) {
						cs.TotalOverdue = cs.TotalOverdue.Add(remaining)
					}
				}
			}

			cs.Loans = append(cs.Loans, ls)
		}

		summaries = append(summaries, cs)
	}

	return summaries, nil
}

// adminRegionScope resolves the region set an admin request covers:
// the explicit filter region, or every region.
func (s *DashboardService) adminRegionScope(ctx context.Context, filter domain.DashboardFilter) ([]uuid.UUID, error) {
	if filter.RegionID != nil {
		if _, err := s.regionRepo.GetByID(ctx, *filter.RegionID); err != nil {
			return nil, err
		}
		return []uuid.UUID{*filter.RegionID}, nil
	}

	regions, err := s.regionRepo.List(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	ids := make([]uuid.UUID, 0, len(regions))
	for _, region := range regions {
		ids = append(ids, region.ID)
	}
	return ids, nil
}

func (s *DashboardService) collectorRegionScope(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	regions, err := s.userRepo.GetRegions(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	ids := make([]uuid.UUID, 0, len(regions))
	for _, region := range regions {
		ids = append(ids, region.ID)
	}
	return ids, nil
}

func (s *DashboardService) cachedAdminSummary(ctx context.Context, key string) (*domain.AdminSummary, bool) {
	if s.redis == nil {
		return nil, false
	}

	payload, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var summary domain.AdminSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false
	}

	return &summary, true
}

func (s *DashboardService) cacheSummary(ctx context.Context, key string, summary *domain.AdminSummary) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", "key", key, "error", err)
	}
}

func adminCacheKey(filter domain.DashboardFilter, day time.Time) string {
	region := "all"
	if filter.RegionID != nil {
		region = filter.RegionID.String()
	}
	collector := "all"
	if filter.CollectorID != nil {
		collector = filter.CollectorID.String()
	}
	return fmt.Sprintf("dashboard:admin:%s:%s:%s", region, collector, day.Format("2006-01-02"))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
