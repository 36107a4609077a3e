package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/repository"
	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

// DirectoryService manages the lookup entities around loans: clients,
// regions, and the collector assignments that scope dashboards.
type DirectoryService struct {
	clientRepo repository.ClientRepository
	regionRepo repository.RegionRepository
	userRepo   repository.UserRepository
	logger     *slog.Logger
}

func NewDirectoryService(
	clientRepo repository.ClientRepository,
	regionRepo repository.RegionRepository,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) *DirectoryService {
	return &DirectoryService{
		clientRepo: clientRepo,
		regionRepo: regionRepo,
		userRepo:   userRepo,
		logger:     logger.With("component", "DirectoryService"),
	}
}

// RegisterClient adds a client to a region with a collector assignment.
func (s *DirectoryService) RegisterClient(ctx context.Context, request *domain.CreateClientRequest) (*domain.Client, error) {
	if _, err := s.regionRepo.GetByID(ctx, request.RegionID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, request.CollectorID); err != nil {
		return nil, err
	}

	client := &domain.Client{
		ID:          uuid.New(),
		Name:        request.Name,
		Phone:       request.Phone,
		Address:     request.Address,
		RegionID:    request.RegionID,
		CollectorID: request.CollectorID,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("client registered", "client_id", client.ID, "region_id", client.RegionID)
	return client, nil
}

// UpdateClient edits a client's contact details.
func (s *DirectoryService) UpdateClient(ctx context.Context, id uuid.UUID, request *domain.UpdateClientRequest) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Name = request.Name
	client.Phone = request.Phone
	client.Address = request.Address

	if err = s.clientRepo.Update(ctx, client); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return client, nil
}

// ListClients returns every registered client ordered by name.
func (s *DirectoryService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return clients, nil
}

// DeleteClient removes a client and every loan, installment and payment
// under them, children before parents.
func (s *DirectoryService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.clientRepo.DeleteTree(ctx, id); err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("client deleted with loan tree", "client_id", id)
	return nil
}

// RegisterRegion creates a region and assigns collectors to it. IDs that
// do not belong to collector users are skipped.
func (s *DirectoryService) RegisterRegion(ctx context.Context, request *domain.CreateRegionRequest) (*domain.Region, error) {
	collectorIDs := make([]uuid.UUID, 0, len(request.CollectorIDs))
	for _, id := range request.CollectorIDs {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user.Role != domain.UserRoleCollector {
			continue
		}
		collectorIDs = append(collectorIDs, id)
	}

	region := &domain.Region{
		ID:   uuid.New(),
		Name: request.Name,
	}

	if err := s.regionRepo.CreateWithCollectors(ctx, region, collectorIDs); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("region registered", "region_id", region.ID, "collectors", len(collectorIDs))
	return region, nil
}

// ListRegions returns every region with its assigned collectors.
func (s *DirectoryService) ListRegions(ctx context.Context) ([]*domain.RegionDetail, error) {
	regions, err := s.regionRepo.List(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	details := make([]*domain.RegionDetail, 0, len(regions))
	for _, region := range regions {
		collectors, err := s.regionRepo.ListCollectors(ctx, region.ID)
		if err != nil {
			return nil, apperrors.WrapDatabaseError(err)
		}
		details = append(details, &domain.RegionDetail{
			Region:     *region,
			Collectors: collectors,
		})
	}

	return details, nil
}

// DeleteRegion removes a region and the full ownership tree beneath it:
// clients, their loans, installments and payments.
func (s *DirectoryService) DeleteRegion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.regionRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.regionRepo.DeleteTree(ctx, id); err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("region deleted with client tree", "region_id", id)
	return nil
}
