package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trip-share/backend/internal/domain"
	"github.com/pkordes/trip-share/backend/internal/repo"
)

// ExportService assembles a trip owner's passenger manifest.
type ExportService struct {
	repos repo.Repos
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(repos repo.Repos) *ExportService {
	return &ExportService{repos: repos}
}

// Export returns one ExportRow per passenger across all trips owned by ownerID,
// in trip date order. Trips with no passengers contribute one row with empty
// passenger fields.
func (s *ExportService) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	trips, err := s.repos.Trips.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	passengers, err := s.repos.Bookings.ListPassengersByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	byTrip := make(map[uuid.UUID][]domain.Passenger, len(trips))
	for _, p := range passengers {
		byTrip[p.TripID] = append(byTrip[p.TripID], p)
	}

	rows := make([]domain.ExportRow, 0, len(trips)+len(passengers))
	for _, t := range trips {
		base := domain.ExportRow{
			TripID:         t.ID.String(),
			StartLocation:  t.StartLocation,
			EndLocation:    t.EndLocation,
			TripDate:       t.Date.Format("2006-01-02"),
			AvailableSeats: t.AvailableSeats,
		}
		ps := byTrip[t.ID]
		if len(ps) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, p := range ps {
			row := base
			row.PassengerUsername = p.Username
			row.PassengerName = p.Name
			row.PassengerEmail = p.Email
			bookedAt := p.BookedAt
			row.BookedAt = &bookedAt
			rows = append(rows, row)
		}
	}
	return rows, nil
}
