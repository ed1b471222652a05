// Package allocation answers which tables can seat a party in a window and picks one.
package allocation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/repository"
)

// FindAvailable returns the restaurant's tables with capacity >= minCapacity, not under
// maintenance, that no live reservation claims for an overlapping window. A reservation
// whose ID equals exclude is ignored, so a reservation never conflicts with itself.
//
// Any repository failure is returned as an error; an empty result always means
// "nothing free", never "could not tell".
func FindAvailable(
	ctx context.Context,
	repos repository.Repos,
	restaurantID uuid.UUID,
	window domain.TimeWindow,
	minCapacity int,
	exclude uuid.UUID,
) ([]domain.Table, error) {
	const op = "allocation.FindAvailable"

	candidates, err := repos.Tables.ListByRestaurant(ctx, restaurantID, minCapacity)
	if err != nil {
		return nil, fmt.Errorf("%s: list tables: %w", op, err)
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, t := range candidates {
		ids = append(ids, t.ID)
	}

	claims, err := repos.Reservations.Find(ctx, repository.ReservationFilter{
		TableIDs:    ids,
		Statuses:    domain.LiveStatuses,
		Overlapping: &window,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: find claims: %w", op, err)
	}

	blocked := make(map[uuid.UUID]struct{}, len(claims))
	for _, c := range claims {
		if c.ID == exclude || c.TableID == nil {
			continue
		}
		if !c.Status.Live() || !c.Window.Overlaps(window) {
			continue
		}
		blocked[*c.TableID] = struct{}{}
	}

	free := make([]domain.Table, 0, len(candidates))
	for _, t := range candidates {
		if t.RestaurantID != restaurantID || t.Status == domain.TableMaintenance || t.Capacity < minCapacity {
			continue
		}
		if _, ok := blocked[t.ID]; ok {
			continue
		}
		free = append(free, t)
	}

	return free, nil
}
