package httpgin

import (
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/tablebook/internal/domain"
)

type CreateReservationRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
	CustomerID   uuid.UUID `json:"customer_id" binding:"required"`
	Start        time.Time `json:"start" binding:"required"`
	// End wins over DurationMin when both are given.
	End                 *time.Time                  `json:"end"`
	DurationMin         int                         `json:"duration_minutes" binding:"gte=0,lte=1440"`
	Adults              int                         `json:"adults" binding:"required,gte=1,lte=12"`
	Children            int                         `json:"children" binding:"gte=0,lte=11"`
	SpecialRequirements []domain.SpecialRequirement `json:"special_requirements" binding:"max=5,dive,oneof=high_chair wheelchair_access quiet_zone birthday anniversary"`
	Source              domain.Source               `json:"source"`
	Notes               NotesRequest                `json:"notes"`
}

type NotesRequest struct {
	Customer string `json:"customer" binding:"max=1000"`
	Staff    string `json:"staff" binding:"max=1000"`
	Kitchen  string `json:"kitchen" binding:"max=1000"`
}

type RescheduleRequest struct {
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	DurationMin int        `json:"duration_minutes" binding:"gte=0,lte=1440"`
	TableID     *uuid.UUID `json:"table_id"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type CreateTableRequest struct {
	Number   int         `json:"number" binding:"required,gt=0"`
	Capacity int         `json:"capacity" binding:"required,gte=1,lte=12"`
	Zone     domain.Zone `json:"zone"`
}

type MaintenanceRequest struct {
	// pointer so that an explicit false is distinguishable from a missing field
	Enabled *bool `json:"enabled" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type AvailableTablesResponse struct {
	RestaurantID uuid.UUID         `json:"restaurant_id"`
	Window       domain.TimeWindow `json:"window"`
	Guests       int               `json:"guests"`
	Tables       []domain.Table    `json:"tables"`
}

type ReservationsByDateResponse struct {
	RestaurantID uuid.UUID            `json:"restaurant_id"`
	Date         string               `json:"date"`
	Reservations []domain.Reservation `json:"reservations"`
}

type TablesResponse struct {
	RestaurantID uuid.UUID      `json:"restaurant_id"`
	Tables       []domain.Table `json:"tables"`
}

type ReservationListResponse struct {
	Reservations []domain.Reservation `json:"reservations"`
	Count        int                  `json:"count"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

const dateLayout = "2006-01-02"

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
