package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	MinTableCapacity = 1
	MaxTableCapacity = 12

	DefaultDurationMinutes = 120
)

type TableStatus string

const (
	TableAvailable   TableStatus = "available"
	TableReserved    TableStatus = "reserved"
	TableOccupied    TableStatus = "occupied"
	TableMaintenance TableStatus = "maintenance"
)

type Zone string

const (
	ZoneMain    Zone = "main"
	ZoneTerrace Zone = "terrace"
	ZoneBar     Zone = "bar"
	ZonePrivate Zone = "private"
)

func (z Zone) Valid() bool {
	switch z {
	case ZoneMain, ZoneTerrace, ZoneBar, ZonePrivate:
		return true
	}
	return false
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationSeated    ReservationStatus = "seated"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationNoShow    ReservationStatus = "no_show"
)

// LiveStatuses are the reservation states that hold a claim on their table's window.
var LiveStatuses = []ReservationStatus{
	ReservationPending,
	ReservationConfirmed,
	ReservationSeated,
}

func (s ReservationStatus) Live() bool {
	for _, l := range LiveStatuses {
		if s == l {
			return true
		}
	}
	return false
}

func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationCompleted, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

type Source string

const (
	SourceWeb    Source = "web"
	SourceApp    Source = "app"
	SourcePhone  Source = "phone"
	SourceWalkIn Source = "walk_in"
)

func (s Source) Valid() bool {
	switch s {
	case SourceWeb, SourceApp, SourcePhone, SourceWalkIn:
		return true
	}
	return false
}

type Occupancy struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	StartTime     time.Time `json:"start_time"`
	GuestCount    int       `json:"guest_count"`
}

type TableMetadata struct {
	// AverageOccupancyTime is a running average in minutes.
	AverageOccupancyTime float64    `json:"average_occupancy_time"`
	LastMaintenance      *time.Time `json:"last_maintenance,omitempty"`
}

type Table struct {
	ID               uuid.UUID     `json:"id"`
	RestaurantID     uuid.UUID     `json:"restaurant_id"`
	Number           int           `json:"number"`
	Capacity         int           `json:"capacity"`
	Zone             Zone          `json:"zone"`
	Status           TableStatus   `json:"status"`
	CurrentOccupancy *Occupancy    `json:"current_occupancy,omitempty"`
	Metadata         TableMetadata `json:"metadata"`
}

type SpecialRequirement string

const (
	RequirementHighChair        SpecialRequirement = "high_chair"
	RequirementWheelchairAccess SpecialRequirement = "wheelchair_access"
	RequirementQuietZone        SpecialRequirement = "quiet_zone"
	RequirementBirthday         SpecialRequirement = "birthday"
	RequirementAnniversary      SpecialRequirement = "anniversary"
)

func (r SpecialRequirement) Valid() bool {
	switch r {
	case RequirementHighChair, RequirementWheelchairAccess, RequirementQuietZone,
		RequirementBirthday, RequirementAnniversary:
		return true
	}
	return false
}

type Party struct {
	Adults              int                  `json:"adults"`
	Children            int                  `json:"children"`
	Total               int                  `json:"total"`
	SpecialRequirements []SpecialRequirement `json:"special_requirements,omitempty"`
}

// NewParty builds a party whose total is always derived from its parts. A party no
// table could ever seat is rejected, which also keeps the total from overflowing.
// Requirements are deduplicated in first-seen order.
func NewParty(adults, children int, requirements ...SpecialRequirement) (Party, error) {
	if adults < 1 || children < 0 {
		return Party{}, ErrInvalidPartySize
	}
	if adults > MaxTableCapacity || children > MaxTableCapacity-adults {
		return Party{}, fmt.Errorf("%w: %d guests exceed the largest table (%d)",
			ErrInvalidPartySize, adults+children, MaxTableCapacity)
	}

	var reqs []SpecialRequirement
	for _, r := range requirements {
		if !r.Valid() {
			return Party{}, fmt.Errorf("%w: %q", ErrInvalidRequirement, r)
		}
		if !slices.Contains(reqs, r) {
			reqs = append(reqs, r)
		}
	}

	return Party{Adults: adults, Children: children, Total: adults + children, SpecialRequirements: reqs}, nil
}

// ReservationNotes are free-text notes addressed to different readers.
type ReservationNotes struct {
	Customer string `json:"customer,omitempty"`
	Staff    string `json:"staff,omitempty"`
	Kitchen  string `json:"kitchen,omitempty"`
}

type Reservation struct {
	ID           uuid.UUID         `json:"id"`
	RestaurantID uuid.UUID         `json:"restaurant_id"`
	CustomerID   uuid.UUID         `json:"customer_id"`
	TableID      *uuid.UUID        `json:"table_id,omitempty"`
	Window       TimeWindow        `json:"window"`
	Duration     int               `json:"duration_minutes"`
	Party        Party             `json:"party"`
	Status       ReservationStatus `json:"status"`
	Source       Source            `json:"source"`
	CancelReason string            `json:"cancel_reason,omitempty"`
	Notes        ReservationNotes  `json:"notes"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	SeatedAt     *time.Time        `json:"seated_at,omitempty"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// Late reports whether a confirmed reservation's start time has passed.
func (r *Reservation) Late(now time.Time) bool {
	return r.Status == ReservationConfirmed && !now.Before(r.Window.Start)
}

func (r *Reservation) BoundTo(tableID uuid.UUID) bool {
	return r.TableID != nil && *r.TableID == tableID
}
