package domain

import "github.com/google/uuid"

type ReservationAction string

const (
	ActionConfirm    ReservationAction = "confirm"
	ActionCheckIn    ReservationAction = "check_in"
	ActionCancel     ReservationAction = "cancel"
	ActionComplete   ReservationAction = "complete"
	ActionNoShow     ReservationAction = "no_show"
	ActionReschedule ReservationAction = "reschedule"
)

type reservationEdge struct {
	from   ReservationStatus
	action ReservationAction
}

// reservationEdges is the complete reservation lifecycle; anything missing is rejected.
var reservationEdges = map[reservationEdge]ReservationStatus{
	{ReservationPending, ActionConfirm}:      ReservationConfirmed,
	{ReservationConfirmed, ActionCheckIn}:    ReservationSeated,
	{ReservationSeated, ActionComplete}:      ReservationCompleted,
	{ReservationPending, ActionCancel}:       ReservationCancelled,
	{ReservationConfirmed, ActionCancel}:     ReservationCancelled,
	{ReservationConfirmed, ActionNoShow}:     ReservationNoShow,
	{ReservationPending, ActionReschedule}:   ReservationPending,
	{ReservationConfirmed, ActionReschedule}: ReservationConfirmed,
}

// NextReservationStatus returns the state reached by applying action to from.
func NextReservationStatus(from ReservationStatus, action ReservationAction) (ReservationStatus, bool) {
	to, ok := reservationEdges[reservationEdge{from, action}]
	return to, ok
}

// Transition applies action to the reservation in place.
func (r *Reservation) Transition(action ReservationAction) error {
	to, ok := NextReservationStatus(r.Status, action)
	if !ok {
		return &TransitionError{
			Entity: "reservation",
			ID:     r.ID,
			From:   string(r.Status),
			Action: string(action),
		}
	}

	r.Status = to
	return nil
}

type TableAction string

const (
	ActionHold    TableAction = "hold"
	ActionOccupy  TableAction = "occupy"
	ActionRelease TableAction = "release"
)

var tableEdges = map[TableStatus]map[TableAction]TableStatus{
	TableAvailable: {
		ActionHold:   TableReserved,
		ActionOccupy: TableOccupied,
	},
	TableReserved: {
		ActionOccupy:  TableOccupied,
		ActionRelease: TableAvailable,
	},
	TableOccupied: {
		ActionRelease: TableAvailable,
	},
}

func NextTableStatus(from TableStatus, action TableAction) (TableStatus, bool) {
	to, ok := tableEdges[from][action]
	return to, ok
}

func TableTransitionError(id uuid.UUID, from TableStatus, action TableAction) error {
	return &TransitionError{
		Entity: "table",
		ID:     id,
		From:   string(from),
		Action: string(action),
	}
}
