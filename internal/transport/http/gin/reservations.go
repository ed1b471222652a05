package httpgin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kirinyoku/tablebook/internal/domain"
	redisrepo "github.com/kirinyoku/tablebook/internal/repository/redis"
	"github.com/kirinyoku/tablebook/internal/service"
	"github.com/kirinyoku/tablebook/internal/service/query"
	"github.com/kirinyoku/tablebook/internal/service/reservation"
)

// how long a claimed Idempotency-Key blocks duplicates before its result is saved
const idemClaimTTL = 30 * time.Second

// @Summary  Create reservation (idempotent)
// @Tags     reservations
// @Param    Idempotency-Key header string false "replays the first response for repeated keys"
// @Param    req body  CreateReservationRequest true "payload"
// @Success  201 {object} domain.Reservation
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "no table available / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /reservations [post]
func handleCreateReservation(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		ctx := c.Request.Context()

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemReservation(idemKey)

			if replayIdempotent(c, idem, idemStorageKey, idemKey) {
				return
			}

			claimed, err := idem.Claim(ctx, idemStorageKey, idemClaimTTL)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !claimed {
				if replayIdempotent(c, idem, idemStorageKey, idemKey) {
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		res, err := svcs.Reservation.Create(ctx, reservation.CreateRequest{
			RestaurantID: req.RestaurantID,
			CustomerID:   req.CustomerID,
			Start:        req.Start,
			End:          req.End,
			DurationMin:  req.DurationMin,
			Adults:       req.Adults,
			Children:     req.Children,
			Source:       req.Source,
			Notes: domain.ReservationNotes{
				Customer: req.Notes.Customer,
				Staff:    req.Notes.Staff,
				Kitchen:  req.Notes.Kitchen,
			},
			SpecialRequirements: req.SpecialRequirements,
			RateKey:             "ip:" + c.ClientIP(),
		})
		if err != nil {
			if idemStorageKey != "" {
				_ = idem.Release(context.WithoutCancel(ctx), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		b, err := json.Marshal(res)
		if err != nil {
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" {
			if err := idem.SaveResult(context.WithoutCancel(ctx), idemStorageKey, http.StatusCreated, b); err != nil {
				_ = c.Error(err)
			}
			c.Header("Idempotency-Key", idemKey)
		}

		c.Data(http.StatusCreated, "application/json; charset=utf-8", b)
	}
}

func replayIdempotent(c *gin.Context, idem *redisrepo.IdempotencyStore, storageKey, idemKey string) bool {
	status, body, found, err := idem.GetResult(c.Request.Context(), storageKey)
	if err != nil || !found {
		return false
	}

	c.Header("Idempotency-Key", idemKey)
	c.Header("Idempotent-Replayed", "true")
	c.Data(status, "application/json; charset=utf-8", body)
	return true
}

// @Summary  Get reservation
// @Tags     reservations
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} domain.Reservation
// @Failure  404 {object} ErrorResponse
// @Router   /reservations/{id} [get]
func handleGetReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := svcs.Reservation.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  List reservations
// @Tags     reservations
// @Param    restaurant_id  query  string  true   "Restaurant ID (uuid)"
// @Param    customer_id    query  string  false  "Customer ID (uuid)"
// @Param    status         query  string  false  "comma-separated statuses"
// @Param    from           query  string  false  "RFC3339, start >= from"
// @Param    to             query  string  false  "RFC3339, start < to"
// @Param    limit          query  int     false  "page size, default 50, max 200"
// @Param    offset         query  int     false  "rows to skip"
// @Success  200 {object} ReservationListResponse
// @Failure  400 {object} ErrorResponse
// @Router   /reservations [get]
func handleListReservations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q query.ReservationQuery

		restaurantID, err := uuid.Parse(c.Query("restaurant_id"))
		if err != nil {
			badRequest(c, "invalid restaurant_id")
			return
		}
		q.RestaurantID = restaurantID

		if raw := c.Query("customer_id"); raw != "" {
			if q.CustomerID, err = uuid.Parse(raw); err != nil {
				badRequest(c, "invalid customer_id")
				return
			}
		}

		statuses, ok := parseStatuses(c)
		if !ok {
			return
		}
		q.Statuses = statuses

		for name, dst := range map[string]*time.Time{"from": &q.From, "to": &q.To} {
			if raw := c.Query(name); raw != "" {
				if *dst, err = parseRFC3339(raw); err != nil {
					badRequest(c, "invalid "+name+" (RFC3339)")
					return
				}
			}
		}

		if q.Limit, err = parseIntDefault(c.Query("limit"), query.DefaultPageSize); err != nil {
			badRequest(c, "invalid limit")
			return
		}
		if q.Offset, err = parseIntDefault(c.Query("offset"), 0); err != nil {
			badRequest(c, "invalid offset")
			return
		}

		list, err := svcs.Query.Reservations(c.Request.Context(), q)
		if err != nil {
			respondErr(c, err)
			return
		}

		if q.Limit == 0 {
			q.Limit = query.DefaultPageSize
		}

		c.JSON(http.StatusOK, ReservationListResponse{
			Reservations: list,
			Count:        len(list),
			Limit:        q.Limit,
			Offset:       q.Offset,
		})
	}
}

// @Summary  Reschedule reservation
// @Tags     reservations
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Param    req body  RescheduleRequest true "new start/end/duration and optional table"
// @Success  200 {object} domain.Reservation
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /reservations/{id} [patch]
func handleReschedule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req RescheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svcs.Reservation.Reschedule(c.Request.Context(), id, reservation.RescheduleRequest{
			Start:       req.Start,
			End:         req.End,
			DurationMin: req.DurationMin,
			TableID:     req.TableID,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Cancel reservation
// @Tags     reservations
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Param    req body  CancelRequest false "optional reason"
// @Success  200 {object} domain.Reservation
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /reservations/{id}/cancel [post]
func handleCancel(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req CancelRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err.Error())
				return
			}
		}
		res, err := svcs.Reservation.Cancel(c.Request.Context(), id, req.Reason)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// handleTransition serves the body-less lifecycle steps.
//
// @Summary  Move reservation through its lifecycle
// @Tags     reservations
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} domain.Reservation
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "invalid transition / table unavailable / too early"
// @Failure  500 {object} ErrorResponse "table occupancy invariant broken"
// @Router   /reservations/{id}/confirm [post]
// @Router   /reservations/{id}/check-in [post]
// @Router   /reservations/{id}/complete [post]
// @Router   /reservations/{id}/no-show [post]
func handleTransition(
	fn func(ctx context.Context, id uuid.UUID) (*domain.Reservation, error),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := fn(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
