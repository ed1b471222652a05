package httpgin

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/tablebook/internal/domain"
	redisrepo "github.com/kirinyoku/tablebook/internal/repository/redis"
	"github.com/kirinyoku/tablebook/internal/service"
	"github.com/kirinyoku/tablebook/internal/service/query"
)

// @Summary  List free tables for a window
// @Tags     restaurants
// @Param    id        path   string  true   "Restaurant ID (uuid)"
// @Param    start     query  string  true   "RFC3339 start"
// @Param    end       query  string  false  "RFC3339 end, wins over duration"
// @Param    duration  query  int     false  "minutes, default 120"
// @Param    guests    query  int     true   "party size"
// @Success  200 {object} AvailableTablesResponse
// @Success  304 "not modified"
// @Failure  400 {object} ErrorResponse
// @Router   /restaurants/{id}/available-tables [get]
func handleAvailableTables(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		start, err := parseRFC3339(c.Query("start"))
		if err != nil {
			badRequest(c, "invalid start (RFC3339)")
			return
		}

		var end *time.Time
		if s := c.Query("end"); s != "" {
			e, err := parseRFC3339(s)
			if err != nil {
				badRequest(c, "invalid end (RFC3339)")
				return
			}
			end = &e
		}

		duration, err := parseIntDefault(c.Query("duration"), 0)
		if err != nil || duration < 0 {
			badRequest(c, "invalid duration")
			return
		}

		guests, err := parseIntDefault(c.Query("guests"), 0)
		if err != nil || guests < 1 {
			badRequest(c, "invalid guests")
			return
		}

		req := query.AvailabilityRequest{
			RestaurantID: restaurantID,
			Start:        start,
			End:          end,
			DurationMin:  duration,
			PartySize:    guests,
		}

		free, err := svcs.Query.AvailableTables(c.Request.Context(), req)
		if err != nil {
			respondErr(c, err)
			return
		}

		window, err := svcs.Query.Window(req)
		if err != nil {
			respondErr(c, err)
			return
		}

		// short max-age: availability is advisory and changes with every booking
		writeJSONWithCache(c, http.StatusOK, AvailableTablesResponse{
			RestaurantID: restaurantID,
			Window:       window,
			Guests:       guests,
			Tables:       free,
		}, "private, max-age=5")
	}
}

// @Summary  List a restaurant's tables
// @Tags     restaurants
// @Param    id  path  string  true  "Restaurant ID (uuid)"
// @Success  200 {object} TablesResponse
// @Success  304 "not modified"
// @Failure  400 {object} ErrorResponse
// @Router   /restaurants/{id}/tables [get]
func handleListTables(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		list, err := svcs.Query.Tables(c.Request.Context(), restaurantID)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, TablesResponse{
			RestaurantID: restaurantID,
			Tables:       list,
		}, "no-cache")
	}
}

// parseStatuses reads the comma-separated status query parameter. It answers 400
// itself and reports false on an unknown status.
func parseStatuses(c *gin.Context) ([]domain.ReservationStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}

	var statuses []domain.ReservationStatus
	for _, s := range strings.Split(raw, ",") {
		st := domain.ReservationStatus(strings.TrimSpace(s))
		if !st.Live() && !st.Terminal() {
			badRequest(c, "invalid status "+string(st))
			return nil, false
		}
		statuses = append(statuses, st)
	}

	return statuses, true
}

// @Summary  Reservations starting on a day
// @Tags     restaurants
// @Param    id      path   string  true   "Restaurant ID (uuid)"
// @Param    date    query  string  true   "YYYY-MM-DD (UTC)"
// @Param    status  query  string  false  "comma-separated statuses"
// @Success  200 {object} ReservationsByDateResponse
// @Failure  400 {object} ErrorResponse
// @Router   /restaurants/{id}/reservations [get]
func handleReservationsByDate(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		date, err := time.Parse(dateLayout, c.Query("date"))
		if err != nil {
			badRequest(c, "invalid date (YYYY-MM-DD)")
			return
		}

		statuses, ok := parseStatuses(c)
		if !ok {
			return
		}

		list, err := svcs.Query.ReservationsByDate(c.Request.Context(), restaurantID, date, statuses)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, ReservationsByDateResponse{
			RestaurantID: restaurantID,
			Date:         date.Format(dateLayout),
			Reservations: list,
		})
	}
}

// @Summary  Get table
// @Tags     tables
// @Param    id  path  string  true  "Table ID (uuid)"
// @Success  200 {object} domain.Table
// @Failure  404 {object} ErrorResponse
// @Router   /tables/{id} [get]
func handleGetTable(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Query.Table(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, t, "no-cache")
	}
}

// @Summary  Stream reservation events
// @Description Server-sent events for one restaurant, one event per committed change.
// @Tags     restaurants
// @Produce  text/event-stream
// @Param    id  path  string  true  "Restaurant ID (uuid)"
// @Success  200 {object} domain.Event
// @Failure  501 {object} ErrorResponse "redis not configured"
// @Router   /restaurants/{id}/events [get]
func handleEventStream(events *redisrepo.ReservationEvents) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if events == nil {
			c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "event stream not configured"})
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		ch := make(chan domain.Event, 32)
		go func() {
			defer close(ch)
			err := events.Subscribe(ctx, restaurantID, func(_ context.Context, ev domain.Event) {
				select {
				case ch <- ev:
				default:
					// slow client; drop rather than stall the subscription
				}
			})
			if err != nil && ctx.Err() == nil {
				_ = c.Error(err)
			}
		}()

		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")

		heartbeat := time.NewTicker(15 * time.Second)
		defer heartbeat.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case <-ctx.Done():
				return false
			case <-heartbeat.C:
				_, _ = io.WriteString(w, ": ping\n\n")
				return true
			case ev, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent(string(ev.Type), ev)
				return true
			}
		})
	}
}
