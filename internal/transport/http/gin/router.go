package httpgin

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kirinyoku/tablebook/internal/domain"
	redisrepo "github.com/kirinyoku/tablebook/internal/repository/redis"
	"github.com/kirinyoku/tablebook/internal/service"
	"github.com/kirinyoku/tablebook/internal/service/admin"
	"github.com/kirinyoku/tablebook/internal/service/query"
	"github.com/kirinyoku/tablebook/internal/service/reservation"
	"github.com/kirinyoku/tablebook/internal/service/tables"
	"github.com/kirinyoku/tablebook/internal/telemetry"
)

// Options carries the optional redis-backed collaborators. Nil fields switch the
// matching feature off: Idempotency-Key headers are ignored and the event stream
// answers 501.
type Options struct {
	Idempotency *redisrepo.IdempotencyStore
	Events      *redisrepo.ReservationEvents
}

func NewRouter(
	svcs *service.Services,
	opts Options,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), telemetry.Middleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	reservations := r.Group("/reservations")
	{
		reservations.POST("", handleCreateReservation(svcs, opts.Idempotency))
		reservations.GET("", handleListReservations(svcs))
		reservations.GET("/:id", handleGetReservation(svcs))
		reservations.PATCH("/:id", handleReschedule(svcs))
		reservations.POST("/:id/confirm", handleTransition(svcs.Reservation.Confirm))
		reservations.POST("/:id/cancel", handleCancel(svcs))
		reservations.POST("/:id/check-in", handleTransition(svcs.Reservation.CheckIn))
		reservations.POST("/:id/complete", handleTransition(svcs.Reservation.Complete))
		reservations.POST("/:id/no-show", handleTransition(svcs.Reservation.MarkNoShow))
	}

	restaurants := r.Group("/restaurants/:id")
	{
		restaurants.GET("/tables", handleListTables(svcs))
		restaurants.GET("/available-tables", handleAvailableTables(svcs))
		restaurants.GET("/reservations", handleReservationsByDate(svcs))
		restaurants.GET("/events", handleEventStream(opts.Events))
	}

	r.GET("/tables/:id", handleGetTable(svcs))

	// Admin-API
	// TODO: put behind an auth middleware once staff accounts exist
	adm := r.Group("/admin")
	{
		adm.POST("/restaurants/:id/tables", handleCreateTable(svcs))
		adm.POST("/tables/:id/maintenance", handleSetMaintenance(svcs))
	}

	return r
}

// --- Helpers ---

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseIntDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// validationErrors are reported to the client by their own text, without the
// operation prefix the services add while wrapping.
var validationErrors = []error{
	domain.ErrInvalidWindow,
	domain.ErrInvalidPartySize,
	domain.ErrInvalidSource,
	domain.ErrInvalidTable,
	domain.ErrMissingReference,
	domain.ErrInvalidRequirement,
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var (
		transition *domain.TransitionError
		limited    *reservation.RateLimitedError
	)

	switch {
	case domain.IsValidationError(err):
		for _, v := range validationErrors {
			if errors.Is(err, v) {
				badRequest(c, v.Error())
				return
			}
		}
		badRequest(c, "invalid request")
		return

	case errors.Is(err, query.ErrInvalidPage):
		badRequest(c, query.ErrInvalidPage.Error())
		return

	case errors.As(err, &limited):
		c.Header("Retry-After", retryAfter(limited.RetryAfter))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
		return

	case reservation.IsInvariantError(err), errors.Is(err, tables.ErrAlreadyOccupied):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return

	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: transition.Error()})
		return

	// reservation service
	case errors.Is(err, reservation.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found"})
		return
	case errors.Is(err, reservation.ErrTableNotFound),
		errors.Is(err, query.ErrTableNotFound),
		errors.Is(err, admin.ErrTableNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "table not found"})
		return
	case errors.Is(err, reservation.ErrNoAvailability):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no table available"})
		return
	case errors.Is(err, reservation.ErrTableUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "table unavailable"})
		return
	case errors.Is(err, reservation.ErrTooEarly):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "reservation has not started yet"})
		return
	case errors.Is(err, reservation.ErrNothingToChange):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "nothing to change"})
		return

	// admin service
	case errors.Is(err, admin.ErrTableConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "table number already used"})
		return
	case errors.Is(err, admin.ErrTableOccupied):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "table is occupied"})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// retryAfter renders d as whole seconds, at least one.
func retryAfter(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
