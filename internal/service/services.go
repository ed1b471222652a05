package service

import (
	"log/slog"

	"github.com/kirinyoku/tablebook/internal/guard"
	"github.com/kirinyoku/tablebook/internal/repository"
	redisrepo "github.com/kirinyoku/tablebook/internal/repository/redis"
	"github.com/kirinyoku/tablebook/internal/service/admin"
	"github.com/kirinyoku/tablebook/internal/service/query"
	"github.com/kirinyoku/tablebook/internal/service/reservation"
)

type Services struct {
	Reservation *reservation.Service
	Query       *query.Service
	Admin       *admin.Service
}

type Config struct {
	Reservation reservation.Config
	Query       query.Config
}

// NewServices wires the engine services over one store and one guard, so that
// reservations and admin changes to the same restaurant are serialized together.
// cache may be nil, in which case availability is always read from the store.
func NewServices(
	store repository.Store,
	g guard.Guard,
	cache *redisrepo.Cache,
	deps reservation.Deps,
	cfg Config,
	logger *slog.Logger,
) *Services {
	if cache != nil && deps.Cache == nil {
		deps.Cache = cache
	}

	return &Services{
		Reservation: reservation.New(store, g, deps, cfg.Reservation, logger),
		Query:       query.New(store, cache, cfg.Query),
		Admin:       admin.New(store, g, cache, cfg.Reservation.Now, logger),
	}
}
