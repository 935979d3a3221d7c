package service

import (
	"github.com/cinebook/cinebook/internal/repository"
	redisrepo "github.com/cinebook/cinebook/internal/repository/redis"
	"github.com/cinebook/cinebook/internal/service/auth"
	"github.com/cinebook/cinebook/internal/service/booking"
	"github.com/cinebook/cinebook/internal/service/catalog"
	"github.com/cinebook/cinebook/internal/service/query"
)

type Services struct {
	Booking *booking.Service
	Catalog *catalog.Service
	Query   *query.Service
	Auth    *auth.Service
}

type Config struct {
	Booking booking.Config
	Catalog catalog.Config
	Query   query.Config
	Auth    auth.Config
}

func NewServices(
	store repository.Store,
	cache *redisrepo.Cache,
	limiter *redisrepo.SlidingWindowLimiter,
	activity *redisrepo.ActivityStore,
	cfg Config,
) *Services {
	return &Services{
		Booking: booking.New(store, cache, limiter, cfg.Booking),
		Catalog: catalog.New(store, cfg.Catalog),
		Query:   query.New(store, cache, cfg.Query),
		Auth:    auth.New(store, activity, cfg.Auth),
	}
}
