// Package httpgin exposes the HTTP surface: the JSON API under /api/v1 and a
// form-style booking endpoint kept for legacy clients. Both booking entry
// points call the same core, so they accept and reject identically.
package httpgin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/cinebook/cinebook/internal/domain"
	redisrepo "github.com/cinebook/cinebook/internal/repository/redis"
	"github.com/cinebook/cinebook/internal/service"
	"github.com/cinebook/cinebook/internal/service/auth"
	"github.com/cinebook/cinebook/internal/service/booking"
	"github.com/cinebook/cinebook/internal/service/catalog"
	"github.com/cinebook/cinebook/internal/service/query"
)

type RouterConfig struct {
	Auth  AuthConfig
	Clock func() time.Time
}

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	activity *redisrepo.ActivityStore,
	logger *zap.Logger,
	cfg RouterConfig,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
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

	authRequired := AuthMiddleware(svcs.Auth, activity, cfg.Auth)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/register", handleRegister(svcs))
		v1.POST("/auth/login", handleLogin(svcs))
		v1.POST("/auth/logout", authRequired, handleLogout(svcs))

		v1.GET("/films", handleListFilms(svcs))
		v1.GET("/halls", handleListHalls(svcs))
		v1.GET("/sessions", handleListSessions(svcs, cfg.Clock))
		v1.GET("/sessions/:id", handleGetSession(svcs))
		v1.GET("/sessions/:id/availability/:date_filter", handleGetAvailability(svcs, cfg.Clock))

		v1.POST("/sessions/:id/book/:date_filter", authRequired, handleBookSession(svcs, idem))
		v1.GET("/tickets", authRequired, handleListMyTickets(svcs))

		staff := v1.Group("", authRequired, StaffOnly())
		{
			staff.POST("/films", handleCreateFilm(svcs))
			staff.POST("/halls", handleCreateHall(svcs))
			staff.PUT("/halls/:id", handleUpdateHall(svcs))
			staff.POST("/sessions", handleCreateSession(svcs))
			staff.PUT("/sessions/:id", handleUpdateSession(svcs))
		}
	}

	// Legacy form-style booking entry; delegates to the same core as the
	// JSON endpoint above.
	r.POST("/book/ticket/:id/:date_filter", authRequired, handleBookSessionForm(svcs))

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Register account
// @Param    req body  RegisterRequest true "payload"
// @Success  201 {object} AuthResponse
// @Failure  400 {object} ErrorResponse
// @Router   /api/v1/auth/register [post]
func handleRegister(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, token, err := svcs.Auth.Register(
			c.Request.Context(),
			req.Username,
			req.Email,
			req.Password,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, AuthResponse{Token: token, User: toUserResponse(u)})
	}
}

// @Summary  Login
// @Param    req body  LoginRequest true "payload"
// @Success  200 {object} AuthResponse
// @Failure  401 {object} ErrorResponse
// @Router   /api/v1/auth/login [post]
func handleLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, token, err := svcs.Auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(u)})
	}
}

// @Summary  Logout
// @Security BearerAuth
// @Success  204
// @Router   /api/v1/auth/logout [post]
func handleLogout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Auth.Logout(c.Request.Context(), currentUserID(c)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  List films
// @Success  200 {array} FilmResponse
// @Router   /api/v1/films [get]
func handleListFilms(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		films, err := svcs.Query.ListFilms(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]FilmResponse, 0, len(films))
		for _, f := range films {
			out = append(out, toFilmResponse(f))
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List halls
// @Success  200 {array} HallResponse
// @Router   /api/v1/halls [get]
func handleListHalls(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		halls, err := svcs.Query.ListHalls(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]HallResponse, 0, len(halls))
		for _, h := range halls {
			out = append(out, toHallResponse(h))
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List sessions
// @Param    date_filter query string false "today or tomorrow"
// @Param    hall_id     query int    false "hall"
// @Param    price_from  query string false "min price"
// @Param    price_to    query string false "max price"
// @Param    time_from   query string false "HH:MM"
// @Param    time_to     query string false "HH:MM"
// @Param    ordering    query string false "start_time or -start_time"
// @Success  200 {array} SessionResponse
// @Failure  400 {object} ErrorResponse
// @Router   /api/v1/sessions [get]
func handleListSessions(svcs *service.Services, clock func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := parseSessionFilter(c, clock)
		if err != nil {
			respondErr(c, err)
			return
		}
		sessions, err := svcs.Query.Schedule(c.Request.Context(), f)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toSessionResponses(sessions), "public, max-age=15", true)
	}
}

// @Summary  Get session
// @Param    id  path  int  true  "Session ID"
// @Success  200 {object} SessionResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/v1/sessions/{id} [get]
func handleGetSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		sess, err := svcs.Query.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toSessionResponse(*sess), "public, max-age=60", true)
	}
}

// @Summary  Seats left for a session on today/tomorrow
// @Param    id          path  int     true  "Session ID"
// @Param    date_filter path  string  true  "today or tomorrow"
// @Success  200 {object} AvailabilityResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/v1/sessions/{id}/availability/{date_filter} [get]
func handleGetAvailability(svcs *service.Services, clock func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		selector := domain.DateSelector(c.Param("date_filter"))
		n, err := svcs.Booking.Available(c.Request.Context(), sessionID, selector)
		if err != nil {
			respondErr(c, err)
			return
		}
		resp := AvailabilityResponse{
			SessionID: sessionID,
			Date:      domain.FormatDate(selector.Resolve(clock())),
			Available: n,
		}
		writeJSONWithCache(c, http.StatusOK, resp, "public, max-age=15", true)
	}
}

// @Summary  Book tickets (idempotent)
// @Security BearerAuth
// @Param    id          path  int     true  "Session ID"
// @Param    date_filter path  string  true  "today or tomorrow"
// @Param    req         body  BookRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} TicketResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "sold out / not enough seats"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /api/v1/sessions/{id}/book/{date_filter} [post]
func handleBookSession(svcs *service.Services, idem *redisrepo.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req BookRequest
		_ = c.ShouldBindJSON(&req)
		if req.CountOfTickets == nil {
			respondErr(c, booking.ErrMissingCount)
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(sessionID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		ticket, err := svcs.Booking.Book(
			c.Request.Context(),
			sessionID,
			domain.DateSelector(c.Param("date_filter")),
			*req.CountOfTickets,
			currentUserID(c),
			"ip:"+c.ClientIP(),
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if isRateLimitedErr(err) {
				c.Header("Retry-After", "60")
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
				return
			}
			respondErr(c, err)
			return
		}

		resp := toTicketResponse(*ticket)

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Book tickets (form)
// @Security BearerAuth
// @Param    id             path      int     true  "Session ID"
// @Param    date_filter    path      string  true  "today or tomorrow"
// @Param    count_of_tickets formData int    false "tickets to book"
// @Success  201 {object} TicketResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /book/ticket/{id}/{date_filter} [post]
func handleBookSessionForm(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		raw := c.PostForm("count_of_tickets")
		if raw == "" {
			respondErr(c, booking.ErrMissingCount)
			return
		}
		count := parseIntDefault(raw, 0)

		ticket, err := svcs.Booking.Book(
			c.Request.Context(),
			sessionID,
			domain.DateSelector(c.Param("date_filter")),
			count,
			currentUserID(c),
			"ip:"+c.ClientIP(),
		)
		if err != nil {
			if isRateLimitedErr(err) {
				c.Header("Retry-After", "60")
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
				return
			}
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, toTicketResponse(*ticket))
	}
}

// @Summary  List my tickets
// @Security BearerAuth
// @Success  200 {array} TicketResponse
// @Router   /api/v1/tickets [get]
func handleListMyTickets(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := svcs.Query.UserTickets(c.Request.Context(), currentUserID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toTicketResponses(tickets))
	}
}

// @Summary  Create film
// @Security BearerAuth
// @Param    req body  CreateFilmRequest true "payload"
// @Success  201 {object} IDResponse
// @Failure  409 {object} ErrorResponse
// @Router   /api/v1/films [post]
func handleCreateFilm(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateFilmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateFilm(c.Request.Context(), domain.Film{
			Name:  req.Name,
			Genre: req.Genre,
			Image: req.Image,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, IDResponse{ID: id})
	}
}

// @Summary  Create hall
// @Security BearerAuth
// @Param    req body  HallRequest true "payload"
// @Success  201 {object} IDResponse
// @Failure  409 {object} ErrorResponse
// @Router   /api/v1/halls [post]
func handleCreateHall(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req HallRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateHall(c.Request.Context(), domain.Hall{
			Name: req.Name,
			Size: req.Size,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, IDResponse{ID: id})
	}
}

// @Summary  Update hall
// @Security BearerAuth
// @Param    id  path  int  true  "Hall ID"
// @Param    req body  HallRequest true "payload"
// @Success  200 {object} HallResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "tickets already booked"
// @Router   /api/v1/halls/{id} [put]
func handleUpdateHall(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		hallID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req HallRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		h := domain.Hall{ID: hallID, Name: req.Name, Size: req.Size}
		if err := svcs.Catalog.UpdateHall(c.Request.Context(), h); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toHallResponse(h))
	}
}

// @Summary  Create session
// @Security BearerAuth
// @Param    req body  SessionRequest true "payload"
// @Success  201 {object} IDResponse
// @Failure  400 {object} ErrorResponse "bad dates / negative price"
// @Failure  409 {object} ErrorResponse "schedule conflict"
// @Router   /api/v1/sessions [post]
func handleCreateSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		sess, err := sessionFromRequest(req, 0)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateSession(c.Request.Context(), sess)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, IDResponse{ID: id})
	}
}

// @Summary  Update session
// @Security BearerAuth
// @Param    id  path  int  true  "Session ID"
// @Param    req body  SessionRequest true "payload"
// @Success  200 {object} SessionResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "tickets booked / schedule conflict"
// @Router   /api/v1/sessions/{id} [put]
func handleUpdateSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req SessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		sess, err := sessionFromRequest(req, sessionID)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Catalog.UpdateSession(c.Request.Context(), sess); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toSessionResponse(sess))
	}
}

// --- Helpers ---

func parseSessionFilter(c *gin.Context, clock func() time.Time) (domain.SessionFilter, error) {
	var f domain.SessionFilter

	if s := c.Query("date_filter"); s != "" {
		selector := domain.DateSelector(s)
		if !selector.Valid() {
			return f, booking.ErrInvalidDateSelector
		}
		date := selector.Resolve(clock())
		f.Date = &date
	}

	if s := c.Query("hall_id"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return f, errBadFilter("hall_id")
		}
		f.HallID = v
	}

	if s := c.Query("price_from"); s != "" {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return f, errBadFilter("price_from")
		}
		f.PriceFrom = &v
	}

	if s := c.Query("price_to"); s != "" {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return f, errBadFilter("price_to")
		}
		f.PriceTo = &v
	}

	if s := c.Query("time_from"); s != "" {
		v, err := domain.ParseTimeOfDay(s)
		if err != nil {
			return f, errBadFilter("time_from")
		}
		f.TimeFrom = &v
	}

	if s := c.Query("time_to"); s != "" {
		v, err := domain.ParseTimeOfDay(s)
		if err != nil {
			return f, errBadFilter("time_to")
		}
		f.TimeTo = &v
	}

	f.OrderDesc = c.Query("ordering") == "-start_time"

	return f, nil
}

type badFilterError string

func errBadFilter(name string) error { return badFilterError(name) }

func (e badFilterError) Error() string { return "invalid " + string(e) }

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func isRateLimitedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "rate limited")
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var dateRange booking.DateOutOfRangeError
	var conflict catalog.ScheduleConflictError
	var badFilter badFilterError

	switch {
	// booking service
	case errors.Is(err, booking.ErrInvalidDateSelector):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: booking.ErrInvalidDateSelector.Error()})
	case errors.Is(err, booking.ErrMissingCount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: booking.ErrMissingCount.Error()})
	case errors.Is(err, booking.ErrNonPositiveCount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: booking.ErrNonPositiveCount.Error()})
	case errors.Is(err, booking.ErrSoldOut):
		c.JSON(http.StatusConflict, ErrorResponse{Error: booking.ErrSoldOut.Error()})
	case errors.Is(err, booking.ErrInsufficientSeats):
		c.JSON(http.StatusConflict, ErrorResponse{Error: booking.ErrInsufficientSeats.Error()})
	case errors.As(err, &dateRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: dateRange.Error()})
	case errors.Is(err, booking.ErrSessionNotFound),
		errors.Is(err, query.ErrSessionNotFound),
		errors.Is(err, catalog.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})

	// catalog service
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: conflict.Error()})
	case errors.Is(err, catalog.ErrInvalidDateOrder):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: catalog.ErrInvalidDateOrder.Error()})
	case errors.Is(err, catalog.ErrNegativePrice):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: catalog.ErrNegativePrice.Error()})
	case errors.Is(err, catalog.ErrSessionHasBookings):
		c.JSON(http.StatusConflict, ErrorResponse{Error: catalog.ErrSessionHasBookings.Error()})
	case errors.Is(err, catalog.ErrHallHasBookings):
		c.JSON(http.StatusConflict, ErrorResponse{Error: catalog.ErrHallHasBookings.Error()})
	case errors.Is(err, catalog.ErrFilmExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: catalog.ErrFilmExists.Error()})
	case errors.Is(err, catalog.ErrHallExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: catalog.ErrHallExists.Error()})
	case errors.Is(err, catalog.ErrFilmNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: catalog.ErrFilmNotFound.Error()})
	case errors.Is(err, catalog.ErrHallNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: catalog.ErrHallNotFound.Error()})

	// auth service
	case errors.Is(err, auth.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: auth.ErrUsernameTaken.Error()})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: auth.ErrEmailTaken.Error()})
	case errors.Is(err, auth.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: auth.ErrPasswordTooShort.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: auth.ErrInvalidCredentials.Error()})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: auth.ErrInvalidToken.Error()})
	case errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: auth.ErrUserNotFound.Error()})

	// transport-level filter parsing
	case errors.As(err, &badFilter):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: badFilter.Error()})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
