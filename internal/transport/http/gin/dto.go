package httpgin

import (
	"github.com/shopspring/decimal"

	"github.com/cinebook/cinebook/internal/domain"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsStaff    bool   `json:"is_staff"`
	TotalSpent string `json:"total_spent"`
}

type CreateFilmRequest struct {
	Name  string `json:"name" binding:"required"`
	Genre string `json:"genre"`
	Image string `json:"image"`
}

type FilmResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Genre string `json:"genre"`
	Image string `json:"image"`
}

type HallRequest struct {
	Name string `json:"name" binding:"required"`
	Size int    `json:"size" binding:"required,gt=0"`
}

type HallResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

// SessionRequest carries times as "15:04" and dates as "2006-01-02"; price is
// a decimal string.
type SessionRequest struct {
	FilmID    int64  `json:"film_id" binding:"required"`
	HallID    int64  `json:"hall_id" binding:"required"`
	Price     string `json:"price" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type SessionResponse struct {
	ID        int64  `json:"id"`
	FilmID    int64  `json:"film_id"`
	HallID    int64  `json:"hall_id"`
	Price     string `json:"price"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// BookRequest distinguishes an absent count from an explicit zero; the two
// fail with different messages.
type BookRequest struct {
	CountOfTickets *int `json:"count_of_tickets"`
}

type TicketResponse struct {
	ID             string `json:"id"`
	SessionID      int64  `json:"session_id"`
	CountOfTickets int    `json:"count_of_tickets"`
	TotalPrice     string `json:"total_price"`
	DataSession    string `json:"data_session"`
	CreatedAt      string `json:"created_at"`
}

type AvailabilityResponse struct {
	SessionID int64  `json:"session_id"`
	Date      string `json:"date"`
	Available int    `json:"available"`
}

type IDResponse struct {
	ID int64 `json:"id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsStaff:    u.IsStaff,
		TotalSpent: u.TotalSpent.StringFixed(2),
	}
}

func toFilmResponse(f domain.Film) FilmResponse {
	return FilmResponse{ID: f.ID, Name: f.Name, Genre: f.Genre, Image: f.Image}
}

func toHallResponse(h domain.Hall) HallResponse {
	return HallResponse{ID: h.ID, Name: h.Name, Size: h.Size}
}

func toSessionResponse(s domain.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		FilmID:    s.FilmID,
		HallID:    s.HallID,
		Price:     s.Price.StringFixed(2),
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		StartDate: domain.FormatDate(s.StartDate),
		EndDate:   domain.FormatDate(s.EndDate),
	}
}

func toSessionResponses(ss []domain.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(ss))
	for _, s := range ss {
		out = append(out, toSessionResponse(s))
	}
	return out
}

func toTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID.String(),
		SessionID:      t.SessionID,
		CountOfTickets: t.CountOfTickets,
		TotalPrice:     t.TotalPrice.StringFixed(2),
		DataSession:    domain.FormatDate(t.DataSession),
		CreatedAt:      t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toTicketResponses(ts []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTicketResponse(t))
	}
	return out
}

func sessionFromRequest(req SessionRequest, id int64) (domain.Session, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return domain.Session{}, err
	}

	startTime, err := domain.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return domain.Session{}, err
	}

	endTime, err := domain.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return domain.Session{}, err
	}

	startDate, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return domain.Session{}, err
	}

	endDate, err := domain.ParseDate(req.EndDate)
	if err != nil {
		return domain.Session{}, err
	}

	return domain.Session{
		ID:        id,
		FilmID:    req.FilmID,
		HallID:    req.HallID,
		Price:     price,
		StartTime: startTime,
		EndTime:   endTime,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}
