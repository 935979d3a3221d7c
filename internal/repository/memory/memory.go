// Package memory implements repository.Store on in-process maps. It backs
// the service and transport tests: InTx serializes units of work under one
// mutex and rolls back on error by restoring a snapshot, which gives the
// same observable contract as the postgres row-lock implementation.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository"
)

type ledgerKey struct {
	sessionID int64
	date      time.Time
}

type data struct {
	films    map[int64]domain.Film
	halls    map[int64]domain.Hall
	sessions map[int64]domain.Session
	ledger   map[ledgerKey]int
	tickets  []domain.Ticket
	users    map[int64]domain.User
	nextID   int64
}

func (d *data) clone() *data {
	cp := &data{
		films:    make(map[int64]domain.Film, len(d.films)),
		halls:    make(map[int64]domain.Hall, len(d.halls)),
		sessions: make(map[int64]domain.Session, len(d.sessions)),
		ledger:   make(map[ledgerKey]int, len(d.ledger)),
		tickets:  append([]domain.Ticket(nil), d.tickets...),
		users:    make(map[int64]domain.User, len(d.users)),
		nextID:   d.nextID,
	}
	for k, v := range d.films {
		cp.films[k] = v
	}
	for k, v := range d.halls {
		cp.halls[k] = v
	}
	for k, v := range d.sessions {
		cp.sessions[k] = v
	}
	for k, v := range d.ledger {
		cp.ledger[k] = v
	}
	for k, v := range d.users {
		cp.users[k] = v
	}
	return cp
}

type Store struct {
	mu   *sync.Mutex
	d    *data
	inTx bool
}

func NewStore() *Store {
	return &Store{
		mu: &sync.Mutex{},
		d: &data{
			films:    map[int64]domain.Film{},
			halls:    map[int64]domain.Hall{},
			sessions: map[int64]domain.Session{},
			ledger:   map[ledgerKey]int{},
			users:    map[int64]domain.User{},
		},
	}
}

// enter takes the store lock unless we are already inside a transaction,
// which holds it for its whole extent.
func (s *Store) enter() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	if err := fn(ctx, &Store{mu: s.mu, d: s.d, inTx: true}); err != nil {
		*s.d = *snapshot
		return err
	}

	return nil
}

func (s *Store) Films() repository.FilmRepo       { return filmRepo{s} }
func (s *Store) Halls() repository.HallRepo       { return hallRepo{s} }
func (s *Store) Sessions() repository.SessionRepo { return sessionRepo{s} }
func (s *Store) Ledger() repository.LedgerRepo    { return ledgerRepo{s} }
func (s *Store) Tickets() repository.TicketRepo   { return ticketRepo{s} }
func (s *Store) Users() repository.UserRepo       { return userRepo{s} }

type filmRepo struct{ s *Store }

func (r filmRepo) Create(ctx context.Context, f domain.Film) (int64, error) {
	defer r.s.enter()()

	for _, existing := range r.s.d.films {
		if existing.Name == f.Name {
			return 0, repository.ErrConflict
		}
	}

	r.s.d.nextID++
	f.ID = r.s.d.nextID
	r.s.d.films[f.ID] = f
	return f.ID, nil
}

func (r filmRepo) List(ctx context.Context) ([]domain.Film, error) {
	defer r.s.enter()()

	films := make([]domain.Film, 0, len(r.s.d.films))
	for _, f := range r.s.d.films {
		films = append(films, f)
	}
	sort.Slice(films, func(i, j int) bool { return films[i].Name < films[j].Name })
	return films, nil
}

type hallRepo struct{ s *Store }

func (r hallRepo) Create(ctx context.Context, h domain.Hall) (int64, error) {
	defer r.s.enter()()

	for _, existing := range r.s.d.halls {
		if existing.Name == h.Name {
			return 0, repository.ErrConflict
		}
	}

	r.s.d.nextID++
	h.ID = r.s.d.nextID
	r.s.d.halls[h.ID] = h
	return h.ID, nil
}

func (r hallRepo) Update(ctx context.Context, h domain.Hall) error {
	defer r.s.enter()()

	if _, ok := r.s.d.halls[h.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.d.halls[h.ID] = h
	return nil
}

func (r hallRepo) Get(ctx context.Context, id int64) (*domain.Hall, error) {
	defer r.s.enter()()

	h, ok := r.s.d.halls[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &h, nil
}

func (r hallRepo) List(ctx context.Context) ([]domain.Hall, error) {
	defer r.s.enter()()

	halls := make([]domain.Hall, 0, len(r.s.d.halls))
	for _, h := range r.s.d.halls {
		halls = append(halls, h)
	}
	sort.Slice(halls, func(i, j int) bool { return halls[i].Name < halls[j].Name })
	return halls, nil
}

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(ctx context.Context, sess domain.Session) (int64, error) {
	defer r.s.enter()()

	if _, ok := r.s.d.films[sess.FilmID]; !ok {
		return 0, fmt.Errorf("film %d: %w", sess.FilmID, repository.ErrNotFound)
	}
	if _, ok := r.s.d.halls[sess.HallID]; !ok {
		return 0, fmt.Errorf("hall %d: %w", sess.HallID, repository.ErrNotFound)
	}

	r.s.d.nextID++
	sess.ID = r.s.d.nextID
	r.s.d.sessions[sess.ID] = sess
	return sess.ID, nil
}

func (r sessionRepo) Update(ctx context.Context, sess domain.Session) error {
	defer r.s.enter()()

	if _, ok := r.s.d.sessions[sess.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.d.sessions[sess.ID] = sess
	return nil
}

func (r sessionRepo) Get(ctx context.Context, id int64) (*domain.Session, error) {
	defer r.s.enter()()

	sess, ok := r.s.d.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

func (r sessionRepo) List(ctx context.Context, f domain.SessionFilter) ([]domain.Session, error) {
	defer r.s.enter()()

	var sessions []domain.Session
	for _, sess := range r.s.d.sessions {
		if f.Date != nil && !sess.RunsOn(*f.Date) {
			continue
		}
		if f.HallID != 0 && sess.HallID != f.HallID {
			continue
		}
		if f.PriceFrom != nil && sess.Price.LessThan(*f.PriceFrom) {
			continue
		}
		if f.PriceTo != nil && sess.Price.GreaterThan(*f.PriceTo) {
			continue
		}
		if f.TimeFrom != nil && sess.StartTime < *f.TimeFrom {
			continue
		}
		if f.TimeTo != nil && sess.StartTime > *f.TimeTo {
			continue
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartTime != sessions[j].StartTime {
			if f.OrderDesc {
				return sessions[i].StartTime > sessions[j].StartTime
			}
			return sessions[i].StartTime < sessions[j].StartTime
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

func (r sessionRepo) Overlapping(
	ctx context.Context,
	hallID int64,
	startDate, endDate time.Time,
	startTime, endTime domain.TimeOfDay,
	excludeID int64,
) ([]domain.Session, error) {
	defer r.s.enter()()

	var sessions []domain.Session
	for _, sess := range r.s.d.sessions {
		if sess.HallID != hallID || sess.ID == excludeID {
			continue
		}
		if sess.StartDate.After(endDate) || sess.EndDate.Before(startDate) {
			continue
		}
		if sess.StartTime > endTime || sess.EndTime < startTime {
			continue
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartTime != sessions[j].StartTime {
			return sessions[i].StartTime < sessions[j].StartTime
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

func (r sessionRepo) DeleteEndedBefore(ctx context.Context, date time.Time) (int64, error) {
	defer r.s.enter()()

	date = domain.DateOf(date)

	var removed int64
	for id, sess := range r.s.d.sessions {
		if !sess.EndDate.Before(date) {
			continue
		}
		delete(r.s.d.sessions, id)
		removed++

		for key := range r.s.d.ledger {
			if key.sessionID == id {
				delete(r.s.d.ledger, key)
			}
		}

		kept := r.s.d.tickets[:0]
		for _, t := range r.s.d.tickets {
			if t.SessionID != id {
				kept = append(kept, t)
			}
		}
		r.s.d.tickets = kept
	}
	return removed, nil
}

type ledgerRepo struct{ s *Store }

func (r ledgerRepo) OccupiedForUpdate(ctx context.Context, sessionID int64, date time.Time) (int, error) {
	defer r.s.enter()()

	key := ledgerKey{sessionID: sessionID, date: domain.DateOf(date)}
	occupied, ok := r.s.d.ledger[key]
	if !ok {
		r.s.d.ledger[key] = 0
	}
	return occupied, nil
}

func (r ledgerRepo) AddOccupied(ctx context.Context, sessionID int64, date time.Time, n int) error {
	defer r.s.enter()()

	key := ledgerKey{sessionID: sessionID, date: domain.DateOf(date)}
	r.s.d.ledger[key] += n
	return nil
}

func (r ledgerRepo) DeleteBefore(ctx context.Context, date time.Time) (int64, error) {
	defer r.s.enter()()

	date = domain.DateOf(date)

	var removed int64
	for key := range r.s.d.ledger {
		if key.date.Before(date) {
			delete(r.s.d.ledger, key)
			removed++
		}
	}
	return removed, nil
}

type ticketRepo struct{ s *Store }

func (r ticketRepo) Insert(ctx context.Context, t domain.Ticket) error {
	defer r.s.enter()()

	for _, existing := range r.s.d.tickets {
		if existing.ID == t.ID {
			return repository.ErrConflict
		}
	}
	r.s.d.tickets = append(r.s.d.tickets, t)
	return nil
}

func (r ticketRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	defer r.s.enter()()

	var tickets []domain.Ticket
	for _, t := range r.s.d.tickets {
		if t.UserID == userID {
			tickets = append(tickets, t)
		}
	}
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	return tickets, nil
}

func (r ticketRepo) CountBySession(ctx context.Context, sessionID int64) (int64, error) {
	defer r.s.enter()()

	var n int64
	for _, t := range r.s.d.tickets {
		if t.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (r ticketRepo) CountByHall(ctx context.Context, hallID int64, activeAfter *time.Time) (int64, error) {
	defer r.s.enter()()

	var n int64
	for _, t := range r.s.d.tickets {
		sess, ok := r.s.d.sessions[t.SessionID]
		if !ok || sess.HallID != hallID {
			continue
		}
		// end_date is inclusive, so a session ending today still counts.
		if activeAfter != nil && sess.EndDate.Before(domain.DateOf(*activeAfter)) {
			continue
		}
		n++
	}
	return n, nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u domain.User) (int64, error) {
	defer r.s.enter()()

	for _, existing := range r.s.d.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return 0, repository.ErrConflict
		}
	}

	r.s.d.nextID++
	u.ID = r.s.d.nextID
	u.TotalSpent = decimal.Zero
	r.s.d.users[u.ID] = u
	return u.ID, nil
}

func (r userRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	defer r.s.enter()()

	u, ok := r.s.d.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	defer r.s.enter()()

	for _, u := range r.s.d.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer r.s.enter()()

	for _, u := range r.s.d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) AddSpent(ctx context.Context, userID int64, amount decimal.Decimal) error {
	defer r.s.enter()()

	u, ok := r.s.d.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.TotalSpent = u.TotalSpent.Add(amount)
	r.s.d.users[userID] = u
	return nil
}
