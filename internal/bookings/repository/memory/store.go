// Package memory holds goroutine-safe in-memory implementations of the
// booking repositories. They back the "memory" storage driver and serve as
// fakes in tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the shared state behind all in-memory repositories. A
// transaction holds txMu for its whole duration. Writes made with the
// transaction context record an undo step; if the transaction function
// fails only those steps are reverted, so writes made outside the
// transaction in the meantime survive.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	bookings    map[string]*model.Booking
	hotels      map[string]*model.Hotel
	users       map[string]*model.User
	redeemables map[string]*model.Redeemable
	settings    map[string]float64
	locks       map[string]*model.BookingLock
}

func NewStore() *Store {
	return &Store{
		bookings:    map[string]*model.Booking{},
		hotels:      map[string]*model.Hotel{},
		users:       map[string]*model.User{},
		redeemables: map[string]*model.Redeemable{},
		settings:    map[string]float64{},
		locks:       map[string]*model.BookingLock{},
	}
}

// Seed is the JSON document accepted by LoadSeed.
type Seed struct {
	Hotels      []*model.Hotel      `json:"hotels"`
	Users       []*model.User       `json:"users"`
	Redeemables []*model.Redeemable `json:"redeemables"`
	Settings    []model.Setting     `json:"settings"`
}

// LoadSeed reads a Seed document and stores its records.
func (s *Store) LoadSeed(r io.Reader) error {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("failed to decode seed: %w", err)
	}
	for _, h := range seed.Hotels {
		if err := s.PutHotel(h); err != nil {
			return err
		}
	}
	for _, u := range seed.Users {
		if err := s.PutUser(u); err != nil {
			return err
		}
	}
	for _, r := range seed.Redeemables {
		if err := s.PutRedeemable(r); err != nil {
			return err
		}
	}
	for _, setting := range seed.Settings {
		s.PutSetting(setting.Name, setting.Value)
	}
	return nil
}

func (s *Store) PutHotel(h *model.Hotel) error {
	id, err := assignID(h.ID)
	if err != nil {
		return err
	}
	h.ID = id
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotels[id] = cloneHotel(h)
	return nil
}

func (s *Store) PutUser(u *model.User) error {
	id, err := assignID(u.ID)
	if err != nil {
		return err
	}
	u.ID = id
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = cloneUser(u)
	return nil
}

func (s *Store) PutRedeemable(r *model.Redeemable) error {
	id, err := assignID(r.ID)
	if err != nil {
		return err
	}
	r.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *r
	s.redeemables[id] = &clone
	return nil
}

func (s *Store) PutSetting(name string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[name] = value
}

type txKey struct{}

type undoLog struct {
	store *Store
	mu    sync.Mutex
	steps []func()
}

// recordUndo registers step to run if the transaction bound to ctx fails.
// Callers hold s.mu; steps run with s.mu held.
func (s *Store) recordUndo(ctx context.Context, step func()) {
	log, ok := ctx.Value(txKey{}).(*undoLog)
	if !ok || log.store != s {
		return
	}
	log.mu.Lock()
	log.steps = append(log.steps, step)
	log.mu.Unlock()
}

func (s *Store) executeTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &undoLog{store: s}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		log.mu.Lock()
		defer log.mu.Unlock()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := len(log.steps) - 1; i >= 0; i-- {
			log.steps[i]()
		}
		return err
	}
	return nil
}

func assignID(id string) (string, error) {
	if id == "" {
		return primitive.NewObjectID().Hex(), nil
	}
	if !primitive.IsValidObjectID(id) {
		return "", fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return id, nil
}

func checkID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return nil
}

func cloneBooking(b *model.Booking) *model.Booking {
	clone := *b
	clone.Rooms = append([]model.RoomRequest(nil), b.Rooms...)
	return &clone
}

func cloneHotel(h *model.Hotel) *model.Hotel {
	clone := *h
	clone.Rooms = append([]model.RoomType(nil), h.Rooms...)
	return &clone
}

func cloneUser(u *model.User) *model.User {
	clone := *u
	clone.Inventory = append([]model.InventoryItem(nil), u.Inventory...)
	return &clone
}
