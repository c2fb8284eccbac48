package memory

import (
	"context"
	"sort"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/repository"
	mongotx "hotelbooking/pkg/db/mongo"
	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingRepository struct {
	store *Store
}

func NewBookingRepository(store *Store) repository.BookingRepository {
	return &bookingRepository{store: store}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	booking.ID = primitive.NewObjectID().Hex()
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	id := booking.ID
	r.store.bookings[id] = cloneBooking(booking)
	r.store.recordUndo(ctx, func() { delete(r.store.bookings, id) })
	return nil
}

func (r *bookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *bookingRepository) Find(_ context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	matched := r.filter(filter)
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].StartDate.Equal(matched[j].StartDate) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].StartDate.Before(matched[j].StartDate)
	})

	if offset >= int64(len(matched)) {
		return []*model.Booking{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *bookingRepository) Count(_ context.Context, filter model.BookingFilter) (int64, error) {
	return int64(len(r.filter(filter))), nil
}

func (r *bookingRepository) FindOverlapping(_ context.Context, hotelID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bookings := []*model.Booking{}
	for _, b := range r.store.bookings {
		if b.HotelID != hotelID || b.ID == excludeID || !b.Status.IsActive() {
			continue
		}
		if b.StartDate.After(end) || b.EndDate.Before(start) {
			continue
		}
		bookings = append(bookings, cloneBooking(b))
	}
	return bookings, nil
}

func (r *bookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	updated := cloneBooking(existing)
	updated.UserID = booking.UserID
	updated.StartDate = booking.StartDate
	updated.EndDate = booking.EndDate
	updated.Rooms = append([]model.RoomRequest(nil), booking.Rooms...)
	updated.Status = booking.Status
	updated.Price = booking.Price
	r.store.bookings[id] = updated
	r.store.restoreOnUndo(ctx, existing)
	return nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id string, from, to model.BookingStatus) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	if b.Status != from {
		return bookingserrors.ErrStatusMismatch
	}
	updated := cloneBooking(b)
	updated.Status = to
	r.store.bookings[id] = updated
	r.store.restoreOnUndo(ctx, b)
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	delete(r.store.bookings, id)
	r.store.restoreOnUndo(ctx, existing)
	return nil
}

func (r *bookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.store.executeTransaction(ctx, fn)
}

func (r *bookingRepository) filter(filter model.BookingFilter) []*model.Booking {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := []*model.Booking{}
	for _, b := range r.store.bookings {
		if filter.HotelID != "" && b.HotelID != filter.HotelID {
			continue
		}
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		matched = append(matched, cloneBooking(b))
	}
	return matched
}

// restoreOnUndo puts prior back under its id if the surrounding
// transaction fails. prior must no longer be referenced by the table.
func (s *Store) restoreOnUndo(ctx context.Context, prior *model.Booking) {
	s.recordUndo(ctx, func() { s.bookings[prior.ID] = prior })
}
