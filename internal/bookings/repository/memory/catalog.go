package memory

import (
	"context"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/repository"
	"hotelbooking/pkg/model"
)

type hotelRepository struct {
	store *Store
}

func NewHotelRepository(store *Store) repository.HotelRepository {
	return &hotelRepository{store: store}
}

func (r *hotelRepository) FindByID(_ context.Context, id string) (*model.Hotel, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	h, ok := r.store.hotels[id]
	if !ok {
		return nil, bookingserrors.ErrHotelNotFound
	}
	return cloneHotel(h), nil
}

func (r *hotelRepository) GetByHotel(ctx context.Context, hotelID string) ([]model.RoomType, error) {
	h, err := r.FindByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if h.Rooms == nil {
		return []model.RoomType{}, nil
	}
	return h.Rooms, nil
}

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, bookingserrors.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepository) AddPoints(ctx context.Context, id string, points int64) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return bookingserrors.ErrUserNotFound
	}
	u.Point += points
	r.store.recordUndo(ctx, func() {
		if u, ok := r.store.users[id]; ok {
			u.Point -= points
		}
	})
	return nil
}

func (r *userRepository) ConsumeInventoryItem(ctx context.Context, id, redeemableID string) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return bookingserrors.ErrInventoryItemNotFound
	}
	for i, item := range u.Inventory {
		if item.RedeemableID != redeemableID || item.Count <= 0 {
			continue
		}
		u.Inventory[i].Count--
		if u.Inventory[i].Count <= 0 {
			u.Inventory = append(u.Inventory[:i], u.Inventory[i+1:]...)
		}
		r.store.recordUndo(ctx, func() { returnInventoryItem(r.store.users[id], redeemableID) })
		return nil
	}
	return bookingserrors.ErrInventoryItemNotFound
}

type redeemableRepository struct {
	store *Store
}

func NewRedeemableRepository(store *Store) repository.RedeemableRepository {
	return &redeemableRepository{store: store}
}

func (r *redeemableRepository) FindByID(_ context.Context, id string) (*model.Redeemable, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	red, ok := r.store.redeemables[id]
	if !ok {
		return nil, bookingserrors.ErrRedeemableNotFound
	}
	clone := *red
	return &clone, nil
}

type settingRepository struct {
	store *Store
}

func NewSettingRepository(store *Store) repository.SettingRepository {
	return &settingRepository{store: store}
}

func (r *settingRepository) GetFloat(_ context.Context, name string) (float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	value, ok := r.store.settings[name]
	if !ok {
		return 0, bookingserrors.ErrSettingNotFound
	}
	return value, nil
}

func (r *settingRepository) Set(_ context.Context, name string, value float64) error {
	r.store.PutSetting(name, value)
	return nil
}

type bookingLockRepository struct {
	store *Store
}

func NewBookingLockRepository(store *Store) repository.BookingLockRepository {
	return &bookingLockRepository{store: store}
}

func (r *bookingLockRepository) Create(_ context.Context, lock *model.BookingLock) error {
	lock.CreatedAt = time.Now().UTC()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, held := r.store.locks[lock.ID]; held {
		return bookingserrors.ErrLockHeld
	}
	clone := *lock
	r.store.locks[lock.ID] = &clone
	return nil
}

func (r *bookingLockRepository) Delete(_ context.Context, lockID, owner string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if lock, ok := r.store.locks[lockID]; ok && lock.Owner == owner {
		delete(r.store.locks, lockID)
	}
	return nil
}

func (r *bookingLockRepository) DeleteExpired(_ context.Context, lockID string, now time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	lock, ok := r.store.locks[lockID]
	if !ok || lock.ExpiresAt.After(now) {
		return false, nil
	}
	delete(r.store.locks, lockID)
	return true, nil
}

func returnInventoryItem(u *model.User, redeemableID string) {
	if u == nil {
		return
	}
	for i := range u.Inventory {
		if u.Inventory[i].RedeemableID == redeemableID {
			u.Inventory[i].Count++
			return
		}
	}
	u.Inventory = append(u.Inventory, model.InventoryItem{RedeemableID: redeemableID, Count: 1})
}
