package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"hotelbooking/internal/bookings/engine"
	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/events"
	"hotelbooking/internal/bookings/repository"
	"hotelbooking/internal/bookings/validator"
	"hotelbooking/pkg/config"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/model"
	"hotelbooking/pkg/sanitizer"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type BookingService interface {
	Create(ctx context.Context, actor *model.Actor, req *model.BookingRequest) (*BookingResult, error)
	Update(ctx context.Context, actor *model.Actor, id string, update *model.BookingUpdate) (*BookingResult, error)
	Cancel(ctx context.Context, actor *model.Actor, id string) error
	CheckIn(ctx context.Context, actor *model.Actor, id string) (*CheckInResult, error)
	Complete(ctx context.Context, actor *model.Actor, id string) (*model.Booking, error)
	GetByID(ctx context.Context, actor *model.Actor, id string) (*model.Booking, error)
	GetExpanded(ctx context.Context, actor *model.Actor, id string) (*model.BookingExpanded, error)
	List(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Booking, int64, error)
	Availability(ctx context.Context, hotelID string, start, end time.Time) ([]model.RoomAvailability, error)
	Quote(ctx context.Context, hotelID string, start, end time.Time, rooms []model.RoomRequest) (*engine.Quote, error)
}

// BookingResult is the outcome of a create or update. CouponUsed and
// Discount are set only when a coupon discount was applied.
type BookingResult struct {
	Booking    *model.Booking
	Price      float64
	CouponUsed string
	Discount   float64
}

type CheckInResult struct {
	Booking       *model.Booking
	PointsAwarded int64
}

// Dependencies groups the stores and collaborators of the booking service.
type Dependencies struct {
	Bookings    repository.BookingRepository
	Locks       repository.BookingLockRepository
	Hotels      repository.HotelRepository
	Users       repository.UserRepository
	Redeemables repository.RedeemableRepository
	Settings    repository.SettingRepository
	Events      events.Publisher
	Validator   *validator.BookingValidator
}

type bookingService struct {
	repo         repository.BookingRepository
	lockRepo     repository.BookingLockRepository
	hotels       repository.HotelRepository
	users        repository.UserRepository
	redeemables  repository.RedeemableRepository
	settings     repository.SettingRepository
	events       events.Publisher
	validator    *validator.BookingValidator
	availability *engine.AvailabilityCalculator
	quotes       *engine.PriceQuoteEngine
	coupons      *engine.CouponValidator
	cfg          *config.Config
	now          func() time.Time
}

func NewBookingService(deps Dependencies, cfg *config.Config) BookingService {
	availability := engine.NewAvailabilityCalculator(deps.Hotels, deps.Bookings)
	publisher := deps.Events
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}

	return &bookingService{
		repo:         deps.Bookings,
		lockRepo:     deps.Locks,
		hotels:       deps.Hotels,
		users:        deps.Users,
		redeemables:  deps.Redeemables,
		settings:     deps.Settings,
		events:       publisher,
		validator:    deps.Validator,
		availability: availability,
		quotes:       engine.NewPriceQuoteEngine(availability),
		coupons:      engine.NewCouponValidator(deps.Redeemables),
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, actor *model.Actor, req *model.BookingRequest) (*BookingResult, error) {
	log := s.cfg.Log.FromContext(ctx)
	if actor == nil {
		return nil, apperrors.Unauthorized("User not authenticated")
	}

	sanitizer.NormalizeBookingRequest(req)
	if !actor.IsPrivileged() || req.UserID == "" {
		req.UserID = actor.ID
	}
	req.StartDate = model.CalendarDate(req.StartDate)
	req.EndDate = model.CalendarDate(req.EndDate)

	if err := s.validator.Validate(req); err != nil {
		log.Warn("Booking validation failed", "hotel_id", req.HotelID, "user_id", req.UserID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	var user *model.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := s.hotels.FindByID(gctx, req.HotelID); err != nil {
			return s.mapRepoError(err, "Hotel", req.HotelID, "Failed to load hotel")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		user, err = s.users.FindByID(gctx, req.UserID)
		if err != nil {
			return s.mapRepoError(err, "User", req.UserID, "Failed to load user")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn("Booking prerequisites not met", "hotel_id", req.HotelID, "user_id", req.UserID, "error", err)
		return nil, err
	}

	release, err := s.acquireHotelLock(ctx, req.HotelID)
	if err != nil {
		return nil, err
	}
	defer release()

	quote, err := s.quotes.Quote(ctx, req.HotelID, req.StartDate, req.EndDate, req.Rooms, "")
	if err != nil {
		return nil, s.mapRepoError(err, "Hotel", req.HotelID, "Failed to compute price")
	}
	if !quote.Valid {
		log.Warn("Booking rejected", "hotel_id", req.HotelID, "reason", quote.Reason, "room_type", quote.RoomType)
		return nil, quoteError(quote)
	}

	var coupon *model.Redeemable
	if req.CouponID != "" {
		check, err := s.coupons.Validate(ctx, req.CouponID, user, true)
		if err != nil {
			return nil, apperrors.Internal("Failed to validate coupon", err)
		}
		if !check.Valid {
			log.Warn("Coupon rejected", "coupon_id", req.CouponID, "user_id", req.UserID, "reason", check.Reason)
			return nil, couponError(check)
		}
		coupon = check.Coupon
	}

	result := &BookingResult{Price: quote.Price}
	if coupon != nil {
		result.Price, result.Discount = engine.ApplyDiscount(quote.Price, coupon.Discount)
		result.CouponUsed = coupon.ID
	}

	booking := &model.Booking{
		HotelID:   req.HotelID,
		UserID:    req.UserID,
		Status:    model.StatusReserved,
		Price:     result.Price,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Rooms:     req.Rooms,
		CouponID:  result.CouponUsed,
	}

	// The coupon unit is taken in the same transaction, after the booking
	// is written. A unit spent concurrently by another request makes the
	// conditional consume fail and rolls the booking back.
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		if coupon == nil {
			return nil
		}
		if err := s.users.ConsumeInventoryItem(txCtx, booking.UserID, coupon.ID); err != nil {
			if errors.Is(err, bookingserrors.ErrInventoryItemNotFound) {
				return apperrors.InvalidInput(engine.ReasonCouponNotInBag)
			}
			return apperrors.Internal("Failed to consume coupon", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			log.Warn("Coupon already spent", "coupon_id", req.CouponID, "user_id", req.UserID)
		} else {
			log.Error("Failed to create booking", "hotel_id", req.HotelID, "user_id", req.UserID, "error", err)
		}
		booking.ID = ""
		return nil, err
	}
	release()
	result.Booking = booking

	log.Info("Booking created successfully",
		"id", booking.ID,
		"hotel_id", booking.HotelID,
		"user_id", booking.UserID,
		"price", booking.Price,
		"coupon_id", booking.CouponID,
	)
	s.publish(ctx, model.EventBookingCreated, booking, actor, 0)
	return result, nil
}

func (s *bookingService) Update(ctx context.Context, actor *model.Actor, id string, update *model.BookingUpdate) (*BookingResult, error) {
	log := s.cfg.Log.FromContext(ctx)
	if actor == nil {
		return nil, apperrors.Unauthorized("User not authenticated")
	}

	existing, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	sanitizer.NormalizeBookingUpdate(update)
	if err := s.validator.ValidateUpdate(update); err != nil {
		log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(existing, update, actor)
	if err := s.validator.ValidateWindow(merged.StartDate, merged.EndDate); err != nil {
		log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	if existing.Status != model.StatusReserved && windowOrRoomsChanged(existing, merged) {
		return nil, apperrors.InvalidState("Booking is not reserved")
	}
	checkingIn, err := statusChange(existing.Status, merged.Status)
	if err != nil {
		return nil, err
	}
	if merged.UserID != existing.UserID {
		if _, err := s.users.FindByID(ctx, merged.UserID); err != nil {
			return nil, s.mapRepoError(err, "User", merged.UserID, "Failed to load user")
		}
	}

	release, err := s.acquireHotelLock(ctx, existing.HotelID)
	if err != nil {
		return nil, err
	}
	defer release()

	quote, err := s.quotes.Quote(ctx, existing.HotelID, merged.StartDate, merged.EndDate, merged.Rooms, existing.ID)
	if err != nil {
		return nil, s.mapRepoError(err, "Hotel", existing.HotelID, "Failed to compute price")
	}
	if !quote.Valid {
		log.Warn("Booking update rejected", "id", id, "reason", quote.Reason, "room_type", quote.RoomType)
		return nil, quoteError(quote)
	}

	result := &BookingResult{Price: quote.Price}
	if existing.CouponID != "" {
		coupon, err := s.redeemables.FindByID(ctx, existing.CouponID)
		switch {
		case err == nil:
			result.Price, result.Discount = engine.ApplyDiscount(quote.Price, coupon.Discount)
			result.CouponUsed = coupon.ID
		case errors.Is(err, bookingserrors.ErrRedeemableNotFound), errors.Is(err, bookingserrors.ErrInvalidID):
			log.Warn("Applied coupon no longer exists, pricing without discount", "id", id, "coupon_id", existing.CouponID)
		default:
			return nil, apperrors.Internal("Failed to load coupon", err)
		}
	}
	merged.Price = result.Price

	var points int64
	if checkingIn {
		if points, err = s.pointsFor(ctx, merged.Price); err != nil {
			return nil, err
		}
	}

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if merged.Status != existing.Status {
			if err := s.repo.TransitionStatus(txCtx, id, existing.Status, merged.Status); err != nil {
				return s.mapTransitionError(err, id, existing.Status)
			}
		}
		if err := s.repo.Update(txCtx, id, merged); err != nil {
			return s.mapRepoError(err, "Booking", id, "Failed to update booking")
		}
		if points > 0 {
			if err := s.users.AddPoints(txCtx, merged.UserID, points); err != nil {
				return s.mapRepoError(err, "User", merged.UserID, "Failed to award points")
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}
	release()
	result.Booking = merged

	log.Info("Booking updated successfully", "id", id, "hotel_id", merged.HotelID, "price", merged.Price, "status", merged.Status)
	s.publish(ctx, model.EventBookingUpdated, merged, actor, 0)
	if checkingIn {
		s.publish(ctx, model.EventBookingCheckedIn, merged, actor, points)
	}
	return result, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor *model.Actor, id string) error {
	log := s.cfg.Log.FromContext(ctx)
	if actor == nil {
		return apperrors.Unauthorized("User not authenticated")
	}

	existing, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Failed to delete booking", "id", id, "error", err)
		return s.mapRepoError(err, "Booking", id, "Failed to delete booking")
	}

	log.Info("Booking canceled successfully", "id", id, "hotel_id", existing.HotelID, "user_id", existing.UserID)
	s.publish(ctx, model.EventBookingCanceled, existing, actor, 0)
	return nil
}

func (s *bookingService) CheckIn(ctx context.Context, actor *model.Actor, id string) (*CheckInResult, error) {
	log := s.cfg.Log.FromContext(ctx)
	if err := requirePrivileged(actor, "check in bookings"); err != nil {
		return nil, err
	}

	booking, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.StatusReserved {
		return nil, apperrors.InvalidState("Booking is not reserved")
	}

	points, err := s.pointsFor(ctx, booking.Price)
	if err != nil {
		return nil, err
	}

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.TransitionStatus(txCtx, id, model.StatusReserved, model.StatusCheckedIn); err != nil {
			return s.mapTransitionError(err, id, model.StatusReserved)
		}
		if points > 0 {
			if err := s.users.AddPoints(txCtx, booking.UserID, points); err != nil {
				return s.mapRepoError(err, "User", booking.UserID, "Failed to award points")
			}
		}
		return nil
	})
	if err != nil {
		if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
			log.Error("Failed to check in booking", "id", id, "error", err)
		}
		return nil, err
	}
	booking.Status = model.StatusCheckedIn

	log.Info("Booking checked in successfully", "id", id, "user_id", booking.UserID, "points_awarded", points)
	s.publish(ctx, model.EventBookingCheckedIn, booking, actor, points)
	return &CheckInResult{Booking: booking, PointsAwarded: points}, nil
}

func (s *bookingService) Complete(ctx context.Context, actor *model.Actor, id string) (*model.Booking, error) {
	log := s.cfg.Log.FromContext(ctx)
	if err := requirePrivileged(actor, "complete bookings"); err != nil {
		return nil, err
	}

	booking, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.StatusCheckedIn {
		return nil, apperrors.InvalidState("Booking is not checkedIn")
	}

	if err := s.repo.TransitionStatus(ctx, id, model.StatusCheckedIn, model.StatusCompleted); err != nil {
		return nil, s.mapTransitionError(err, id, model.StatusCheckedIn)
	}
	booking.Status = model.StatusCompleted

	log.Info("Booking completed successfully", "id", id, "hotel_id", booking.HotelID)
	s.publish(ctx, model.EventBookingCompleted, booking, actor, 0)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor *model.Actor, id string) (*model.Booking, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	return s.loadAuthorized(ctx, actor, id)
}

func (s *bookingService) GetExpanded(ctx context.Context, actor *model.Actor, id string) (*model.BookingExpanded, error) {
	booking, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	hotel := &model.Hotel{ID: booking.HotelID}
	user := &model.User{ID: booking.UserID}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.hotels.FindByID(gctx, booking.HotelID)
		if err == nil {
			hotel = h
			return nil
		}
		if errors.Is(err, bookingserrors.ErrHotelNotFound) {
			s.cfg.Log.FromContext(ctx).Warn("Booking references a missing hotel", "id", id, "hotel_id", booking.HotelID)
			return nil
		}
		return apperrors.Internal("Failed to load hotel", err)
	})
	g.Go(func() error {
		u, err := s.users.FindByID(gctx, booking.UserID)
		if err == nil {
			user = u
			return nil
		}
		if errors.Is(err, bookingserrors.ErrUserNotFound) {
			s.cfg.Log.FromContext(ctx).Warn("Booking references a missing user", "id", id, "user_id", booking.UserID)
			return nil
		}
		return apperrors.Internal("Failed to load user", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return model.ExpandBooking(booking, hotel, user), nil
}

func (s *bookingService) List(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Booking, int64, error) {
	log := s.cfg.Log.FromContext(ctx)
	if actor == nil {
		return nil, 0, apperrors.Unauthorized("User not authenticated")
	}

	var filter model.BookingFilter
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleHotelManager:
		if actor.HotelID == "" {
			return nil, 0, apperrors.Forbidden("Hotel manager is not assigned to a hotel")
		}
		filter.HotelID = actor.HotelID
	default:
		filter.UserID = actor.ID
	}

	var count int64
	var bookings []*model.Booking
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx, filter)
		if err != nil {
			log.Error("Failed to count bookings", "error", err)
			return apperrors.Internal("Failed to count bookings", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = s.repo.Find(gctx, filter, limit, offset)
		if err != nil {
			log.Error("Failed to list bookings", "limit", limit, "offset", offset, "error", err)
			return apperrors.Internal("Failed to retrieve bookings", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	log.Debug("Booking list completed", "count", len(bookings), "total_count", count)
	return bookings, count, nil
}

func (s *bookingService) Availability(ctx context.Context, hotelID string, start, end time.Time) ([]model.RoomAvailability, error) {
	start, end = model.CalendarDate(start), model.CalendarDate(end)
	if err := s.validator.ValidateQuery(start, end); err != nil {
		return nil, apperrors.Validation("Invalid date range", map[string]any{"error": err.Error()})
	}

	availability, err := s.availability.Availability(ctx, hotelID, start, end)
	if err != nil {
		return nil, s.mapRepoError(err, "Hotel", hotelID, "Failed to compute availability")
	}
	return availability, nil
}

func (s *bookingService) Quote(ctx context.Context, hotelID string, start, end time.Time, rooms []model.RoomRequest) (*engine.Quote, error) {
	start, end = model.CalendarDate(start), model.CalendarDate(end)
	if err := s.validator.ValidateWindow(start, end); err != nil {
		return nil, apperrors.Validation("Invalid date range", map[string]any{"error": err.Error()})
	}

	quote, err := s.quotes.Quote(ctx, hotelID, start, end, sanitizer.NormalizeRooms(rooms), "")
	if err != nil {
		return nil, s.mapRepoError(err, "Hotel", hotelID, "Failed to compute price")
	}
	return quote, nil
}

// --- Helpers ---

// loadAuthorized loads a booking and checks that the actor may act on it:
// users on their own bookings, managers on bookings of their hotel.
func (s *bookingService) loadAuthorized(ctx context.Context, actor *model.Actor, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "Booking", id, "Failed to retrieve booking")
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleHotelManager:
		if actor.HotelID == "" || booking.HotelID != actor.HotelID {
			return nil, apperrors.Forbidden("Not authorized to access bookings of this hotel")
		}
	default:
		if booking.UserID != actor.ID {
			return nil, apperrors.Forbidden("Not authorized to access this booking")
		}
	}
	return booking, nil
}

func requirePrivileged(actor *model.Actor, action string) error {
	if actor == nil {
		return apperrors.Unauthorized("User not authenticated")
	}
	if !actor.IsPrivileged() {
		return apperrors.Forbidden("Only hotel managers and admins can " + action)
	}
	return nil
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate, actor *model.Actor) *model.Booking {
	merged := *existing
	merged.Rooms = append([]model.RoomRequest(nil), existing.Rooms...)

	if updates.StartDate != nil {
		merged.StartDate = model.CalendarDate(*updates.StartDate)
	}
	if updates.EndDate != nil {
		merged.EndDate = model.CalendarDate(*updates.EndDate)
	}
	if updates.Rooms != nil {
		merged.Rooms = append([]model.RoomRequest(nil), (*updates.Rooms)...)
	}
	if actor.IsPrivileged() {
		if updates.UserID != "" {
			merged.UserID = updates.UserID
		}
		if updates.Status != "" {
			merged.Status = updates.Status
		}
	}

	return &merged
}

func windowOrRoomsChanged(before, after *model.Booking) bool {
	if !before.StartDate.Equal(after.StartDate) || !before.EndDate.Equal(after.EndDate) {
		return true
	}
	if len(before.Rooms) != len(after.Rooms) {
		return true
	}
	for i := range before.Rooms {
		if before.Rooms[i] != after.Rooms[i] {
			return true
		}
	}
	return false
}

// statusChange accepts no change or a single forward step and reports whether
// the step is a check-in.
func statusChange(from, to model.BookingStatus) (bool, error) {
	switch {
	case from == to:
		return false, nil
	case from == model.StatusReserved && to == model.StatusCheckedIn:
		return true, nil
	case from == model.StatusCheckedIn && to == model.StatusCompleted:
		return false, nil
	}
	return false, apperrors.InvalidState(fmt.Sprintf("Booking cannot move from %s to %s", from, to))
}

func (s *bookingService) pointsFor(ctx context.Context, price float64) (int64, error) {
	ratio, err := s.settings.GetFloat(ctx, model.SettingPriceToPoint)
	if err != nil {
		return 0, apperrors.Internal("Failed to read price to point ratio", err)
	}
	if ratio <= 0 {
		return 0, apperrors.Internal("Price to point ratio is not configured", nil)
	}
	return int64(math.Floor(price / ratio)), nil
}

// acquireHotelLock serializes capacity checks and writes for one hotel. The
// returned release func is idempotent.
func (s *bookingService) acquireHotelLock(ctx context.Context, hotelID string) (func(), error) {
	log := s.cfg.Log.FromContext(ctx)
	lockID := fmt.Sprintf("booking_lock_%s", hotelID)
	owner := uuid.NewString()

	for attempt := 1; attempt <= s.cfg.BookingLockRetryAttempts; attempt++ {
		lock := &model.BookingLock{
			ID:        lockID,
			Owner:     owner,
			ExpiresAt: s.now().Add(s.cfg.BookingLockTTL),
			CreatedAt: s.now(),
		}

		err := s.lockRepo.Create(ctx, lock)
		if err == nil {
			return s.releaseFunc(ctx, lockID, owner), nil
		}
		if !errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.Internal("Failed to acquire booking lock", err)
		}

		removed, err := s.lockRepo.DeleteExpired(ctx, lockID, s.now())
		if err != nil {
			return nil, apperrors.Internal("Failed to clear expired booking lock", err)
		}
		if removed {
			log.Warn("Cleared expired booking lock", "lock_id", lockID)
			continue
		}

		if attempt == s.cfg.BookingLockRetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, apperrors.Timeout("Timed out waiting for booking lock")
		case <-time.After(s.cfg.BookingLockRetryDelay):
		}
	}

	log.Warn("Booking lock contention", "lock_id", lockID, "attempts", s.cfg.BookingLockRetryAttempts)
	return nil, apperrors.Conflict("This hotel is currently processing another booking. Please try again.")
}

func (s *bookingService) releaseFunc(ctx context.Context, lockID, owner string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true
		if err := s.lockRepo.Delete(context.WithoutCancel(ctx), lockID, owner); err != nil {
			s.cfg.Log.FromContext(ctx).Warn("Failed to release booking lock", "lock_id", lockID, "error", err)
		}
	}
}

func (s *bookingService) publish(ctx context.Context, eventType string, b *model.Booking, actor *model.Actor, points int64) {
	event := &model.BookingEvent{
		Type:          eventType,
		BookingID:     b.ID,
		HotelID:       b.HotelID,
		UserID:        b.UserID,
		ActorID:       actor.ID,
		Status:        b.Status,
		Price:         b.Price,
		PointsAwarded: points,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.cfg.Log.FromContext(ctx).Warn("Failed to publish booking event", "type", eventType, "id", b.ID, "error", err)
	}
}

func (s *bookingService) mapRepoError(err error, resource, id, action string) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrHotelNotFound):
		return apperrors.NotFoundWithID("Hotel", id)
	case errors.Is(err, bookingserrors.ErrUserNotFound):
		return apperrors.NotFoundWithID("User", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid %s ID format", resource))
	}
	return apperrors.Internal(action, err)
}

func (s *bookingService) mapTransitionError(err error, id string, expected model.BookingStatus) error {
	if errors.Is(err, bookingserrors.ErrStatusMismatch) {
		return apperrors.InvalidState(fmt.Sprintf("Booking is not %s", expected))
	}
	return s.mapRepoError(err, "Booking", id, "Failed to update booking status")
}

func quoteError(q *engine.Quote) error {
	switch q.Reason {
	case engine.ReasonNotEnoughRoom:
		return apperrors.Capacity(q.Reason, map[string]any{"roomType": q.RoomType, "remaining": q.Remaining})
	case engine.ReasonInvalidRoomType:
		return apperrors.InvalidInput(q.Reason).WithDetails(map[string]any{"roomType": q.RoomType})
	}
	return apperrors.InvalidInput(q.Reason)
}

func couponError(r *engine.CouponResult) error {
	switch r.Reason {
	case engine.ReasonUnauthenticated:
		return apperrors.Unauthorized("User not authenticated")
	case engine.ReasonCouponNotFound:
		return apperrors.NotFound("Coupon")
	}
	return apperrors.InvalidInput(r.Reason)
}
