package engine

import (
	"context"
	"errors"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/pkg/model"
)

const (
	ReasonCouponRequired     = "coupon id required"
	ReasonUnauthenticated    = "user not authenticated"
	ReasonCouponNotFound     = "coupon not found"
	ReasonNotACoupon         = "redeemable is not a coupon"
	ReasonCouponNotInBag     = "coupon not in inventory"
	ReasonCouponExpired      = "coupon expired"
	ReasonDiscountOutOfRange = "coupon discount out of range"
)

// RedeemableStore reads coupon and gift definitions.
type RedeemableStore interface {
	FindByID(ctx context.Context, id string) (*model.Redeemable, error)
}

type CouponResult struct {
	Valid  bool
	Coupon *model.Redeemable
	Reason string
}

type CouponValidator struct {
	store RedeemableStore
	now   func() time.Time
}

func NewCouponValidator(store RedeemableStore) *CouponValidator {
	return &CouponValidator{store: store, now: time.Now}
}

// Validate checks that user holds a live coupon with the given id. Expiry is
// only enforced when checkExpiry is set, i.e. for new bookings.
func (v *CouponValidator) Validate(ctx context.Context, couponID string, user *model.User, checkExpiry bool) (*CouponResult, error) {
	if couponID == "" {
		return &CouponResult{Reason: ReasonCouponRequired}, nil
	}
	if user == nil {
		return &CouponResult{Reason: ReasonUnauthenticated}, nil
	}

	coupon, err := v.store.FindByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRedeemableNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return &CouponResult{Reason: ReasonCouponNotFound}, nil
		}
		return nil, err
	}

	return CheckCoupon(coupon, user, v.now(), checkExpiry), nil
}

// CheckCoupon applies the coupon rules to an already loaded redeemable.
func CheckCoupon(coupon *model.Redeemable, user *model.User, now time.Time, checkExpiry bool) *CouponResult {
	if coupon.Type != model.RedeemableCoupon {
		return &CouponResult{Coupon: coupon, Reason: ReasonNotACoupon}
	}
	if coupon.Discount < 0 || coupon.Discount > 1 {
		return &CouponResult{Coupon: coupon, Reason: ReasonDiscountOutOfRange}
	}
	if user.InventoryCount(coupon.ID) <= 0 {
		return &CouponResult{Coupon: coupon, Reason: ReasonCouponNotInBag}
	}
	if checkExpiry && coupon.Expire != nil && coupon.Expire.Before(now) {
		return &CouponResult{Coupon: coupon, Reason: ReasonCouponExpired}
	}
	return &CouponResult{Valid: true, Coupon: coupon}
}
