package service

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/repository"
	"hotelbooking/pkg/middleware"
	"hotelbooking/pkg/model"
)

// ActorResolver loads the user behind an authenticated request.
type ActorResolver struct {
	users repository.UserRepository
}

func NewActorResolver(users repository.UserRepository) *ActorResolver {
	return &ActorResolver{users: users}
}

func (r *ActorResolver) ResolveActor(ctx context.Context, userID string) (*model.Actor, error) {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrUserNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %s", middleware.ErrUnknownActor, userID)
		}
		return nil, err
	}
	return model.ActorFromUser(user), nil
}
