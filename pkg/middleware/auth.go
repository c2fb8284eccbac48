package middleware

import (
	"context"
	"errors"
	"net/http"

	apperrors "hotelbooking/pkg/errors"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"
)

// UserIDHeader carries the id of the user authenticated by the upstream
// gateway.
const UserIDHeader = "X-User-ID"

// ErrUnknownActor is returned by an ActorResolver when the user id does not
// name a known user.
var ErrUnknownActor = errors.New("unknown actor")

type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (*model.Actor, error)
}

type actorKey struct{}

func ContextWithActor(ctx context.Context, actor *model.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the authenticated actor, or nil.
func ActorFromContext(ctx context.Context) *model.Actor {
	actor, _ := ctx.Value(actorKey{}).(*model.Actor)
	return actor
}

// Authenticate resolves the X-User-ID header to an actor and stores it in
// the request context. Requests without a known user get 401.
func Authenticate(resolver ActorResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := log.FromContext(r.Context())
			userID := r.Header.Get(UserIDHeader)
			if userID == "" {
				l.Warn("Missing user id header", "path", r.URL.Path)
				_ = httputil.WriteError(w, apperrors.Unauthorized("User not authenticated"))
				return
			}

			actor, err := resolver.ResolveActor(r.Context(), userID)
			if err != nil {
				if errors.Is(err, ErrUnknownActor) {
					l.Warn("Unknown user", "user_id", userID, "path", r.URL.Path)
					_ = httputil.WriteError(w, apperrors.Unauthorized("User not authenticated"))
					return
				}
				l.Error("Failed to resolve user", "user_id", userID, "error", err)
				_ = httputil.WriteError(w, apperrors.Internal("Failed to authenticate user", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
		})
	}
}
