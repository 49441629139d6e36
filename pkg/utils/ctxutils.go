package utils

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

// GetSessionFromCtx returns the session resolved by SessionMiddleware.
func GetSessionFromCtx(ctx context.Context) (*authz.Session, error) {
	session, ok := ctx.Value(contextkeys.SessionKey).(*authz.Session)
	if !ok || session == nil || session.User == nil {
		return nil, apperrors.ErrSessionNotFoundInContext
	}
	return session, nil
}

func WithSession(ctx context.Context, session *authz.Session) context.Context {
	return context.WithValue(ctx, contextkeys.SessionKey, session)
}
