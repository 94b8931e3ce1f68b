package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextUserKey       ctxKey = "userID"
	ContextActingDeptKey ctxKey = "actingDepartmentID"
	ContextSessionKey    ctxKey = "sessionID"
)

func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if userID, ok := ctx.Value(ContextUserKey).(int64); ok {
		return userID
	}
	return 0
}

func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

// ActingDepartmentFromContext returns the department the caller is acting
// for in this request. Zero means the session never switched and the home
// department applies.
func ActingDepartmentFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if deptID, ok := ctx.Value(ContextActingDeptKey).(int64); ok {
		return deptID
	}
	return 0
}

func ContextWithActingDepartment(ctx context.Context, departmentID int64) context.Context {
	return context.WithValue(ctx, ContextActingDeptKey, departmentID)
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if sessionID, ok := ctx.Value(ContextSessionKey).(string); ok {
		return sessionID
	}
	return ""
}

func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ContextSessionKey, sessionID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
