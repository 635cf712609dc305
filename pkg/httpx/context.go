package httpx

import "context"

type ctxKey string

const (
	CtxKeyUsername ctxKey = "username"
	CtxKeyScopes   ctxKey = "scopes"
)

// UsernameFromCtx returns the authenticated caller's username, or "".
func UsernameFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUsername).(string); ok {
		return v
	}
	return ""
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
