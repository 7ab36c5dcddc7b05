package secctx

import (
	"context"
	"net/http"
	"strings"

	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/shaj13/go-guardian/v2/auth"
)

const RoleExt = "role"

type contextKey string

const secCtxKey contextKey = "secCtx"

type SecurityContext interface {
	getUserId() string
	getUserToken() string
	IsSystem() bool
}

func MakeUserContext(r *http.Request) context.Context {
	user := auth.User(r)
	userId := ""
	role := ""
	if user != nil {
		userId = user.GetID()
		role = user.GetExtensions().Get(RoleExt)
	}

	return context.WithValue(r.Context(), secCtxKey, securityContextImpl{
		userId:   userId,
		role:     role,
		token:    getAuthorizationToken(r),
		isSystem: false,
	})
}

// MakeSystemContext is used by background workers acting on behalf of a user.
func MakeSystemContext(ctx context.Context, userId string) context.Context {
	return context.WithValue(ctx, secCtxKey, securityContextImpl{userId: userId, isSystem: true})
}

type securityContextImpl struct {
	userId   string
	role     string
	token    string
	isSystem bool
}

func (ctx securityContextImpl) getUserId() string    { return ctx.userId }
func (ctx securityContextImpl) getUserToken() string { return ctx.token }
func (ctx securityContextImpl) IsSystem() bool       { return ctx.isSystem }

func getAuthorizationToken(r *http.Request) string {
	if token := getTokenFromAuthHeader(r); token != "" {
		return token
	}
	return getTokenFromCookie(r)
}

func getTokenFromAuthHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

func getTokenFromCookie(r *http.Request) string {
	accessTokenCookie, err := r.Cookie(view.AccessTokenCookieName)
	if err != nil {
		return ""
	}

	return accessTokenCookie.Value
}

func get(ctx context.Context) (securityContextImpl, bool) {
	val, ok := ctx.Value(secCtxKey).(securityContextImpl)
	return val, ok
}

func IsSystem(ctx context.Context) bool {
	val, ok := get(ctx)
	return ok && val.isSystem
}

func IsAdmin(ctx context.Context) bool {
	val, ok := get(ctx)
	return ok && val.role == string(view.RoleAdmin)
}

func GetUserId(ctx context.Context) string {
	val, ok := get(ctx)
	if !ok {
		return ""
	}
	return val.getUserId()
}

func GetUserToken(ctx context.Context) string {
	val, ok := get(ctx)
	if !ok {
		return ""
	}
	return val.getUserToken()
}
