package security

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/repository"
	"github.com/Netcracker/qubership-roadmap-service/secctx"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/shaj13/go-guardian/v2/auth"
	"github.com/shaj13/go-guardian/v2/auth/strategies/token"
	"github.com/shaj13/go-guardian/v2/auth/strategies/union"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
)

var strategy union.Union

func SetupGoGuardian(userRepo repository.UserRepository, issuer TokenIssuer) error {
	if userRepo == nil {
		return fmt.Errorf("userRepo is nil")
	}
	if issuer == nil {
		return fmt.Errorf("token issuer is nil")
	}

	cache := libcache.LRU.New(1000)
	cache.SetTTL(time.Minute * 10)
	cache.RegisterOnExpired(func(key, _ interface{}) {
		cache.Delete(key)
	})

	authenticate := makeAuthenticateFunc(userRepo, issuer)
	bearerStrategy := token.New(authenticate, cache, token.SetParser(token.AuthorizationParser("Bearer")))
	cookieStrategy := token.New(authenticate, cache, token.SetParser(token.CookieParser(view.AccessTokenCookieName)))
	strategy = union.New(bearerStrategy, cookieStrategy)
	return nil
}

func makeAuthenticateFunc(userRepo repository.UserRepository, issuer TokenIssuer) token.AuthenticateFunc {
	return func(ctx context.Context, r *http.Request, tkn string) (auth.Info, time.Time, error) {
		claims, err := issuer.Verify(tkn)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("authentication failed: %w", err)
		}
		user, err := userRepo.GetUserById(ctx, claims.UserId)
		if err != nil {
			return nil, time.Time{}, err
		}
		if user == nil {
			return nil, time.Time{}, fmt.Errorf("authentication failed: User not found")
		}
		ext := auth.Extensions{}
		ext.Set(secctx.RoleExt, string(user.Role))
		return auth.NewDefaultUser(user.Name, user.Id, []string{}, ext), claims.ExpiresAt, nil
	}
}
