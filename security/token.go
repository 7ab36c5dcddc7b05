package security

import (
	"fmt"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/view"
	"gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"
)

const minSecretLength = 32

type TokenClaims struct {
	UserId    string
	Name      string
	Role      view.UserRole
	ExpiresAt time.Time
}

type roleClaims struct {
	Name string        `json:"name"`
	Role view.UserRole `json:"role"`
}

type TokenIssuer interface {
	Issue(user view.User) (string, error)
	Verify(token string) (*TokenClaims, error)
}

func NewTokenIssuer(secret string, ttl time.Duration) (TokenIssuer, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes long", minSecretLength)
	}
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(secret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt signer: %w", err)
	}
	return &tokenIssuerImpl{secret: []byte(secret), signer: signer, ttl: ttl, now: time.Now}, nil
}

type tokenIssuerImpl struct {
	secret []byte
	signer jose.Signer
	ttl    time.Duration
	now    func() time.Time
}

func (t tokenIssuerImpl) Issue(user view.User) (string, error) {
	now := t.now()
	cl := jwt.Claims{
		Subject:  user.Id,
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(t.ttl)),
	}
	token, err := jwt.Signed(t.signer).Claims(cl).Claims(roleClaims{Name: user.Name, Role: user.Role}).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (t tokenIssuerImpl) Verify(token string) (*TokenClaims, error) {
	tok, err := jwt.ParseSigned(token)
	if err != nil {
		return nil, fmt.Errorf("token parse error: %w", err)
	}
	for _, h := range tok.Headers {
		if h.Algorithm != string(jose.HS256) {
			return nil, fmt.Errorf("unexpected token algorithm %s", h.Algorithm)
		}
	}

	var cl jwt.Claims
	var custom roleClaims
	if err := tok.Claims(t.secret, &cl, &custom); err != nil {
		return nil, fmt.Errorf("token signature is invalid: %w", err)
	}
	if err := cl.ValidateWithLeeway(jwt.Expected{Time: t.now()}, 0); err != nil {
		return nil, fmt.Errorf("token is not valid: %w", err)
	}
	if cl.Subject == "" || cl.Expiry == nil {
		return nil, fmt.Errorf("token has no subject or expiry")
	}
	return &TokenClaims{
		UserId:    cl.Subject,
		Name:      custom.Name,
		Role:      custom.Role,
		ExpiresAt: cl.Expiry.Time(),
	}, nil
}
