package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nanorand/nanorand"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// HSProvider подписывает access и refresh токены HS256 разными секретами.
type HSProvider struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	now           func() time.Time
}

func NewHSProvider(accessSecret, refreshSecret, issuer string) (*HSProvider, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("jwt secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	return &HSProvider{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		now:           time.Now,
	}, nil
}

type accessClaims struct {
	UserID    uint   `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Type      string `json:"typ"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	UserID uint   `json:"userId"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

func (p *HSProvider) registered(sub uint, ttl time.Duration) (jwt.RegisteredClaims, time.Time, error) {
	jti, err := nanorand.Gen(16)
	if err != nil {
		return jwt.RegisteredClaims{}, time.Time{}, err
	}
	now := p.now()
	exp := now.Add(ttl)
	return jwt.RegisteredClaims{
		ID:        jti,
		Issuer:    p.issuer,
		Subject:   strconv.FormatUint(uint64(sub), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}, exp, nil
}

func (p *HSProvider) SignAccess(ctx context.Context, u *models.User, ttl time.Duration) (string, time.Time, error) {
	rc, exp, err := p.registered(u.ID, ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	claims := accessClaims{
		UserID:           u.ID,
		Username:         u.Username,
		Role:             string(u.Role),
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Type:             typeAccess,
		RegisteredClaims: rc,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.accessSecret)
	return signed, exp, err
}

func (p *HSProvider) SignRefresh(ctx context.Context, userID uint, ttl time.Duration) (string, time.Time, error) {
	rc, exp, err := p.registered(userID, ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	claims := refreshClaims{UserID: userID, Type: typeRefresh, RegisteredClaims: rc}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.refreshSecret)
	return signed, exp, err
}

func (p *HSProvider) parse(token string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return service.ErrTokenExpired
	case err != nil:
		return fmt.Errorf("%w: %v", service.ErrInvalidToken, err)
	case !parsed.Valid:
		return service.ErrInvalidToken
	}
	return nil
}

func (p *HSProvider) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	var cc accessClaims
	if err := p.parse(token, &cc, p.accessSecret); err != nil {
		return nil, err
	}
	if cc.Type != typeAccess || cc.UserID == 0 {
		return nil, service.ErrInvalidToken
	}
	return &service.Claims{
		UserID:    cc.UserID,
		Username:  cc.Username,
		Role:      models.Role(cc.Role),
		FirstName: cc.FirstName,
		LastName:  cc.LastName,
		ID:        cc.ID,
		Exp:       cc.ExpiresAt.Time,
	}, nil
}

func (p *HSProvider) ParseAndValidateRefresh(ctx context.Context, token string) (uint, error) {
	var cc refreshClaims
	if err := p.parse(token, &cc, p.refreshSecret); err != nil {
		return 0, err
	}
	if cc.Type != typeRefresh || cc.UserID == 0 {
		return 0, service.ErrInvalidToken
	}
	return cc.UserID, nil
}
