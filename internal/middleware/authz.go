package middleware

import (
	"context"
	"strings"

	"pos-service/internal/service"

	"go.uber.org/zap"
)

type Kind int

const (
	KindPublic Kind = iota
	KindAuth
	KindPermission
	KindAdmin
)

func (k Kind) String() string {
	switch k {
	case KindPublic:
		return "public"
	case KindAuth:
		return "auth"
	case KindPermission:
		return "permission"
	case KindAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Rule описывает правило доступа к процедуре.
type Rule struct {
	Kind       Kind
	Permission string
}

func Public() Rule { return Rule{Kind: KindPublic} }
func Authenticated() Rule { return Rule{Kind: KindAuth} }
func Admin() Rule { return Rule{Kind: KindAdmin} }
func Permission(name string) Rule { return Rule{Kind: KindPermission, Permission: name} }
func (r Rule) RequiresAuth() bool { return r.Kind != KindPublic }

// Metadata содержит заголовки и идентификатор клиента, пришедшие вместе с вызовом.
type Metadata struct {
	Headers  map[string]string
	ClientID string
}

func (m Metadata) Header(key string) string {
	if v, ok := m.Headers[key]; ok {
		return v
	}
	for k, v := range m.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (service.Identity, error)
}

type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uint, name string) (bool, error)
}

type Authorizer struct {
	auth  Authenticator
	perms PermissionChecker
	log   *zap.Logger
}

func NewAuthorizer(auth Authenticator, perms PermissionChecker, log *zap.Logger) *Authorizer {
	return &Authorizer{auth: auth, perms: perms, log: log}
}

// RequireAuth проверяет bearer-токен и кладёт личность в контекст.
func (a *Authorizer) RequireAuth(ctx context.Context, md Metadata) (context.Context, error) {
	token, ok := ExtractBearerToken(md.Header("authorization"))
	if !ok || token == "" {
		return ctx, service.ErrUnauthorized
	}
	id, err := a.auth.Authenticate(ctx, token)
	if err != nil {
		a.log.Debug("Токен отклонён", zap.String("client_id", md.ClientID), zap.Error(err))
		return ctx, err
	}
	return service.WithIdentity(ctx, id), nil
}

// RequirePermission: администратор проходит всегда, остальным нужно выданное право.
func (a *Authorizer) RequirePermission(ctx context.Context, md Metadata, name string) (context.Context, error) {
	ctx, err := a.RequireAuth(ctx, md)
	if err != nil {
		return ctx, err
	}
	id, _ := service.IdentityFromContext(ctx)
	if id.IsAdmin() {
		return ctx, nil
	}
	ok, err := a.perms.HasPermission(ctx, id.UserID, name)
	if err != nil {
		return ctx, err
	}
	if !ok {
		a.log.Warn("Нет права", zap.Uint("user_id", id.UserID), zap.String("permission", name))
		return ctx, service.ErrForbidden
	}
	return ctx, nil
}

func (a *Authorizer) RequireAdmin(ctx context.Context, md Metadata) (context.Context, error) {
	ctx, err := a.RequireAuth(ctx, md)
	if err != nil {
		return ctx, err
	}
	id, _ := service.IdentityFromContext(ctx)
	if !id.IsAdmin() {
		return ctx, service.ErrForbidden
	}
	return ctx, nil
}

func (a *Authorizer) Enforce(ctx context.Context, md Metadata, r Rule) (context.Context, error) {
	if md.ClientID != "" {
		ctx = service.WithClientID(ctx, md.ClientID)
	}
	switch r.Kind {
	case KindPublic:
		return ctx, nil
	case KindAuth:
		return a.RequireAuth(ctx, md)
	case KindPermission:
		return a.RequirePermission(ctx, md, r.Permission)
	case KindAdmin:
		return a.RequireAdmin(ctx, md)
	default:
		return ctx, service.ErrForbidden
	}
}

// ExtractBearerToken извлекает токен из заголовка Authorization, схема без учёта регистра.
// Допустимы значения вида "Bearer abc.def.ghi" и "Bearer \"abc.def.ghi\"".
func ExtractBearerToken(authz string) (string, bool) {
	authz = strings.TrimSpace(authz)
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.Trim(strings.TrimSpace(parts[1]), " \"'")
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = t[:i]
	}
	return t, true
}
