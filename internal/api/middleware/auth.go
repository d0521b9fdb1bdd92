package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quizhub-api/internal/api/handler/v1/response"
	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/pkg/jwthelper"
)

const ctxKeyUserID = "userID"

// PrincipalResolver turns a verified token subject into a user record,
// provisioning a bare user on first successful external authentication.
type PrincipalResolver interface {
	GetOrCreateByEmail(ctx context.Context, email string) (domain.User, error)
}

type Authenticator struct {
	signingKey []byte
	principals PrincipalResolver
}

func NewAuthenticator(signingKey string, principals PrincipalResolver) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		principals: principals,
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized())

			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized())

			return
		}

		user, err := a.principals.GetOrCreateByEmail(ctx.Request.Context(), claims.Email)
		if err != nil {
			response.RenderErr(ctx, response.ErrInternalServerError(err))

			return
		}

		ctx.Set(ctxKeyUserID, user.ID)
		ctx.Next()
	}
}

// CurrentUserID returns the authenticated user id stored by VerifyJWT.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ctxKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := value.(uint)

	return id, ok
}
