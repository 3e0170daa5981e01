package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/SauravS-01/eNoteBook/internal/auth"
	"github.com/SauravS-01/eNoteBook/internal/models"
	"github.com/SauravS-01/eNoteBook/internal/session"
	"github.com/SauravS-01/eNoteBook/internal/utils"
	"github.com/gin-gonic/gin"
)

// Sessions is the session-manager surface the handlers use.
type Sessions interface {
	Create(ctx context.Context, userID uint) (string, error)
	Current(ctx context.Context, token string) (uint, bool, error)
	Destroy(ctx context.Context, token string) error
	Flash(ctx context.Context, token string, kind session.Kind, text string) error
	PopFlashes(ctx context.Context, token string) ([]session.Notice, error)
}

// Authenticator resolves identities locally or from a federated
// profile.
type Authenticator interface {
	Verify(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, form auth.RegisterForm) (*models.User, []string, error)
	ResolveFederated(ctx context.Context, profile auth.Profile) (*models.User, error)
}

// Federation is the provider-facing half of federated sign-in.
type Federation interface {
	AuthCodeURL(ctx context.Context, state, nonce string) (string, error)
	Exchange(ctx context.Context, code, nonce string) (auth.Profile, error)
}

// States issues and consumes one-shot OIDC state values.
type States interface {
	Issue(ctx context.Context) (state, nonce string, err error)
	Consume(ctx context.Context, state string) (string, error)
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	MaxAge int
}

func (c CookieConfig) write(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   maxAge,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) clear(ctx *gin.Context) {
	c.write(ctx, "", -1)
}

func sessionToken(ctx *gin.Context, cookie CookieConfig) string {
	if token := utils.GetSessionToken(ctx); token != "" {
		return token
	}

	token, err := ctx.Cookie(cookie.Name)

	if err != nil {
		return ""
	}

	return token
}

// render draws a template with the popped one-shot notices and the
// current identity merged into the data context.
func render(ctx *gin.Context, sessions Sessions, cookie CookieConfig, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if user, err := utils.GetCurrentUser(ctx); err == nil {
		data["user"] = user
	}

	token := sessionToken(ctx, cookie)

	notices, err := sessions.PopFlashes(ctx.Request.Context(), token)

	if err != nil {
		log.Printf("Failed to read notices: %v", err)
	}

	for _, notice := range notices {
		switch notice.Kind {
		case session.NoticeSuccess:
			data["success_msg"] = notice.Text
		case session.NoticeError:
			data["error_msg"] = notice.Text
		case session.NoticeValidation:
			data["error"] = notice.Text
		}
	}

	ctx.HTML(code, name, data)
}

// flash queues a notice for the next render, creating an anonymous
// session to carry it when the visitor has none yet.
func flash(ctx *gin.Context, sessions Sessions, cookie CookieConfig, kind session.Kind, text string) {
	token := sessionToken(ctx, cookie)

	if token != "" {
		err := sessions.Flash(ctx.Request.Context(), token, kind, text)

		if err == nil {
			return
		}

		if !errors.Is(err, session.ErrSessionNotFound) {
			log.Printf("Failed to queue notice: %v", err)
			return
		}
	}

	token, err := sessions.Create(ctx.Request.Context(), 0)

	if err != nil {
		log.Printf("Failed to create notice session: %v", err)
		return
	}

	cookie.write(ctx, token, cookie.MaxAge)

	if err := sessions.Flash(ctx.Request.Context(), token, kind, text); err != nil {
		log.Printf("Failed to queue notice: %v", err)
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
