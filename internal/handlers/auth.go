package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/SauravS-01/eNoteBook/internal/auth"
	"github.com/SauravS-01/eNoteBook/internal/session"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth     Authenticator
	sessions Sessions
	oidc     Federation
	states   States
	cookie   CookieConfig
}

func NewAuthHandler(authSvc Authenticator, sessions Sessions, oidc Federation, states States, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		auth:     authSvc,
		sessions: sessions,
		oidc:     oidc,
		states:   states,
		cookie:   cookie,
	}
}

func (h *AuthHandler) ShowRegister(ctx *gin.Context) {
	render(ctx, h.sessions, h.cookie, http.StatusOK, "register", gin.H{})
}

func (h *AuthHandler) ShowLogin(ctx *gin.Context) {
	render(ctx, h.sessions, h.cookie, http.StatusOK, "login", gin.H{})
}

// Register processes the registration form. Validation failures
// re-render the form with the submitted values preserved so the user
// need not retype them.
func (h *AuthHandler) Register(ctx *gin.Context) {
	form := auth.RegisterForm{
		DisplayName: ctx.PostForm("displayName"),
		FirstName:   ctx.PostForm("firstName"),
		LastName:    ctx.PostForm("lastName"),
		Email:       ctx.PostForm("email"),
		Password:    ctx.PostForm("password"),
		Password2:   ctx.PostForm("password2"),
	}

	_, fieldErrors, err := h.auth.Register(ctx.Request.Context(), form)

	if err != nil {
		log.Printf("Failed to register user: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	if len(fieldErrors) > 0 {
		render(ctx, h.sessions, h.cookie, http.StatusOK, "register", gin.H{
			"errors":      fieldErrors,
			"displayName": form.DisplayName,
			"firstName":   form.FirstName,
			"lastName":    form.LastName,
			"email":       form.Email,
			"password":    form.Password,
			"password2":   form.Password2,
		})
		return
	}

	flash(ctx, h.sessions, h.cookie, session.NoticeSuccess, "You are now registered and can log in")
	ctx.Redirect(http.StatusFound, "/auth/login")
}

// Login verifies local credentials and binds the identity to a fresh
// session. Bad credentials flash one message and return to the login
// entry without creating a session.
func (h *AuthHandler) Login(ctx *gin.Context) {
	email := ctx.PostForm("email")
	password := ctx.PostForm("password")

	user, err := h.auth.Verify(ctx.Request.Context(), email, password)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			flash(ctx, h.sessions, h.cookie, session.NoticeError, "Invalid email or password")
			ctx.Redirect(http.StatusFound, "/auth/login")
			return
		}
		log.Printf("Failed to verify credentials: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	token, err := h.sessions.Create(ctx.Request.Context(), user.ID)

	if err != nil {
		log.Printf("Failed to create session: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	h.cookie.write(ctx, token, h.cookie.MaxAge)
	ctx.Redirect(http.StatusFound, "/dashboard")
}

// Logout tears the session down. Destroying an already-gone session is
// a no-op; only a store fault reaches the failure page.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	token := sessionToken(ctx, h.cookie)

	if err := h.sessions.Destroy(ctx.Request.Context(), token); err != nil {
		log.Printf("Failed to destroy session: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	h.cookie.clear(ctx)
	ctx.Redirect(http.StatusFound, "/")
}

// GoogleLogin sends the visitor to the provider with a one-shot state.
func (h *AuthHandler) GoogleLogin(ctx *gin.Context) {
	state, nonce, err := h.states.Issue(ctx.Request.Context())

	if err != nil {
		log.Printf("Failed to issue oidc state: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	authURL, err := h.oidc.AuthCodeURL(ctx.Request.Context(), state, nonce)

	if err != nil {
		log.Printf("Failed to build authorize url: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	ctx.Redirect(http.StatusFound, authURL)
}

// GoogleCallback resolves the provider assertion to a local identity.
// Any provider denial lands back on the login entry with one notice;
// resolution itself never fails on "not found".
func (h *AuthHandler) GoogleCallback(ctx *gin.Context) {
	if providerErr := ctx.Query("error"); providerErr != "" {
		h.denied(ctx)
		return
	}

	nonce, err := h.states.Consume(ctx.Request.Context(), ctx.Query("state"))

	if err != nil {
		h.denied(ctx)
		return
	}

	profile, err := h.oidc.Exchange(ctx.Request.Context(), ctx.Query("code"), nonce)

	if err != nil {
		if errors.Is(err, auth.ErrAuthenticationDenied) {
			h.denied(ctx)
			return
		}
		log.Printf("Failed to exchange authorization code: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	user, err := h.auth.ResolveFederated(ctx.Request.Context(), profile)

	if err != nil {
		log.Printf("Failed to resolve federated identity: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	token, err := h.sessions.Create(ctx.Request.Context(), user.ID)

	if err != nil {
		log.Printf("Failed to create session: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	h.cookie.write(ctx, token, h.cookie.MaxAge)
	ctx.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) denied(ctx *gin.Context) {
	flash(ctx, h.sessions, h.cookie, session.NoticeError, "Sign-in was denied")
	ctx.Redirect(http.StatusFound, "/auth/login")
}
