package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/SauravS-01/eNoteBook/internal/middleware"
	"github.com/SauravS-01/eNoteBook/internal/models"
	"github.com/SauravS-01/eNoteBook/internal/policy"
	"github.com/SauravS-01/eNoteBook/internal/store"
	"github.com/SauravS-01/eNoteBook/internal/types"
	"github.com/SauravS-01/eNoteBook/internal/utils"
	"github.com/gin-gonic/gin"
)

// NoteStore is the persistence surface the note routes consume.
type NoteStore interface {
	FindByID(ctx context.Context, id uint) (*models.Note, error)
	FindPublic(ctx context.Context) ([]models.Note, error)
	FindPublicByUser(ctx context.Context, userID uint) ([]models.Note, error)
	FindByUser(ctx context.Context, userID uint) ([]models.Note, error)
	SearchPublic(ctx context.Context, query string) ([]models.Note, error)
	Create(ctx context.Context, note *models.Note) error
	Update(ctx context.Context, id uint, title, body, status string) error
	Delete(ctx context.Context, id uint) error
}

type NoteHandler struct {
	notes    NoteStore
	sessions Sessions
	cookie   CookieConfig
}

func NewNoteHandler(notes NoteStore, sessions Sessions, cookie CookieConfig) *NoteHandler {
	return &NoteHandler{
		notes:    notes,
		sessions: sessions,
		cookie:   cookie,
	}
}

func (h *NoteHandler) Home(ctx *gin.Context) {
	render(ctx, h.sessions, h.cookie, http.StatusOK, "home", gin.H{})
}

// Dashboard lists the signed-in user's own notes, private included.
func (h *NoteHandler) Dashboard(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/auth/login")
		return
	}

	notes, err := h.notes.FindByUser(ctx.Request.Context(), user.ID)

	if err != nil {
		log.Printf("Failed to list own notes: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	render(ctx, h.sessions, h.cookie, http.StatusOK, "dashboard", gin.H{"notes": notes})
}

// Index lists every public note, newest first.
func (h *NoteHandler) Index(ctx *gin.Context) {
	notes, err := h.notes.FindPublic(ctx.Request.Context())

	if err != nil {
		log.Printf("Failed to list notes: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	render(ctx, h.sessions, h.cookie, http.StatusOK, "notes/index", gin.H{"notes": notes})
}

func (h *NoteHandler) ShowAdd(ctx *gin.Context) {
	render(ctx, h.sessions, h.cookie, http.StatusOK, "notes/add", gin.H{})
}

func (h *NoteHandler) Create(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/auth/login")
		return
	}

	status := ctx.PostForm("status")

	if status != types.NoteStatusPrivate {
		status = types.NoteStatusPublic
	}

	note := models.Note{
		Title:  ctx.PostForm("title"),
		Body:   ctx.PostForm("body"),
		Status: status,
		UserID: user.ID,
	}

	if err := h.notes.Create(ctx.Request.Context(), &note); err != nil {
		log.Printf("Failed to create note: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	ctx.Redirect(http.StatusFound, "/dashboard")
}

// Show renders one note. A private note of someone else renders the
// not-found page, indistinguishable from a note that does not exist.
func (h *NoteHandler) Show(ctx *gin.Context) {
	user, note, ok := h.loadNote(ctx)

	if !ok {
		return
	}

	switch policy.Authorize(user.ID, note, policy.OpRead) {
	case policy.Allow:
		render(ctx, h.sessions, h.cookie, http.StatusOK, "notes/show", gin.H{"note": note})
	default:
		render(ctx, h.sessions, h.cookie, http.StatusNotFound, "error/404", gin.H{})
	}
}

func (h *NoteHandler) ShowEdit(ctx *gin.Context) {
	user, note, ok := h.loadNote(ctx)

	if !ok {
		return
	}

	switch policy.Authorize(user.ID, note, policy.OpUpdate) {
	case policy.Allow:
		render(ctx, h.sessions, h.cookie, http.StatusOK, "notes/edit", gin.H{"note": note})
	case policy.DenyRedirect:
		ctx.Redirect(http.StatusFound, "/notes")
	default:
		render(ctx, h.sessions, h.cookie, http.StatusNotFound, "error/404", gin.H{})
	}
}

func (h *NoteHandler) Update(ctx *gin.Context) {
	user, note, ok := h.loadNote(ctx)

	if !ok {
		return
	}

	switch policy.Authorize(user.ID, note, policy.OpUpdate) {
	case policy.Allow:
		status := ctx.PostForm("status")

		if status != types.NoteStatusPrivate {
			status = types.NoteStatusPublic
		}

		err := h.notes.Update(ctx.Request.Context(), note.ID, ctx.PostForm("title"), ctx.PostForm("body"), status)

		if err != nil {
			log.Printf("Failed to update note: %v", err)
			render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
			return
		}

		ctx.Redirect(http.StatusFound, "/dashboard")
	case policy.DenyRedirect:
		ctx.Redirect(http.StatusFound, "/notes")
	default:
		render(ctx, h.sessions, h.cookie, http.StatusNotFound, "error/404", gin.H{})
	}
}

func (h *NoteHandler) Delete(ctx *gin.Context) {
	user, note, ok := h.loadNote(ctx)

	if !ok {
		return
	}

	switch policy.Authorize(user.ID, note, policy.OpDelete) {
	case policy.Allow:
		if err := h.notes.Delete(ctx.Request.Context(), note.ID); err != nil {
			log.Printf("Failed to delete note: %v", err)
			render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
			return
		}

		ctx.Redirect(http.StatusFound, "/dashboard")
	case policy.DenyRedirect:
		ctx.Redirect(http.StatusFound, "/notes")
	default:
		render(ctx, h.sessions, h.cookie, http.StatusNotFound, "error/404", gin.H{})
	}
}

// ByUser lists one user's public notes.
func (h *NoteHandler) ByUser(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userId"), 10, 64)

	if err != nil {
		render(ctx, h.sessions, h.cookie, http.StatusNotFound, "error/404", gin.H{})
		return
	}

	notes, err := h.notes.FindPublicByUser(ctx.Request.Context(), uint(userID))

	if err != nil {
		log.Printf("Failed to list notes by user: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	render(ctx, h.sessions, h.cookie, http.StatusOK, "notes/index", gin.H{"notes": notes})
}

// Search matches public notes whose title contains the query,
// case-insensitively.
func (h *NoteHandler) Search(ctx *gin.Context) {
	notes, err := h.notes.SearchPublic(ctx.Request.Context(), ctx.Param("query"))

	if err != nil {
		log.Printf("Failed to search notes: %v", err)
		render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		return
	}

	render(ctx, h.sessions, h.cookie, http.StatusOK, "notes/index", gin.H{"notes": notes})
}

// loadNote resolves the identity and the addressed note. A missing or
// badly-addressed note renders not-found before ownership is looked at.
func (h *NoteHandler) loadNote(ctx *gin.Context) (middleware.AuthenticatedUser, *models.Note, bool) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/auth/login")
		return middleware.AuthenticatedUser{}, nil, false
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)

	if err != nil {
		render(ctx, h.sessions, h.cookie, http.StatusNotFound, "error/404", gin.H{})
		return middleware.AuthenticatedUser{}, nil, false
	}

	note, err := h.notes.FindByID(ctx.Request.Context(), uint(id))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			render(ctx, h.sessions, h.cookie, http.StatusNotFound, "error/404", gin.H{})
		} else {
			log.Printf("Failed to load note: %v", err)
			render(ctx, h.sessions, h.cookie, http.StatusInternalServerError, "error/500", gin.H{})
		}
		return middleware.AuthenticatedUser{}, nil, false
	}

	return user, note, true
}
