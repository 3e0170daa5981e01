package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/SauravS-01/eNoteBook/internal/auth"
	"github.com/SauravS-01/eNoteBook/internal/handlers"
	"github.com/SauravS-01/eNoteBook/internal/models"
	"github.com/SauravS-01/eNoteBook/internal/router"
	"github.com/SauravS-01/eNoteBook/internal/session"
	"github.com/SauravS-01/eNoteBook/internal/store"
	"github.com/gin-gonic/gin"
)

const testCookieName = "enotebook_session"

// fakeSessions is an in-memory handlers.Sessions and
// middleware.SessionResolver.
type fakeSessions struct {
	seq     int
	records map[string]*fakeSession
}

type fakeSession struct {
	userID  uint
	flashes []session.Notice
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{records: make(map[string]*fakeSession)}
}

func (s *fakeSessions) Create(_ context.Context, userID uint) (string, error) {
	s.seq++
	token := fmt.Sprintf("tok-%d", s.seq)
	s.records[token] = &fakeSession{userID: userID}
	return token, nil
}

func (s *fakeSessions) Current(_ context.Context, token string) (uint, bool, error) {
	record, ok := s.records[token]
	if !ok || record.userID == 0 {
		return 0, false, nil
	}
	return record.userID, true, nil
}

func (s *fakeSessions) Destroy(_ context.Context, token string) error {
	delete(s.records, token)
	return nil
}

func (s *fakeSessions) Flash(_ context.Context, token string, kind session.Kind, text string) error {
	record, ok := s.records[token]
	if !ok {
		return session.ErrSessionNotFound
	}
	record.flashes = append(record.flashes, session.Notice{Kind: kind, Text: text})
	return nil
}

func (s *fakeSessions) PopFlashes(_ context.Context, token string) ([]session.Notice, error) {
	record, ok := s.records[token]
	if !ok {
		return nil, nil
	}
	notices := record.flashes
	record.flashes = nil
	return notices, nil
}

// identitySessions counts sessions bound to a real identity, ignoring
// anonymous notice carriers.
func (s *fakeSessions) identitySessions() int {
	n := 0
	for _, record := range s.records {
		if record.userID != 0 {
			n++
		}
	}
	return n
}

// fakeUserStore backs both the auth service and the auth guard.
type fakeUserStore struct {
	users  []*models.User
	nextID uint
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) FindByProviderID(_ context.Context, providerID string) (*models.User, error) {
	for _, user := range f.users {
		if user.ProviderID != "" && user.ProviderID == providerID {
			return user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id uint) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, user)
	return nil
}

// fakeNoteStore is an in-memory handlers.NoteStore.
type fakeNoteStore struct {
	notes  map[uint]*models.Note
	nextID uint
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[uint]*models.Note)}
}

func (f *fakeNoteStore) FindByID(_ context.Context, id uint) (*models.Note, error) {
	note, ok := f.notes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *note
	return &copied, nil
}

func (f *fakeNoteStore) FindPublic(_ context.Context) ([]models.Note, error) {
	var out []models.Note
	for _, note := range f.notes {
		if note.Status == "public" {
			out = append(out, *note)
		}
	}
	return out, nil
}

func (f *fakeNoteStore) FindPublicByUser(_ context.Context, userID uint) ([]models.Note, error) {
	var out []models.Note
	for _, note := range f.notes {
		if note.UserID == userID && note.Status == "public" {
			out = append(out, *note)
		}
	}
	return out, nil
}

func (f *fakeNoteStore) FindByUser(_ context.Context, userID uint) ([]models.Note, error) {
	var out []models.Note
	for _, note := range f.notes {
		if note.UserID == userID {
			out = append(out, *note)
		}
	}
	return out, nil
}

func (f *fakeNoteStore) SearchPublic(_ context.Context, query string) ([]models.Note, error) {
	var out []models.Note
	for _, note := range f.notes {
		if note.Status == "public" && strings.Contains(strings.ToLower(note.Title), strings.ToLower(query)) {
			out = append(out, *note)
		}
	}
	return out, nil
}

func (f *fakeNoteStore) Create(_ context.Context, note *models.Note) error {
	f.nextID++
	note.ID = f.nextID
	copied := *note
	f.notes[note.ID] = &copied
	return nil
}

func (f *fakeNoteStore) Update(_ context.Context, id uint, title, body, status string) error {
	note, ok := f.notes[id]
	if !ok {
		return store.ErrNotFound
	}
	note.Title = title
	note.Body = body
	note.Status = status
	return nil
}

func (f *fakeNoteStore) Delete(_ context.Context, id uint) error {
	delete(f.notes, id)
	return nil
}

type testApp struct {
	engine   http.Handler
	sessions *fakeSessions
	users    *fakeUserStore
	notes    *fakeNoteStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := newFakeSessions()
	users := &fakeUserStore{}
	notes := newFakeNoteStore()

	cookie := handlers.CookieConfig{Name: testCookieName, MaxAge: 3600}
	authSvc := auth.NewService(users, auth.NewHasher(4))

	engine := router.NewRouter(router.Deps{
		Auth:           handlers.NewAuthHandler(authSvc, sessions, nil, nil, cookie),
		Notes:          handlers.NewNoteHandler(notes, sessions, cookie),
		Sessions:       sessions,
		Users:          users,
		CookieName:     testCookieName,
		AllowedOrigins: []string{"http://localhost:4000"},
		TemplateGlob:   "../../web/templates/*.tmpl",
	})

	return &testApp{
		engine:   engine,
		sessions: sessions,
		users:    users,
		notes:    notes,
	}
}

func (a *testApp) postForm(path, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) put(path, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) delete(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// signIn registers a user directly and opens a session for them.
func (a *testApp) signIn(t *testing.T, displayName, email string) (uint, string) {
	t.Helper()

	user := &models.User{DisplayName: displayName, Email: email, PasswordHash: "x"}
	if err := a.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	token, err := a.sessions.Create(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}

	return user.ID, token
}
