package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joestump/linkfolio/internal/apiclient"
)

// Operation names accepted by FakeAPI.Fail.
const (
	OpLogin      = "login"
	OpSignup     = "signup"
	OpGetProfile = "get_profile"
	OpUpdateUser = "update_user"
	OpDeleteUser = "delete_user"
	OpCreateLink = "create_link"
	OpUpdateLink = "update_link"
	OpDeleteLink = "delete_link"
	OpTrackClick = "track_click"
)

// Call is one request observed by FakeAPI.
type Call struct {
	Method        string
	Path          string
	Authorization string
}

type fakeUser struct {
	password string
	profile  apiclient.Profile
}

type failure struct {
	status  int
	message string
}

// FakeAPI is an in-memory stand-in for the link-sharing REST API, served
// over httptest with the same routes and JSON shapes as the real server.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	users    map[string]*fakeUser
	tokens   map[string]string
	nextID   uint
	calls    []Call
	failures map[string]failure
}

// NewFakeAPI starts a fake API server that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		users:    make(map[string]*fakeUser),
		tokens:   make(map[string]string),
		failures: make(map[string]failure),
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users/login", f.login)
		r.Post("/users/signup", f.signup)
		r.Get("/users/{username}", f.getProfile)
		r.Put("/users", f.updateUser)
		r.Delete("/users", f.deleteUser)
		r.Post("/links", f.createLink)
		r.Put("/links/{id}", f.updateLink)
		r.Delete("/links/{id}", f.deleteLink)
		r.Post("/analytics/{id}/click", f.trackClick)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API base URL to hand to apiclient.New.
func (f *FakeAPI) URL() string { return f.Server.URL + "/api" }

// AddUser seeds an account.
func (f *FakeAPI) AddUser(username, password, fullName, bio string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = &fakeUser{
		password: password,
		profile:  apiclient.Profile{Username: username, FullName: fullName, Bio: bio, Links: []apiclient.Link{}},
	}
}

// AddLink seeds a link on username's profile and returns its id.
func (f *FakeAPI) AddLink(username, title, url string) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[username]
	f.nextID++
	u.profile.Links = append(u.profile.Links, apiclient.Link{ID: f.nextID, Title: title, URL: url})
	return f.nextID
}

// IssueToken returns a valid bearer token for username without a login call.
func (f *FakeAPI) IssueToken(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok := uuid.New().String()
	f.tokens[tok] = username
	return tok
}

// Fail makes every subsequent call to op respond with status and an
// {"error": message} body. An empty message sends a body without one.
func (f *FakeAPI) Fail(op string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = failure{status: status, message: message}
}

// Recover clears an injected failure.
func (f *FakeAPI) Recover(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, op)
}

// Calls returns every request seen so far, in arrival order.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CountCalls returns how many requests matched method and path exactly.
func (f *FakeAPI) CountCalls(method, path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Profile returns a copy of the server-side profile of username.
func (f *FakeAPI) Profile(username string) (*apiclient.Profile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, false
	}
	return u.profile.Clone(), true
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, Call{Method: r.Method, Path: r.URL.Path, Authorization: r.Header.Get("Authorization")})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// injected writes the configured failure for op, if any.
func (f *FakeAPI) injected(w http.ResponseWriter, op string) bool {
	f.mu.Lock()
	fl, ok := f.failures[op]
	f.mu.Unlock()
	if !ok {
		return false
	}
	if fl.message == "" {
		writeJSON(w, fl.status, map[string]string{})
	} else {
		writeJSON(w, fl.status, map[string]string{"error": fl.message})
	}
	return true
}

// caller resolves the bearer token to a username. Callers hold f.mu.
func (f *FakeAPI) caller(r *http.Request) (string, bool) {
	tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", false
	}
	name, ok := f.tokens[tok]
	return name, ok
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, OpLogin) {
		return
	}
	var req apiclient.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid input"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[req.Username]
	if !ok || u.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	tok := uuid.New().String()
	f.tokens[tok] = req.Username
	writeJSON(w, http.StatusOK, apiclient.LoginResponse{Token: tok})
}

func (f *FakeAPI) signup(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, OpSignup) {
		return
	}
	var req apiclient.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid input"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[req.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username already taken"})
		return
	}
	f.users[req.Username] = &fakeUser{
		password: req.Password,
		profile:  apiclient.Profile{Username: req.Username, FullName: req.FullName, Bio: req.Bio, Links: []apiclient.Link{}},
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

func (f *FakeAPI) getProfile(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, OpGetProfile) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[chi.URLParam(r, "username")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, u.profile)
}

func (f *FakeAPI) updateUser(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, OpUpdateUser) {
		return
	}
	var req apiclient.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid input"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	u := f.users[name]
	if req.FullName != "" {
		u.profile.FullName = req.FullName
	}
	if req.Bio != "" {
		u.profile.Bio = req.Bio
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User updated successfully"})
}

func (f *FakeAPI) deleteUser(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, OpDeleteUser) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	delete(f.users, name)
	for tok, owner := range f.tokens {
		if owner == name {
			delete(f.tokens, tok)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (f *FakeAPI) createLink(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, OpCreateLink) {
		return
	}
	var req apiclient.LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid input"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	u := f.users[name]
	f.nextID++
	u.profile.Links = append(u.profile.Links, apiclient.Link{ID: f.nextID, Title: req.Title, URL: req.URL})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Link created successfully"})
}

// ownedLink finds link id on the caller's profile. Callers hold f.mu.
func (f *FakeAPI) ownedLink(w http.ResponseWriter, r *http.Request) (*fakeUser, int, bool) {
	name, ok := f.caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return nil, 0, false
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, 0, false
	}
	u := f.users[name]
	for i, l := range u.profile.Links {
		if uint64(l.ID) == id {
			return u, i, true
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "link not found"})
	return nil, 0, false
}

func (f *FakeAPI) updateLink(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, OpUpdateLink) {
		return
	}
	var req apiclient.LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid input"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, i, ok := f.ownedLink(w, r)
	if !ok {
		return
	}
	u.profile.Links[i].Title = req.Title
	u.profile.Links[i].URL = req.URL
	writeJSON(w, http.StatusOK, map[string]string{"message": "Link updated successfully"})
}

func (f *FakeAPI) deleteLink(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, OpDeleteLink) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, i, ok := f.ownedLink(w, r)
	if !ok {
		return
	}
	u.profile.Links = append(u.profile.Links[:i], u.profile.Links[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Link deleted successfully"})
}

func (f *FakeAPI) trackClick(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, OpTrackClick) {
		return
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid link ID"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		for i := range u.profile.Links {
			l := &u.profile.Links[i]
			if uint64(l.ID) == id {
				now := time.Now().UTC()
				l.Analytics.ClickCount++
				l.Analytics.UpdatedAt = &now
				writeJSON(w, http.StatusOK, map[string]string{"message": "Click tracked successfully"})
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Link not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
