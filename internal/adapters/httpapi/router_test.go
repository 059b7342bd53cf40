package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"postsapi/internal/adapters/database"
	redisadapter "postsapi/internal/adapters/redis"
	"postsapi/internal/config"
	authapp "postsapi/internal/core/auth/service"
	postapp "postsapi/internal/core/post/service"
	userapp "postsapi/internal/core/user/service"
	voteapp "postsapi/internal/core/vote/service"
	postPort "postsapi/internal/ports/post"
	tokenPort "postsapi/internal/ports/token"
	userPort "postsapi/internal/ports/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T, rateLimit int) *testAPI {
	t.Helper()
	logger := zap.NewNop()

	db, err := config.OpenDB(config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	userRepo := database.NewUserRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)
	voteRepo := database.NewVoteRepositoryDatabase(db)

	router := SetupRoutes(
		userapp.NewUserService(userRepo, logger),
		authapp.NewAuthService(userRepo, redisadapter.NewTokenDenylistRedis(rdb), []byte("secret"), time.Hour, logger),
		postapp.NewPostService(postRepo, logger),
		voteapp.NewVoteService(voteRepo, postRepo, logger),
		redisadapter.NewRateLimiterRedis(rdb, rateLimit, time.Minute),
		HealthChecks{"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		logger,
	)
	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			a.t.Fatal(err)
		}
		r = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) register(email string) *userPort.UserDTO {
	a.t.Helper()
	w := a.do(http.MethodPost, "/users/", "", gin.H{"email": email, "password": "pass1234"})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("register %s: %d %s", email, w.Code, w.Body)
	}
	var u userPort.UserDTO
	decode(a.t, w, &u)
	return &u
}

// login uses the OAuth2 password form.
func (a *testAPI) login(email string) string {
	a.t.Helper()
	form := url.Values{"username": {email}, "password": {"pass1234"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		a.t.Fatalf("login %s: %d %s", email, w.Code, w.Body)
	}
	var tok tokenPort.Token
	decode(a.t, w, &tok)
	return tok.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	decode(t, w, &body)
	return body.Detail
}

func TestPostLifecycle(t *testing.T) {
	api := newTestAPI(t, 1000)
	u1 := api.register("one@example.com")
	api.register("two@example.com")
	tok1 := api.login("one@example.com")
	tok2 := api.login("two@example.com")

	// owner_id in the payload is ignored
	w := api.do(http.MethodPost, "/posts/", tok1, gin.H{"title": "A", "content": "B", "owner_id": 99})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body)
	}
	var created postPort.PostDTO
	decode(t, w, &created)
	if created.Title != "A" || created.Content != "B" || !created.Published {
		t.Fatalf("created = %+v", created)
	}
	if created.OwnerID != u1.ID || created.Owner == nil || created.Owner.Email != "one@example.com" {
		t.Fatalf("owner = %d %+v, want %d", created.OwnerID, created.Owner, u1.ID)
	}
	postPath := "/posts/" + itoa(created.ID)

	w = api.do(http.MethodPost, "/vote/", tok2, gin.H{"post_id": created.ID, "dir": 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("vote: %d %s", w.Code, w.Body)
	}

	w = api.do(http.MethodGet, postPath, tok2, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d %s", w.Code, w.Body)
	}
	var got postPort.PostVoteDTO
	decode(t, w, &got)
	if got.Likes != 1 || got.Post.ID != created.ID {
		t.Fatalf("get = %+v", got)
	}

	w = api.do(http.MethodDelete, postPath, tok2, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete: %d %s", w.Code, w.Body)
	}

	w = api.do(http.MethodPut, postPath, tok2, gin.H{"title": "X", "content": "Y"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner update: %d %s", w.Code, w.Body)
	}

	w = api.do(http.MethodPut, postPath, tok1, gin.H{"title": "A2", "content": "B2", "published": false})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body)
	}
	var updated postPort.PostDTO
	decode(t, w, &updated)
	if updated.Title != "A2" || updated.Published || updated.OwnerID != u1.ID {
		t.Fatalf("updated = %+v", updated)
	}

	w = api.do(http.MethodDelete, postPath, tok1, nil)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("owner delete: %d %q", w.Code, w.Body)
	}

	w = api.do(http.MethodGet, postPath, tok1, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: %d %s", w.Code, w.Body)
	}
	if d := detail(t, w); d != "The post with the id: "+itoa(created.ID)+" was not found" {
		t.Fatalf("detail = %q", d)
	}

	for _, method := range []string{http.MethodDelete, http.MethodPut} {
		w = api.do(method, postPath, tok1, gin.H{"title": "t", "content": "c"})
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s missing: %d %s", method, w.Code, w.Body)
		}
	}
}

func TestListPostsAndMyPosts(t *testing.T) {
	api := newTestAPI(t, 1000)
	api.register("one@example.com")
	api.register("two@example.com")
	tok1 := api.login("one@example.com")
	tok2 := api.login("two@example.com")

	w := api.do(http.MethodGet, "/posts/", tok1, nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty list: %d %s", w.Code, w.Body)
	}

	for _, title := range []string{"alpha", "beta", "alphabet"} {
		if w := api.do(http.MethodPost, "/posts/", tok1, gin.H{"title": title, "content": "c"}); w.Code != http.StatusCreated {
			t.Fatalf("create %s: %d", title, w.Code)
		}
	}

	var list []postPort.PostVoteDTO
	w = api.do(http.MethodGet, "/posts/?search=alpha&limit=10", tok2, nil)
	decode(t, w, &list)
	if len(list) != 2 {
		t.Fatalf("search returned %d posts", len(list))
	}

	w = api.do(http.MethodGet, "/posts/?limit=2&skip=2", tok2, nil)
	list = nil
	decode(t, w, &list)
	if len(list) != 1 || list[0].Post.Title != "alphabet" || list[0].Likes != 0 {
		t.Fatalf("second page = %+v", list)
	}

	w = api.do(http.MethodGet, "/posts/my_posts", tok2, nil)
	if w.Code != http.StatusNotFound || detail(t, w) != "You have no posts" {
		t.Fatalf("my_posts empty: %d %s", w.Code, w.Body)
	}

	w = api.do(http.MethodGet, "/posts/my_posts", tok1, nil)
	list = nil
	decode(t, w, &list)
	if w.Code != http.StatusOK || len(list) != 3 {
		t.Fatalf("my_posts: %d, %d posts", w.Code, len(list))
	}

	for _, q := range []string{"limit=-1", "skip=-5", "limit=ten"} {
		if w := api.do(http.MethodGet, "/posts/?"+q, tok1, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", q, w.Code)
		}
	}
}

func TestVoteEndpoint(t *testing.T) {
	api := newTestAPI(t, 1000)
	api.register("v@example.com")
	tok := api.login("v@example.com")
	w := api.do(http.MethodPost, "/posts/", tok, gin.H{"title": "t", "content": "c"})
	var p postPort.PostDTO
	decode(t, w, &p)

	cases := []struct {
		body   gin.H
		status int
		detail string
	}{
		{gin.H{"post_id": p.ID, "dir": 1}, http.StatusCreated, ""},
		{gin.H{"post_id": p.ID, "dir": 1}, http.StatusConflict, "user 1 has already voted on post 1"},
		{gin.H{"post_id": p.ID, "dir": 0}, http.StatusCreated, ""},
		{gin.H{"post_id": p.ID, "dir": 0}, http.StatusNotFound, "Vote does not exist"},
		{gin.H{"post_id": 999, "dir": 1}, http.StatusNotFound, "Post with id: 999 does not exist"},
		{gin.H{"post_id": p.ID, "dir": 2}, http.StatusBadRequest, ""},
		{gin.H{"post_id": p.ID}, http.StatusBadRequest, ""},
	}
	for i, c := range cases {
		w := api.do(http.MethodPost, "/vote/", tok, c.body)
		if w.Code != c.status {
			t.Fatalf("case %d: status %d, want %d (%s)", i, w.Code, c.status, w.Body)
		}
		if c.detail != "" && detail(t, w) != c.detail {
			t.Fatalf("case %d: detail %q, want %q", i, detail(t, w), c.detail)
		}
	}
}

func TestAuthentication(t *testing.T) {
	api := newTestAPI(t, 1000)
	u := api.register("auth@example.com")

	if w := api.do(http.MethodPost, "/users/", "", gin.H{"email": "auth@example.com", "password": "x"}); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d", w.Code)
	}
	if w := api.do(http.MethodPost, "/users/", "", gin.H{"email": "not-an-email", "password": "x"}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad email: %d", w.Code)
	}

	w := api.do(http.MethodPost, "/login", "", gin.H{"email": "auth@example.com", "password": "wrong"})
	if w.Code != http.StatusForbidden || detail(t, w) != "Invalid Credentials" {
		t.Fatalf("bad login: %d %s", w.Code, w.Body)
	}

	w = api.do(http.MethodPost, "/login", "", gin.H{"email": "auth@example.com", "password": "pass1234"})
	if w.Code != http.StatusOK {
		t.Fatalf("json login: %d %s", w.Code, w.Body)
	}
	var tok tokenPort.Token
	decode(t, w, &tok)
	if tok.TokenType != "bearer" {
		t.Fatalf("token_type = %q", tok.TokenType)
	}

	for _, bad := range []string{"", "garbage"} {
		w := api.do(http.MethodGet, "/posts/", bad, nil)
		if w.Code != http.StatusUnauthorized || w.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Fatalf("token %q: %d %v", bad, w.Code, w.Header())
		}
	}

	w = api.do(http.MethodGet, "/users/"+itoa(u.ID), tok.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get user: %d %s", w.Code, w.Body)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("user response leaks password: %s", w.Body)
	}
	if w := api.do(http.MethodGet, "/users/999", tok.AccessToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing user: %d", w.Code)
	}

	if w := api.do(http.MethodPost, "/logout", tok.AccessToken, nil); w.Code != http.StatusNoContent {
		t.Fatalf("logout: %d %s", w.Code, w.Body)
	}
	if w := api.do(http.MethodGet, "/posts/", tok.AccessToken, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	api := newTestAPI(t, 3)
	api.register("rl@example.com")
	tok := api.login("rl@example.com")

	for i := 0; i < 3; i++ {
		if w := api.do(http.MethodGet, "/posts/", tok, nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i, w.Code)
		}
	}
	w := api.do(http.MethodGet, "/posts/", tok, nil)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Fatalf("over limit: %d %v", w.Code, w.Header())
	}
}

func TestHealth(t *testing.T) {
	ok := NewHealthController(HealthChecks{"db": func(context.Context) error { return nil }}, zap.NewNop())
	down := NewHealthController(HealthChecks{
		"redis": func(context.Context) error { return errors.New("dial tcp 10.0.0.7:6379: connection refused") },
		"db":    func(context.Context) error { return errors.New("dial tcp db.internal:3306: i/o timeout") },
	}, zap.NewNop())

	for _, c := range []struct {
		ctl    *HealthController
		status int
	}{{ok, http.StatusOK}, {down, http.StatusServiceUnavailable}} {
		r := gin.New()
		r.GET("/healthz", c.ctl.Health)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if w.Code != c.status {
			t.Fatalf("status %d, want %d", w.Code, c.status)
		}
	}
}

func TestHealthHidesCheckErrors(t *testing.T) {
	ctl := NewHealthController(HealthChecks{
		"redis": func(context.Context) error { return errors.New("dial tcp 10.0.0.7:6379: connection refused") },
		"db":    func(context.Context) error { return errors.New("dial tcp db.internal:3306: i/o timeout") },
	}, zap.NewNop())
	r := gin.New()
	r.GET("/healthz", ctl.Health)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", w.Code)
	}
	for _, leak := range []string{"10.0.0.7", "db.internal", "refused", "timeout"} {
		if strings.Contains(w.Body.String(), leak) {
			t.Fatalf("body leaks %q: %s", leak, w.Body)
		}
	}
	var body struct {
		Status string   `json:"status"`
		Failed []string `json:"failed"`
	}
	decode(t, w, &body)
	if body.Status != "unavailable" || strings.Join(body.Failed, ",") != "db,redis" {
		t.Fatalf("body = %+v", body)
	}
}

func TestPostEmptyFields(t *testing.T) {
	api := newTestAPI(t, 1000)
	api.register("one@example.com")
	tok := api.login("one@example.com")

	w := api.do(http.MethodPost, "/posts/", tok, gin.H{"title": "", "content": "x"})
	if w.Code != http.StatusCreated {
		t.Fatalf("empty title: %d %s", w.Code, w.Body)
	}
	var created postPort.PostDTO
	decode(t, w, &created)
	if created.Title != "" || created.Content != "x" {
		t.Fatalf("created = %+v", created)
	}

	w = api.do(http.MethodPut, "/posts/"+itoa(created.ID), tok, gin.H{"title": "t", "content": ""})
	if w.Code != http.StatusOK {
		t.Fatalf("empty content: %d %s", w.Code, w.Body)
	}

	for _, body := range []gin.H{{"content": "x"}, {"title": "x"}, {"title": nil, "content": "x"}} {
		w = api.do(http.MethodPost, "/posts/", tok, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%v: %d %s", body, w.Code, w.Body)
		}
	}
}

func TestPostIDOutOfRange(t *testing.T) {
	api := newTestAPI(t, 1000)
	api.register("one@example.com")
	tok := api.login("one@example.com")

	for _, id := range []string{"0", "-1"} {
		want := "The post with the id: " + id + " was not found"
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := api.do(method, "/posts/"+id, tok, gin.H{"title": "t", "content": "c"})
			if w.Code != http.StatusNotFound {
				t.Fatalf("%s /posts/%s: %d %s", method, id, w.Code, w.Body)
			}
			if d := detail(t, w); d != want {
				t.Fatalf("%s /posts/%s: detail = %q, want %q", method, id, d, want)
			}
		}
	}

	w := api.do(http.MethodGet, "/users/0", tok, nil)
	if w.Code != http.StatusNotFound || detail(t, w) != "User with id: 0 does not exist" {
		t.Fatalf("/users/0: %d %s", w.Code, w.Body)
	}

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := api.do(method, "/posts/abc", tok, gin.H{"title": "t", "content": "c"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s /posts/abc: %d %s", method, w.Code, w.Body)
		}
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
