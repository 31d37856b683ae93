package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/requestctx"
)

func init() { gin.SetMode(gin.TestMode) }

func TestRequestContext(t *testing.T) {
	var got requestctx.Info
	r := gin.New()
	r.Use(RequestContext(), Logger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		got = requestctx.FromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderActorID, "42")
	req.Header.Set(HeaderActorName, "Pak Joko")
	req.Header.Set("User-Agent", "browser/1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got.ActorID == nil || *got.ActorID != 42 || got.ActorName != "Pak Joko" {
		t.Fatalf("actor = %v %q", got.ActorID, got.ActorName)
	}
	if got.UserAgent != "browser/1.0" || got.IP == "" {
		t.Fatalf("ua/ip = %q %q", got.UserAgent, got.IP)
	}
	if got.RequestID == "" || w.Header().Get(HeaderRequestID) != got.RequestID {
		t.Fatalf("request id = %q, header %q", got.RequestID, w.Header().Get(HeaderRequestID))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderActorID, "nope")
	req.Header.Set(HeaderRequestID, "abc-123")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got.ActorID != nil || got.RequestID != "abc-123" {
		t.Fatalf("bad actor kept or request id replaced: %v %q", got.ActorID, got.RequestID)
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		want   string
	}{
		{apperr.NotFound("post", "x"), http.StatusNotFound, "not found"},
		{apperr.Invalid("title", "is required"), http.StatusUnprocessableEntity, `"field":"title"`},
		{apperr.Duplicate("slug", "a"), http.StatusUnprocessableEntity, `"field":"slug"`},
		{&apperr.ConflictError{Conflicts: []models.ScheduleModel{{Base: models.Base{ID: 7}}}}, http.StatusConflict, `"conflicts":[7]`},
		{fmt.Errorf("extra: %w", apperr.ErrNoCapacity), http.StatusConflict, "no available slots"},
		{fmt.Errorf("dial tcp: refused"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, c := range cases {
		r := gin.New()
		r.Use(Errors())
		r.GET("/", func(ctx *gin.Context) { _ = ctx.Error(c.err) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != c.status {
			t.Fatalf("%v: status %d, want %d", c.err, w.Code, c.status)
		}
		if !strings.Contains(w.Body.String(), c.want) {
			t.Fatalf("%v: body %s lacks %s", c.err, w.Body.String(), c.want)
		}
	}
}
