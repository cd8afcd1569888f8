package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-stream-core/internal/domain"
	resp "music-stream-core/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func TestFromError(t *testing.T) {
	cases := []struct {
		err    error
		code   int
		reason string
	}{
		{domain.ErrUserMissing, resp.CodeNotFound, "user-missing"},
		{fmt.Errorf("tx: %w", domain.ErrDuplicatePremiumTier), resp.CodeConflict, "duplicate-premium-tier"},
		{domain.ErrMalformedDate, resp.CodeBadRequest, "malformed-date"},
		{BadRequest("bad"), resp.CodeBadRequest, ""},
		{errors.New("db down"), resp.CodeServerError, ""},
	}
	for _, tc := range cases {
		ae := FromError(tc.err)
		assert.Equal(t, tc.code, ae.Code, tc.err.Error())
		assert.Equal(t, tc.reason, ae.Reason)
	}
	assert.Equal(t, "internal error", FromError(errors.New("secret detail")).Error())
}

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func serve(r *gin.Engine, method, path, body string) resp.Resp {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	var out resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestRegisterAction(t *testing.T) {
	r := gin.New()
	g := r.Group("")
	g.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(KeyUserID, uid)
			c.Set(KeyRole, c.GetHeader("X-Test-Role"))
		}
	})
	e := New(g, nil)

	RegisterAction(e, Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			if in.Name == "dup" {
				return nil, domain.ErrDuplicatePremiumTier
			}
			return gin.H{"name": in.Name}, nil
		},
	})
	RegisterAction(e, Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/items/:id",
		Binder: BindNone,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ParamInt(c, "id")
			if err != nil {
				return nil, err
			}
			return gin.H{"id": id, "by": UserID(c)}, nil
		},
	})

	out := serve(r, http.MethodPost, "/echo", `{"name":"ann"}`)
	assert.Equal(t, resp.CodeOK, out.Code)
	assert.Equal(t, map[string]any{"name": "ann"}, out.Data)

	out = serve(r, http.MethodPost, "/echo", `{}`)
	assert.Equal(t, resp.CodeBadRequest, out.Code)

	out = serve(r, http.MethodPost, "/echo", `{"name":"dup"}`)
	assert.Equal(t, resp.CodeConflict, out.Code)
	assert.Equal(t, "duplicate-premium-tier", out.Reason)

	out = serve(r, http.MethodGet, "/items/7", "")
	assert.Equal(t, resp.CodeUnauthorized, out.Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set("X-Test-User", "u1")
	req.Header.Set("X-Test-Role", "user")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":403`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/items/abc", nil)
	req.Header.Set("X-Test-User", "u1")
	req.Header.Set("X-Test-Role", "admin")
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"code":400`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set("X-Test-User", "u1")
	req.Header.Set("X-Test-Role", "admin")
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"by":"u1"`)
}
