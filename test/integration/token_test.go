//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTokenLifecycle 登录、刷新、注销
func TestTokenLifecycle(t *testing.T) {
	tokens := Login(t, "LIBRARY_IT_MEMBER")

	t.Run("刷新Access Token", func(t *testing.T) {
		resp := Do(t, http.MethodPost, "/api/token/refresh/", map[string]string{"refresh": tokens.RefreshToken}, "")
		require.Equal(t, http.StatusOK, resp.Status)

		var refreshed struct {
			Access string `json:"access"`
		}
		DecodeData(t, resp, &refreshed)
		assert.NotEmpty(t, refreshed.Access)
	})

	t.Run("错误密码返回401", func(t *testing.T) {
		username, _ := Credentials(t, "LIBRARY_IT_MEMBER")
		resp := Do(t, http.MethodPost, "/api/token/", map[string]string{
			"username": username,
			"password": "definitely-wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("注销后Token不可用", func(t *testing.T) {
		session := Login(t, "LIBRARY_IT_MEMBER")
		resp := Do(t, http.MethodPost, "/api/token/revoke/", map[string]string{"refresh": session.RefreshToken}, session.AccessToken)
		require.Equal(t, http.StatusNoContent, resp.Status)

		resp = Do(t, http.MethodGet, "/api/books/", nil, session.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)

		resp = Do(t, http.MethodPost, "/api/token/refresh/", map[string]string{"refresh": session.RefreshToken}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
		t.Logf("✓ 注销生效")
	})
}
