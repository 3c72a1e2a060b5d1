package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestSuccessWithList(t *testing.T) {
	t.Run("列表封装count与results", func(t *testing.T) {
		c, w := newContext()
		SuccessWithList(c, []string{"Dune", "Emma"}, 2)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"code":0,"data":{"count":2,"results":["Dune","Emma"]}}`, w.Body.String())
	})

	t.Run("空列表序列化为空数组", func(t *testing.T) {
		c, w := newContext()
		SuccessWithList(c, []string{}, 0)
		assert.JSONEq(t, `{"code":0,"data":{"count":0,"results":[]}}`, w.Body.String())
		t.Logf("✓ %s", w.Body.String())
	})
}

func TestError(t *testing.T) {
	t.Run("字段错误返回400", func(t *testing.T) {
		c, w := newContext()
		Error(c, apperrors.Validation(map[string][]string{"isbn": {"This field is required."}}))

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, apperrors.ErrCodeInvalidParams, body.Code)
		assert.Equal(t, []string{"This field is required."}, body.Errors["isbn"])
	})

	t.Run("非AppError按500处理且不暴露内部信息", func(t *testing.T) {
		c, w := newContext()
		Error(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
		assert.Contains(t, w.Body.String(), apperrors.ErrInternal.Message)
	})
}
