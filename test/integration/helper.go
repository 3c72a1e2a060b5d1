//go:build integration

// Package integration 对运行中的服务做黑盒测试
//
// 运行方式：
//
//	LIBRARY_BOOTSTRAP_ADMIN_USERNAME=librarian LIBRARY_BOOTSTRAP_ADMIN_PASSWORD=correct-horse go run ./cmd/api
//	go run ./cmd/libctl create-user -u reader -p battery-staple
//	LIBRARY_IT_ADMIN=librarian:correct-horse LIBRARY_IT_MEMBER=reader:battery-staple \
//	    go test -tags integration -v ./test/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// BaseURL 服务地址，默认http://localhost:8080
func BaseURL() string {
	if u := os.Getenv("LIBRARY_IT_BASE_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	return "http://localhost:8080"
}

// Response 统一响应结构
type Response struct {
	Status int                 `json:"-"`
	Code   int                 `json:"code"`
	Detail string              `json:"detail"`
	Data   json.RawMessage     `json:"data"`
	Errors map[string][]string `json:"errors"`
}

// TokenData 登录响应数据
type TokenData struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// BookData 图书响应数据
type BookData struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedDate string `json:"published_date"`
	ISBN          string `json:"isbn"`
	Pages         int    `json:"pages"`
	Language      string `json:"language"`
	IsArchived    bool   `json:"is_archived"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	Count   int        `json:"count"`
	Results []BookData `json:"results"`
}

// Do 发送请求并解析统一响应，204时只填充Status
func Do(t *testing.T, method, path string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, BaseURL()+path, body)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := &Response{Status: resp.StatusCode}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, result), "解析JSON响应失败: %s", string(raw))
	}
	return result
}

// DecodeData 解析响应中的data字段
func DecodeData(t *testing.T, resp *Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, out), "解析data失败: %s", string(resp.Data))
}

// Credentials 从环境变量读取"用户名:密码"，未设置时跳过测试
func Credentials(t *testing.T, env string) (string, string) {
	t.Helper()
	v := os.Getenv(env)
	username, password, ok := strings.Cut(v, ":")
	if !ok {
		t.Skipf("未设置%s(格式 用户名:密码)", env)
	}
	return username, password
}

// Login 登录并返回Token对
func Login(t *testing.T, env string) TokenData {
	t.Helper()
	username, password := Credentials(t, env)

	resp := Do(t, http.MethodPost, "/api/token/", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.Status, "登录失败: %s", resp.Detail)

	var tokens TokenData
	DecodeData(t, resp, &tokens)
	return tokens
}

// GenerateTestISBN 生成唯一的测试ISBN(978 + 10位数字)
func GenerateTestISBN() string {
	return fmt.Sprintf("978%010d", time.Now().UnixNano()%10000000000)
}

// NewBookRequest 测试图书请求体
func NewBookRequest(title string, published time.Time) map[string]interface{} {
	return map[string]interface{}{
		"title":          title,
		"author":         "Integration Tester",
		"published_date": published.UTC().Format("2006-01-02"),
		"isbn":           GenerateTestISBN(),
		"pages":          100,
		"language":       "en",
	}
}

// CreateTestBook 以管理员身份创建图书
func CreateTestBook(t *testing.T, token, title string) BookData {
	t.Helper()
	resp := Do(t, http.MethodPost, "/api/books/", NewBookRequest(title, time.Now()), token)
	require.Equal(t, http.StatusCreated, resp.Status, "创建图书失败: %s %v", resp.Detail, resp.Errors)

	var b BookData
	DecodeData(t, resp, &b)
	return b
}
