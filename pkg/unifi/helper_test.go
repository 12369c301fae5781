package unifi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeController 内存假控制器
// 默认处理登录端点并下发会话凭据，其余请求交给 handle 回调
type fakeController struct {
	t    *testing.T
	kind ControllerKind

	// login 覆盖默认的登录处理（模拟拒绝、延迟等场景）
	login func(w http.ResponseWriter, r *http.Request)
	// handle 处理登录之外的请求
	handle func(w http.ResponseWriter, r *http.Request)

	mu       sync.Mutex
	logins   int
	requests []string

	srv *httptest.Server
}

func newFakeController(t *testing.T, kind ControllerKind) *fakeController {
	t.Helper()
	f := &fakeController{t: t, kind: kind}
	f.srv = httptest.NewTLSServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeController) serve(w http.ResponseWriter, r *http.Request) {
	loginPath := standardLoginPath
	if f.kind == KindAppliance {
		loginPath = applianceLoginPath
	}

	if r.URL.Path == loginPath {
		f.mu.Lock()
		f.logins++
		f.mu.Unlock()
		if f.login != nil {
			f.login(w, r)
			return
		}
		f.defaultLogin(w)
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	if f.handle != nil {
		f.handle(w, r)
		return
	}
	http.NotFound(w, r)
}

func (f *fakeController) defaultLogin(w http.ResponseWriter) {
	if f.kind == KindAppliance {
		token := makeApplianceToken(f.t, "csrf-from-jwt", time.Now().Add(time.Hour))
		http.SetCookie(w, &http.Cookie{Name: "TOKEN", Value: token})
	} else {
		http.SetCookie(w, &http.Cookie{Name: "unifises", Value: fmt.Sprintf("sess-%d", f.loginCount())})
		http.SetCookie(w, &http.Cookie{Name: "csrf_token", Value: "csrf-1"})
	}
	writeJSON(w, http.StatusOK, `{"meta":{"rc":"ok"},"data":[]}`)
}

func (f *fakeController) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeController) requestPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// config 指向假控制器的网关配置
func (f *fakeController) config() *Config {
	f.t.Helper()
	u, err := url.Parse(f.srv.URL)
	require.NoError(f.t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(f.t, err)

	return &Config{
		Host:           u.Hostname(),
		Port:           port,
		Username:       "admin",
		Password:       "secret",
		Site:           "default",
		ControllerKind: f.kind,
		Timeout:        5 * time.Second,
	}
}

// client 信任假控制器自签名证书的客户端
func (f *fakeController) client() *http.Client {
	return f.srv.Client()
}

func (f *fakeController) executor() (*Executor, *SessionManager) {
	cfg := f.config()
	sessions := NewSessionManager(cfg, f.client(), nil)
	return NewExecutor(cfg, f.client(), sessions, nil), sessions
}

func makeApplianceToken(t *testing.T, csrf string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"csrfToken": csrf,
		"exp":       exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
