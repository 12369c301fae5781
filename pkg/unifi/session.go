package unifi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/egallis31/unifi-network-mcp/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const (
	standardLoginPath  = "/api/login"
	applianceLoginPath = "/api/auth/login"

	standardLogoutPath  = "/api/logout"
	applianceLogoutPath = "/api/auth/logout"

	csrfHeader = "X-Csrf-Token"

	// 过期判定的提前量，避免用临期令牌发请求
	expirySkew = 30 * time.Second
)

// Session 已认证会话的不可变快照
// 只会被整体替换，绝不逐字段修改，保证取消或并发下不会出现半旧半新的状态
type Session struct {
	kind      ControllerKind
	cookies   []*http.Cookie
	csrfToken string
	epoch     uint64
	issuedAt  time.Time
	expiresAt time.Time // 零值表示控制器未给出过期时间
}

// Epoch 会话纪元，每次登录递增
// 已解析端点缓存用它来判断缓存项是否属于当前会话
func (s *Session) Epoch() uint64 {
	return s.epoch
}

// Expired 会话是否已过期
func (s *Session) Expired(now time.Time) bool {
	if s.expiresAt.IsZero() {
		return false
	}
	return now.After(s.expiresAt.Add(-expirySkew))
}

// apply 将会话凭据附加到请求上
func (s *Session) apply(req *http.Request) {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	if s.csrfToken != "" && req.Method != http.MethodGet {
		req.Header.Set(csrfHeader, s.csrfToken)
	}
}

// SessionManager 会话管理器
// 独占持有会话状态，重登录通过 singleflight 保证同一时刻最多一次在途登录，
// 观察到会话过期的并发调用方阻塞等待同一次刷新结果
type SessionManager struct {
	cfg    *Config
	client *http.Client
	log    logger.Logger

	mu      sync.RWMutex
	current *Session
	epoch   uint64

	sf singleflight.Group
}

// NewSessionManager 创建会话管理器
func NewSessionManager(cfg *Config, client *http.Client, log logger.Logger) *SessionManager {
	if log == nil {
		log = logger.NewNoop()
	}
	return &SessionManager{
		cfg:    cfg,
		client: client,
		log:    log.Named("unifi.session"),
	}
}

// Current 当前会话快照（可能为 nil）
func (m *SessionManager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Epoch 当前会话纪元，无会话时为 0
func (m *SessionManager) Epoch() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epoch
}

// Ensure 保证存在有效会话
// 幂等：存在未过期会话时直接复用，否则执行一次登录
func (m *SessionManager) Ensure(ctx context.Context) (*Session, error) {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()

	if cur != nil && !cur.Expired(time.Now()) {
		return cur, nil
	}
	return m.refresh(ctx, cur)
}

// Refresh 替换一个已失效的会话
// 若其他调用方已经完成了替换，直接返回新会话，不再重复登录
func (m *SessionManager) Refresh(ctx context.Context, stale *Session) (*Session, error) {
	return m.refresh(ctx, stale)
}

// refresh 单写者登录：并发调用共享同一次在途登录
func (m *SessionManager) refresh(ctx context.Context, stale *Session) (*Session, error) {
	ch := m.sf.DoChan("login", func() (any, error) {
		// 进入临界区后复查：等待期间可能已有新会话
		m.mu.RLock()
		cur := m.current
		m.mu.RUnlock()
		if cur != nil && cur != stale && !cur.Expired(time.Now()) {
			return cur, nil
		}

		sess, err := m.login(ctx)
		if err != nil {
			return nil, err
		}

		// 原子替换，同时推进纪元
		m.mu.Lock()
		m.epoch++
		sess.epoch = m.epoch
		m.current = sess
		m.mu.Unlock()

		m.log.Info("session established",
			"kind", string(m.cfg.ControllerKind),
			"epoch", sess.epoch,
			"expires_at", sess.expiresAt)
		return sess, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Session), nil
	case <-ctx.Done():
		// 取消只影响等待方，不会留下半应用的会话
		return nil, ctx.Err()
	}
}

// login 执行登录流程，形态由 ControllerKind 决定
func (m *SessionManager) login(ctx context.Context) (*Session, error) {
	loginPath := standardLoginPath
	if m.cfg.IsAppliance() {
		loginPath = applianceLoginPath
	}

	body, err := json.Marshal(map[string]any{
		"username": m.cfg.Username,
		"password": m.cfg.Password,
		"remember": true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.cfg.BaseURL()+loginPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, &RequestError{Operation: "login", Path: loginPath, Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthError{Message: loginFailureMessage(respBody, resp.StatusCode)}
	}

	sess := &Session{
		kind:     m.cfg.ControllerKind,
		cookies:  resp.Cookies(),
		issuedAt: time.Now(),
	}

	if token := resp.Header.Get(csrfHeader); token != "" {
		sess.csrfToken = token
	}

	for _, c := range sess.cookies {
		switch c.Name {
		case "csrf_token":
			// 独立控制器通过 cookie 下发 csrf 令牌
			if sess.csrfToken == "" {
				sess.csrfToken = c.Value
			}
		case "TOKEN":
			// 一体机下发 JWT，从 claims 中取 csrf 令牌和过期时间
			// 这里只做解码不做签名校验：令牌是控制器刚下发的
			m.decodeApplianceToken(sess, c.Value)
		}
	}

	return sess, nil
}

// decodeApplianceToken 解析 TOKEN cookie 中的 JWT
func (m *SessionManager) decodeApplianceToken(sess *Session, raw string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		m.log.Warn("failed to decode appliance token", "error", err)
		return
	}

	if sess.csrfToken == "" {
		if v, ok := claims["csrfToken"].(string); ok {
			sess.csrfToken = v
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.expiresAt = exp.Time
	}
}

// Logout 注销当前会话
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()
	if cur == nil {
		return nil
	}

	logoutPath := standardLogoutPath
	if m.cfg.IsAppliance() {
		logoutPath = applianceLogoutPath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.cfg.BaseURL()+logoutPath, nil)
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}
	cur.apply(req)

	resp, err := m.client.Do(req)
	if err != nil {
		return &RequestError{Operation: "logout", Path: logoutPath, Err: err}
	}
	resp.Body.Close()

	m.Invalidate()
	return nil
}

// Invalidate 丢弃当前会话
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// loginFailureMessage 从登录失败响应中提取控制器消息
func loginFailureMessage(body []byte, status int) string {
	var envelope struct {
		Meta    Meta   `json:"meta"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Meta.Msg != "":
			return envelope.Meta.Msg
		case envelope.Message != "":
			return envelope.Message
		case envelope.Msg != "":
			return envelope.Msg
		}
	}
	return fmt.Sprintf("login rejected with status %d", status)
}
