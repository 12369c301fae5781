package unifi

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerEnsure(t *testing.T) {
	t.Run("standard login", func(t *testing.T) {
		f := newFakeController(t, KindStandard)
		m := NewSessionManager(f.config(), f.client(), nil)

		sess, err := m.Ensure(context.Background())
		require.NoError(t, err)
		require.NotNil(t, sess)

		assert.Equal(t, uint64(1), sess.Epoch())
		assert.Equal(t, "csrf-1", sess.csrfToken)
		assert.True(t, sess.expiresAt.IsZero(), "standard sessions carry no expiry")
		assert.Equal(t, 1, f.loginCount())
	})

	t.Run("reuses live session", func(t *testing.T) {
		f := newFakeController(t, KindStandard)
		m := NewSessionManager(f.config(), f.client(), nil)

		first, err := m.Ensure(context.Background())
		require.NoError(t, err)
		second, err := m.Ensure(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, f.loginCount())
	})

	t.Run("appliance login decodes token", func(t *testing.T) {
		f := newFakeController(t, KindAppliance)
		m := NewSessionManager(f.config(), f.client(), nil)

		sess, err := m.Ensure(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "csrf-from-jwt", sess.csrfToken)
		assert.False(t, sess.expiresAt.IsZero())
		assert.WithinDuration(t, time.Now().Add(time.Hour), sess.expiresAt, time.Minute)
	})

	t.Run("csrf header takes precedence over token claim", func(t *testing.T) {
		f := newFakeController(t, KindAppliance)
		f.login = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(csrfHeader, "csrf-from-header")
			token := makeApplianceToken(t, "csrf-from-jwt", time.Now().Add(time.Hour))
			http.SetCookie(w, &http.Cookie{Name: "TOKEN", Value: token})
			writeJSON(w, http.StatusOK, `{"meta":{"rc":"ok"},"data":[]}`)
		}
		m := NewSessionManager(f.config(), f.client(), nil)

		sess, err := m.Ensure(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "csrf-from-header", sess.csrfToken)
	})

	t.Run("login rejected", func(t *testing.T) {
		f := newFakeController(t, KindStandard)
		f.login = func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, `{"meta":{"rc":"error","msg":"api.err.Invalid"}}`)
		}
		m := NewSessionManager(f.config(), f.client(), nil)

		_, err := m.Ensure(context.Background())
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Contains(t, authErr.Message, "api.err.Invalid")
		assert.Nil(t, m.Current())
	})

	t.Run("expired session triggers relogin", func(t *testing.T) {
		f := newFakeController(t, KindAppliance)
		f.login = func(w http.ResponseWriter, r *http.Request) {
			// 过期时间落在提前量以内，会话下发即视为过期
			token := makeApplianceToken(t, "csrf", time.Now().Add(10*time.Second))
			http.SetCookie(w, &http.Cookie{Name: "TOKEN", Value: token})
			writeJSON(w, http.StatusOK, `{"meta":{"rc":"ok"},"data":[]}`)
		}
		m := NewSessionManager(f.config(), f.client(), nil)

		first, err := m.Ensure(context.Background())
		require.NoError(t, err)
		assert.True(t, first.Expired(time.Now()))

		second, err := m.Ensure(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(2), second.Epoch())
		assert.Equal(t, 2, f.loginCount())
	})

	t.Run("concurrent callers share one login", func(t *testing.T) {
		f := newFakeController(t, KindStandard)
		f.login = func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(50 * time.Millisecond)
			f.defaultLogin(w)
		}
		m := NewSessionManager(f.config(), f.client(), nil)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := m.Ensure(context.Background())
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, f.loginCount())
		assert.Equal(t, uint64(1), m.Epoch())
	})
}

func TestSessionManagerRefresh(t *testing.T) {
	t.Run("stale session replaced", func(t *testing.T) {
		f := newFakeController(t, KindStandard)
		m := NewSessionManager(f.config(), f.client(), nil)

		first, err := m.Ensure(context.Background())
		require.NoError(t, err)

		second, err := m.Refresh(context.Background(), first)
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.Equal(t, uint64(2), second.Epoch())
		assert.Equal(t, 2, f.loginCount())
	})

	t.Run("already replaced by another caller", func(t *testing.T) {
		f := newFakeController(t, KindStandard)
		m := NewSessionManager(f.config(), f.client(), nil)

		current, err := m.Ensure(context.Background())
		require.NoError(t, err)

		// 传入的陈旧会话已不是当前会话，不应再登录一次
		got, err := m.Refresh(context.Background(), &Session{})
		require.NoError(t, err)
		assert.Same(t, current, got)
		assert.Equal(t, 1, f.loginCount())
	})

	t.Run("waiter cancellation", func(t *testing.T) {
		f := newFakeController(t, KindStandard)
		f.login = func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			f.defaultLogin(w)
		}
		m := NewSessionManager(f.config(), f.client(), nil)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := m.Ensure(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSessionManagerLogout(t *testing.T) {
	f := newFakeController(t, KindStandard)
	f.handle = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == standardLogoutPath {
			writeJSON(w, http.StatusOK, `{"meta":{"rc":"ok"},"data":[]}`)
			return
		}
		http.NotFound(w, r)
	}
	m := NewSessionManager(f.config(), f.client(), nil)

	t.Run("without session is a no-op", func(t *testing.T) {
		require.NoError(t, m.Logout(context.Background()))
		assert.Empty(t, f.requestPaths())
	})

	t.Run("discards current session", func(t *testing.T) {
		_, err := m.Ensure(context.Background())
		require.NoError(t, err)

		require.NoError(t, m.Logout(context.Background()))
		assert.Nil(t, m.Current())
		assert.Contains(t, f.requestPaths(), "POST "+standardLogoutPath)
	})
}

func TestSessionApply(t *testing.T) {
	sess := &Session{
		cookies:   []*http.Cookie{{Name: "unifises", Value: "abc"}},
		csrfToken: "tok",
	}

	t.Run("post carries csrf header", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "https://example/api", nil)
		sess.apply(req)

		assert.Equal(t, "tok", req.Header.Get(csrfHeader))
		cookie, err := req.Cookie("unifises")
		require.NoError(t, err)
		assert.Equal(t, "abc", cookie.Value)
	})

	t.Run("get omits csrf header", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "https://example/api", nil)
		sess.apply(req)
		assert.Empty(t, req.Header.Get(csrfHeader))
	})
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()

	t.Run("no expiry never expires", func(t *testing.T) {
		assert.False(t, (&Session{}).Expired(now))
	})

	t.Run("skew applies before the deadline", func(t *testing.T) {
		sess := &Session{expiresAt: now.Add(10 * time.Second)}
		assert.True(t, sess.Expired(now))
	})

	t.Run("fresh session", func(t *testing.T) {
		sess := &Session{expiresAt: now.Add(10 * time.Minute)}
		assert.False(t, sess.Expired(now))
	})
}

func TestLoginFailureMessage(t *testing.T) {
	assert.Equal(t, "api.err.Invalid",
		loginFailureMessage([]byte(`{"meta":{"rc":"error","msg":"api.err.Invalid"}}`), 400))
	assert.Equal(t, "invalid credentials",
		loginFailureMessage([]byte(`{"message":"invalid credentials"}`), 401))
	assert.Equal(t, "login rejected with status 502",
		loginFailureMessage([]byte("<html>bad gateway</html>"), 502))
}
