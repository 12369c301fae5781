package unifi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/egallis31/unifi-network-mcp/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// proxyPrefix 一体机控制器的网络应用前缀
// 一体机把网络控制器挂在统一网关后面，所有 API 路径都要加这一段
const proxyPrefix = "/proxy/network"

// Executor 请求执行器
// 负责拼装最终 URL、发送请求、解析信封并映射为类型化错误。
// 除会话失效后的单次重登录重试外不做任何自动重试：
// 命令端点不是幂等的，瞬时故障的重试策略留给调用方
type Executor struct {
	cfg      *Config
	client   *http.Client
	sessions *SessionManager
	log      logger.Logger
	limiter  *rate.Limiter
}

// NewExecutor 创建请求执行器
func NewExecutor(cfg *Config, client *http.Client, sessions *SessionManager, log logger.Logger) *Executor {
	if log == nil {
		log = logger.NewNoop()
	}
	e := &Executor{
		cfg:      cfg,
		client:   client,
		sessions: sessions,
		log:      log.Named("unifi.executor"),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return e
}

// Execute 对单个候选路径执行一次操作
// 收到会话失效响应时重登录一次并重试一次，第二次失败原样上抛
func (e *Executor) Execute(ctx context.Context, op Operation, pathTemplate string, params map[string]any) (*Envelope, error) {
	sess, err := e.sessions.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	env, err := e.do(ctx, sess, op, pathTemplate, params)
	if err == nil || !isAuthRejected(err) {
		return env, err
	}

	ReloginTotal.Inc()
	e.log.Warn("session rejected, re-authenticating once",
		"operation", op.Name, "path", pathTemplate)

	sess, refreshErr := e.sessions.Refresh(ctx, sess)
	if refreshErr != nil {
		return nil, refreshErr
	}
	return e.do(ctx, sess, op, pathTemplate, params)
}

// do 单次请求
func (e *Executor) do(ctx context.Context, sess *Session, op Operation, pathTemplate string, params map[string]any) (*Envelope, error) {
	path, remaining, err := e.buildPath(op, pathTemplate, params)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	reqURL := e.cfg.BaseURL() + path

	if op.Method == http.MethodGet {
		if len(remaining) > 0 {
			query := url.Values{}
			for k, v := range remaining {
				query.Set(k, fmt.Sprint(v))
			}
			reqURL += "?" + query.Encode()
		}
	} else if len(remaining) > 0 {
		payload, err := json.Marshal(remaining)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, reqURL, body)
	if err != nil {
		return nil, &RequestError{Operation: op.Name, Path: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	sess.apply(req)

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, &RequestError{Operation: op.Name, Path: path, Err: err}
		}
	}

	requestID := uuid.NewString()
	e.log.Debug("controller request",
		"request_id", requestID, "operation", op.Name,
		"method", op.Method, "path", path)

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		observeRequest(op.Name, 0, time.Since(start).Seconds())
		e.log.Error("controller request failed",
			"request_id", requestID, "operation", op.Name, "path", path, "error", err)
		return nil, &RequestError{Operation: op.Name, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	observeRequest(op.Name, resp.StatusCode, time.Since(start).Seconds())
	if err != nil {
		return nil, &RequestError{Operation: op.Name, Path: path, Err: err}
	}

	return e.decode(op, path, resp.StatusCode, respBody)
}

// buildPath 拼装最终路径
// 先替换 {xxx} 占位符（对应参数同时从请求载荷中移除），
// 再按代际加站点前缀，一体机额外加网关前缀
func (e *Executor) buildPath(op Operation, tmpl string, params map[string]any) (string, map[string]any, error) {
	remaining := make(map[string]any, len(params))
	for k, v := range params {
		remaining[k] = v
	}

	path := tmpl
	for {
		start := strings.Index(path, "{")
		if start < 0 {
			break
		}
		end := strings.Index(path[start:], "}")
		if end < 0 {
			break
		}
		end += start

		key := path[start+1 : end]
		v, ok := remaining[key]
		if !ok {
			return "", nil, &ValidationError{Field: key, Message: "required path parameter is missing"}
		}
		path = path[:start] + url.PathEscape(fmt.Sprint(v)) + path[end+1:]
		delete(remaining, key)
	}

	if !op.Absolute {
		switch op.Generation {
		case GenerationV2:
			path = "/v2/api/site/" + url.PathEscape(e.cfg.Site) + path
		default:
			path = "/api/s/" + url.PathEscape(e.cfg.Site) + path
		}
	}

	if e.cfg.IsAppliance() {
		path = proxyPrefix + path
	}

	return path, remaining, nil
}

// decode 解析响应
// rc != "ok" 一律视为错误，与 HTTP 状态无关；新式 API 的裸数组/对象
// 响应被归一化成标准信封
func (e *Executor) decode(op Operation, path string, status int, body []byte) (*Envelope, error) {
	if status < 200 || status >= 300 {
		return nil, &ResponseError{
			Operation:  op.Name,
			Path:       path,
			StatusCode: status,
			Message:    errorMessage(body, status),
		}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Envelope{Meta: Meta{RC: "ok"}}, nil
	}

	var probe struct {
		Meta *Meta           `json:"meta"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &probe); err == nil && probe.Meta != nil {
		env := &Envelope{Meta: *probe.Meta}
		if len(probe.Data) > 0 {
			records, err := decodeRecords(probe.Data)
			if err != nil {
				return nil, &RequestError{Operation: op.Name, Path: path, Err: err}
			}
			env.Data = records
		}
		if !env.OK() {
			return nil, &ResponseError{
				Operation:  op.Name,
				Path:       path,
				StatusCode: status,
				Message:    env.Meta.Msg,
			}
		}
		return env, nil
	}

	records, err := decodeRecords(trimmed)
	if err != nil {
		return nil, &RequestError{Operation: op.Name, Path: path, Err: err}
	}
	return &Envelope{Meta: Meta{RC: "ok"}, Data: records}, nil
}

// decodeRecords 把数组、单个对象或标量统一解码为记录序列
func decodeRecords(raw json.RawMessage) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var single Record
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("undecodable response payload: %w", err)
	}
	return []Record{single}, nil
}

// errorMessage 从错误响应体中提取控制器消息
// 旧式 API 用 meta.msg，新式 API 用顶层 message/code
func errorMessage(body []byte, status int) string {
	var payload struct {
		Meta    Meta   `json:"meta"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Meta.Msg != "":
			return payload.Meta.Msg
		case payload.Message != "":
			return payload.Message
		case payload.Msg != "":
			return payload.Msg
		}
	}
	return http.StatusText(status)
}
