package unifi

import "encoding/json"

// Record 控制器返回的单条记录（客户端、设备、策略等）
// 对网关而言是不透明的只读数据，原始形态即规范形态
type Record struct {
	raw map[string]any
}

// NewRecord 从原始映射创建记录
func NewRecord(raw map[string]any) Record {
	return Record{raw: raw}
}

// Raw 返回记录的原始 JSON 安全形态
func (r Record) Raw() map[string]any {
	return r.raw
}

// String 读取字符串字段，不存在或类型不符返回空串
func (r Record) String(key string) string {
	v, _ := r.raw[key].(string)
	return v
}

// Bool 读取布尔字段
func (r Record) Bool(key string) bool {
	v, _ := r.raw[key].(bool)
	return v
}

// ID 记录的 _id 字段
func (r Record) ID() string {
	return r.String("_id")
}

// UnmarshalJSON 解码一条记录
// 控制器偶尔会在 data 数组中混入标量（如命令回执），统一包进映射
func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err == nil {
		r.raw = m
		return nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.raw = map[string]any{"value": v}
	return nil
}

// MarshalJSON 按原始形态编码
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.raw)
}

// Meta 响应信封的元数据
type Meta struct {
	RC  string `json:"rc"`
	Msg string `json:"msg,omitempty"`
}

// Envelope 响应信封
// 旧式 API 统一返回 {"meta": {...}, "data": [...]}；
// 新式 API 可能直接返回裸数组或对象，由执行器归一化成同一结构
type Envelope struct {
	Meta Meta     `json:"meta"`
	Data []Record `json:"data"`
}

// OK 信封是否为成功状态
func (e *Envelope) OK() bool {
	return e.Meta.RC == "ok"
}
