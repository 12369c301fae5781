// Package jsonsafe 把任意响应对象转换为 JSON 安全的值树。
//
// 控制器返回的数据形态不可控：领域记录、嵌套映射、数组、标量都可能出现，
// 且记录对象可能同时携带规范的原始形态和更丰富的类型化视图。
// 这里的转换优先使用原始形态：它本身就是 JSON 安全的，直接采信
// 可以避免二次序列化，也避免类型化视图中未填充的字段引发异常。
package jsonsafe

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// RawCarrier 携带规范原始形态的对象
// 实现该接口的值直接使用 Raw() 的结果，不再深入其类型化视图
type RawCarrier interface {
	Raw() map[string]any
}

// 嵌套深度上限，防止循环引用导致的无限递归
const maxDepth = 64

// ToJSONSafe 把任意值转换为 JSON 安全的值
// 全函数：对任何输入都不会失败，无法识别的类型退化为文本表示
func ToJSONSafe(v any) any {
	return convert(v, 0)
}

func convert(v any, depth int) any {
	if v == nil {
		return nil
	}
	if depth > maxDepth {
		return fmt.Sprint(v)
	}

	// 优先使用对象自带的规范原始形态
	if rc, ok := v.(RawCarrier); ok {
		return rc.Raw()
	}

	switch val := v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = convert(item, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = convert(item, depth+1)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return convert(rv.Elem().Interface(), depth+1)

	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = convert(iter.Value().Interface(), depth+1)
		}
		return out

	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = convert(rv.Index(i).Interface(), depth+1)
		}
		return out

	case reflect.Struct:
		return convertStruct(rv, depth)

	default:
		// 无法识别的类型（func、chan 等）退化为文本，绝不抛出
		return fmt.Sprint(v)
	}
}

// convertStruct 把结构体投影为 "公开字段名 -> 序列化值" 的映射
// 跳过不可导出字段和可调用成员；无公开字段时退化为文本表示
func convertStruct(rv reflect.Value, depth int) any {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		switch field.Type.Kind() {
		case reflect.Func, reflect.Chan:
			continue
		}

		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			tagName := strings.SplitN(tag, ",", 2)[0]
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		out[name] = convert(rv.Field(i).Interface(), depth+1)
	}

	if len(out) == 0 {
		if s, ok := rv.Interface().(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprint(rv.Interface())
	}
	return out
}

// ToJSONSafeSlice 转换记录序列
func ToJSONSafeSlice[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = ToJSONSafe(item)
	}
	return out
}
