package config

import (
	"fmt"
	"reflect"
)

// MergeConfig 合并配置
// 各 pkg 模块统一通过该函数实现 "默认配置 + 用户配置" 的覆盖语义：
// - dst 和 src 都为 nil 时返回错误
// - 仅一方为 nil 时返回另一方
// - 都不为 nil 时，src 中的非零值覆盖 dst 对应字段，返回 dst
func MergeConfig[T any](dst, src *T) (*T, error) {
	if dst == nil && src == nil {
		return nil, fmt.Errorf("%w: both dst and src are nil", ErrMergeFailed)
	}
	if dst == nil {
		return src, nil
	}
	if src == nil {
		return dst, nil
	}

	if err := mergeValue(reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMergeFailed, err)
	}
	return dst, nil
}

// mergeValue 递归合并两个 reflect.Value
// src 为零值时不覆盖 dst
func mergeValue(dst, src reflect.Value) error {
	if !src.IsValid() || src.IsZero() {
		return nil
	}

	switch dst.Kind() {
	case reflect.Struct:
		srcType := src.Type()
		for i := 0; i < src.NumField(); i++ {
			if !srcType.Field(i).IsExported() {
				continue
			}
			if err := mergeValue(dst.Field(i), src.Field(i)); err != nil {
				return fmt.Errorf("field %s: %w", srcType.Field(i).Name, err)
			}
		}
		return nil

	case reflect.Map:
		if dst.IsNil() {
			dst.Set(reflect.MakeMap(dst.Type()))
		}
		iter := src.MapRange()
		for iter.Next() {
			dst.SetMapIndex(iter.Key(), iter.Value())
		}
		return nil

	case reflect.Pointer:
		if dst.IsNil() {
			dst.Set(src)
			return nil
		}
		return mergeValue(dst.Elem(), src.Elem())

	default:
		// 基本类型与切片直接覆盖
		if dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}
