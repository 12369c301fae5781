package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator 配置验证器
// 基于 go-playground/validator 的 validate tag，如：
// - required: 必填字段
// - oneof=standard appliance: 枚举值
// - min=1,max=65535: 数值范围
type Validator struct {
	validate *validator.Validate
}

// NewValidator 创建验证器
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Validate 验证配置结构体
func (v *Validator) Validate(cfg any) error {
	if cfg == nil {
		return ErrNilConfig
	}
	if err := v.validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, formatValidationErrors(err))
	}
	return nil
}

// ValidateField 验证单个值
func (v *Validator) ValidateField(field any, tag string) error {
	if err := v.validate.Var(field, tag); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, formatValidationErrors(err))
	}
	return nil
}

// formatValidationErrors 格式化验证错误信息
func formatValidationErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder
	for i, fieldErr := range validationErrors {
		if i > 0 {
			sb.WriteString("; ")
		}
		switch fieldErr.Tag() {
		case "required":
			fmt.Fprintf(&sb, "field '%s' is required", fieldErr.Field())
		case "oneof":
			fmt.Fprintf(&sb, "field '%s' must be one of [%s]", fieldErr.Field(), fieldErr.Param())
		case "min", "gte":
			fmt.Fprintf(&sb, "field '%s' must be at least %s", fieldErr.Field(), fieldErr.Param())
		case "max", "lte":
			fmt.Fprintf(&sb, "field '%s' must be at most %s", fieldErr.Field(), fieldErr.Param())
		default:
			fmt.Fprintf(&sb, "field '%s' failed validation '%s'", fieldErr.Field(), fieldErr.Tag())
		}
	}
	return sb.String()
}
