// Package validate 提供提交前的本地参数校验
// 校验失败不发起任何网络请求，错误以用户可读消息返回
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"support_chat_client/pkg/errorx"
	"support_chat_client/pkg/util/slug"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Trans 全局翻译器
var Trans ut.Translator

// validate 全局校验器实例，使用 binding 标签
var validate *validator.Validate

// 邮箱闸门沿用前端的宽松形式：user@domain.tld
// 不采用 validator 内置的 RFC email 规则，保持与原产品一致的接受范围
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func init() {
	if err := Init("en"); err != nil {
		panic(fmt.Sprintf("validate init failed: %v", err))
	}
}

// Init 初始化校验器和翻译器
// locale 指定错误消息语言，如 "en"
func Init(locale string) (err error) {
	validate = validator.New()
	validate.SetTagName("binding")

	// 注册一个获取 json tag 的自定义方法
	// 报错信息应该对应 json 字段名，而不是 Go 结构体字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// slug: 仅允许小写字母、数字、连字符
	if err = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.IsValid(fl.Field().String())
	}); err != nil {
		return
	}

	// chatemail: 宽松邮箱形式
	if err = validate.RegisterValidation("chatemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	}); err != nil {
		return
	}

	enT := en.New()
	uni := ut.New(enT, enT)
	var ok bool
	Trans, ok = uni.GetTranslator(locale)
	if !ok {
		return fmt.Errorf("uni.GetTranslator(%s) failed", locale)
	}
	if err = en_translations.RegisterDefaultTranslations(validate, Trans); err != nil {
		return
	}

	// 自定义规则的翻译
	if err = registerCustomTranslation("slug",
		"Company slug must contain only lowercase letters, numbers, and hyphens"); err != nil {
		return
	}
	return registerCustomTranslation("chatemail",
		"Please enter a valid email address")
}

func registerCustomTranslation(tag, message string) error {
	return validate.RegisterTranslation(tag, Trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T(tag)
			if err != nil {
				return message
			}
			return msg
		})
}

// Struct 校验结构体，失败时返回 CodeValidation 错误
// 错误消息取第一条翻译后的字段错误，同步呈现给用户
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return errorx.Wrap(err, errorx.CodeValidation, Message(err))
	}
	return nil
}

// Message 把校验错误翻译为单条用户可读消息
func Message(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		switch fe.Tag() {
		case "required":
			return "Please fill in all required fields"
		case "min":
			if fe.Kind() == reflect.String {
				return fmt.Sprintf("%s must be at least %s characters long",
					fieldLabel(fe.Field()), fe.Param())
			}
		}
		return fe.Translate(Trans)
	}
	return "Invalid input"
}

// IsValidEmail 检查邮箱是否符合 user@domain.tld 的基本形式
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// fieldLabel 把 json 字段名转成提示用的标签，如 "password" → "Password"
func fieldLabel(field string) string {
	if field == "" {
		return field
	}
	field = strings.ReplaceAll(field, "_", " ")
	return strings.ToUpper(field[:1]) + field[1:]
}
