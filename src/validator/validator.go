package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"diary-app/src/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CustomValidator は拡張バリデーション機能を提供
type CustomValidator struct {
	validator     *validator.Validate
	scriptPattern *regexp.Regexp
}

// ValidationError はバリデーションエラーの詳細情報
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationErrors は複数のバリデーションエラー
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

// NewCustomValidator creates a new custom validator instance
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	cv := &CustomValidator{
		validator:     v,
		scriptPattern: regexp.MustCompile(`(?i)(<script|</script>|javascript:|onload\s*=|onerror\s*=)`),
	}

	// エラーのフィールド名は JSON のキー名で返す
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// カスタムバリデーションルールを登録
	v.RegisterValidation("safe_text", cv.validateSafeText)
	v.RegisterValidation("calendar_date", cv.validateCalendarDate)
	v.RegisterValidation("item_type", cv.validateItemType)

	return cv
}

// Validate validates a struct and returns detailed error information
func (cv *CustomValidator) Validate(s interface{}) error {
	if err := cv.validator.Struct(s); err != nil {
		fieldErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		var validationErrors []ValidationError
		for _, err := range fieldErrors {
			ve := ValidationError{
				Field: err.Field(),
				Tag:   err.Tag(),
				Value: err.Value(),
			}

			// カスタムエラーメッセージを生成
			ve.Message = cv.generateErrorMessage(err)
			validationErrors = append(validationErrors, ve)
		}

		return ValidationErrors{Errors: validationErrors}
	}
	return nil
}

// カスタムバリデーション関数

func (cv *CustomValidator) validateSafeText(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	if cv.scriptPattern.MatchString(value) {
		return false
	}

	// 基本的な文字チェック（制御文字の排除）
	for _, r := range value {
		if r < 32 && r != 9 && r != 10 && r != 13 { // タブ、改行、復帰以外の制御文字を拒否
			return false
		}
	}

	return true
}

func (cv *CustomValidator) validateCalendarDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 必須かどうかは required で判定
	}
	_, err := domain.ParseDate(value)
	return err == nil
}

func (cv *CustomValidator) validateItemType(fl validator.FieldLevel) bool {
	return domain.ItemType(fl.Field().String()).IsValid()
}

// generateErrorMessage generates user-friendly error messages
func (cv *CustomValidator) generateErrorMessage(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	value := err.Value()

	switch tag {
	case "required":
		return fmt.Sprintf("%s は必須項目です", field)
	case "max":
		return fmt.Sprintf("%s は %s 以下で入力してください", field, err.Param())
	case "min":
		return fmt.Sprintf("%s は %s 以上で入力してください", field, err.Param())
	case "gte":
		return fmt.Sprintf("%s は %s 以上の値を入力してください", field, err.Param())
	case "lte":
		return fmt.Sprintf("%s は %s 以下の値を入力してください", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s は有効な値を選択してください (許可された値: %s)", field, err.Param())
	case "safe_text":
		return fmt.Sprintf("%s に不正な文字が含まれています", field)
	case "calendar_date":
		return fmt.Sprintf("%s は YYYY-MM-DD 形式の日付で入力してください", field)
	case "item_type":
		return fmt.Sprintf("%s は daily_todo, monthly_todo, deadline_task, specific_schedule のいずれかです", field)
	default:
		return fmt.Sprintf("%s が無効です (値: %v)", field, value)
	}
}

// ValidateID validates record id path parameters
func (cv *CustomValidator) ValidateID(idStr string) (string, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return "", fmt.Errorf("ID must be a UUID")
	}
	return id.String(), nil
}
