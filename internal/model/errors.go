package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, appointment, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeInvalidTime         = "INVALID_TIME"
	ErrCodeInvalidDate         = "INVALID_DATE"
	ErrCodeMissingFields       = "MISSING_FIELDS"
	ErrCodeInvalidService      = "INVALID_SERVICE"
	ErrCodeAppointmentNotFound = "APPOINTMENT_NOT_FOUND"
	ErrCodeRateLimited         = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "Invalid request body",
		Category: "validation",
		Action:   "Send a JSON object body.",
	}
}

// NewInvalidTimeError は時刻形式エラーを生成する。
func NewInvalidTimeError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTime,
		Message:  "Invalid time format (HH:mm required)",
		Category: "validation",
		Action:   "Use 24-hour HH:mm between 00:00 and 23:59.",
	}
}

// NewInvalidDateError は日付形式エラーを生成する。
func NewInvalidDateError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  "Invalid date format",
		Category: "validation",
		Action:   "Use a calendar date such as 2006-01-02.",
	}
}

// NewMissingFieldsError は必須項目の未入力エラーを生成する。
func NewMissingFieldsError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingFields,
		Message:  "Name, phone, time, and service are required",
		Category: "validation",
		Action:   "Fill in name, phone, time and service.",
	}
}

// NewInvalidServiceError は施術メニューが不正な場合のエラーを生成する。
func NewInvalidServiceError(service string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidService,
		Message:  fmt.Sprintf("%s is not a valid service", service),
		Category: "validation",
		Action:   "Choose one of facial, massage, haircut or manicure.",
	}
}

// NewAppointmentNotFoundError は予約が見つからない場合のエラーを生成する。
func NewAppointmentNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAppointmentNotFound,
		Message:  "Appointment not found",
		Category: "appointment",
		Action:   "Check the phone number used for the booking.",
	}
}

// NewRateLimitError はレート制限超過のエラーを生成する。
func NewRateLimitError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Please wait and retry after the specified time.",
	}
}

// NewInternalError はインフラ障害のエラーを生成する。
// 障害の原文をメッセージにそのまま載せる。
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  err.Error(),
		Category: "system",
		Action:   "Please try again later.",
	}
}
