package auth

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFields        = errors.New("empty fields")
	ErrPasswordMismatch   = errors.New("password mismatch")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("missing fields")
	ErrMissingLink        = errors.New("missing link")
	ErrDuplicate          = errors.New("duplicate favorite")
	ErrUnknown            = errors.New("unknown error")
)

// ProviderError carries the structured detail of a failed backend call.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.Status, e.Message)
}

var messages = map[error]string{
	ErrEmptyFields:        "모든 항목을 입력해주세요.",
	ErrPasswordMismatch:   "비밀번호가 일치하지 않습니다.",
	ErrPasswordTooShort:   "비밀번호는 최소 6자 이상이어야 합니다.",
	ErrAlreadyRegistered:  "이미 가입된 이메일입니다.",
	ErrInvalidEmail:       "올바른 이메일 형식이 아닙니다.",
	ErrInvalidCredentials: "이메일 또는 비밀번호가 올바르지 않습니다.",
	ErrMissingFields:      "제목과 링크는 필수입니다.",
	ErrMissingLink:        "링크가 필요합니다.",
	ErrDuplicate:          "이미 즐겨찾기에 추가된 기사입니다.",
}

const unknownMessage = "요청을 처리하는 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

// Message returns the user-facing text for an error returned by Service.
func Message(err error) string {
	for target, message := range messages {
		if errors.Is(err, target) {
			return message
		}
	}
	return unknownMessage
}
