package service

import "fmt"

// ErrorKind 区分错误归属：校验类错误由调用方修正，其余为服务端故障
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAuth
	KindRateLimit
	KindConnectivity
	KindProvider
	KindContent
	KindRender
)

// ServiceError 带类别的服务错误，Message为面向用户的提示
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newValidationError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func newServiceError(kind ErrorKind, message string, err error) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, Err: err}
}
