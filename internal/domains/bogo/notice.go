package bogo

import "fmt"

// Notice types mirror the cart-facing notice levels
const (
	NoticeTypeSuccess = "success"
	NoticeTypeNotice  = "notice"
	NoticeTypeError   = "error"
)

// Notice carries a user-facing message raised during a transition
type Notice struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func successf(format string, args ...interface{}) Notice {
	return Notice{Type: NoticeTypeSuccess, Message: fmt.Sprintf(format, args...)}
}

func noticef(format string, args ...interface{}) Notice {
	return Notice{Type: NoticeTypeNotice, Message: fmt.Sprintf(format, args...)}
}

func errorf(format string, args ...interface{}) Notice {
	return Notice{Type: NoticeTypeError, Message: fmt.Sprintf(format, args...)}
}
