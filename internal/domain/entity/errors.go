package entity

import (
	"errors"
	"strings"
)

// MessageError pairs a failure with the human readable text a chat user
// should see for it.
type MessageError struct {
	Message string
	Err     error
}

func (e *MessageError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *MessageError) Unwrap() error {
	return e.Err
}

// UserMessage extracts the user facing text of err. The outermost
// MessageError wins; otherwise the error string itself is used. The result
// is empty when nothing readable is available.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var me *MessageError
	if errors.As(err, &me) && strings.TrimSpace(me.Message) != "" {
		return me.Message
	}
	return strings.TrimSpace(err.Error())
}
