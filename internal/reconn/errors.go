package reconn

import (
	"fmt"

	liberr "github.com/nabbar/golib/errors"
)

const (
	ErrConnectFailed liberr.CodeError = iota + liberr.MinAvailable + 300
	ErrNotConnected
	ErrWriteFailed
	ErrReadFailed
)

func init() {
	if liberr.ExistInMapMessage(ErrConnectFailed) {
		panic(fmt.Errorf("error code collision with package reconn"))
	}
	liberr.RegisterIdFctMessage(ErrConnectFailed, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrConnectFailed:
		return "could not establish connection to remote host"
	case ErrNotConnected:
		return "operation requires an open connection"
	case ErrWriteFailed:
		return "write to remote host failed"
	case ErrReadFailed:
		return "read from remote host failed"
	}
	return liberr.NullMessage
}
