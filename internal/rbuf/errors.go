package rbuf

import (
	"fmt"

	liberr "github.com/nabbar/golib/errors"
)

// Error codes for the byte buffer package, rooted 100 above liberr's
// lowest available code (liberr.MinAvailable).
const (
	ErrBadOffset liberr.CodeError = iota + liberr.MinAvailable + 100
	ErrCorrupt
)

func init() {
	if liberr.ExistInMapMessage(ErrBadOffset) {
		panic(fmt.Errorf("error code collision with package rbuf"))
	}
	liberr.RegisterIdFctMessage(ErrBadOffset, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrBadOffset:
		return "buffer offset out of range"
	case ErrCorrupt:
		return "buffer cursor invariant violated"
	}
	return liberr.NullMessage
}

func newErr(code liberr.CodeError, pattern string, args ...interface{}) liberr.Error {
	return code.Error(fmt.Errorf(pattern, args...))
}
