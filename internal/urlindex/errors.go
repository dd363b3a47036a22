package urlindex

import (
	"fmt"

	liberr "github.com/nabbar/golib/errors"
)

const (
	ErrURLTooLong liberr.CodeError = iota + liberr.MinAvailable + 200
	ErrIndexCorrupt
)

func init() {
	if liberr.ExistInMapMessage(ErrURLTooLong) {
		panic(fmt.Errorf("error code collision with package urlindex"))
	}
	liberr.RegisterIdFctMessage(ErrURLTooLong, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrURLTooLong:
		return "url exceeds the maximum bounded length"
	case ErrIndexCorrupt:
		return "url index tree is in an inconsistent state"
	}
	return liberr.NullMessage
}
