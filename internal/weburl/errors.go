package weburl

import (
	"fmt"

	liberr "github.com/nabbar/golib/errors"
)

const (
	ErrInvalidURL liberr.CodeError = iota + liberr.MinAvailable + 500
)

func init() {
	if liberr.ExistInMapMessage(ErrInvalidURL) {
		panic(fmt.Errorf("error code collision with package weburl"))
	}
	liberr.RegisterIdFctMessage(ErrInvalidURL, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrInvalidURL:
		return "url could not be parsed"
	}
	return liberr.NullMessage
}
