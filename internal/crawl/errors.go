package crawl

import (
	"fmt"

	liberr "github.com/nabbar/golib/errors"
)

const (
	ErrUnexpectedStatus liberr.CodeError = iota + liberr.MinAvailable + 600
	ErrArchiveWrite
)

func init() {
	if liberr.ExistInMapMessage(ErrUnexpectedStatus) {
		panic(fmt.Errorf("error code collision with package crawl"))
	}
	liberr.RegisterIdFctMessage(ErrUnexpectedStatus, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrUnexpectedStatus:
		return "remote host returned a status code outside the known policy table"
	case ErrArchiveWrite:
		return "failed to write archived page to disk"
	}
	return liberr.NullMessage
}
