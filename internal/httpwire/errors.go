package httpwire

import (
	"fmt"

	liberr "github.com/nabbar/golib/errors"
)

const (
	ErrProtocolMalformed liberr.CodeError = iota + liberr.MinAvailable + 400
	ErrResponseTooLarge
	ErrStatusLineMalformed
	ErrReadTimeout
)

func init() {
	if liberr.ExistInMapMessage(ErrProtocolMalformed) {
		panic(fmt.Errorf("error code collision with package httpwire"))
	}
	liberr.RegisterIdFctMessage(ErrProtocolMalformed, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrProtocolMalformed:
		return "response does not conform to the expected wire format"
	case ErrResponseTooLarge:
		return "response exceeded the configured maximum size"
	case ErrStatusLineMalformed:
		return "status line could not be parsed"
	case ErrReadTimeout:
		return "timed out waiting for data from remote host"
	}
	return liberr.NullMessage
}
