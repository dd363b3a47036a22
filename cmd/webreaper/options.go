package main

import (
	"fmt"
	"time"

	libval "github.com/go-playground/validator/v10"
	liberr "github.com/nabbar/golib/errors"

	"github.com/gamh86/webreaper/internal/crawl"
)

const (
	ErrorValidatorError liberr.CodeError = iota + liberr.MinAvailable + 700
)

func init() {
	if liberr.ExistInMapMessage(ErrorValidatorError) {
		panic(fmt.Errorf("error code collision with package main"))
	}
	liberr.RegisterIdFctMessage(ErrorValidatorError, func(code liberr.CodeError) string {
		if code == ErrorValidatorError {
			return "command line options are invalid"
		}
		return liberr.NullMessage
	})
}

// cliOptions is the raw shape of the CLI flags, validated before being
// translated into crawl.Options.
type cliOptions struct {
	URL          string        `validate:"required,url"`
	Depth        int           `validate:"gte=1"`
	Delay        time.Duration `validate:"gte=0"`
	XDomain      bool
	TLS          bool
	ArchiveRoot  string `validate:"required"`
	UserAgent    string
	Timeout      time.Duration `validate:"gte=0"`
}

func (o *cliOptions) Validate() liberr.Error {
	err := ErrorValidatorError.Error(nil)

	if er := libval.New().Struct(o); er != nil {
		if e, ok := er.(*libval.InvalidValidationError); ok {
			err.Add(e)
		} else if ve, ok := er.(libval.ValidationErrors); ok {
			for _, e := range ve {
				err.Add(fmt.Errorf("option '%s' fails constraint '%s'", e.StructField(), e.ActualTag()))
			}
		} else {
			err.Add(er)
		}
	}

	if err.HasParent() {
		return err
	}
	return nil
}

func (o *cliOptions) toCrawlOptions() crawl.Options {
	return crawl.Options{
		Seed:          o.URL,
		MaxDepth:      o.Depth,
		CrawlDelay:    o.Delay,
		AllowXDomain:  o.XDomain,
		TLS:           o.TLS,
		ArchiveRoot:   o.ArchiveRoot,
		UserAgent:     o.UserAgent,
		ReadTimeout:   o.Timeout,
		FillThreshold: 1,
	}
}
