// Command webreaper recursively mirrors a web site to a local archive
// tree, following the same HEAD-then-GET, status-policy, link-extraction
// loop the original C crawler used.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	liblog "github.com/nabbar/golib/logger"
	"github.com/spf13/cobra"

	"github.com/gamh86/webreaper/internal/crawl"
)

const (
	exitOK             = 0
	exitUsageError     = 1
	exitCrawlFailed    = 2
	exitInterrupted    = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	opt := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "webreaper",
		Short: "Recursively archive a web site to a local directory tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), opt)
		},
	}

	cmd.Flags().StringVar(&opt.URL, "url", "", "seed URL to start crawling from (required)")
	cmd.Flags().IntVar(&opt.Depth, "depth", 3, "maximum crawl depth")
	cmd.Flags().DurationVar(&opt.Delay, "delay", 500*time.Millisecond, "delay between requests")
	cmd.Flags().BoolVar(&opt.XDomain, "xdomain", false, "allow following links to other domains")
	cmd.Flags().BoolVar(&opt.TLS, "tls", false, "connect to the seed host over TLS")
	cmd.Flags().StringVar(&opt.ArchiveRoot, "archive-root", "./archive", "root directory for the mirrored site")
	cmd.Flags().StringVar(&opt.UserAgent, "ua", "WebReaper/1.0", "User-Agent header sent with every request")
	cmd.Flags().DurationVar(&opt.Timeout, "timeout", 15*time.Second, "socket read timeout")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT)
	defer stop()
	cmd.SetContext(ctx)

	err := cmd.Execute()
	if ctx.Err() != nil {
		return exitInterrupted
	}
	if err != nil {
		if _, ok := err.(usageError); ok {
			return exitUsageError
		}
		return exitCrawlFailed
	}
	return exitOK
}

// usageError marks a failure that should map to the CLI usage-error
// exit code rather than the generic crawl-failure one.
type usageError struct{ error }

func execute(ctx context.Context, opt *cliOptions) error {
	if err := opt.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return usageError{err}
	}

	log := liblog.GetDefault()
	log.Entry(liblog.InfoLevel, "starting crawl").FieldAdd("url", opt.URL).FieldAdd("depth", opt.Depth).Log()

	eng := crawl.New(opt.toCrawlOptions(), nil)
	if err := eng.Run(ctx); err != nil {
		log.Entry(liblog.ErrorLevel, "crawl failed").ErrorAdd(true, err).Log()
		return err
	}
	return nil
}
