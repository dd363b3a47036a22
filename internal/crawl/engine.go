// Package crawl implements the recursive fetch/parse/archive loop: it
// alternates two URL-index caches level by level, fetching each
// draining entry with HEAD-then-GET, applying the status-policy table,
// extracting and accepting links into the filling cache, and archiving
// the response body.
package crawl

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	"github.com/gamh86/webreaper/internal/httpwire"
	"github.com/gamh86/webreaper/internal/reconn"
	"github.com/gamh86/webreaper/internal/sink"
	"github.com/gamh86/webreaper/internal/weburl"
)

// Options configures a crawl run, sourced from the CLI.
type Options struct {
	Seed         string
	MaxDepth     int
	CrawlDelay   time.Duration
	AllowXDomain bool
	TLS          bool
	ArchiveRoot  string
	UserAgent    string
	ReadTimeout  time.Duration
	FillThreshold int
}

// Engine runs one crawl from Options.Seed to completion.
type Engine struct {
	opt    Options
	conn   *reconn.Conn
	sink   sink.Sink
	log    liblog.Logger
	cookie string
}

// New builds an Engine ready to Run. sk may be nil, in which case a
// Console sink is used.
func New(opt Options, sk sink.Sink) *Engine {
	if sk == nil {
		sk = sink.NewConsole()
	}
	primaryHost := weburl.ParseHost(opt.Seed)
	return &Engine{
		opt:  opt,
		conn: reconn.New(primaryHost, opt.TLS),
		sink: sk,
		log:  liblog.GetDefault(),
	}
}

// Run executes the per-level loop until the draining cache is empty or
// MaxDepth is reached. SIGINT is blocked only across the crawl-delay
// sleep; outside that window it terminates the run at the next loop
// boundary.
func (e *Engine) Run(ctx context.Context) liberr.Error {
	p := newPair()
	if _, err := p.draining().idx.Insert(e.opt.Seed); err != nil {
		return err
	}

	primaryHost := weburl.ParseHost(e.opt.Seed)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT)
	defer stop()

	if err := e.conn.Open(sigCtx, primaryHost); err != nil {
		e.sink.Error(err)
		return err
	}
	e.sink.Connection(e.conn.Host(), e.conn.State())
	defer e.conn.Close()

	depth := 0
	for {
		d := p.draining()
		f := p.filling()
		f.idx.Reset()

		urls := d.idx.InsertionOrder()
		e.sink.Level(depth, len(urls))
		if len(urls) == 0 {
			return nil
		}

		for _, u := range urls {
			select {
			case <-sigCtx.Done():
				return nil
			default:
			}

			e.sleepDelay(ctx)
			e.sink.Fetching(u)
			e.fetchOne(ctx, u, d, f, primaryHost)
		}

		p.swap()
		depth++
		if depth >= e.opt.MaxDepth {
			return nil
		}
	}
}

// sleepDelay pauses for the configured crawl delay. SIGINT is not wired
// to interrupt this sleep (the signal context is only consulted at loop
// boundaries), matching the spec's "signal-safe: SIGINT blocked during
// sleep".
func (e *Engine) sleepDelay(ctx context.Context) {
	if e.opt.CrawlDelay <= 0 {
		return
	}
	t := time.NewTimer(e.opt.CrawlDelay)
	defer t.Stop()
	<-t.C
}

// maxRedirectHops bounds how many 3xx responses fetchOne will follow for
// a single URL before giving up, so a redirect cycle cannot hang the
// level loop.
const maxRedirectHops = 5

// fetchOne performs the HEAD-then-GET sequence for a single URL and
// applies the status policy. Every failure path skips this URL and lets
// the level loop move on to the next one; a status outside the policy
// table (actionFatal) is skipped the same way, so nothing here aborts the
// run. A redirect is followed in place (HEAD/GET reissued against the new
// host/scheme/page) rather than abandoning the URL.
func (e *Engine) fetchOne(ctx context.Context, u string, d, f *cacheCtx, primaryHost string) {
	host := weburl.ParseHost(u)
	if host != e.conn.Host() {
		if weburl.IsCrossDomain(primaryHost, u) && !e.opt.AllowXDomain {
			return
		}
		_ = e.conn.Close()
		if err := e.conn.Open(ctx, host); err != nil {
			e.sink.Error(err)
			return
		}
	}

	page := weburl.ParsePage(u)
	e.conn.SetPage(page)

	headResp, action := e.roundTripFollow(ctx, "HEAD")
	switch action {
	case actionSkip, actionFatal:
		return
	case actionReconnectPrimary, actionReconnect:
		_ = e.conn.Reconnect(ctx)
		return
	}

	if weburl.LocalArchiveExists(e.opt.ArchiveRoot, u) {
		return
	}
	if headResp != nil && httpwire.ConnectionClosed(headResp.Headers) {
		_ = e.conn.Reconnect(ctx)
	}

	getResp, action := e.roundTripFollow(ctx, "GET")
	switch action {
	case actionSkip, actionFatal:
		return
	case actionReconnectPrimary, actionReconnect:
		_ = e.conn.Reconnect(ctx)
		return
	}
	if getResp == nil {
		return
	}

	if f.idx.Len() < e.opt.FillThreshold {
		e.extractLinks(getResp.Body, primaryHost, e.conn.Page(), d, f)
	}

	body := getResp.Body
	if parseable(u) {
		body = rewriteURLs(body, e.opt.ArchiveRoot, primaryHost, e.conn.Page(), e.opt.TLS)
	}
	if err := archive(e.opt.ArchiveRoot, u, body); err != nil {
		e.sink.Error(err)
		return
	}
	e.sink.Archived(weburl.MakeLocalURL(e.opt.ArchiveRoot, u))
}

type policyAction uint8

const (
	actionContinue policyAction = iota
	actionRedirect
	actionSkip
	actionReconnect
	actionReconnectPrimary
	actionFatal
)

// roundTripFollow issues verb against the connection's current page and
// follows any redirect response in place, re-issuing verb against the
// page/host applyPolicy has just switched the connection to, up to
// maxRedirectHops times.
func (e *Engine) roundTripFollow(ctx context.Context, verb string) (*httpwire.Response, policyAction) {
	var resp *httpwire.Response
	var action policyAction
	for hop := 0; hop < maxRedirectHops; hop++ {
		resp, action = e.roundTrip(ctx, verb, e.conn.Page())
		if action != actionRedirect {
			return resp, action
		}
	}
	return nil, actionSkip
}

// roundTrip issues a single request/response exchange and classifies the
// result per the status-policy table (§4.6). The most recent response's
// Set-Cookie value, if any, is echoed back as a Cookie header on this and
// every subsequent request against the connection.
func (e *Engine) roundTrip(ctx context.Context, verb, page string) (*httpwire.Response, policyAction) {
	var extra []httpwire.HeaderLine
	if e.cookie != "" {
		extra = append(extra, httpwire.HeaderLine{Name: "Cookie", Value: e.cookie})
	}
	req := httpwire.BuildRequest(e.conn.Host(), verb, page, e.opt.UserAgent, extra)
	if _, err := e.conn.Write(req); err != nil {
		e.sink.Error(err)
		return nil, actionReconnectPrimary
	}

	resp, err := httpwire.ReceiveResponse(e.conn, e.opt.ReadTimeout)
	if err != nil {
		if err.IsCode(httpwire.ErrReadTimeout) {
			return nil, actionReconnectPrimary
		}
		e.sink.Error(err)
		return nil, actionReconnect
	}

	if v, ok := httpwire.LookupHeader(resp.Headers, "Cookie"); ok {
		e.cookie = v
	}

	e.log.Entry(liblog.DebugLevel, "").FieldAdd("verb", verb).FieldAdd("page", page).FieldAdd("status", resp.Status).Log()
	return resp, e.applyPolicy(ctx, resp)
}

// applyPolicy classifies resp per the status-policy table and, for a
// redirect, performs the host/scheme switch and advances the connection's
// current page to the Location target so roundTripFollow can reissue the
// request.
func (e *Engine) applyPolicy(ctx context.Context, resp *httpwire.Response) policyAction {
	switch resp.Status {
	case 200, 404, 410:
		return actionContinue
	case 301, 302, 303:
		loc, ok := httpwire.LookupHeader(resp.Headers, "Location")
		if !ok {
			return actionSkip
		}
		newHost := weburl.ParseHost(loc)
		hostChanged := newHost != "" && newHost != e.conn.Host()
		switch {
		case !e.conn.Secure() && hasHTTPSScheme(loc):
			if hostChanged {
				e.conn.SetHost(newHost)
			}
			if err := e.conn.UpgradeToTLS(ctx); err != nil {
				e.sink.Error(err)
				return actionSkip
			}
		case hostChanged:
			_ = e.conn.Close()
			if err := e.conn.Open(ctx, newHost); err != nil {
				e.sink.Error(err)
				return actionSkip
			}
		}
		e.conn.SetPage(weburl.ParsePage(loc))
		return actionRedirect
	case 400, 403, 405, 500, 502, 503, 504:
		return actionReconnect
	default:
		return actionFatal
	}
}

func hasHTTPSScheme(u string) bool {
	return len(u) >= 8 && u[:8] == "https://"
}

// extractLinks scans a response body for link-bearing patterns, applies
// the acceptance predicate, and inserts accepted URLs into the filling
// cache's index.
func (e *Engine) extractLinks(body []byte, primaryHost, page string, d, f *cacheCtx) {
	for _, o := range scan(body) {
		full, ok := accept(e.opt, primaryHost, page, d.idx.Lookup, o.url)
		if !ok {
			continue
		}
		if _, err := f.idx.Insert(full); err != nil {
			e.sink.Error(err)
		}
	}
}
