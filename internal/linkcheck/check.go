package linkcheck

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Defaults for Options fields left zero
const (
	DefaultConcurrency = 4
	DefaultMaxDepth    = 3
	DefaultMaxPages    = 500
)

// Options bounds a crawl
type Options struct {
	// Concurrency is the number of fetches in flight per level
	Concurrency int
	// MaxDepth is how many links away from start pages are still parsed.
	// Links found at MaxDepth are fetched but not followed.
	MaxDepth int
	// MaxPages caps the number of distinct URLs fetched
	MaxPages int
	// Assets also checks img, stylesheet and script references
	Assets bool
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	return o
}

// Response is what a Fetcher hands back for one URL
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Fetcher retrieves a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// HandlerFetcher serves requests in-process through an http.Handler
type HandlerFetcher struct {
	Handler http.Handler
}

// Fetch implements Fetcher
func (f HandlerFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.RemoteAddr = "127.0.0.1:0"

	rec := httptest.NewRecorder()
	f.Handler.ServeHTTP(rec, req)
	return &Response{
		Status:      rec.Code,
		ContentType: rec.Header().Get("Content-Type"),
		Body:        rec.Body.Bytes(),
	}, nil
}

// ClientFetcher fetches over the network, for checking a deployed site
type ClientFetcher struct {
	Client *http.Client
}

// Fetch implements Fetcher
func (f ClientFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return &Response{Status: resp.StatusCode, ContentType: resp.Header.Get("Content-Type"), Body: body}, nil
}

// Result is the outcome of fetching one URL
type Result struct {
	URL      string `json:"url"`
	Status   int    `json:"status"`
	Referrer string `json:"referrer,omitempty"`
	Depth    int    `json:"depth"`
	Error    string `json:"error,omitempty"`
}

// OK reports a 2xx response
func (r Result) OK() bool {
	return r.Error == "" && r.Status >= 200 && r.Status < 300
}

// Report collects every fetched URL
type Report struct {
	Start     string        `json:"start"`
	Results   []Result      `json:"results"`
	Truncated bool          `json:"truncated"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Broken returns the results that did not answer 2xx
func (r *Report) Broken() []Result {
	var broken []Result
	for _, res := range r.Results {
		if !res.OK() {
			broken = append(broken, res)
		}
	}
	return broken
}

// Check crawls the site behind handler starting from start
func Check(ctx context.Context, handler http.Handler, start string, opts Options) (*Report, error) {
	return Crawl(ctx, HandlerFetcher{Handler: handler}, start, opts)
}

type target struct {
	url      string
	referrer string
	follow   bool
}

// Crawl fetches start and every same-host link reachable from it, level by level
func Crawl(ctx context.Context, fetcher Fetcher, start string, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	began := time.Now()

	base, err := parseBase(start)
	if err != nil {
		return nil, &CheckError{Message: "invalid start URL", Cause: err}
	}
	startURL := Normalize(base)

	report := &Report{Start: startURL}
	seen := map[string]bool{startURL: true}
	level := []target{{url: startURL, follow: true}}

	for depth := 0; len(level) > 0; depth++ {
		var (
			mu   sync.Mutex
			next []target
		)

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)

		results := make([]Result, len(level))
		for i, t := range level {
			g.Go(func() error {
				res, found := visit(gCtx, fetcher, t, depth, opts)
				results[i] = res

				mu.Lock()
				next = append(next, found...)
				mu.Unlock()
				return gCtx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, &CheckError{Message: "crawl cancelled", Cause: err}
		}
		report.Results = append(report.Results, results...)

		// Sort so the page budget is spent deterministically
		sort.SliceStable(next, func(i, j int) bool { return next[i].url < next[j].url })

		level = level[:0:0]
		for _, t := range next {
			if seen[t.url] {
				continue
			}
			if len(seen) >= opts.MaxPages {
				report.Truncated = true
				break
			}
			seen[t.url] = true
			t.follow = t.follow && depth+1 < opts.MaxDepth
			level = append(level, t)
		}
	}

	sort.SliceStable(report.Results, func(i, j int) bool { return report.Results[i].URL < report.Results[j].URL })
	report.Elapsed = time.Since(began)

	log.Printf("[linkcheck] fetched %d urls from %s, %d broken", len(report.Results), startURL, len(report.Broken()))
	return report, nil
}

// visit fetches one target and returns the links it leads to
func visit(ctx context.Context, fetcher Fetcher, t target, depth int, opts Options) (Result, []target) {
	res := Result{URL: t.url, Referrer: t.referrer, Depth: depth}

	resp, err := fetcher.Fetch(ctx, t.url)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}
	res.Status = resp.Status

	if !t.follow || !res.OK() || !isHTML(resp.ContentType) {
		return res, nil
	}

	var found []target
	links, err := ExtractLinks(string(resp.Body), t.url)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}
	for _, l := range links {
		found = append(found, target{url: l, referrer: t.url, follow: true})
	}

	if opts.Assets {
		assets, err := ExtractAssets(string(resp.Body), t.url)
		if err == nil {
			for _, a := range assets {
				found = append(found, target{url: a, referrer: t.url})
			}
		}
	}
	return res, found
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.HasPrefix(contentType, "text/html")
	}
	return mediaType == "text/html"
}
