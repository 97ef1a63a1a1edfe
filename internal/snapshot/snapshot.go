// Package snapshot renders site routes in a headless browser and saves full-page screenshots.
package snapshot

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/server"
)

// Options configures the browser and the captures
type Options struct {
	Width       int
	Height      int
	Timeout     time.Duration // per route
	Settle      time.Duration // wait after load so reveal transitions finish
	Concurrency int
	Verbose     bool
}

// DefaultOptions returns a desktop viewport with a short settle delay
func DefaultOptions() Options {
	return Options{
		Width:       1440,
		Height:      900,
		Timeout:     30 * time.Second,
		Settle:      1500 * time.Millisecond,
		Concurrency: 2,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = d.Width, d.Height
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	return o
}

// Shot is one saved screenshot
type Shot struct {
	Route string `json:"route"`
	URL   string `json:"url"`
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// Error represents a failed capture
type Error struct {
	Route   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("snapshot error for %s: %s: %v", e.Route, e.Message, e.Cause)
	}
	return fmt.Sprintf("snapshot error for %s: %s", e.Route, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// DefaultRoutes lists every page of the site plus one open viewer per project with images
func DefaultRoutes(store *content.Store) []string {
	routes := []string{"/", "/about", "/projects"}
	for _, p := range store.Projects() {
		routes = append(routes, fmt.Sprintf("/project/%d", p.ID))
	}
	for _, p := range store.Projects() {
		if len(p.Images) > 0 {
			routes = append(routes, fmt.Sprintf("/project/%d?view=1&image=0", p.ID))
		}
	}
	return append(routes, "/project/0")
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// FileName maps a route to a stable PNG file name
func FileName(route string) string {
	name := strings.Trim(nonWord.ReplaceAllString(strings.ToLower(route), "-"), "-")
	if name == "" {
		name = "home"
	}
	return name + ".png"
}

// Capture screenshots every route under baseURL into outDir.
// Requires Chrome/Chromium to be installed on the system.
func Capture(ctx context.Context, baseURL string, routes []string, outDir string, opts Options) ([]Shot, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &Error{Route: baseURL, Message: "invalid base URL (must have scheme and host)", Cause: err}
	}
	if len(routes) == 0 {
		return nil, nil
	}
	opts = opts.withDefaults()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(opts.Width, opts.Height),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// Start the browser before opening tabs from several goroutines
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, &Error{Route: baseURL, Message: "failed to start browser", Cause: err}
	}

	shots := make([]Shot, len(routes))
	g, gCtx := errgroup.WithContext(browserCtx)
	g.SetLimit(opts.Concurrency)

	for i, route := range routes {
		g.Go(func() error {
			shot, err := captureRoute(gCtx, base, route, outDir, opts)
			if err != nil {
				return err
			}
			shots[i] = *shot
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return shots, nil
}

func captureRoute(ctx context.Context, base *url.URL, route, outDir string, opts Options) (*Shot, error) {
	ref, err := url.Parse(route)
	if err != nil {
		return nil, &Error{Route: route, Message: "invalid route", Cause: err}
	}
	target := base.ResolveReference(ref).String()

	if opts.Verbose {
		log.Printf("[snapshot] capturing %s", target)
	}

	tabCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	tabCtx, cancel = context.WithTimeout(tabCtx, opts.Timeout)
	defer cancel()

	var buf []byte
	err = chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		// Let the reveal and stagger transitions finish
		chromedp.Sleep(opts.Settle),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, &Error{Route: route, Message: "browser rendering failed", Cause: err}
	}

	path := filepath.Join(outDir, FileName(route))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return nil, &Error{Route: route, Message: "failed to write screenshot", Cause: err}
	}

	if opts.Verbose {
		log.Printf("[snapshot] %s -> %s (%d bytes)", route, path, len(buf))
	}
	return &Shot{Route: route, URL: target, Path: path, Bytes: len(buf)}, nil
}

// ServeAndCapture starts srv on a free local port, captures routes and shuts it down
func ServeAndCapture(ctx context.Context, srv *server.Server, routes []string, outDir string, opts Options) ([]Shot, error) {
	ts, err := newLocalServer(srv.Handler())
	if err != nil {
		return nil, err
	}
	defer ts.Close()

	return Capture(ctx, ts.URL, routes, outDir, opts)
}
