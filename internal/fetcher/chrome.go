package fetcher

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options configures the browser session.
type Options struct {
	Headless    bool
	UserAgent   string
	NavTimeout  time.Duration // readyState wait budget per navigation
	SettleDelay time.Duration // post-load wait for client-side rendering
}

// ChromeFetcher drives one headless Chrome instance for the lifetime of a
// session. All fetches share the browser context, so cookies and the
// rendered session survive across pages.
type ChromeFetcher struct {
	browserCtx  context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	navTimeout  time.Duration
	settleDelay time.Duration
}

// NewChrome starts a browser and returns a fetcher bound to it. The caller
// must Close the fetcher to release the browser.
func NewChrome(opts Options) (*ChromeFetcher, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser now so startup failures surface here rather than
	// on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, eris.Wrap(err, "fetcher: start browser")
	}

	zap.L().Debug("browser started",
		zap.String("component", "fetcher"),
		zap.Bool("headless", opts.Headless))

	return &ChromeFetcher{
		browserCtx:  browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		navTimeout:  opts.NavTimeout,
		settleDelay: opts.SettleDelay,
	}, nil
}

// Fetch navigates to url, waits for the document to finish loading plus a
// settle delay for client-side rendering, and returns the full page HTML.
// Failures are returned as *FetchError.
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	runCtx := f.browserCtx
	stop := context.AfterFunc(ctx, func() { f.cancelCtx() })
	defer stop()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		f.waitReady(),
		chromedp.Sleep(f.settleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	zap.L().Debug("page fetched",
		zap.String("component", "fetcher"),
		zap.String("url", url),
		zap.Int("bytes", len(html)))
	return html, nil
}

// waitReady polls document.readyState until it reports "complete" or the
// navigation budget runs out.
func (f *ChromeFetcher) waitReady() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		deadline := time.Now().Add(f.navTimeout)
		for {
			var state string
			if err := chromedp.Evaluate(`document.readyState`, &state).Do(ctx); err != nil {
				return err
			}
			if state == "complete" {
				return nil
			}
			if time.Now().After(deadline) {
				return eris.Errorf("fetcher: page not ready after %s", f.navTimeout)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(200 * time.Millisecond):
			}
		}
	})
}

// Close shuts the browser down.
func (f *ChromeFetcher) Close() error {
	f.cancelCtx()
	f.cancelAlloc()
	return nil
}
