package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultChromeTimeout = 30 * time.Second

// ErrEmptyHTML is returned when there is nothing to render
var ErrEmptyHTML = errors.New("printing: HTML content is empty")

// PDFRenderer turns an HTML document into PDF bytes
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
	Close()
}

// ChromedpConfig configures the headless Chrome renderer
type ChromedpConfig struct {
	// ExecPath of the Chrome binary; empty lets chromedp find one
	ExecPath string
	// RemoteURL of an already running Chrome (ws://...); overrides ExecPath
	RemoteURL string
	Timeout   time.Duration
	NoSandbox bool
}

// ChromedpRenderer renders PDFs through the Chrome DevTools Protocol.
// The browser allocator is shared; each render opens its own tab.
type ChromedpRenderer struct {
	config      ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer prepares the allocator. Chrome starts lazily on the first render.
func NewChromedpRenderer(cfg ChromedpConfig, logger *zap.Logger) *ChromedpRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultChromeTimeout
	}
	r := &ChromedpRenderer{config: cfg, logger: logger}

	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// RenderPDF prints html on a card-sized page, front and back
func (r *ChromedpRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ErrEmptyHTML
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		r.logger.Debug(fmt.Sprintf(format, args...))
	}))
	defer tabCancel()

	// the tab must also end when the caller's deadline passes
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := cardPrintParams().Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("printing: render timed out after %v: %w", r.config.Timeout, err)
		}
		return nil, fmt.Errorf("printing: chromedp: %w", err)
	}
	if len(pdf) == 0 {
		return nil, errors.New("printing: generated PDF is empty")
	}

	r.logger.Info("Print proof rendered", zap.Int("bytes", len(pdf)), zap.Duration("duration", time.Since(start)))
	return pdf, nil
}

// Close shuts the browser down
func (r *ChromedpRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

func cardPrintParams() *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(mmToInches(CardWidthMM)).
		WithPaperHeight(mmToInches(CardHeightMM)).
		WithMarginTop(0).
		WithMarginRight(0).
		WithMarginBottom(0).
		WithMarginLeft(0).
		WithPreferCSSPageSize(true)
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
