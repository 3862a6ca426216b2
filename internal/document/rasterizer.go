package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/JustJay7/consumer-complaint-assistant/internal/config"
	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

// PixelRatio is the device pixel density used when rasterizing
const PixelRatio = 2

// Rasterizer renders an HTML page into a single image
type Rasterizer interface {
	Rasterize(ctx context.Context, html string, width int, scale float64) (image.Image, error)
	Close() error
}

// BrowserRasterizer renders pages off-screen in a headless Chromium
// controlled through rod. The browser is launched lazily on first use and
// at most MaxConcurrentRenders pages are open at once.
type BrowserRasterizer struct {
	cfg       *config.Config
	logger    *logger.Logger
	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	semaphore chan struct{}
}

// NewBrowserRasterizer creates a rasterizer; no browser is started yet
func NewBrowserRasterizer(cfg *config.Config, logger *logger.Logger) *BrowserRasterizer {
	slots := cfg.MaxConcurrentRenders
	if slots <= 0 {
		slots = 1
	}
	return &BrowserRasterizer{
		cfg:       cfg,
		logger:    logger,
		semaphore: make(chan struct{}, slots),
	}
}

func (r *BrowserRasterizer) connect() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New().
		Headless(r.cfg.HeadlessMode).
		Set("user-agent", r.cfg.UserAgent).
		Set("font-render-hinting", "none")

	if r.cfg.BrowserPath != "" {
		l = l.Bin(r.cfg.BrowserPath)
	}

	if r.cfg.LogLevel == "debug" {
		l = l.Devtools(true)
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	r.logger.Info("Rasterizer browser started", "headless", r.cfg.HeadlessMode)
	r.browser = browser
	r.launcher = l
	return browser, nil
}

// discard drops b if it is still the current browser so the next render
// launches a fresh one
func (r *BrowserRasterizer) discard(b *rod.Browser, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != b {
		return
	}
	r.logger.Warn("Discarding unresponsive browser", "error", cause)
	r.browser = nil
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
}

// Rasterize loads html into a fresh page at the given CSS width and device
// scale and captures the full page height
func (r *BrowserRasterizer) Rasterize(ctx context.Context, html string, width int, scale float64) (image.Image, error) {
	select {
	case r.semaphore <- struct{}{}:
		defer func() { <-r.semaphore }()
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for a render slot: %w", ctx.Err())
	}

	browser, err := r.connect()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		r.discard(browser, err)
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			r.logger.Warn("Failed to close render page", "error", err)
		}
	}()
	p := page.Context(ctx)

	err = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            1,
		DeviceScaleFactor: scale,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if err := p.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for document: %w", err)
	}

	shot, err := p.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture document: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("failed to decode capture: %w", err)
	}

	r.logger.Debug("Document rasterized",
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
	)
	return img, nil
}

// Close shuts the browser down if it was started
func (r *BrowserRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	r.launcher = nil
	return err
}
