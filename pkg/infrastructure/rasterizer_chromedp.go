package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// ChromedpRasterizer screenshots a rendered page element with headless Chrome.
type ChromedpRasterizer struct {
	ExecPath string
	Timeout  time.Duration
	// Scale is the device scale factor used for the capture.
	Scale    float64
	Attempts int
	logger   *zap.Logger
}

func NewChromedpRasterizer(execPath string, timeout time.Duration, logger *zap.Logger) *ChromedpRasterizer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromedpRasterizer{ExecPath: execPath, Timeout: timeout, Scale: 2, Attempts: 3, logger: logger}
}

// Capture returns a PNG of the first element matching selector. Failed or
// invalid captures are retried with exponential backoff.
func (r *ChromedpRasterizer) Capture(ctx context.Context, html, selector string) ([]byte, error) {
	var lastErr error
	for i := 0; i < r.Attempts; i++ {
		buf, err := r.capture(ctx, html, selector)
		if err == nil && !IsPNG(buf) {
			err = errors.New("capture did not return a png")
		}
		if err == nil {
			return buf, nil
		}
		lastErr = err
		r.logger.Warn("capture attempt failed", zap.Int("attempt", i+1), zap.Error(err))
		if i < r.Attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (r *ChromedpRasterizer) capture(ctx context.Context, html, selector string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, r.Timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	var buf []byte
	err = chromedp.Run(runCtx,
		emulation.SetDeviceMetricsOverride(1024, 1400, r.Scale, false),
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Screenshot(selector, &buf, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp: %w", err)
	}
	return buf, nil
}

func IsPNG(b []byte) bool {
	return bytes.HasPrefix(b, pngSignature)
}
