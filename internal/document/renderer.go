package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JustJay7/consumer-complaint-assistant/internal/complaint"
	"github.com/JustJay7/consumer-complaint-assistant/pkg/logger"
)

// RenderError wraps any failure while producing the artifact
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsRenderError reports whether err carries a RenderError
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}

// Artifact is a finished document ready to be saved by the client
type Artifact struct {
	Filename     string
	ContentType  string
	Data         []byte
	Pages        int
	RasterHeight int
	BandHeight   int
}

// Filename returns the download name for a document generated at now
func Filename(now time.Time) string {
	return fmt.Sprintf("consumer_complaint_%d.pdf", now.UnixMilli())
}

// Renderer runs the content → raster → pages pipeline
type Renderer struct {
	raster Rasterizer
	writer PageWriter
	logger *logger.Logger
	now    func() time.Time
}

// NewRenderer wires a rasterizer and page writer together
func NewRenderer(raster Rasterizer, writer PageWriter, logger *logger.Logger) *Renderer {
	return &Renderer{
		raster: raster,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
}

// Render produces the complaint document. Every failure, including a panic
// inside a backend, is returned as a *RenderError and no artifact.
func (r *Renderer) Render(ctx context.Context, rec *complaint.Record, tier complaint.ForumTier) (art *Artifact, err error) {
	defer func() {
		if p := recover(); p != nil {
			art = nil
			err = &RenderError{Stage: "render", Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	html, err := Build(rec, tier).HTML()
	if err != nil {
		return nil, &RenderError{Stage: "build", Err: err}
	}

	img, err := r.raster.Rasterize(ctx, html, ContentWidth, PixelRatio)
	if err != nil {
		return nil, &RenderError{Stage: "rasterize", Err: err}
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 {
		return nil, &RenderError{Stage: "rasterize", Err: fmt.Errorf("empty raster")}
	}

	bandHeight := BandHeight(bounds.Dx())
	bands := Paginate(bounds.Dy(), bandHeight)

	data, err := r.writer.WritePages(Slice(img, bands))
	if err != nil {
		return nil, &RenderError{Stage: "paginate", Err: err}
	}

	art = &Artifact{
		Filename:     Filename(r.now()),
		ContentType:  r.writer.ContentType(),
		Data:         data,
		Pages:        len(bands),
		RasterHeight: bounds.Dy(),
		BandHeight:   bandHeight,
	}

	r.logger.Info("Complaint document rendered",
		"filename", art.Filename,
		"forum", tier.Label(),
		"pages", art.Pages,
		"bytes", len(data),
	)
	return art, nil
}

// Close releases the rasterizer backend
func (r *Renderer) Close() error {
	return r.raster.Close()
}
