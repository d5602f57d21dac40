package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"browser-expect/internal/application/port/output"
	"browser-expect/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

const screenshotMaxWidth = 1024

var _ output.PagePort = (*PageHandle)(nil)

// PageHandle tags a *rod.Page as entity.TargetKindPage.
type PageHandle struct {
	page *rod.Page
}

func WrapPage(page *rod.Page) *PageHandle {
	return &PageHandle{page: page}
}

func (p *PageHandle) Kind() entity.TargetKind {
	return entity.TargetKindPage
}

func (p *PageHandle) Rod() *rod.Page {
	return p.page
}

func (p *PageHandle) Navigate(ctx context.Context, rawURL string, timeout time.Duration) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	pg := p.page.Context(ctx).Timeout(timeout)
	defer pg.CancelTimeout()

	if err := pg.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

// Query looks selector up once without retrying.
func (p *PageHandle) Query(ctx context.Context, selector string) (output.ElementPort, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, ErrInvalidSelector
	}

	pg := p.page.Context(ctx)

	var (
		has bool
		el  *rod.Element
		err error
	)
	if isXPathSelector(selector) {
		has, el, err = pg.HasX(trimXPathPrefix(selector))
	} else {
		has, el, err = pg.Has(selector)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	if !has {
		return nil, nil
	}
	return WrapElement(el), nil
}

// WaitForSelector blocks until selector is attached (and visible, unless
// opts.State is attached) or opts.Timeout elapses.
func (p *PageHandle) WaitForSelector(ctx context.Context, selector string, opts entity.WaitOptions) error {
	if strings.TrimSpace(selector) == "" {
		return ErrInvalidSelector
	}
	if err := opts.State.Validate(); err != nil {
		return err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = entity.DefaultWaitTimeout
	}

	pg := p.page.Context(ctx).Timeout(timeout)
	defer pg.CancelTimeout()

	var (
		el  *rod.Element
		err error
	)
	if isXPathSelector(selector) {
		el, err = pg.ElementX(trimXPathPrefix(selector))
	} else {
		el, err = pg.Element(selector)
	}
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}

	if opts.State.OrDefault() == entity.ElementStateVisible {
		if err := el.WaitVisible(); err != nil {
			return fmt.Errorf("element not visible: %s: %w", selector, err)
		}
	}
	return nil
}

func (p *PageHandle) URL() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}

// Screenshot captures the viewport as JPEG, scaled down to screenshotMaxWidth.
func (p *PageHandle) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := p.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > screenshotMaxWidth {
		img = imaging.Resize(img, screenshotMaxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (p *PageHandle) Close() error {
	return p.page.Close()
}
