// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging loads and transforms the raster sources drawn on a card:
// resident photos, organization logos and template backgrounds. Sources
// are data URLs or remote http(s) URLs; decoding is guarded against
// oversized images before any pixel is allocated.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000

	// maxSourceBytes caps the encoded size of a single image source.
	maxSourceBytes = 20 << 20

	// DefaultFetchTimeout bounds a remote image download.
	DefaultFetchTimeout = 10 * time.Second
)

// ErrUnsupportedSource is returned for sources that are neither data URLs
// nor http(s) URLs.
var ErrUnsupportedSource = errors.New("unsupported image source")

// Loader resolves image sources into decoded images. Remote sources on
// internal addresses are refused unless AllowPrivateNetworks was called.
type Loader struct {
	client       *resty.Client
	allowPrivate bool
}

// NewLoader creates a Loader whose remote fetches give up after timeout.
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	l := &Loader{}
	l.client = resty.New().
		SetTransport(l.transport(timeout)).
		SetRedirectPolicy(resty.RedirectPolicyFunc(l.redirect)).
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(_ *resty.Response, err error) bool {
			return err != nil && !errors.Is(err, ErrBlockedAddress)
		}).
		SetHeader("Accept", "image/*")
	return l
}

// AllowPrivateNetworks lets the loader fetch from loopback and private
// addresses, for deployments whose image host is internal. Call it before
// the loader is shared.
func (l *Loader) AllowPrivateNetworks() *Loader {
	l.allowPrivate = true
	return l
}

// Load decodes an image from a data URL or a remote URL.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		_, data, err := ParseDataURL(src)
		if err != nil {
			return nil, err
		}
		return Decode(data)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		data, err := l.fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		return Decode(data)
	}
	return nil, fmt.Errorf("%w: %.32q", ErrUnsupportedSource, src)
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse image url: %w", err)
	}
	if err := l.checkHost(ctx, u.Hostname()); err != nil {
		return nil, err
	}

	resp, err := l.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("fetch image %s: %w", u.Host, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch image %s: status %d", u.Host, resp.StatusCode())
	}
	data, err := io.ReadAll(io.LimitReader(body, maxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", u.Host, err)
	}
	if len(data) > maxSourceBytes {
		return nil, fmt.Errorf("image %s exceeds %d bytes", u.Host, maxSourceBytes)
	}
	return data, nil
}

// Decode checks the image dimensions, then fully decodes it.
func Decode(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ParseDataURL splits a base64 data URL into its content type and payload.
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errors.New("not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data url")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, errors.New("data url is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data url: %w", err)
	}
	return contentType, data, nil
}

// ToDataURL encodes raw bytes as a base64 data URL.
func ToDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Cover scales and crops img to exactly w x h, keeping the centre.
func Cover(img image.Image, w, h int) *image.NRGBA {
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}

// Contain scales img to fit inside w x h and centres it on a transparent
// canvas of exactly that size.
func Contain(img image.Image, w, h int) *image.NRGBA {
	fitted := imaging.Fit(img, w, h, imaging.Lanczos)
	return imaging.PasteCenter(imaging.New(w, h, color.Transparent), fitted)
}

// Zoom fills a w x h slot with img, then scales it by zoom about the slot
// centre and shifts it by (dx, dy) slot pixels, clipping to the slot.
func Zoom(img image.Image, w, h int, zoom, dx, dy float64) *image.NRGBA {
	base := Cover(img, w, h)
	if zoom <= 0 {
		zoom = 1
	}
	sw := max(1, int(float64(w)*zoom+0.5))
	sh := max(1, int(float64(h)*zoom+0.5))
	scaled := imaging.Resize(base, sw, sh, imaging.Lanczos)

	x := (w-sw)/2 + int(dx*zoom)
	y := (h-sh)/2 + int(dy*zoom)
	return imaging.Paste(imaging.New(w, h, color.Transparent), scaled, image.Pt(x, y))
}

// Fade returns img with its alpha multiplied by opacity.
func Fade(img image.Image, opacity float64) *image.NRGBA {
	b := img.Bounds()
	return imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.Transparent), img, image.Pt(0, 0), opacity)
}

// Grayscale and Invert are re-exported so callers need a single import.
func Grayscale(img image.Image) *image.NRGBA { return imaging.Grayscale(img) }
func Invert(img image.Image) *image.NRGBA    { return imaging.Invert(img) }
