// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export turns a rendered card into a static bitmap for download
// or print. It never touches the interactive card: a detached static copy
// carrying the current field values is rasterized instead.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"log/slog"

	"idcards/internal/card"
	"idcards/internal/imaging"
)

// ErrExport is returned for any rasterization or encoding failure. Its
// message is the one notice shown to the user.
var ErrExport = errors.New("error saving image")

const (
	// DefaultScale is the device scale the card is rasterized at.
	DefaultScale = 3

	// jpegQuality is the maximum quality the encoder accepts.
	jpegQuality = 100

	// ContentTypeJPEG is the media type of downloaded cards.
	ContentTypeJPEG = "image/jpeg"
)

// Artifact is a finished export.
type Artifact struct {
	Data        []byte
	Width       int
	Height      int
	Filename    string
	ContentType string
}

// Static returns a detached, non-interactive copy of c. Editable regions
// become static text carrying their current value; c is not modified.
func Static(c *card.Card) *card.Card {
	out := c.Clone()
	for i := range out.Nodes {
		out.Nodes[i].Editable = false
	}
	return out
}

// Pipeline rasterizes cards and encodes them.
type Pipeline struct {
	raster *Rasterizer
}

// New creates a Pipeline drawing at the given scale. Remote logos,
// backgrounds and photos are fetched through loader.
func New(loader *imaging.Loader, scale int) *Pipeline {
	return &Pipeline{raster: NewRasterizer(loader, scale)}
}

// Scale returns the device scale of exported images.
func (p *Pipeline) Scale() int { return p.raster.scale }

// JPEG exports c as a maximum-quality JPEG named after the resident.
// On failure no artifact is returned and the error matches ErrExport.
func (p *Pipeline) JPEG(ctx context.Context, c *card.Card, residentName string) (*Artifact, error) {
	img, err := p.raster.Rasterize(ctx, Static(c))
	if err != nil {
		slog.Error("card rasterization failed", "kind", c.Kind, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		slog.Error("card encoding failed", "error", err)
		return nil, fmt.Errorf("%w: encode jpeg: %v", ErrExport, err)
	}

	b := img.Bounds()
	return &Artifact{
		Data:        buf.Bytes(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		Filename:    Filename(residentName),
		ContentType: ContentTypeJPEG,
	}, nil
}
