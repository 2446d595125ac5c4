// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontKey selects one of the embedded Go font files.
type fontKey struct {
	mono, bold, italic bool
}

var fontFiles = map[fontKey][]byte{
	{false, false, false}: goregular.TTF,
	{false, true, false}:  gobold.TTF,
	{false, false, true}:  goitalic.TTF,
	{false, true, true}:   gobolditalic.TTF,
	{true, false, false}:  gomono.TTF,
	{true, true, false}:   gomonobold.TTF,
	{true, false, true}:   gomonoitalic.TTF,
	{true, true, true}:    gomonobolditalic.TTF,
}

var (
	parseOnce   sync.Once
	parsedFonts map[fontKey]*opentype.Font
	parseErr    error
)

func loadFonts() (map[fontKey]*opentype.Font, error) {
	parseOnce.Do(func() {
		parsedFonts = make(map[fontKey]*opentype.Font, len(fontFiles))
		for k, ttf := range fontFiles {
			f, err := opentype.Parse(ttf)
			if err != nil {
				parseErr = fmt.Errorf("parse font: %w", err)
				return
			}
			parsedFonts[k] = f
		}
	})
	return parsedFonts, parseErr
}

// isMono maps CSS font families onto the monospaced or proportional face.
func isMono(family string) bool {
	f := strings.ToLower(family)
	return strings.Contains(f, "mono") || strings.Contains(f, "courier") || strings.Contains(f, "consol")
}

// faceCache hands out sized faces for one rasterization. Faces keep
// per-instance buffers and are not shared across goroutines.
type faceCache struct {
	fonts map[fontKey]*opentype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	fontKey
	size float64
}

func newFaceCache() (*faceCache, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &faceCache{fonts: fonts, faces: make(map[faceKey]font.Face)}, nil
}

func (fc *faceCache) face(family string, bold, italic bool, size float64) (font.Face, error) {
	k := faceKey{fontKey: fontKey{mono: isMono(family), bold: bold, italic: italic}, size: size}
	if f, ok := fc.faces[k]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(fc.fonts[k.fontKey], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	fc.faces[k] = f
	return f, nil
}

func (fc *faceCache) close() {
	for _, f := range fc.faces {
		f.Close()
	}
}
