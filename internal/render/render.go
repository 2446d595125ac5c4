// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render writes the HTML faces of a card: the interactive viewer,
// the editor preview and the print page. It supports full-page and HTMX
// partial rendering, detecting the request type via the HX-Request header.
package render

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"idcards/internal/card"
	"idcards/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title    string         // Page title for <title> tag
	Card     *card.Card     // Card to draw, nil for pages without one
	Selected string         // Highlighted node ID (editor preview)
	Data     map[string]any // Page-specific data
}

// PrintData is the input of the print page.
type PrintData struct {
	Title  string
	JPEG   []byte
	Width  int
	Height int
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// pages lists the templates rendered inside the base layout.
var pages = []string{"viewer", "preview"}

// standaloneTemplates render as full HTML pages without the base layout.
var standaloneTemplates = []string{"print"}

// New parses all page templates from the embedded filesystem. When devMode
// is true, pages load the viewer script without caching hints.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"isDev":      func() bool { return devMode },
			"cardStyle":  cardStyle,
			"nodeStyle":  nodeStyle,
			"photoStyle": photoStyle,
			"imageStyle": imageStyle,
			"safeURL":    safeURL,
			"qrDataURL":  qrDataURL,
			"jpegURL": func(b []byte) template.URL {
				return template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(b))
			},
		},
	}

	for _, name := range pages {
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			templateFS, "templates/base.html", "templates/card.html", "templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	for _, name := range standaloneTemplates {
		tmpl, err := template.New(name + ".html").Funcs(r.funcMap).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. For HTMX requests, only the "content" block is sent.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	execName := "base.html"
	if isHTMX(r) {
		execName = "content"
	}
	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Print writes the print page: the exported image sized to the card, with
// the print dialog opened from the image's onload handler.
func (rn *Renderer) Print(w io.Writer, data *PrintData) error {
	return executeTemplate(w, rn.templates["print"], "print.html", data)
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	if tmpl == nil {
		return fmt.Errorf("template %q not loaded", name)
	}
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// safeURL admits image sources the viewer may load: inline raster data and
// http(s) URLs. Anything else renders as an empty source.
func safeURL(s string) template.URL {
	switch {
	case strings.HasPrefix(s, "data:image/"),
		strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"):
		return template.URL(s)
	}
	return ""
}

// qrDataURL encodes content as a PNG QR code for inline display.
func qrDataURL(content string, size float64) template.URL {
	if content == "" {
		return ""
	}
	png, err := qrcode.Encode(content, qrcode.Medium, int(size*2))
	if err != nil {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// cssValue strips characters that could escape a CSS declaration.
func cssValue(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\'', '\\', '(', ')':
			return -1
		}
		return r
	}, s)
}

func px(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}

type decls []string

func (d *decls) add(prop, val string) {
	if val != "" {
		*d = append(*d, prop+":"+val)
	}
}

func (d decls) css() template.CSS {
	return template.CSS(strings.Join(d, ";"))
}

func cardStyle(c *card.Card) template.CSS {
	var d decls
	d.add("position", "relative")
	d.add("overflow", "hidden")
	d.add("width", px(float64(c.Width)))
	d.add("height", px(float64(c.Height)))
	d.add("background", cssValue(c.Background))
	if c.Radius > 0 {
		d.add("border-radius", px(c.Radius))
	}
	return d.css()
}

func nodeStyle(n card.Node) template.CSS {
	st := n.Style
	var d decls
	d.add("position", "absolute")
	d.add("box-sizing", "border-box")
	d.add("left", px(n.X))
	d.add("top", px(n.Y))
	d.add("width", px(n.W))
	d.add("z-index", strconv.Itoa(n.Z))
	if n.Kind == card.NodeText {
		d.add("min-height", px(n.H))
		d.add("line-height", px(n.H))
	} else {
		d.add("height", px(n.H))
	}
	if st.FontSize > 0 {
		d.add("font-size", px(st.FontSize))
	}
	d.add("font-family", cssValue(st.FontFamily))
	d.add("color", cssValue(st.Color))
	d.add("font-weight", string(st.Weight))
	d.add("text-align", string(st.Align))
	if st.Italic {
		d.add("font-style", "italic")
	}
	if st.Uppercase {
		d.add("text-transform", "uppercase")
	}
	if st.Truncate || n.Kind != card.NodeText {
		d.add("overflow", "hidden")
	}
	if st.Truncate {
		d.add("white-space", "nowrap")
		d.add("text-overflow", "ellipsis")
	}
	d.add("background", cssValue(st.Background))
	if n.Kind == card.NodeText && n.Editable && st.Background == "" {
		d.add("background", "transparent")
	}
	if st.BorderWidth > 0 {
		d.add("border", px(st.BorderWidth)+" solid "+cssValue(st.BorderColor))
	} else if n.Editable {
		d.add("border", "1px solid transparent")
	}
	if st.Radius > 0 {
		d.add("border-radius", px(st.Radius))
	}
	if st.Opacity > 0 && st.Opacity < 1 {
		d.add("opacity", strconv.FormatFloat(st.Opacity, 'f', -1, 64))
	}
	var filters []string
	if st.Grayscale {
		filters = append(filters, "grayscale(1)")
	}
	if st.Invert {
		filters = append(filters, "invert(1)")
	}
	d.add("filter", strings.Join(filters, " "))
	if n.Editable {
		d.add("outline", "none")
		d.add("padding", "0")
	}
	return d.css()
}

// photoStyle scales and translates the photo about the slot's centre.
func photoStyle(n card.Node) template.CSS {
	ps := models.DefaultPhotoSettings()
	if n.Photo != nil {
		ps = n.Photo.Clamped()
	}
	var d decls
	d.add("width", "100%")
	d.add("height", "100%")
	d.add("object-fit", "cover")
	d.add("transform-origin", "center")
	d.add("transform", fmt.Sprintf("scale(%s) translate(%s, %s)",
		strconv.FormatFloat(ps.Zoom, 'f', -1, 64), px(ps.X), px(ps.Y)))
	return d.css()
}

func imageStyle(n card.Node) template.CSS {
	fit := n.Style.Fit
	if fit == "" {
		fit = card.FitContain
	}
	var d decls
	d.add("width", "100%")
	d.add("height", "100%")
	d.add("object-fit", fit)
	return d.css()
}
