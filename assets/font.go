// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package assets

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/galvanized/cage/render"
)

// DefaultRunes is the glyph set baked into a font atlas when the caller
// doesn't supply one: basic Latin letters, digits, and common punctuation.
var DefaultRunes = []rune(" ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz1234567890`~!@#$%^&*()[]{}/=?+\\|-_.>,<'\";:")

// atlasImageSize is the baked atlas's fixed width and height in pixels.
const atlasImageSize = 512

// BakeTTF rasterizes a TrueType/OpenType font's glyphs into a single atlas
// image plus the per-glyph uv/metrics table the font wire format carries
// (§6 "font atlas"). Adapted from the pack's truetype loader: walk each
// requested rune's glyph bounds, draw it into a padded cell, and record
// its atlas position and advance.
func BakeTTF(ttfBytes []byte, sizePt float64, runes []rune) (*FontAtlas, *image.NRGBA, error) {
	if len(runes) == 0 {
		runes = DefaultRunes
	}
	f, err := opentype.Parse(ttfBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("assets: parse opentype font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sizePt, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, nil, fmt.Errorf("assets: build opentype face: %w", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, atlasImageSize, atlasImageSize))
	lineHeight := face.Metrics().Height.Round()
	ascent := face.Metrics().Ascent.Round()

	atlas := &FontAtlas{
		LineHeight: float32(lineHeight),
		AtlasW:     atlasImageSize,
		AtlasH:     atlasImageSize,
		Kerning:    map[[2]rune]float32{},
	}
	penX, penY := 0, 0
	for _, r := range runes {
		bounds, _, ok := face.GlyphBounds(r)
		if !ok {
			slog.Warn("assets: font bake skipped unmapped rune", "rune", r)
			continue
		}
		minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
		maxX, maxY := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
		glyphW := maxX - minX + 2
		glyphH := maxY - minY
		if glyphW <= 0 || glyphH <= 0 {
			continue // whitespace and other zero-area glyphs carry only advance.
		}

		if penX+glyphW >= atlasImageSize {
			penX = 0
			penY += lineHeight
			if penY >= atlasImageSize {
				return nil, nil, fmt.Errorf("assets: font bake overflowed %dx%d atlas", atlasImageSize, atlasImageSize)
			}
		}

		dst := image.NewNRGBA(image.Rect(0, 0, glyphW, glyphH))
		d := &font.Drawer{Dot: fixed.P(-minX+1, -minY), Dst: dst, Src: image.White, Face: face}
		dr, mask, maskp, advance, _ := d.Face.Glyph(d.Dot, r)
		draw.DrawMask(d.Dst, dr, d.Src, image.Point{}, mask, maskp, draw.Over)
		draw.Draw(img, image.Rect(penX, penY, penX+glyphW, penY+glyphH), dst, image.Point{}, draw.Src)

		atlas.Glyphs = append(atlas.Glyphs, Glyph{
			Char: r,
			U: float32(penX) / atlasImageSize, V: float32(penY) / atlasImageSize,
			W: float32(glyphW) / atlasImageSize, H: float32(glyphH) / atlasImageSize,
			BearingX: float32(minX), BearingY: float32(ascent + minY),
			Advance: float32(advance.Round()),
		})
		if float32(glyphW) > atlas.MaxGlyphW {
			atlas.MaxGlyphW = float32(glyphW)
		}
		if float32(glyphH) > atlas.MaxGlyphH {
			atlas.MaxGlyphH = float32(glyphH)
		}
		penX += glyphW
	}
	return atlas, img, nil
}

// FontResolver registers the font scheme's loader: bake a TTF blob into an
// atlas image and table, upload the image as a GPU texture through gpu,
// and cache the resulting (atlas, texture) pair.
type FontResolver struct {
	mgr *Manager
	gpu render.Renderer
}

// LoadedFont pairs a decoded glyph table with its GPU-resident atlas
// texture.
type LoadedFont struct {
	Atlas   *FontAtlas
	Texture render.Texture
}

// NewFontResolver wires the font scheme's loader against mgr, reading raw
// TTF bytes via fetch and baking them at sizePt.
func NewFontResolver(mgr *Manager, gpu render.Renderer, sizePt float64, fetch func(name string) ([]byte, error)) *FontResolver {
	r := &FontResolver{mgr: mgr, gpu: gpu}
	mgr.Register(SchemeFont, "graphics", func(name string) (interface{}, error) {
		raw, err := fetch(name)
		if err != nil {
			return nil, err
		}
		atlas, img, err := BakeTTF(raw, sizePt, nil)
		if err != nil {
			return nil, err
		}
		tex, err := gpu.BindTexture(render.Texture2D, img.Bounds().Dx(), img.Bounds().Dy(), 1, img.Pix)
		if err != nil {
			return nil, fmt.Errorf("assets: upload font atlas %s: %w", name, err)
		}
		return &LoadedFont{Atlas: atlas, Texture: tex}, nil
	})
	return r
}

// Get returns the baked atlas and GPU texture for a named font asset.
func (r *FontResolver) Get(name string) (*LoadedFont, bool) {
	h, err := r.mgr.Get(SchemeFont, name)
	if err != nil {
		return nil, false
	}
	defer h.Release()
	lf, ok := h.Value().(*LoadedFont)
	return lf, ok
}
