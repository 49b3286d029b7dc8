// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/galvanized/cage/render"
)

// placeholderSize is the fixed dimension of the generated missing-asset
// checkerboard texture.
const placeholderSize = 64

// MissingTexture renders the magenta/black checkerboard used when
// `cage/graphics/renderMissingModels` is enabled and a Render component's
// texture asset failed to load (§6, §4.5 "missing-asset placeholder"),
// rather than drawing nothing or panicking.
func MissingTexture() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	magenta := color.NRGBA{R: 255, G: 0, B: 255, A: 255}
	black := color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	const cell = 8
	for y := 0; y < placeholderSize; y++ {
		for x := 0; x < placeholderSize; x++ {
			c := magenta
			if (x/cell+y/cell)%2 == 0 {
				c = black
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// TextureResolver registers the texture scheme's loader: decode a raw
// image blob via fetch, or fall back to MissingTexture when decoding
// fails and placeholders are enabled, then upload through gpu.
type TextureResolver struct {
	mgr                 *Manager
	gpu                 render.Renderer
	renderMissingModels bool
}

// NewTextureResolver wires the texture scheme's loader against mgr.
// decode converts a raw asset blob into an image (the pack's own image
// codec, e.g. PNG); renderMissingModels controls whether a decode failure
// falls back to the checkerboard placeholder or is reported as an error.
func NewTextureResolver(mgr *Manager, gpu render.Renderer, renderMissingModels bool, fetch func(name string) ([]byte, error), decode func([]byte) (image.Image, error)) *TextureResolver {
	r := &TextureResolver{mgr: mgr, gpu: gpu, renderMissingModels: renderMissingModels}
	mgr.Register(SchemeTexture, "graphics", func(name string) (interface{}, error) {
		raw, ferr := fetch(name)
		var img image.Image
		if ferr == nil {
			img, ferr = decode(raw)
		}
		if ferr != nil {
			if !renderMissingModels {
				return nil, fmt.Errorf("assets: load texture %s: %w", name, ferr)
			}
			img = MissingTexture()
		}
		rgba := toNRGBA(img)
		return gpu.BindTexture(render.Texture2D, rgba.Bounds().Dx(), rgba.Bounds().Dy(), 1, rgba.Pix)
	})
	return r
}

// toNRGBA normalizes any decoded image to the NRGBA layout BindTexture
// expects, copying only when the source isn't already that format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
