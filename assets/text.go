// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package assets

import (
	"golang.org/x/text/unicode/norm"

	"github.com/galvanized/cage/internal/store"
)

// PositionedGlyph is one glyph's placement within a laid-out Text
// component, in local text-box units (before the entity's transform).
type PositionedGlyph struct {
	Glyph Glyph
	X, Y  float32
}

// Layout normalizes a Text component's transcript and lays its glyphs out
// against a baked atlas, wrapping at fmt.Wrap units (§3 Text component,
// "format/wrap pass"). Normalizing to NFC first means combining-mark
// variants of the same visible character (e.g. precomposed vs decomposed
// accents) hit the same atlas cell instead of silently missing glyphs.
func Layout(atlas *FontAtlas, txt store.Text) []PositionedGlyph {
	transcript := norm.NFC.String(txt.Transcript)
	byChar := make(map[rune]Glyph, len(atlas.Glyphs))
	for _, g := range atlas.Glyphs {
		byChar[g.Char] = g
	}

	var out []PositionedGlyph
	penX, penY := float32(0), float32(0)
	lineHeight := atlas.LineHeight * float32(txt.Format.LineSpacing)
	if txt.Format.LineSpacing <= 0 {
		lineHeight = atlas.LineHeight
	}
	wrap := float32(txt.Format.Wrap)

	words := splitKeepingSpaces(transcript)
	for _, word := range words {
		wordW := float32(0)
		for _, r := range word {
			if g, ok := byChar[r]; ok {
				wordW += g.Advance
			}
		}
		if wrap > 0 && penX > 0 && penX+wordW > wrap && word != " " {
			penX = 0
			penY += lineHeight
		}
		for _, r := range word {
			if r == '\n' {
				penX = 0
				penY += lineHeight
				continue
			}
			g, ok := byChar[r]
			if !ok {
				continue
			}
			out = append(out, PositionedGlyph{Glyph: g, X: penX + g.BearingX, Y: penY - g.BearingY})
			penX += g.Advance
		}
	}
	return out
}

// splitKeepingSpaces breaks s into words, keeping each run of spaces as
// its own token so Layout can decide whether a space triggers a wrap.
func splitKeepingSpaces(s string) []string {
	var words []string
	start := 0
	runes := []rune(s)
	inSpace := false
	for i, r := range runes {
		sp := r == ' '
		if i == 0 {
			inSpace = sp
			continue
		}
		if sp != inSpace {
			words = append(words, string(runes[start:i]))
			start = i
			inSpace = sp
		}
	}
	words = append(words, string(runes[start:]))
	return words
}
