// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package graphics

import (
	"fmt"

	"github.com/galvanized/cage/render"
)

// recordPostEffects records the fixed post-processing order (§4.6 step 4):
// ambient occlusion, depth of field, eye-adaptation luminance collection,
// bloom, eye-adaptation apply, tonemap+gamma, antialiasing, sharpen. Each
// enabled stage bounces between two transient HDR textures named off the
// owning camera so dispatch's name+resolution+format cache can reuse them
// frame over frame without reallocating.
func recordPostEffects(q *render.Queue, cam CameraSnap) {
	post := cam.Camera.Post
	stages := []struct {
		name    string
		enabled bool
	}{
		{"ao", post.SSAO},
		{"dof", post.DOF},
		{"eyeadapt-collect", post.EyeAdaptation},
		{"bloom", post.Bloom},
		{"eyeadapt-apply", post.EyeAdaptation},
		{"tonemap-gamma", post.Tonemap},
		{"fxaa", post.AA},
		{"sharpen", post.Sharpen > 0},
	}

	w, h := cam.Camera.ScreenWidth, cam.Camera.ScreenHeight
	ping := fmt.Sprintf("post/%d/ping", cam.Entity)
	pong := fmt.Sprintf("post/%d/pong", cam.Entity)
	src, dst := ping, pong

	ran := false
	for _, st := range stages {
		if !st.enabled {
			continue
		}
		passName := fmt.Sprintf("post/%d/%s", cam.Entity, st.name)
		*q = append(*q, render.Command{Kind: render.BeginPass, Pass: render.Pass{Name: passName, Width: w, Height: h}})
		*q = append(*q, render.Command{Kind: render.BindTarget, Pass: render.Pass{Name: dst, Width: w, Height: h}})
		if ran {
			// The first enabled stage has nothing upstream to sample yet;
			// every later stage reads the previous one's output.
			*q = append(*q, render.Command{Kind: render.BindTextureCmd, Pass: render.Pass{Name: src, Width: w, Height: h}})
		}
		*q = append(*q, render.Command{Kind: render.Draw, Mode: render.TriangleStrip, Bucket: render.Overlay, Tag: uint64(cam.Entity)})
		*q = append(*q, render.Command{Kind: render.EndPass, Pass: render.Pass{Name: passName}})
		// Swap which physical buffer the ping/pong names resolve to so the
		// next enabled stage's src/dst bookkeeping stays correct without
		// the cache allocating a fresh pair of transients per stage.
		*q = append(*q, render.Command{Kind: render.SwapAttachments, Pass: render.Pass{Name: ping}, Name2: pong})
		src, dst = dst, src
		ran = true
	}

	blitTarget := "window"
	if cam.Camera.Target != 0 {
		blitTarget = fmt.Sprintf("texture/%d", cam.Camera.Target)
	}
	finalSrc := src
	if !ran {
		finalSrc = "" // nothing ran: dispatch blits the camera's own color buffer directly.
	}
	*q = append(*q, render.Command{Kind: render.BeginPass, Pass: render.Pass{Name: blitTarget, Width: w, Height: h, ClearColor: cam.Camera.ClearColor, ClearDepth: cam.Camera.ClearDepth}})
	*q = append(*q, render.Command{Kind: render.BindTextureCmd, Pass: render.Pass{Name: finalSrc, Width: w, Height: h}})
	*q = append(*q, render.Command{Kind: render.Draw, Mode: render.TriangleStrip, Bucket: render.Overlay, Tag: uint64(cam.Entity)})
	*q = append(*q, render.Command{Kind: render.EndPass, Pass: render.Pass{Name: blitTarget}})
}
