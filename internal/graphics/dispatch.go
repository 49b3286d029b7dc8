// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package graphics

import (
	"fmt"

	"github.com/galvanized/cage/render"
)

// transient is a provisional resource keyed by name+resolution+format,
// reset every dispatched frame (§4.7 step 3, step 7).
type transient struct {
	fb  render.Framebuffer
	tex render.Texture
	w, h int
	depthOnly bool
}

// TransientCache owns the named framebuffers post-effect ping-pong and
// shadow passes bind to, allocating lazily and releasing everything at
// frame end so a resolution change never leaks a stale target.
type TransientCache struct {
	gpu     render.Renderer
	targets map[string]transient
}

// NewTransientCache returns an empty cache bound to gpu.
func NewTransientCache(gpu render.Renderer) *TransientCache {
	return &TransientCache{gpu: gpu, targets: map[string]transient{}}
}

// Acquire implements the Transients interface prepare's post-effect
// recording depends on through name: it is resolved lazily at dispatch
// time instead, so Acquire here is only used by callers outside the
// recorded-queue path (debug tooling, tests).
func (c *TransientCache) Acquire(width, height int) (render.Framebuffer, render.Texture) {
	fb, tex, err := c.gpu.NewFramebuffer(width, height, 0, false)
	if err != nil {
		return 0, 0
	}
	return fb, tex
}

func (c *TransientCache) resolve(name string, width, height int, depthOnly bool) (render.Framebuffer, render.Texture, error) {
	if name == "" || name == "window" {
		return 0, 0, nil // the default framebuffer, nothing to allocate.
	}
	if t, ok := c.targets[name]; ok && t.w == width && t.h == height && t.depthOnly == depthOnly {
		return t.fb, t.tex, nil
	}
	if t, ok := c.targets[name]; ok {
		c.gpu.ReleaseFramebuffer(t.fb)
		c.gpu.ReleaseTexture(t.tex)
	}
	fb, tex, err := c.gpu.NewFramebuffer(width, height, 0, depthOnly)
	if err != nil {
		return 0, 0, fmt.Errorf("graphics: allocate transient %q: %w", name, err)
	}
	c.targets[name] = transient{fb: fb, tex: tex, w: width, h: height, depthOnly: depthOnly}
	return fb, tex, nil
}

// swap exchanges the cached framebuffer/texture handles of two named
// transients in place, implementing SwapAttachments: a fixed pair of
// names can then ping-pong across many post-effect stages without
// dispatch allocating a distinct target per stage.
func (c *TransientCache) swap(a, b string) {
	ta, aok := c.targets[a]
	tb, bok := c.targets[b]
	if !aok || !bok {
		return
	}
	c.targets[a], c.targets[b] = tb, ta
}

// Reset releases every transient target, called once per dispatched frame
// (§4.7 step 7).
func (c *TransientCache) Reset() {
	for name, t := range c.targets {
		c.gpu.ReleaseFramebuffer(t.fb)
		c.gpu.ReleaseTexture(t.tex)
		delete(c.targets, name)
	}
}

// GUIQueue is supplied by an external collaborator and appended to the
// scene queue before dispatch (§4.7 step 4).
type GUIQueue func() render.Queue

// Dispatch replays q against gpu on the dispatch thread (§4.7): make the
// context current (the caller's responsibility — a Window already bound
// to this goroutine), execute every recorded command, run any supplied
// GUI queue after the scene, swap buffers, and issue a finish barrier to
// bound latency. loadAssets drains any graphics-thread-scheduled asset
// loads (§4.7 step 5) before the frame is considered complete.
func Dispatch(gpu render.Renderer, q render.Queue, gui GUIQueue, cache *TransientCache, swapBuffers func(), loadAssets func()) error {
	render.SortQueue(q)
	if err := execute(gpu, q, cache); err != nil {
		return err
	}
	if gui != nil {
		guiQueue := gui()
		render.SortQueue(guiQueue)
		if err := execute(gpu, guiQueue, cache); err != nil {
			return err
		}
	}
	if loadAssets != nil {
		loadAssets()
	}
	swapBuffers()
	gpu.Finish()
	cache.Reset()
	return nil
}

func execute(gpu render.Renderer, q render.Queue, cache *TransientCache) error {
	for _, cmd := range q {
		switch cmd.Kind {
		case render.BeginPass:
			depthOnly := !cmd.Pass.ClearColor && cmd.Pass.ClearDepth
			fb, _, err := cache.resolve(cmd.Pass.Name, cmd.Pass.Width, cmd.Pass.Height, depthOnly)
			if err != nil {
				return err
			}
			gpu.BindFramebuffer(fb)
			gpu.Viewport(cmd.Pass.Width, cmd.Pass.Height)
			if cmd.Pass.ClearColor || cmd.Pass.ClearDepth {
				gpu.Clear(cmd.Pass.R, cmd.Pass.G, cmd.Pass.B, cmd.Pass.A)
			}
		case render.EndPass:
			// Transient targets persist until Reset; nothing to release per-pass.
		case render.BindTarget:
			fb, _, err := cache.resolve(cmd.Pass.Name, cmd.Pass.Width, cmd.Pass.Height, false)
			if err != nil {
				return err
			}
			gpu.BindFramebuffer(fb)
		case render.BindTextureCmd:
			if cmd.Pass.Name == "" {
				continue // nothing ran upstream; sample the camera's own color buffer.
			}
			_, tex, err := cache.resolve(cmd.Pass.Name, cmd.Pass.Width, cmd.Pass.Height, false)
			if err != nil {
				return err
			}
			gpu.BindTextureUnit(cmd.Sampler, tex)
		case render.BindShader:
			gpu.UseProgram(cmd.Program)
		case render.SwapAttachments:
			cache.swap(cmd.Pass.Name, cmd.Name2)
		case render.SetUniformCmd:
			gpu.SetUniform(cmd.Uniform, cmd.Floats)
		case render.Draw:
			if len(cmd.Instances) > 0 {
				gpu.DrawInstanced(cmd.Mesh, cmd.Mode, len(cmd.Instances))
			} else {
				gpu.DrawInstanced(cmd.Mesh, cmd.Mode, 1)
			}
		}
	}
	return nil
}
