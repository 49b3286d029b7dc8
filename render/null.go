// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package render

import "sync/atomic"

// NullRenderer is a deterministic, GPU-free Renderer used by tests and by
// documentation examples. It hands out monotonically increasing handles
// and records counts rather than touching any real graphics driver.
type NullRenderer struct {
	nextHandle uint32

	Draws         int // total DrawInstanced calls observed.
	Meshes        int // currently bound mesh count.
	Clears        int
	Finishes      int
	Binds         int // BindFramebuffer calls observed.
	ProgramBinds  int // UseProgram calls observed.
	TextureBinds  int // BindTextureUnit calls observed.
	UniformWrites int // SetUniform calls observed.

	boundFramebuffer Framebuffer
	boundProgram     Program
}

func (n *NullRenderer) Init() error { return nil }

func (n *NullRenderer) Clear(r, g, b, a float32) { n.Clears++ }

func (n *NullRenderer) Enable(attr Attr, enabled bool) {}

func (n *NullRenderer) Viewport(width, height int) {}

func (n *NullRenderer) Scissor(x, y, width, height int) {}

func (n *NullRenderer) BindMesh(data VertexData) (VertexArray, error) {
	n.Meshes++
	return VertexArray(n.handle()), nil
}

func (n *NullRenderer) ReleaseMesh(v VertexArray) { n.Meshes-- }

func (n *NullRenderer) BindProgram(vertSrc, fragSrc string, uniforms []string) (Program, map[string]UniformLoc, error) {
	locs := make(map[string]UniformLoc, len(uniforms))
	for i, u := range uniforms {
		locs[u] = UniformLoc(i)
	}
	return Program(n.handle()), locs, nil
}

func (n *NullRenderer) ReleaseProgram(p Program) {}

func (n *NullRenderer) BindTexture(kind TextureKind, width, height int, mipLevels int, pixels []byte) (Texture, error) {
	return Texture(n.handle()), nil
}

func (n *NullRenderer) ReleaseTexture(t Texture) {}

func (n *NullRenderer) NewFramebuffer(width, height int, colorFormat int, depthOnly bool) (Framebuffer, Texture, error) {
	return Framebuffer(n.handle()), Texture(n.handle()), nil
}

func (n *NullRenderer) ReleaseFramebuffer(f Framebuffer) {}

func (n *NullRenderer) BindFramebuffer(f Framebuffer) {
	n.Binds++
	n.boundFramebuffer = f
}

func (n *NullRenderer) UseProgram(p Program) {
	n.ProgramBinds++
	n.boundProgram = p
}

func (n *NullRenderer) BindTextureUnit(unit int, t Texture) { n.TextureBinds++ }

func (n *NullRenderer) SetUniform(loc UniformLoc, values []float32) { n.UniformWrites++ }

func (n *NullRenderer) SetDepth(test bool, write bool) {}

func (n *NullRenderer) SetBlend(mode BlendMode) {}

func (n *NullRenderer) DebugLabel(name string) {}

func (n *NullRenderer) DrawInstanced(v VertexArray, mode DrawMode, instances int) { n.Draws++ }

func (n *NullRenderer) Finish() { n.Finishes++ }

func (n *NullRenderer) handle() uint32 { return atomic.AddUint32(&n.nextHandle, 1) }
