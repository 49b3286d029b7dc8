// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package render provides the graphics-card contract the engine assumes:
// an OpenGL-class API exposing vertex buffers, textures, framebuffers,
// programmable shaders, indexed instanced draw, and the fixed-function
// state (viewport, depth, blend) graphics-prepare plans against. Dispatch
// (§4.7) is the only thread allowed to call through this interface; the
// recorded Queue (queue.go) is exactly this set of operations plus
// parameterized uniform writes.
//
// Package render is provided as part of the cage 3D engine.
package render

// DrawMode selects the primitive topology for an indexed draw.
type DrawMode int

const (
	Triangles DrawMode = iota
	TriangleStrip      // full-screen post-effect quads.
	Points             // particle effects.
	Lines              // debug shapes, wireframes.
)

// TextureKind distinguishes the dimensionality/array-ness of a texture.
type TextureKind int

const (
	Texture2D TextureKind = iota
	Texture2DArray
	Texture3D
	TextureCube
)

// BlendMode selects one of the two blend equations the core needs.
type BlendMode int

const (
	BlendPremultiplied BlendMode = iota // standard alpha transparency.
	BlendAdditive                       // particle/light glow accumulation.
)

// Attr are the global fixed-function graphics attributes toggled by
// Renderer.Enable.
type Attr uint32

const (
	Blend Attr = iota
	Cull
	DepthTest
	DepthWrite
	Scissor
)

// VertexArray is an opaque handle to bound per-vertex buffers.
type VertexArray uint32

// Program is an opaque handle to a bound, linked shader program.
type Program uint32

// Texture is an opaque handle to a bound texture image.
type Texture uint32

// Framebuffer is an opaque handle to a bound render target. Zero is the
// default framebuffer (the window).
type Framebuffer uint32

// UniformLoc is an opaque handle to a resolved uniform/storage-buffer
// binding point within a Program.
type UniformLoc int32

// VertexData describes one packed vertex stream: position, optional uv,
// normal, tangent+bitangent, and optional skinning indices/weights, as
// laid out in the model wire format (spec §6).
type VertexData struct {
	Positions  []float32 // vec3 per vertex.
	UVs        []float32 // vec2 or vec3 per vertex, optional.
	Normals    []float32 // vec3 per vertex, optional.
	Tangents   []float32 // vec3+vec3 (tangent, bitangent) per vertex, optional.
	BoneIndex  []uint16  // 4 per vertex, optional.
	BoneWeight []float32 // 4 per vertex, optional.
	Indices    []uint32  // 32-bit triangle indices.
}

// Renderer is the thin graphics-card abstraction dispatch replays commands
// through. Only the graphics-dispatch thread (§4.1, §4.7) may call it.
type Renderer interface {
	Init() error
	Clear(r, g, b, a float32)
	Enable(attr Attr, enabled bool)
	Viewport(width, height int)
	Scissor(x, y, width, height int)

	BindMesh(data VertexData) (VertexArray, error)
	ReleaseMesh(v VertexArray)

	BindProgram(vertSrc, fragSrc string, uniforms []string) (Program, map[string]UniformLoc, error)
	ReleaseProgram(p Program)

	BindTexture(kind TextureKind, width, height int, mipLevels int, pixels []byte) (Texture, error)
	ReleaseTexture(t Texture)

	// NewFramebuffer allocates a color+depth render target of the given
	// size and format, used both for camera render-to-texture and for
	// shadow maps (depth only when depthOnly is true).
	NewFramebuffer(width, height int, colorFormat int, depthOnly bool) (Framebuffer, Texture, error)
	ReleaseFramebuffer(f Framebuffer)

	// BindFramebuffer routes subsequent draws to f (zero is the window),
	// issued by dispatch on every BeginPass/BindTarget command.
	BindFramebuffer(f Framebuffer)

	// UseProgram selects the shader program subsequent draws run under,
	// issued by dispatch on a BindShader command.
	UseProgram(p Program)

	// BindTextureUnit binds t to the given sampler unit, issued by
	// dispatch on a BindTextureCmd command.
	BindTextureUnit(unit int, t Texture)

	// SetUniform uploads values to a resolved uniform location in the
	// currently bound program, issued by dispatch on a SetUniformCmd
	// command.
	SetUniform(loc UniformLoc, values []float32)

	SetDepth(test bool, write bool)
	SetBlend(mode BlendMode)
	DebugLabel(name string)

	DrawInstanced(v VertexArray, mode DrawMode, instances int)

	// Finish blocks until all submitted GPU work completes. Used to bound
	// latency once per dispatched frame (§4.7 step 6).
	Finish()
}
