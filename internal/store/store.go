// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package store

import (
	"fmt"
	"log/slog"
)

// Store is the structure-of-arrays entity/component database (§3). Every
// component table is keyed by the entity's index (EID.Index()); a zero
// value in a table for an entity that does not carry that component is
// never read because presence is tracked separately by the has-sets.
//
// Only the control thread may call the mutating methods below. Everything
// else (graphics-emit, sound-emit) reads through a read-only view taken
// while holding no lock beyond the caller's own snapshot discipline — the
// store itself is not safe for concurrent mutation and read.
type Store struct {
	ids eids

	transform     []Transform
	transformPrev []Transform // "history" table, §3.
	hasHistory    []bool

	render       map[uint32]Render
	textureAnim  map[uint32]TextureAnim
	skeletalAnim map[uint32]SkeletalAnim
	light        map[uint32]Light
	shadowmap    map[uint32]Shadowmap
	camera       map[uint32]Camera
	voice        map[uint32]Voice
	listener     map[uint32]Listener
	text         map[uint32]Text
}

// New returns an empty entity store.
func New() *Store {
	return &Store{
		render:       map[uint32]Render{},
		textureAnim:  map[uint32]TextureAnim{},
		skeletalAnim: map[uint32]SkeletalAnim{},
		light:        map[uint32]Light{},
		shadowmap:    map[uint32]Shadowmap{},
		camera:       map[uint32]Camera{},
		voice:        map[uint32]Voice{},
		listener:     map[uint32]Listener{},
		text:         map[uint32]Text{},
	}
}

// Create allocates a fresh entity with a default transform at the origin
// with unit scale.
func (s *Store) Create() EID {
	e := s.ids.create()
	idx := e.Index()
	for uint32(len(s.transform)) <= idx {
		s.transform = append(s.transform, Transform{Scale: 1})
		s.transformPrev = append(s.transformPrev, Transform{Scale: 1})
		s.hasHistory = append(s.hasHistory, false)
	}
	s.transform[idx] = Transform{Scale: 1}
	return e
}

// Valid reports whether e refers to a live entity.
func (s *Store) Valid(e EID) bool { return s.ids.valid(e) }

// Dispose removes an entity and all of its components.
func (s *Store) Dispose(e EID) {
	if !s.ids.valid(e) {
		return
	}
	idx := e.Index()
	delete(s.render, idx)
	delete(s.textureAnim, idx)
	delete(s.skeletalAnim, idx)
	delete(s.light, idx)
	delete(s.shadowmap, idx)
	delete(s.camera, idx)
	delete(s.voice, idx)
	delete(s.listener, idx)
	delete(s.text, idx)
	s.hasHistory[idx] = false
	s.ids.dispose(e)
}

// SetTransform writes the entity's current transform, pushing the
// previous current value into the history table (§3: "two parallel
// component tables ... enabling pose interpolation between the two most
// recent control ticks").
func (s *Store) SetTransform(e EID, t Transform) error {
	if !s.ids.valid(e) {
		return fmt.Errorf("store: set transform: %w", ErrInvalidEntity)
	}
	idx := e.Index()
	s.transformPrev[idx] = s.transform[idx]
	s.transform[idx] = t
	s.hasHistory[idx] = true
	return nil
}

// Transform returns the current and history transform for e. If no
// history has been recorded yet, history equals current (§3 invariant:
// "Transform history is only read if it exists; otherwise current equals
// history").
func (s *Store) Transform(e EID) (current, history Transform, ok bool) {
	if !s.ids.valid(e) {
		return Transform{}, Transform{}, false
	}
	idx := e.Index()
	current = s.transform[idx]
	if s.hasHistory[idx] {
		history = s.transformPrev[idx]
	} else {
		history = current
	}
	return current, history, true
}

// ErrInvalidEntity is returned whenever a component setter is given a
// disposed or never-created entity id.
var ErrInvalidEntity = fmt.Errorf("entity is not valid")

// errComponentConflict is returned when SetRender or SetText would give
// one entity both components, which §3's data model disallows (Open
// Question 3: rejected with a logged error, entity keeps its prior
// component).
var errComponentConflict = fmt.Errorf("entity already carries a conflicting component")

// SetRender attaches or replaces an entity's Render component. Rejected
// if the entity already carries a Text component — a Model/RenderObject
// and Text component are mutually exclusive on one entity.
func (s *Store) SetRender(e EID, r Render) error {
	if !s.ids.valid(e) {
		return fmt.Errorf("store: set render: %w", ErrInvalidEntity)
	}
	idx := e.Index()
	if _, isText := s.text[idx]; isText {
		slog.Error("entity already has a text component, refusing render component", "entity", e)
		return fmt.Errorf("store: set render on entity %d: %w", e, errComponentConflict)
	}
	s.render[idx] = r
	return nil
}

// SetText attaches or replaces an entity's Text component. Rejected if
// the entity already carries a Render component (§3 data model; Open
// Question 3).
func (s *Store) SetText(e EID, t Text) error {
	if !s.ids.valid(e) {
		return fmt.Errorf("store: set text: %w", ErrInvalidEntity)
	}
	idx := e.Index()
	if _, isRender := s.render[idx]; isRender {
		slog.Error("entity already has a render component, refusing text component", "entity", e)
		return fmt.Errorf("store: set text on entity %d: %w", e, errComponentConflict)
	}
	s.text[idx] = t
	return nil
}

func (s *Store) Render(e EID) (Render, bool) { r, ok := s.render[e.Index()]; return r, ok }
func (s *Store) Text(e EID) (Text, bool)     { t, ok := s.text[e.Index()]; return t, ok }

func (s *Store) SetTextureAnim(e EID, a TextureAnim) error {
	if !s.ids.valid(e) {
		return fmt.Errorf("store: set texture anim: %w", ErrInvalidEntity)
	}
	s.textureAnim[e.Index()] = a
	return nil
}
func (s *Store) TextureAnim(e EID) (TextureAnim, bool) {
	a, ok := s.textureAnim[e.Index()]
	return a, ok
}

func (s *Store) SetSkeletalAnim(e EID, a SkeletalAnim) error {
	if !s.ids.valid(e) {
		return fmt.Errorf("store: set skeletal anim: %w", ErrInvalidEntity)
	}
	s.skeletalAnim[e.Index()] = a
	return nil
}
func (s *Store) SkeletalAnim(e EID) (SkeletalAnim, bool) {
	a, ok := s.skeletalAnim[e.Index()]
	return a, ok
}

func (s *Store) SetLight(e EID, l Light) error {
	if !s.ids.valid(e) {
		return fmt.Errorf("store: set light: %w", ErrInvalidEntity)
	}
	s.light[e.Index()] = l
	return nil
}
func (s *Store) Light(e EID) (Light, bool) { l, ok := s.light[e.Index()]; return l, ok }

func (s *Store) SetShadowmap(e EID, sm Shadowmap) error {
	if !s.ids.valid(e) {
		return fmt.Errorf("store: set shadowmap: %w", ErrInvalidEntity)
	}
	for i := 1; i < len(sm.CascadeSplits); i++ {
		if sm.CascadeSplits[i] < sm.CascadeSplits[i-1] {
			return fmt.Errorf("store: set shadowmap on entity %d: cascade splits must be non-decreasing", e)
		}
	}
	s.shadowmap[e.Index()] = sm
	return nil
}
func (s *Store) Shadowmap(e EID) (Shadowmap, bool) { sm, ok := s.shadowmap[e.Index()]; return sm, ok }

func (s *Store) SetCamera(e EID, c Camera) error {
	if !s.ids.valid(e) {
		return fmt.Errorf("store: set camera: %w", ErrInvalidEntity)
	}
	s.camera[e.Index()] = c
	return nil
}
func (s *Store) Camera(e EID) (Camera, bool) { c, ok := s.camera[e.Index()]; return c, ok }

func (s *Store) SetVoice(e EID, v Voice) error {
	if !s.ids.valid(e) {
		return fmt.Errorf("store: set voice: %w", ErrInvalidEntity)
	}
	s.voice[e.Index()] = v
	return nil
}
func (s *Store) Voice(e EID) (Voice, bool) { v, ok := s.voice[e.Index()]; return v, ok }

func (s *Store) SetListener(e EID, l Listener) error {
	if !s.ids.valid(e) {
		return fmt.Errorf("store: set listener: %w", ErrInvalidEntity)
	}
	s.listener[e.Index()] = l
	return nil
}
func (s *Store) Listener(e EID) (Listener, bool) { l, ok := s.listener[e.Index()]; return l, ok }

// Cameras returns the ids of every entity currently carrying a Camera
// component; order is unspecified. Emit (§4.5) walks this once per tick.
func (s *Store) Cameras() []EID { return withComponent(s, s.camera) }

// Lights returns the ids of every entity currently carrying a Light
// component.
func (s *Store) Lights() []EID { return withComponent(s, s.light) }

// Renderables returns the ids of every entity currently carrying a Render
// component.
func (s *Store) Renderables() []EID { return withComponent(s, s.render) }

// Texts returns the ids of every entity currently carrying a Text
// component.
func (s *Store) Texts() []EID { return withComponent(s, s.text) }

// Voices returns the ids of every entity currently carrying a Voice
// component.
func (s *Store) Voices() []EID { return withComponent(s, s.voice) }

// Listeners returns the ids of every entity currently carrying a
// Listener component.
func (s *Store) Listeners() []EID { return withComponent(s, s.listener) }

// withComponent lists the entities present in a component map, keyed by
// bare index, as full reconstituted EIDs.
func withComponent[T any](s *Store, m map[uint32]T) []EID {
	out := make([]EID, 0, len(m))
	for idx := range m {
		out = append(out, s.reconstitute(idx))
	}
	return out
}

// reconstitute rebuilds a full EID (index+edition) from a bare index,
// since component maps are keyed by index alone.
func (s *Store) reconstitute(idx uint32) EID {
	return EID(idx | uint32(s.ids.editions[idx])<<idBits)
}
