// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package cage provides a real-time 3D rendering and positional sound
// engine core. It runs four long-running threads — control,
// graphics-prepare, graphics-dispatch, and sound — coordinated through a
// shared phased lifecycle (engine-init, app-init, gameloop, app-finalize,
// engine-finalize). Applications interact with the running engine
// entirely through the Director callback and the Entity handle API; the
// engine owns everything else, including when and on which thread GPU
// and audio calls happen.
//
// Package cage is provided as part of the cage 3D engine.
package cage

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/galvanized/cage/assets"
	"github.com/galvanized/cage/audio"
	"github.com/galvanized/cage/config"
	"github.com/galvanized/cage/device"
	"github.com/galvanized/cage/internal/anim"
	"github.com/galvanized/cage/internal/graphics"
	"github.com/galvanized/cage/internal/sched"
	"github.com/galvanized/cage/internal/sound"
	"github.com/galvanized/cage/internal/store"
	"github.com/galvanized/cage/internal/swap"
	"github.com/galvanized/cage/internal/timing"
	"github.com/galvanized/cage/render"
)

// Director is the application callback invoked once per control tick.
// Applications register theirs with SetDirector before calling Action.
type Director interface {
	// Update is called at the control update task's rate (default 20Hz,
	// 90Hz for stereo/VR output, §4.1) to let the application change
	// entity state before the next emit.
	Update(eng *Engine, dt float64)
}

// Engine owns the four gameloop threads and every subsystem they share:
// the entity store, the asset manager, the window and GPU/audio devices,
// and the swap buffers that hand emitted snapshots from control to the
// prepare threads.
type Engine struct {
	cfg   *config.Config
	store *store.Store
	mgr   *assets.Manager

	window device.Window
	gpu    render.Renderer
	spkr   audio.Speaker

	lc *sched.Lifecycle

	graphicsBuf *swap.Controller[graphics.Snapshot]
	soundBuf    *swap.Controller[sound.Snapshot]

	resolver graphics.Resolver
	source   sound.SoundSource

	director Director
	updateHz float64
	inputHz  float64

	pendingQueue  atomic.Value // holds *render.Queue, handed off prepare->dispatch.
	pendingEvents atomic.Value // holds []device.Event, polled by the input task, drained by Events.

	stopping atomic.Bool
}

// New constructs an Engine. window, gpu, and spkr are the platform
// backends the application links in (see the device, render, and audio
// packages); resolver and source back graphics-prepare's model lookups
// and sound-mix's PCM lookups respectively and are normally
// *assets.ModelResolver / *assets.SoundResolver sharing the same mgr.
func New(cfg *config.Config, mgr *assets.Manager, window device.Window, gpu render.Renderer, spkr audio.Speaker, resolver graphics.Resolver, source sound.SoundSource) *Engine {
	soundBuf := swap.New[sound.Snapshot]()
	// Audio must keep playing the last mixed snapshot through a stalled
	// emit rather than drop the tick, so the sound thread repeats reads.
	soundBuf.ReadRepeat = true

	return &Engine{
		cfg:         cfg,
		store:       store.New(),
		mgr:         mgr,
		window:      window,
		gpu:         gpu,
		spkr:        spkr,
		lc:          sched.NewLifecycle(),
		graphicsBuf: swap.New[graphics.Snapshot](),
		soundBuf:    soundBuf,
		resolver:    resolver,
		source:      source,
		updateHz:    20,
		inputHz:     60,
	}
}

// Events drains and returns every window/input event polled since the last
// call. Intended to be read from Director.Update (§4.1's input task feeds
// the update task's next tick, never the other way around).
func (e *Engine) Events() []device.Event {
	v := e.pendingEvents.Swap([]device.Event(nil))
	if v == nil {
		return nil
	}
	return v.([]device.Event)
}

// Store exposes the entity/component database to the Entity handle API
// in this package; only the control thread (inside Director.Update) may
// call its mutating methods (§4.1).
func (e *Engine) Store() *store.Store { return e.store }

// Config returns the engine's string-keyed settings table (§6).
func (e *Engine) Config() *config.Config { return e.cfg }

// Assets returns the shared asset manager.
func (e *Engine) Assets() *assets.Manager { return e.mgr }

// Profiles returns the smoothed per-stage timing samples the four
// gameloop threads record every tick (control, graphics-prepare,
// graphics-dispatch, sound). Read-only; safe to call from any thread.
func (e *Engine) Profiles() *sched.Profiles { return &e.lc.Profiles }

// SetDirector registers the application's per-tick callback.
func (e *Engine) SetDirector(d Director) { e.director = d }

// SetStereoOutput switches the control update task's rate between the
// default 20Hz and the 90Hz used for stereo/VR output (§4.1).
func (e *Engine) SetStereoOutput(stereo bool) {
	if stereo {
		e.updateHz = 90
		e.inputHz = 90
	} else {
		e.updateHz = 20
		e.inputHz = 60
	}
}

// Action starts the four gameloop threads and blocks until Shutdown is
// called or every thread reaches engine-finalize. Call once.
func (e *Engine) Action() error {
	e.window.Open()
	if err := e.gpu.Init(); err != nil {
		return err
	}

	bus := sound.NewBus()
	if e.spkr != nil {
		if err := sound.Open(e.spkr, audio.DefaultFormat, bus); err != nil {
			slog.Error("cage: speaker init failed, continuing muted", "error", err)
			e.spkr = &audio.NoAudio{}
		}
	}

	done := make(chan struct{}, 4)
	go e.runControl(done)
	go e.runGraphicsPrepare(done)
	go e.runGraphicsDispatch(done)
	go e.runSound(bus, done)

	for i := 0; i < 4; i++ {
		<-done
	}
	return nil
}

// Shutdown requests every gameloop thread stop at its next task boundary
// (§4.1 "engineStop") and blocks until they finish app-finalize and
// engine-finalize.
func (e *Engine) Shutdown() {
	e.stopping.Store(true)
	e.lc.Stop()
	e.mgr.Drain()
	e.gpu.Finish()
	e.window.Dispose()
	if e.spkr != nil {
		e.spkr.Dispose()
	}
}

func (e *Engine) runControl(done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	e.lc.EnterPhase(sched.EngineInit)
	e.lc.EnterPhase(sched.AppInit)
	e.lc.EnterPhase(sched.Gameloop)

	update := sched.NewPeriodic(e.updateHz, func(tick uint64, now time.Time) {
		defer e.lc.Guard("control-update")
		start := time.Now()
		if e.director != nil {
			e.director.Update(e, 1/e.updateHz)
		}
		e.lc.Profiles.ControlTick.Add(int64(time.Since(start)))
		t := float64(now.UnixNano()) / 1e9
		emitStart := time.Now()
		e.emitGraphics(t)
		e.emitSound(t)
		e.lc.Profiles.ControlEmit.Add(int64(time.Since(emitStart)))
	})

	input := sched.NewPeriodic(e.inputHz, func(tick uint64, now time.Time) {
		defer e.lc.Guard("control-input")
		e.pollInput()
	})

	stopFlag := &atomic.Bool{}
	inputStopFlag := &atomic.Bool{}
	go func() {
		for !e.lc.Stopping() {
			time.Sleep(time.Millisecond)
		}
		stopFlag.Store(true)
		inputStopFlag.Store(true)
		update.Stop()
		input.Stop()
	}()
	go input.Run(inputStopFlag)
	update.Run(stopFlag)

	e.lc.EnterPhase(sched.AppFinalize)
	e.lc.EnterPhase(sched.EngineFinalize)
}

// pollInput drains the window's OS event queue and merges the result into
// the pending batch the update task's next Director.Update call will see
// through Events. Free-running (§4.1 input task); never blocks on the
// update task.
func (e *Engine) pollInput() {
	events := e.window.Poll()
	if len(events) == 0 {
		return
	}
	for {
		old := e.pendingEvents.Load()
		var merged []device.Event
		if old != nil {
			merged = append(merged, old.([]device.Event)...)
		}
		merged = append(merged, events...)
		if old == nil {
			if e.pendingEvents.CompareAndSwap(nil, merged) {
				return
			}
		} else {
			if e.pendingEvents.CompareAndSwap(old, merged) {
				return
			}
		}
	}
}

func (e *Engine) emitGraphics(now float64) {
	snap := graphics.Emit(e.store, now)
	slot, ok := e.graphicsBuf.TryWrite()
	if !ok {
		slog.Debug("cage: dropped graphics emit tick, no free write slot")
		return
	}
	*slot.Value() = *snap
	slot.Release()
}

func (e *Engine) emitSound(now float64) {
	snap := sound.Emit(e.store, now)
	slot, ok := e.soundBuf.TryWrite()
	if !ok {
		slog.Debug("cage: dropped sound emit tick, no free write slot")
		return
	}
	*slot.Value() = *snap
	slot.Release()
}

func (e *Engine) runGraphicsPrepare(done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	e.lc.EnterPhase(sched.EngineInit)
	e.lc.EnterPhase(sched.AppInit)
	e.lc.EnterPhase(sched.Gameloop)

	corr := timing.New()
	cache := anim.NewCache()
	var queue render.Queue

	for !e.lc.Stopping() {
		waitStart := time.Now()
		e.lc.PingPong.PrepareWait()
		e.lc.Profiles.GraphicsPrepareWait.Add(int64(time.Since(waitStart)))
		tickStart := time.Now()
		func() {
			defer e.lc.Guard("graphics-prepare")
			slot, ok := e.graphicsBuf.TryRead()
			if !ok {
				return
			}
			snap := slot.Value()
			defer slot.Release()
			now := float64(time.Now().UnixNano()) / 1e9
			queue = graphics.Prepare(snap, e.resolver, cache, corr, 1/e.updateHz, now)
		}()
		e.lc.Profiles.GraphicsPrepareTick.Add(int64(time.Since(tickStart)))
		e.pendingQueue.Store(&queue)
		e.lc.PingPong.PrepareDone()
	}

	e.lc.EnterPhase(sched.AppFinalize)
	e.lc.EnterPhase(sched.EngineFinalize)
}

func (e *Engine) runGraphicsDispatch(done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	e.lc.EnterPhase(sched.EngineInit)
	e.lc.EnterPhase(sched.AppInit)
	e.lc.EnterPhase(sched.Gameloop)

	cache := graphics.NewTransientCache(e.gpu)
	for !e.lc.Stopping() {
		waitStart := time.Now()
		e.lc.PingPong.DispatchWait()
		e.lc.Profiles.GraphicsDispatchWait.Add(int64(time.Since(waitStart)))
		tickStart := time.Now()
		func() {
			defer e.lc.Guard("graphics-dispatch")
			qp := e.pendingQueue.Load()
			if qp == nil {
				return
			}
			q := *qp.(*render.Queue)
			draws := 0
			for _, cmd := range q {
				if cmd.Kind == render.Draw {
					draws++
				}
			}
			e.lc.Profiles.GraphicsDrawCalls.Add(int64(draws))
			swap := func() {
				swapStart := time.Now()
				e.window.SwapBuffers()
				e.lc.Profiles.GraphicsDispatchSwap.Add(int64(time.Since(swapStart)))
			}
			if err := graphics.Dispatch(e.gpu, q, nil, cache, swap, nil); err != nil {
				slog.Error("cage: graphics dispatch failed", "error", err)
			}
		}()
		e.lc.Profiles.GraphicsDispatchTick.Add(int64(time.Since(tickStart)))
		e.lc.PingPong.DispatchDone()
	}

	e.lc.EnterPhase(sched.AppFinalize)
	e.lc.EnterPhase(sched.EngineFinalize)
}

func (e *Engine) runSound(bus *sound.Bus, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	e.lc.EnterPhase(sched.EngineInit)
	e.lc.EnterPhase(sched.AppInit)
	e.lc.EnterPhase(sched.Gameloop)

	const soundHz = 40
	corr := timing.New()
	prep := sound.NewPrepare()

	task := sched.NewPeriodic(soundHz, func(tick uint64, now time.Time) {
		defer e.lc.Guard("sound")
		tickStart := time.Now()
		slot, ok := e.soundBuf.TryRead()
		if !ok {
			return
		}
		snap := slot.Value()
		defer slot.Release()
		t := float64(now.UnixNano()) / 1e9
		listeners := prep.Update(snap, corr, 1/e.updateHz, t)
		frameCount := int(float64(audio.DefaultFormat.SampleRate) / soundHz)
		sound.MixFrame(listeners, e.source, audio.DefaultFormat, frameCount, bus)
		e.lc.Profiles.SoundTick.Add(int64(time.Since(tickStart)))
	})

	stopFlag := &atomic.Bool{}
	go func() {
		for !e.lc.Stopping() {
			time.Sleep(time.Millisecond)
		}
		stopFlag.Store(true)
		task.Stop()
	}()
	task.Run(stopFlag)

	e.lc.EnterPhase(sched.AppFinalize)
	e.lc.EnterPhase(sched.EngineFinalize)
}
