// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

import (
	"os"
	"testing"
)

func TestDefaultsApplyWithNoLoad(t *testing.T) {
	c := New()
	if c.Bool(KeyRenderMissingModels) {
		t.Error("expected renderMissingModels default false")
	}
	if c.Float(KeyGamma) != 2.2 {
		t.Errorf("expected default gamma 2.2, got %v", c.Float(KeyGamma))
	}
}

func TestLoadOverlaysNestedYaml(t *testing.T) {
	c := New()
	yaml := []byte("cage:\n  graphics:\n    gamma: 1.8\n    disableBloom: true\n")
	if err := c.Load(yaml); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Float(KeyGamma) != 1.8 {
		t.Errorf("expected loaded gamma 1.8, got %v", c.Float(KeyGamma))
	}
	if !c.Bool(KeyDisableBloom) {
		t.Error("expected disableBloom true after load")
	}
}

func TestEnvironmentOverridesLoadedValue(t *testing.T) {
	os.Setenv("CAGE_GRAPHICS_GAMMA", "1.0")
	defer os.Unsetenv("CAGE_GRAPHICS_GAMMA")

	c := New()
	yaml := []byte("cage:\n  graphics:\n    gamma: 1.8\n")
	if err := c.Load(yaml); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Float(KeyGamma) != 1.0 {
		t.Errorf("expected environment override to win, got %v", c.Float(KeyGamma))
	}
}
