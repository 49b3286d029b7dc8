// Copyright © 2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package config implements the engine's string-keyed environment/config
// settings (§6 "String-keyed configuration with typed getters"): keys like
// cage/graphics/gamma are read from an optional yaml file and overridden
// by CAGE_* environment variables, so ops can tune a running build without
// a rebuild.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Known keys the core itself consumes (§6). Applications may read and set
// additional keys of their own; the Config type doesn't restrict the set.
const (
	KeyRenderMissingModels     = "cage/graphics/renderMissingModels"
	KeyRenderSkeletonBones     = "cage/graphics/renderSkeletonBones"
	KeyVisualizeBuffer         = "cage/graphics/visualizeBuffer"
	KeyGamma                   = "cage/graphics/gamma"
	KeyDisableAmbientOcclusion = "cage/graphics/disableAmbientOcclusion"
	KeyDisableBloom            = "cage/graphics/disableBloom"
	KeyAssetsListen            = "cage/assets/listen"
)

// defaults provides reasonable settings so the engine runs sanely even
// with no yaml file and no environment overrides present.
var defaults = map[string]string{
	KeyRenderMissingModels:     "false",
	KeyRenderSkeletonBones:     "false",
	KeyVisualizeBuffer:         "",
	KeyGamma:                   "2.2",
	KeyDisableAmbientOcclusion: "false",
	KeyDisableBloom:            "false",
	KeyAssetsListen:            "",
}

// envPrefix is prepended, with slashes translated to underscores and the
// whole thing uppercased, to derive a key's environment variable name:
// "cage/graphics/gamma" -> "CAGE_GRAPHICS_GAMMA".
const envPrefix = "CAGE_"

// Config is a flat string-keyed settings table, loaded once at app-init
// and read by every subsystem that needs a tunable (§6).
type Config struct {
	values map[string]string
}

// New returns a Config seeded with the core's defaults.
func New() *Config {
	c := &Config{values: map[string]string{}}
	for k, v := range defaults {
		c.values[k] = v
	}
	c.applyEnv()
	return c
}

// Load reads key/value pairs from yaml document data, overwriting any
// defaults or previously loaded values, then re-applies environment
// overrides so the environment always wins regardless of load order.
func (c *Config) Load(data []byte) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: yaml %w", err)
	}
	flatten("", raw, c.values)
	c.applyEnv()
	return nil
}

// flatten walks a nested yaml document (graphics: {gamma: 2.2}) into the
// engine's flat slash-separated key namespace (graphics/gamma).
func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "/" + k
		}
		switch vv := v.(type) {
		case map[string]interface{}:
			flatten(key, vv, out)
		default:
			out[key] = fmt.Sprintf("%v", vv)
		}
	}
}

// applyEnv overlays CAGE_* environment variables onto the loaded values,
// giving operators a way to override a setting without touching the yaml
// file (§6).
func (c *Config) applyEnv() {
	for key := range c.values {
		env := envPrefix + strings.ToUpper(strings.ReplaceAll(strings.TrimPrefix(key, "cage/"), "/", "_"))
		if v, ok := os.LookupEnv(env); ok {
			c.values[key] = v
		}
	}
}

// Set overrides a single key's value, used by applications wiring their
// own settings or tests constructing a fixed Config.
func (c *Config) Set(key, value string) { c.values[key] = value }

// String returns key's raw string value, or "" if unset.
func (c *Config) String(key string) string { return c.values[key] }

// Bool parses key as a boolean, defaulting to false on a missing or
// unparseable value.
func (c *Config) Bool(key string) bool {
	b, _ := strconv.ParseBool(c.values[key])
	return b
}

// Float parses key as a float64, defaulting to 0 on a missing or
// unparseable value.
func (c *Config) Float(key string) float64 {
	f, _ := strconv.ParseFloat(c.values[key], 64)
	return f
}

// Int parses key as an int, defaulting to 0 on a missing or unparseable
// value.
func (c *Config) Int(key string) int {
	i, _ := strconv.Atoi(c.values[key])
	return i
}
