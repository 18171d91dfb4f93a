// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	mutate := func(f func(*Config)) *Config {
		c := DefaultConfig()
		f(c)
		return c
	}

	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"zero candidate_k", mutate(func(c *Config) { c.Limits.CandidateK = 0 }), true},
		{"negative spots_k", mutate(func(c *Config) { c.Limits.SpotsK = -1 }), true},
		{"zero hotels_k", mutate(func(c *Config) { c.Limits.HotelsK = 0 }), true},
		{"zero proximity timeout", mutate(func(c *Config) { c.Limits.ProximityTimeout = 0 }), true},
		{"bad weights", mutate(func(c *Config) { c.Weights.Content = 0.9 }), true},
		{"custom valid", mutate(func(c *Config) {
			c.Weights = Weights{Content: 0.6, Graph: 0.4}
			c.Limits.ProximityTimeout = 500 * time.Millisecond
		}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	if l.CandidateK != 50 {
		t.Errorf("CandidateK = %d, want 50", l.CandidateK)
	}
	if l.SpotsK != 10 || l.HotelsK != 5 || l.FoodK != 10 || l.EventsK != 5 {
		t.Errorf("list limits = %d/%d/%d/%d, want 10/5/10/5",
			l.SpotsK, l.HotelsK, l.FoodK, l.EventsK)
	}
}
