// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package game

import (
	"context"
	"time"
)

// UpdateWorldTime advances the shared clock and derives the part of day.
func UpdateWorldTime(_ context.Context, w *World) {
	w.Time.Time = time.Now()
	w.Time.Part = partOfDay(w.Time.Time.Hour())
}

func partOfDay(hour int) WorldTimePart {
	switch {
	case hour == 5:
		return Dawn
	case hour >= 6 && hour <= 19:
		return Day
	case hour == 20:
		return Dusk
	default:
		return Night
	}
}
