// Package scoring implements the conviction scorer: deterministic,
// side-effect-free classification of a SignalInput into a
// ConvictionScore. No I/O, no clock reads — every decision is a pure
// function of its arguments, so the orchestrator can call it
// concurrently for many candidates without synchronization.
package scoring

import "github.com/rawblock/boar-agent/pkg/models"

// DetectPlayType picks the weight profile and auto-execute threshold
// a candidate is scored under. A launch carrying any non-default pulse
// signal with zero whale activity reads as a fresh graduation play;
// everything else is scored as accumulation.
func DetectPlayType(input models.SignalInput) models.PlayType {
	if input.Pulse.IsNonDefault() && input.WhaleCount == 0 {
		return models.PlayGraduation
	}
	return models.PlayAccumulation
}
