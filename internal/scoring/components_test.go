package scoring

import (
	"testing"

	"github.com/rawblock/boar-agent/pkg/models"
)

func TestNarrativeAgeDecay(t *testing.T) {
	cases := []struct {
		ageMinutes float64
		want       float64
	}{
		{0, 1.0},
		{30, 1.0},
		{45, 0.5},
		{60, 0.0},
		{90, 0.0},
	}
	for _, tc := range cases {
		if got := narrativeAgeDecay(tc.ageMinutes); got != tc.want {
			t.Errorf("narrativeAgeDecay(%v) = %v, want %v", tc.ageMinutes, got, tc.want)
		}
	}
}

func TestNarrativeVolumeTier(t *testing.T) {
	cases := []struct {
		multiple float64
		want     int
	}{
		{1.5, 0},
		{2, 5},
		{3, 10},
		{5, 15},
		{10, 20},
		{20, 25},
		{100, 25},
	}
	for _, tc := range cases {
		if got := narrativeVolumeTier(tc.multiple); got != tc.want {
			t.Errorf("narrativeVolumeTier(%v) = %d, want %d", tc.multiple, got, tc.want)
		}
	}
}

func TestEdgeBankScore(t *testing.T) {
	max := 20
	cases := []struct {
		match float64
		want  int
	}{
		{0.5, 0},
		{0.69, 0},
		{0.70, 10},
		{0.85, 15},
		{1.0, 20},
	}
	for _, tc := range cases {
		in := models.SignalInput{AutopsyMatchPct: tc.match}
		got := edgeBankScore(in, max)
		if got != tc.want {
			t.Errorf("edgeBankScore(%v) = %d, want %d", tc.match, got, tc.want)
		}
	}
}

func TestOrganicRatioTier(t *testing.T) {
	cases := []struct {
		ratio float64
		want  int
	}{
		{0.1, 0},
		{0.3, 5},
		{0.5, 10},
		{0.7, 15},
		{0.95, 15},
	}
	for _, tc := range cases {
		if got := organicRatioTier(tc.ratio); got != tc.want {
			t.Errorf("organicRatioTier(%v) = %d, want %d", tc.ratio, got, tc.want)
		}
	}
}
