package energy

import (
	"math"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/common"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/filters"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
)

// EventDetector finds the two structural events that dominate how a track
// feels: buildups (sustained tension ramps) and drops (sudden percussive
// releases that follow a buildup). Both produce intensity streams on the
// native frame grid that are mixed into the composite energy signal.
type EventDetector struct {
	cfg    *PipelineConfig
	logger logging.Logger
}

// NewEventDetector creates a detector with the given pipeline constants
func NewEventDetector(cfg *PipelineConfig) *EventDetector {
	return &EventDetector{
		cfg:    cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// DetectBuildups scans the spectral trend with a sliding window and marks
// regions where the spectrum rises persistently. A window qualifies when
// most of its samples are positive, its mean change is material, and a
// linear fit over it slopes upward. Qualifying windows are painted with a
// rising ramp; later windows overwrite earlier ones so overlapping ramps
// restart rather than stack.
func (d *EventDetector) DetectBuildups(trend []float64, frameRate float64) ([]float64, []BuildupWindow) {
	n := len(trend)
	intensity := make([]float64, n)

	window := int(d.cfg.BuildupWindowSeconds * frameRate)
	if window < 2 || n <= window {
		return intensity, nil
	}

	ramp := make([]float64, window)
	span := d.cfg.BuildupRampHigh - d.cfg.BuildupRampLow
	for i := range ramp {
		frac := float64(i) / float64(window-1)
		ramp[i] = (d.cfg.BuildupRampLow + span*frac) * d.cfg.BuildupRampScale
	}

	var windows []BuildupWindow
	for start := 0; start < n-window; start++ {
		seg := trend[start : start+window]

		positive := 0
		for _, v := range seg {
			if v > 0 {
				positive++
			}
		}
		if float64(positive) < d.cfg.BuildupPositiveRatio*float64(window) {
			continue
		}
		if common.Mean(seg) <= d.cfg.BuildupMeanThreshold {
			continue
		}
		if common.LinRegressionSlope(seg) <= 0 {
			continue
		}

		copy(intensity[start:start+window], ramp)
		windows = append(windows, BuildupWindow{
			StartFrame: start,
			EndFrame:   start + window,
			StartTime:  float64(start) / frameRate,
			EndTime:    float64(start+window) / frameRate,
		})
	}

	intensity = filters.Gaussian(intensity, d.cfg.BuildupSmoothSigma)

	d.logger.Debug("buildup detection complete", logging.Fields{
		"windows": len(windows),
		"frames":  n,
	})
	return intensity, windows
}

// DetectDrops looks for frames where percussive energy jumps into its top
// percentile right after a period of rising tension. Each accepted drop is
// painted with a sustained high-energy curve carrying a tempo-locked
// oscillation that decays over the drop, so the curve pulses with the beat
// instead of sitting flat.
//
// Returns the drop intensity stream and the accepted drop times in seconds.
// Drops closer than the minimum spacing to a previous drop are rejected, as
// are drops too near the start or end of the track.
func (d *EventDetector) DetectDrops(percussive, buildup []float64, tempo, frameRate float64) ([]float64, []float64) {
	n := len(percussive)
	intensity := make([]float64, n)
	if n == 0 {
		return intensity, nil
	}

	jump := common.Diff(percussive)
	threshold := common.Percentile(jump, d.cfg.DropPercentile)

	minBuildupFrames := int(d.cfg.MinBuildupSeconds * frameRate)
	minSpacing := int(d.cfg.MinDropSpacingSeconds * frameRate)

	// Oscillation period in output frames: half a beat, floored so very
	// fast tempos do not degenerate into noise.
	beatPeriod := math.Max(8, math.Floor(60.0/tempo*float64(d.cfg.TargetFPS)/2.0))

	var dropTimes []float64
	lastDrop := -minSpacing

	for i := minBuildupFrames + 1; i < n; i++ {
		if jump[i] <= threshold {
			continue
		}
		if i-lastDrop < minSpacing {
			continue
		}
		if i+d.cfg.DropGuardFrames >= n {
			break
		}

		// Require preceding tension: the jump only reads as a drop when
		// the music was building into it.
		pre := buildup[i-minBuildupFrames : i]
		if common.Mean(pre) <= d.cfg.DropBuildupThreshold {
			continue
		}

		length := d.cfg.DropMaxLength
		if i+length > n {
			length = n - i
		}
		copy(intensity[i:i+length], d.dropCurve(length, beatPeriod))

		lastDrop = i
		dropTimes = append(dropTimes, float64(i)/frameRate)
	}

	intensity = filters.Gaussian(intensity, d.cfg.DropStreamSigma)

	d.logger.Debug("drop detection complete", logging.Fields{
		"drops":     len(dropTimes),
		"threshold": threshold,
		"tempo":     tempo,
	})
	return intensity, dropTimes
}

// dropCurve builds one drop's intensity envelope: a high plateau shaped as
// a half sine, plus a beat-rate oscillation that fades out exponentially
func (d *EventDetector) dropCurve(length int, beatPeriod float64) []float64 {
	curve := make([]float64, length)
	if length == 0 {
		return curve
	}

	for i := range curve {
		frac := float64(i) / float64(max(length-1, 1))
		curve[i] = 0.8 + 0.2*math.Sin(frac*math.Pi)

		phase := frac * float64(length) / beatPeriod * math.Pi
		decay := math.Exp(-2.0 * frac)
		curve[i] += 0.2 * math.Sin(phase) * decay
	}

	return filters.Gaussian(curve, d.cfg.DropCurveSigma)
}
