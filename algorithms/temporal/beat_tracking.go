package temporal

// BeatTracker places beat positions on an onset strength envelope given an
// estimated tempo. It walks forward one beat period at a time and snaps each
// predicted beat to the strongest onset inside a small tolerance window.
type BeatTracker struct {
	tempoEstimator *TempoEstimation
	tolerance      float64 // fraction of a beat period the snap may move
}

// NewBeatTracker creates a beat tracker with a 15% snap tolerance
func NewBeatTracker() *BeatTracker {
	return &BeatTracker{
		tempoEstimator: NewTempoEstimation(),
		tolerance:      0.15,
	}
}

// Track returns the estimated tempo and beat frame indices for an onset
// strength envelope sampled at framesPerSecond
func (bt *BeatTracker) Track(onsetEnvelope []float64, framesPerSecond float64) (float64, []int) {
	tempo := bt.tempoEstimator.EstimateFromOnsets(onsetEnvelope, framesPerSecond)
	if len(onsetEnvelope) == 0 || framesPerSecond <= 0 {
		return tempo, []int{}
	}

	period := framesPerSecond * 60.0 / tempo
	if period < 1 {
		return tempo, []int{}
	}
	radius := int(period * bt.tolerance)

	// Anchor the grid on the strongest onset inside the first beat period
	first := 0
	firstEnd := min(int(period), len(onsetEnvelope))
	for i := 1; i < firstEnd; i++ {
		if onsetEnvelope[i] > onsetEnvelope[first] {
			first = i
		}
	}

	var beats []int
	pos := float64(first)
	for int(pos) < len(onsetEnvelope) {
		idx := bt.snapToPeak(onsetEnvelope, int(pos), radius)
		if len(beats) == 0 || idx > beats[len(beats)-1] {
			beats = append(beats, idx)
		}
		pos += period
	}

	return tempo, beats
}

// snapToPeak moves a predicted beat to the local onset maximum within radius
func (bt *BeatTracker) snapToPeak(envelope []float64, center, radius int) int {
	lo := max(0, center-radius)
	hi := min(len(envelope)-1, center+radius)

	best := center
	if best > hi {
		best = hi
	}
	for i := lo; i <= hi; i++ {
		if envelope[i] > envelope[best] {
			best = i
		}
	}
	return best
}

// BeatsToTimes converts beat frame indices to timestamps in seconds
func BeatsToTimes(beats []int, framesPerSecond float64) []float64 {
	times := make([]float64, len(beats))
	for i, b := range beats {
		times[i] = float64(b) / framesPerSecond
	}
	return times
}

// BeatPulse writes a unit impulse at every beat frame and returns the pulse
// train, same length as the envelope it came from
func BeatPulse(length int, beats []int) []float64 {
	pulse := make([]float64, length)
	for _, b := range beats {
		if b >= 0 && b < length {
			pulse[b] = 1.0
		}
	}
	return pulse
}
