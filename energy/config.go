package energy

// PipelineConfig holds every empirical constant of the analysis pipeline.
// The values were tuned by ear against real tracks; they are configuration
// to be preserved, not quantities derived from first principles. Changing
// them changes the shape of every output curve.
type PipelineConfig struct {
	TargetFPS int `json:"target_fps"`

	// Feature conditioning sigmas (native frames)
	RMSSigma      float64 `json:"rms_sigma"`
	ContrastSigma float64 `json:"contrast_sigma"`
	FluxSigma     float64 `json:"flux_sigma"`
	BeatSigma     float64 `json:"beat_sigma"`
	ColorSigma    float64 `json:"color_sigma"`      // centroid and bandwidth
	ComponentSigma float64 `json:"component_sigma"` // harmonic and percussive RMS
	TrendSigma    float64 `json:"trend_sigma"`      // spectral-change trend

	// Buildup detection
	BuildupWindowSeconds float64 `json:"buildup_window_seconds"`
	MinBuildupSeconds    float64 `json:"min_buildup_seconds"`
	BuildupPositiveRatio float64 `json:"buildup_positive_ratio"`
	BuildupMeanThreshold float64 `json:"buildup_mean_threshold"`
	BuildupRampLow       float64 `json:"buildup_ramp_low"`
	BuildupRampHigh      float64 `json:"buildup_ramp_high"`
	BuildupRampScale     float64 `json:"buildup_ramp_scale"`
	BuildupSmoothSigma   float64 `json:"buildup_smooth_sigma"`

	// Drop detection
	DropPercentile        float64 `json:"drop_percentile"`
	MinDropSpacingSeconds float64 `json:"min_drop_spacing_seconds"`
	DropBuildupThreshold  float64 `json:"drop_buildup_threshold"`
	DropMaxLength         int     `json:"drop_max_length"` // native frames
	DropGuardFrames       int     `json:"drop_guard_frames"`
	DropCurveSigma        float64 `json:"drop_curve_sigma"`
	DropStreamSigma       float64 `json:"drop_stream_sigma"`

	// Synthesis weights
	WeightRMS      float64 `json:"weight_rms"`
	WeightContrast float64 `json:"weight_contrast"`
	WeightFlux     float64 `json:"weight_flux"`
	WeightBeat     float64 `json:"weight_beat"`
	WeightBuildup  float64 `json:"weight_buildup"`
	WeightDrop     float64 `json:"weight_drop"`
	MedianWindow   int     `json:"median_window"`

	// Momentum physics
	MaxChangePerFrame float64 `json:"max_change_per_frame"`
	SavGolWindow      int     `json:"savgol_window"`
	SavGolOrder       int     `json:"savgol_order"`

	// Multi-stage smoothing and resampling
	WideSigma         float64 `json:"wide_sigma"`
	AdaptiveWindow    int     `json:"adaptive_window"`
	AdaptiveBaseSigma float64 `json:"adaptive_base_sigma"`
	AdaptiveSpanSigma float64 `json:"adaptive_span_sigma"`
	NarrowSigma       float64 `json:"narrow_sigma"`
	ContrastExponent  float64 `json:"contrast_exponent"`
	ResampledSigma    float64 `json:"resampled_sigma"`

	// Zone classification
	BeatsPerBar         int     `json:"beats_per_bar"`
	LowThreshold        float64 `json:"low_threshold"`
	MediumThreshold     float64 `json:"medium_threshold"`
	HighThreshold       float64 `json:"high_threshold"`
	IncreasingThreshold float64 `json:"increasing_threshold"`
	DecreasingThreshold float64 `json:"decreasing_threshold"`
	DerivativeSigma     float64 `json:"derivative_sigma"`
	ZoneMedianWindow    int     `json:"zone_median_window"`

	// Structure segmentation
	SectionSeconds         float64 `json:"section_seconds"`
	MaxClusters            int     `json:"max_clusters"`
	FramesPerCluster       int     `json:"frames_per_cluster"`
	LabelSmoothingPasses   int     `json:"label_smoothing_passes"`
	FallbackSigma          float64 `json:"fallback_sigma"`
	FallbackPeakHeight     float64 `json:"fallback_peak_height"`
	FallbackPeakSpacingSec float64 `json:"fallback_peak_spacing_sec"`
	FallbackSectionSeconds float64 `json:"fallback_section_seconds"`
	FallbackEdgeSeconds    float64 `json:"fallback_edge_seconds"`
	ClusterSeed            int64   `json:"cluster_seed"`
}

// DefaultPipelineConfig returns the tuned production constants
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		TargetFPS: 24,

		RMSSigma:       15,
		ContrastSigma:  15,
		FluxSigma:      10,
		BeatSigma:      20,
		ColorSigma:     15,
		ComponentSigma: 10,
		TrendSigma:     60,

		BuildupWindowSeconds: 5.0,
		MinBuildupSeconds:    2.0,
		BuildupPositiveRatio: 0.8,
		BuildupMeanThreshold: 0.015,
		BuildupRampLow:       0.2,
		BuildupRampHigh:      1.0,
		BuildupRampScale:     0.7,
		BuildupSmoothSigma:   40,

		DropPercentile:        0.95,
		MinDropSpacingSeconds: 10.0,
		DropBuildupThreshold:  0.25,
		DropMaxLength:         300,
		DropGuardFrames:       150,
		DropCurveSigma:        10,
		DropStreamSigma:       15,

		WeightRMS:      0.30,
		WeightContrast: 0.10,
		WeightFlux:     0.15,
		WeightBeat:     0.20,
		WeightBuildup:  0.40,
		WeightDrop:     0.45,
		MedianWindow:   5,

		MaxChangePerFrame: 0.05,
		SavGolWindow:      101,
		SavGolOrder:       3,

		WideSigma:         30,
		AdaptiveWindow:    61,
		AdaptiveBaseSigma: 10,
		AdaptiveSpanSigma: 20,
		NarrowSigma:       10,
		ContrastExponent:  0.8,
		ResampledSigma:    5,

		BeatsPerBar:         4,
		LowThreshold:        0.3,
		MediumThreshold:     0.6,
		HighThreshold:       0.8,
		IncreasingThreshold: 0.01,
		DecreasingThreshold: -0.01,
		DerivativeSigma:     10,
		ZoneMedianWindow:    51,

		SectionSeconds:         30.0,
		MaxClusters:            8,
		FramesPerCluster:       100,
		LabelSmoothingPasses:   5,
		FallbackSigma:          50,
		FallbackPeakHeight:     0.2,
		FallbackPeakSpacingSec: 15.0,
		FallbackSectionSeconds: 45.0,
		FallbackEdgeSeconds:    30.0,
		ClusterSeed:            42,
	}
}
