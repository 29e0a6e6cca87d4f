package energy

import "encoding/json"

// Zone labels a bar-aligned region of the track by what the music is doing
// there. Animation layers key off zones rather than raw energy so that scene
// changes land on musically meaningful boundaries.
type Zone int

const (
	ZoneQuiet Zone = iota
	ZoneBuildup
	ZoneDrop
	ZoneSustained
	ZoneDecay
	ZoneBridge
)

func (z Zone) String() string {
	switch z {
	case ZoneQuiet:
		return "quiet"
	case ZoneBuildup:
		return "buildup"
	case ZoneDrop:
		return "drop"
	case ZoneSustained:
		return "sustained"
	case ZoneDecay:
		return "decay"
	case ZoneBridge:
		return "bridge"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the zone as its label name so API consumers never see
// raw enum values
func (z Zone) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.String())
}

// BuildupWindow records one detected tension ramp in native frames
type BuildupWindow struct {
	StartFrame int     `json:"start_frame"`
	EndFrame   int     `json:"end_frame"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
}

// StructureBundle is the complete analysis result for one track. Energy,
// Zones and the color streams are sampled on the same fixed-rate grid
// (TargetFPS frames per second); everything else is in seconds.
type StructureBundle struct {
	Energy []float64 `json:"energy"`
	Zones  []Zone    `json:"zones"`
	Times  []float64 `json:"times"`

	BarBoundaries     []float64 `json:"bar_boundaries"`
	SectionBoundaries []float64 `json:"section_boundaries"`
	DropLocations     []float64 `json:"drop_locations"`
	OnsetTimes        []float64 `json:"onset_times"`
	Buildups          []BuildupWindow `json:"buildups"`

	SpectralCentroid  []float64 `json:"spectral_centroid"`
	SpectralBandwidth []float64 `json:"spectral_bandwidth"`
	ChromaHue         []float64 `json:"chroma_hue"`

	Duration  float64 `json:"duration"`
	Tempo     float64 `json:"tempo"`
	TargetFPS int     `json:"target_fps"`
}

// NumFrames returns the number of fixed-rate output frames
func (b *StructureBundle) NumFrames() int {
	return len(b.Energy)
}
