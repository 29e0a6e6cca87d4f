// Package analyzer wires the decode, feature extraction and energy
// pipeline stages into a single entry point for analyzing audio files.
package analyzer

import (
	"github.com/mr-spaghetti-code/three-music-rollercoaster/decode"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/energy"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/features"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
)

// Analyzer runs the complete file-to-bundle analysis
type Analyzer struct {
	extractor *features.Extractor
	pipeline  *energy.Pipeline
	logger    logging.Logger
}

// New creates an analyzer with the given configs; nil selects defaults
func New(fcfg *features.Config, pcfg *energy.PipelineConfig) *Analyzer {
	if fcfg == nil {
		fcfg = features.DefaultConfig()
	}
	return &Analyzer{
		extractor: features.NewExtractor(fcfg),
		pipeline:  energy.NewPipeline(pcfg),
		logger:    logging.GetGlobalLogger(),
	}
}

// AnalyzeFile decodes one audio file and runs the full pipeline over it.
// Every failure is wrapped in a decode.Failure carrying the file path so
// callers report which track broke without inspecting stage internals.
func (a *Analyzer) AnalyzeFile(path string) (*energy.StructureBundle, error) {
	audio, err := decode.File(path)
	if err != nil {
		return nil, err
	}

	a.logger.Info("track decoded", logging.Fields{
		"path":        path,
		"duration":    audio.Seconds(),
		"sample_rate": audio.SampleRate,
	})

	tf, err := a.extractor.Extract(audio)
	if err != nil {
		return nil, &decode.Failure{Path: path, Err: err}
	}

	bundle, err := a.pipeline.Analyze(tf)
	if err != nil {
		return nil, &decode.Failure{Path: path, Err: err}
	}
	return bundle, nil
}
