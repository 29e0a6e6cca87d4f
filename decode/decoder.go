package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/tosone/minimp3"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
)

// Audio represents a decoded mono waveform ready for analysis
type Audio struct {
	PCM        []float64     `json:"-"` // Mono samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Duration   time.Duration `json:"duration"`
	Path       string        `json:"path"`
}

// Seconds returns the track duration as a float
func (a *Audio) Seconds() float64 {
	if a.SampleRate == 0 {
		return 0
	}
	return float64(len(a.PCM)) / float64(a.SampleRate)
}

// Failure is the fatal error returned when a waveform cannot be decoded.
// No partial analysis output exists when a Failure is returned.
type Failure struct {
	Path string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("analysis failed: cannot decode %q: %v", f.Path, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// File decodes an MP3 or WAV file into a mono waveform. Stereo input is
// downmixed by channel averaging.
func File(path string) (*Audio, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "decoder",
		"path":      path,
	})

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Failure{Path: path, Err: err}
	}

	var audio *Audio
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		audio, err = decodeMP3(raw)
	case ".wav":
		audio, err = decodeWAV(path)
	default:
		err = fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, &Failure{Path: path, Err: err}
	}

	audio.Path = path
	audio.Duration = time.Duration(audio.Seconds() * float64(time.Second))

	logger.Debug("Decoded audio file", logging.Fields{
		"sample_rate": audio.SampleRate,
		"samples":     len(audio.PCM),
		"duration":    audio.Duration.Seconds(),
	})

	return audio, nil
}

func decodeMP3(data []byte) (*Audio, error) {
	decoder, pcmBytes, err := minimp3.DecodeFull(data)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}
	defer decoder.Close()

	if decoder.Channels <= 0 || decoder.SampleRate <= 0 {
		return nil, fmt.Errorf("mp3 decode: invalid stream parameters")
	}

	// minimp3 emits interleaved little-endian 16-bit samples
	numSamples := len(pcmBytes) / 2 / decoder.Channels
	pcm := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		sum := 0.0
		for ch := 0; ch < decoder.Channels; ch++ {
			idx := (i*decoder.Channels + ch) * 2
			sample := int16(pcmBytes[idx]) | int16(pcmBytes[idx+1])<<8
			sum += float64(sample) / 32768.0
		}
		pcm[i] = sum / float64(decoder.Channels)
	}

	return &Audio{PCM: pcm, SampleRate: decoder.SampleRate}, nil
}

func decodeWAV(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("wav decode: missing format chunk")
	}

	channels := buf.Format.NumChannels
	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	numSamples := len(buf.Data) / channels
	pcm := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch]) / scale
		}
		pcm[i] = sum / float64(channels)
	}

	return &Audio{PCM: pcm, SampleRate: buf.Format.SampleRate}, nil
}

// Downsample halves the sample rate by averaging adjacent sample pairs.
// The pair average acts as a crude half-band lowpass, which is what the
// analysis wants anyway: high-frequency jitter does not contribute to the
// energy curve.
func Downsample(a *Audio) *Audio {
	half := make([]float64, len(a.PCM)/2)
	for i := range half {
		half[i] = (a.PCM[2*i] + a.PCM[2*i+1]) / 2.0
	}
	return &Audio{
		PCM:        half,
		SampleRate: a.SampleRate / 2,
		Duration:   a.Duration,
		Path:       a.Path,
	}
}
