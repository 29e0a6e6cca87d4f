// Package export writes analysis results as CSV files consumable by the
// animation frontend. Each bundle produces four files next to each other:
// the energy curve, the zone labels, the spectral color streams, and the
// structural event timestamps.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/energy"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
)

// Writer persists StructureBundles as CSV file sets
type Writer struct {
	logger logging.Logger
}

// NewWriter creates a CSV writer
func NewWriter() *Writer {
	return &Writer{logger: logging.GetGlobalLogger()}
}

// WriteBundle writes the four CSV files for a bundle into dir, named
// <base>_energy.csv, <base>_zones.csv, <base>_spectral.csv and
// <base>_structure.csv. Existing files are overwritten.
func (w *Writer) WriteBundle(dir, base string, b *energy.StructureBundle) error {
	if err := w.writeEnergy(filepath.Join(dir, base+"_energy.csv"), b); err != nil {
		return err
	}
	if err := w.writeZones(filepath.Join(dir, base+"_zones.csv"), b); err != nil {
		return err
	}
	if err := w.writeSpectral(filepath.Join(dir, base+"_spectral.csv"), b); err != nil {
		return err
	}
	if err := w.writeStructure(filepath.Join(dir, base+"_structure.csv"), b); err != nil {
		return err
	}

	w.logger.Info("bundle exported", logging.Fields{
		"dir":    dir,
		"base":   base,
		"frames": b.NumFrames(),
	})
	return nil
}

func (w *Writer) writeEnergy(path string, b *energy.StructureBundle) error {
	return w.writeFile(path, func(cw *csv.Writer) error {
		if err := cw.Write([]string{"time", "energy"}); err != nil {
			return err
		}
		for i, e := range b.Energy {
			row := []string{formatFloat(b.Times[i]), formatFloat(e)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Writer) writeZones(path string, b *energy.StructureBundle) error {
	return w.writeFile(path, func(cw *csv.Writer) error {
		if err := cw.Write([]string{"time", "zone"}); err != nil {
			return err
		}
		for i, z := range b.Zones {
			if err := cw.Write([]string{formatFloat(b.Times[i]), z.String()}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Writer) writeSpectral(path string, b *energy.StructureBundle) error {
	return w.writeFile(path, func(cw *csv.Writer) error {
		if err := cw.Write([]string{"time", "centroid", "bandwidth", "chroma_hue"}); err != nil {
			return err
		}
		for i := range b.Times {
			row := []string{
				formatFloat(b.Times[i]),
				formatFloat(valueAt(b.SpectralCentroid, i)),
				formatFloat(valueAt(b.SpectralBandwidth, i)),
				formatFloat(valueAt(b.ChromaHue, i)),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Writer) writeStructure(path string, b *energy.StructureBundle) error {
	return w.writeFile(path, func(cw *csv.Writer) error {
		if err := cw.Write([]string{"feature", "time"}); err != nil {
			return err
		}
		for _, group := range []struct {
			name  string
			times []float64
		}{
			{"bar_boundaries", b.BarBoundaries},
			{"section_boundaries", b.SectionBoundaries},
			{"drop_locations", b.DropLocations},
			{"onset_times", b.OnsetTimes},
		} {
			for _, t := range group.times {
				if err := cw.Write([]string{group.name, formatFloat(t)}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (w *Writer) writeFile(path string, write func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := write(cw); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func valueAt(data []float64, i int) float64 {
	if i < len(data) {
		return data[i]
	}
	return 0.0
}
