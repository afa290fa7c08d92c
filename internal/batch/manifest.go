package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest describes one batch run.
type Manifest struct {
	RunID      string          `json:"run_id"`
	Generated  time.Time       `json:"generated"`
	DurationMS int64           `json:"duration_ms"`
	Failed     int             `json:"failed"`
	Entries    []ManifestEntry `json:"entries"`
}

// ManifestEntry represents one variant in the output manifest.
type ManifestEntry struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	File     string     `json:"file,omitempty"`
	Vertices int        `json:"vertices"`
	Faces    int        `json:"faces"`
	Groups   int        `json:"groups"`
	BoundMin [3]float32 `json:"bounds_min"`
	BoundMax [3]float32 `json:"bounds_max"`
	Error    string     `json:"error,omitempty"`
}

// WriteManifest writes the run report as JSON to path.
func WriteManifest(path string, r *Report) error {
	m := Manifest{
		RunID:      r.RunID,
		Generated:  time.Now().UTC().Truncate(time.Second),
		DurationMS: r.Duration.Milliseconds(),
		Failed:     r.Failed,
		Entries:    make([]ManifestEntry, len(r.Results)),
	}
	for i, res := range r.Results {
		e := ManifestEntry{
			Name:     res.Name,
			Kind:     res.Kind,
			Vertices: res.Stats.Vertices,
			Faces:    res.Stats.Faces,
			Groups:   res.Stats.Groups,
			Error:    res.Error,
		}
		if res.Success {
			e.File = res.File
			e.BoundMin = res.Stats.Bounds.Min
			e.BoundMax = res.Stats.Bounds.Max
		}
		m.Entries[i] = e
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
