package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one query in the output manifest.
type ManifestEntry struct {
	Name          string       `json:"name"`
	Success       bool         `json:"success"`
	Error         string       `json:"error,omitempty"`
	Faces         int          `json:"faces"`
	Crossings     int          `json:"crossings"`
	InitialLength float64      `json:"initial_length"`
	Length        float64      `json:"length"`
	Direct        bool         `json:"direct,omitempty"`
	Points        [][3]float64 `json:"points,omitempty"`
	Image         string       `json:"image,omitempty"`
}

// WriteManifest writes the results as indented JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		pts := make([][3]float64, len(r.Points))
		for k, p := range r.Points {
			pts[k] = p
		}
		entries[i] = ManifestEntry{
			Name:          r.Name,
			Success:       r.Success,
			Error:         r.Error,
			Faces:         r.Faces,
			Crossings:     r.Crossings,
			InitialLength: r.InitialLength,
			Length:        r.Length,
			Direct:        r.Direct,
			Points:        pts,
			Image:         r.Image,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
