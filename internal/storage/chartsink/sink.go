// Package chartsink stores rendered chart artifacts on disk.
package chartsink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/interfaces"
)

// Sink writes PNG artifacts under a single directory. Names are flat; a
// repeated name overwrites the previous artifact, which is the desired
// behavior for identical chart titles.
type Sink struct {
	dir    string
	logger *common.Logger
}

// NewSink creates the sink directory if needed.
func NewSink(logger *common.Logger, dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chart path %s: %w", dir, err)
	}
	return &Sink{dir: dir, logger: logger}, nil
}

// Render stores the PNG under name and returns the name.
func (s *Sink) Render(name string, png []byte) (string, error) {
	// Reject path traversal in artifact names
	if filepath.Base(name) != name {
		return "", fmt.Errorf("invalid chart name %q", name)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", fmt.Errorf("failed to write chart %s: %w", name, err)
	}
	s.logger.Debug().Str("chart", name).Int("bytes", len(png)).Msg("Chart artifact stored")
	return name, nil
}

// Path returns the absolute location of a stored artifact.
func (s *Sink) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Ensure Sink implements ChartSink
var _ interfaces.ChartSink = (*Sink)(nil)
