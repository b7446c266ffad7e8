package tui

import (
	"fmt"
	"path/filepath"
	"time"
)

// exportPath names a GeoJSON export in dir, stamped with the export time.
func exportPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("routemap-%s.geojson", now.Format("20060102-150405")))
}

// export writes the session to a new GeoJSON file in the working directory.
func (m *Model) export() {
	p := exportPath(m.cwd, m.now())
	if err := m.session.Export(p); err != nil {
		m.log.WithError(err).Error("export failed")
		m.status = "export error: " + err.Error()
		return
	}
	m.log.WithField("path", p).Info("session exported")
	m.status = "exported: " + filepath.Base(p) +
		fmt.Sprintf("  markers=%d lines=%d", len(m.canvas.markers), len(m.canvas.polylines))
}
