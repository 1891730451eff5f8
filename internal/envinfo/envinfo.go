// Package envinfo captures reproducibility facts about the running
// environment for inclusion in dumped documents.
package envinfo

import (
	"runtime"
	"time"

	"github.com/google/uuid"
)

// Snapshot holds one environment capture. Every field is a plain string so
// the snapshot stays a flat, informational mapping.
type Snapshot struct {
	GoVersion  string
	OS         string
	Arch       string
	CreatedAt  string
	SnapshotID string
}

// Collect captures the current environment. Each call mints a fresh
// snapshot ID.
func Collect() Snapshot {
	return Snapshot{
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		SnapshotID: uuid.NewString(),
	}
}
