package envinfo

import (
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCollect(t *testing.T) {
	snap := Collect()

	if snap.GoVersion != runtime.Version() {
		t.Fatalf("GoVersion = %q, want %q", snap.GoVersion, runtime.Version())
	}
	if snap.OS != runtime.GOOS || snap.Arch != runtime.GOARCH {
		t.Fatalf("platform = %s/%s, want %s/%s", snap.OS, snap.Arch, runtime.GOOS, runtime.GOARCH)
	}
	if _, err := time.Parse(time.RFC3339, snap.CreatedAt); err != nil {
		t.Fatalf("CreatedAt %q is not RFC 3339: %v", snap.CreatedAt, err)
	}
	if _, err := uuid.Parse(snap.SnapshotID); err != nil {
		t.Fatalf("SnapshotID %q is not a UUID: %v", snap.SnapshotID, err)
	}
}

func TestCollectMintsFreshIDs(t *testing.T) {
	if Collect().SnapshotID == Collect().SnapshotID {
		t.Fatal("snapshot IDs repeat")
	}
}
