package telemetry_test

import (
	"net"
	"testing"
	"time"
)

// requireCollector skips the test when nothing listens on the given address,
// so the enabled-path tests only run where a collector (or Pyroscope) is up.
func requireCollector(t *testing.T, addr string) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 250*time.Millisecond)
	if err != nil {
		t.Skipf("no collector reachable at %s: %v", addr, err)
	}
	_ = conn.Close()
}
