package util

import (
	"net"
	"strconv"
	"testing"
	"time"
)

func TestGenerateName(t *testing.T) {
	a, b := GenerateName(), GenerateName()
	if len(a) < 5 || len(b) < 5 {
		t.Errorf("names too short: %q %q", a, b)
	}
}

func TestGenerateID(t *testing.T) {
	if a, b := GenerateID(), GenerateID(); a == "" || a == b {
		t.Errorf("ids should be unique: %q %q", a, b)
	}
}

func TestAvailablePort(t *testing.T) {
	port, err := AvailablePort()
	if err != nil {
		t.Fatalf("AvailablePort: %v", err)
	}
	l, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		t.Fatalf("port %d should be free again: %v", port, err)
	}
	l.Close()
}

func TestTimeTrack(t *testing.T) {
	TimeTrack(time.Now().Add(-time.Second), "test op")
}
