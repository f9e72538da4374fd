package node

import (
	"os"
	"sync"

	"github.com/google/uuid"
)

// Node identifies this registrar process.
type Node struct {
	ID         string
	Hostname   string
	Version    string
	CommitHash string
}

// Set at build time with -ldflags "-X".
var Version = "development"
var CommitHash = "unknown"

var (
	nodeOnce sync.Once
	current  Node
)

func GetNodeInfo() Node {
	nodeOnce.Do(func() {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "localhost"
		}
		current = Node{
			ID:       uuid.NewString(),
			Hostname: hostname,
		}
	})

	info := current
	info.Version = Version
	info.CommitHash = CommitHash
	return info
}

// ClientID derives a per process MQTT client id from prefix.
func ClientID(prefix string) string {
	info := GetNodeInfo()
	if prefix == "" {
		return info.Hostname + "-" + info.ID[:8]
	}
	return prefix + "-" + info.ID[:8]
}
