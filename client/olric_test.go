package client

import (
	"reflect"
	"testing"
)

func TestParseOlricPeers(t *testing.T) {
	got, err := parseOlricPeers(" node-a:3320, ,node-b:3320 ")
	if err != nil {
		t.Fatalf("parseOlricPeers() error = %v", err)
	}
	if want := []string{"node-a:3320", "node-b:3320"}; !reflect.DeepEqual(got, want) {
		t.Errorf("parseOlricPeers() = %v, want %v", got, want)
	}
	if got, err := parseOlricPeers(""); err != nil || len(got) != 0 {
		t.Errorf("parseOlricPeers(\"\") = %v, %v", got, err)
	}
	if _, err := parseOlricPeers("node-a"); err == nil {
		t.Error("parseOlricPeers() accepted a peer without port")
	}
}

func TestBuildOlricConfig_Local(t *testing.T) {
	for _, mode := range []string{"", OlricModeLocal, "unknown"} {
		cfg, err := buildOlricConfig(OlricConfig{DiscoveryMode: mode, Peers: "10.0.0.1:3320"})
		if err != nil {
			t.Fatalf("buildOlricConfig(%q) error = %v", mode, err)
		}
		if cfg.BindPort == 0 || cfg.MemberlistConfig.BindPort == 0 {
			t.Errorf("mode %q: ports = %d/%d", mode, cfg.BindPort, cfg.MemberlistConfig.BindPort)
		}
		if !reflect.DeepEqual(cfg.Peers, []string{"10.0.0.1:3320"}) {
			t.Errorf("mode %q: peers = %v", mode, cfg.Peers)
		}
	}
}

func TestBuildOlricConfig_Lan(t *testing.T) {
	if _, err := buildOlricConfig(OlricConfig{DiscoveryMode: OlricModeLan}); err == nil {
		t.Error("lan mode without namespace must fail")
	}
	cfg, err := buildOlricConfig(OlricConfig{DiscoveryMode: OlricModeLan, Namespace: "roadmap", ReplicaCount: 3})
	if err != nil {
		t.Fatalf("buildOlricConfig() error = %v", err)
	}
	if cfg.ReplicaCount != 3 || cfg.PartitionCount != 12 || cfg.MemberCountQuorum != 3 {
		t.Errorf("replicas = %d, partitions = %d, quorum = %d", cfg.ReplicaCount, cfg.PartitionCount, cfg.MemberCountQuorum)
	}
	if args, _ := cfg.ServiceDiscovery["args"].(string); args != `namespace=roadmap label_selector="olric-cluster=roadmap"` {
		t.Errorf("discovery args = %q", args)
	}
}
