// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"context"
	"encoding/gob"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/buraksezer/olric"
	discovery "github.com/buraksezer/olric-cloud-plugin/lib"
	"github.com/buraksezer/olric/config"
	log "github.com/sirupsen/logrus"
)

const (
	OlricModeLocal = "local"
	OlricModeLan   = "lan"

	olricBindAddr     = "0.0.0.0"
	olricClusterLabel = "olric-cluster=roadmap"
)

// OlricProvider gives access to the embedded cache node that backs generation
// sessions and roadmap-generated events.
type OlricProvider interface {
	Get() *olric.Olric
	GetBindAddr() string
	Shutdown(ctx context.Context) error
}

type OlricConfig struct {
	// DiscoveryMode is "local" (default) or "lan" for kubernetes discovery.
	DiscoveryMode string
	ReplicaCount  int
	Namespace     string
	// Peers is a comma separated list of host:port members, local mode only.
	Peers string
}

type olricProviderImpl struct {
	started sync.WaitGroup
	cfg     *config.Config
	node    *olric.Olric
}

func NewOlricProvider(oc OlricConfig) (OlricProvider, error) {
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})

	cfg, err := buildOlricConfig(oc)
	if err != nil {
		return nil, err
	}

	prov := &olricProviderImpl{cfg: cfg}
	prov.started.Add(1)
	cfg.Started = prov.started.Done

	prov.node, err = olric.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create olric node: %w", err)
	}
	go func() {
		if err := prov.node.Start(); err != nil {
			log.Panicf("Olric cache node cannot be started. Error: %s", err.Error())
		}
	}()
	return prov, nil
}

// Get blocks until the node has joined the cluster.
func (op *olricProviderImpl) Get() *olric.Olric {
	op.started.Wait()
	return op.node
}

func (op *olricProviderImpl) GetBindAddr() string {
	op.started.Wait()
	return fmt.Sprintf("%s:%d", op.cfg.BindAddr, op.cfg.BindPort)
}

func (op *olricProviderImpl) Shutdown(ctx context.Context) error {
	return op.node.Shutdown(ctx)
}

func buildOlricConfig(oc OlricConfig) (*config.Config, error) {
	switch oc.DiscoveryMode {
	case OlricModeLan:
		return lanOlricConfig(oc)
	case "", OlricModeLocal:
		return localOlricConfig(oc.Peers)
	default:
		log.Warnf("Unknown olric discovery mode %s. Will use default %q mode", oc.DiscoveryMode, OlricModeLocal)
		return localOlricConfig(oc.Peers)
	}
}

func lanOlricConfig(oc OlricConfig) (*config.Config, error) {
	if oc.Namespace == "" {
		return nil, fmt.Errorf("NAMESPACE env is required for olric discovery mode %q", OlricModeLan)
	}
	replicas := oc.ReplicaCount
	if replicas <= 0 {
		replicas = 1
	}
	log.Infof("Olric runs in cloud mode: namespace %s, %d replicas", oc.Namespace, replicas)

	cfg := config.New(OlricModeLan)
	cfg.LogLevel = "WARN"
	cfg.LogVerbosity = 2
	cfg.ServiceDiscovery = map[string]interface{}{
		"plugin":   &discovery.CloudDiscovery{},
		"provider": "k8s",
		"args":     fmt.Sprintf("namespace=%s label_selector=\"%s\"", oc.Namespace, olricClusterLabel),
	}
	cfg.PartitionCount = uint64(replicas * 4)
	cfg.ReplicaCount = replicas
	cfg.MemberCountQuorum = int32(replicas)
	cfg.BootstrapTimeout = 60 * time.Second
	cfg.MaxJoinAttempts = 60
	return cfg, nil
}

func localOlricConfig(peers string) (*config.Config, error) {
	members, err := parseOlricPeers(peers)
	if err != nil {
		return nil, err
	}
	bindPort, err := freePort()
	if err != nil {
		return nil, err
	}
	memberlistPort, err := freePort()
	if err != nil {
		return nil, err
	}
	log.Infof("Olric runs in local mode with %d peers", len(members))

	cfg := config.New(OlricModeLocal)
	cfg.LogLevel = "WARN"
	cfg.LogVerbosity = 2
	cfg.BindAddr = olricBindAddr
	cfg.BindPort = bindPort
	cfg.MemberlistConfig.BindAddr = olricBindAddr
	cfg.MemberlistConfig.BindPort = memberlistPort
	cfg.PartitionCount = 5
	cfg.Peers = members
	return cfg, nil
}

func parseOlricPeers(peers string) ([]string, error) {
	var res []string
	for _, peer := range strings.Split(peers, ",") {
		peer = strings.TrimSpace(peer)
		if peer == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(peer); err != nil {
			return nil, fmt.Errorf("olric peer '%s' is not a host:port address: %w", peer, err)
		}
		res = append(res, peer)
	}
	return res, nil
}

// freePort asks the OS for a currently unused tcp port.
func freePort() (int, error) {
	ln, err := net.Listen("tcp", olricBindAddr+":0")
	if err != nil {
		return 0, fmt.Errorf("failed to find a free port for olric: %w", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}
