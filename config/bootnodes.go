package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Bootnode is one entry of the bootnode list: an ENR string, whose
// position in the list is its node ID.
type Bootnode struct {
	NodeID    int
	Multiaddr string
}

// LoadBootnodes loads and parses a bootnodes.yaml file: an ordered list
// of ENR strings, where array index assigns each entry its node ID.
func LoadBootnodes(path string) ([]Bootnode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bootnodes: %w", err)
	}

	var enrs []string
	if err := yaml.Unmarshal(data, &enrs); err != nil {
		return nil, fmt.Errorf("parse bootnodes: %w", err)
	}

	nodes := make([]Bootnode, len(enrs))
	for i, enr := range enrs {
		nodes[i] = Bootnode{NodeID: i, Multiaddr: enr}
	}
	return nodes, nil
}
