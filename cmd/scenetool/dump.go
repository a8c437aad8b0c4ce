package main

import (
	"fmt"
	"strconv"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/scenegraph/pkg/scene"
)

var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
	// Deep enough for node -> mesh -> primitive -> material.
	MaxDepth: 4,
}

func cmdDump(e *env, args []string) error {
	s, _, err := loadScene(e, args)
	if err != nil {
		return err
	}

	if len(args) < 2 {
		spewConfig.Fdump(e.out, s.Roots, s.Nodes)
		return nil
	}

	id, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return fmt.Errorf("node id %q: %w", args[1], err)
	}
	node, err := s.Node(scene.NodeID(id))
	if err != nil {
		return err
	}
	spewConfig.Fdump(e.out, node)
	return nil
}
