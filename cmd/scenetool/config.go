package main

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func cmdConfig(e *env, args []string) error {
	if len(args) > 0 {
		if err := e.cfg.SaveTo(args[0]); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(e.out, "Wrote %s\n", args[0])
		return nil
	}

	data, err := yaml.Marshal(e.cfg)
	if err != nil {
		return err
	}
	_, err = e.out.Write(data)
	return err
}
