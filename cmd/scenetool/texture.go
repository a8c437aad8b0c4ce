package main

import "fmt"

func cmdTexture(e *env, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	tex, err := e.lib.Texture(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "Image:   %s\n", args[0])
	fmt.Fprintf(e.out, "Size:    %dx%d\n", tex.Width, tex.Height)
	fmt.Fprintf(e.out, "Format:  %s (%d bytes/row)\n", tex.Format, tex.Stride())
	fmt.Fprintf(e.out, "Sampler: %s\n", formatSampler(tex.Sampler))
	return nil
}
