// scenetool is a CLI utility for inspecting glTF assets through the scene
// importer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scenegraph/internal/assets"
	"github.com/Faultbox/scenegraph/internal/config"
	"github.com/Faultbox/scenegraph/internal/logger"
	"github.com/Faultbox/scenegraph/pkg/importer"
)

// env is what every command runs with.
type env struct {
	cfg *config.Config
	log *zap.Logger
	lib *assets.Library
	out io.Writer
}

type command struct {
	run   func(e *env, args []string) error
	usage string
}

var commands = map[string]command{
	"info":    {cmdInfo, "info <file>"},
	"tree":    {cmdTree, "tree <file>"},
	"joints":  {cmdJoints, "joints <file>"},
	"draws":   {cmdDraws, "draws <file>"},
	"dump":    {cmdDump, "dump <file> [node-id]"},
	"texture": {cmdTexture, "texture <image>"},
	"config":  {cmdConfig, "config [output.yaml]"},
}

var aliases = map[string]string{
	"ls":  "tree",
	"tex": "texture",
}

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	name := args[0]
	switch name {
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		printUsage(stderr)
		return 1
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logOpts := logger.Options{Level: cfg.Logging.Level, Console: stderr}
	if cfg.Logging.LogFile != "" {
		logOpts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	log, err := logger.New(logOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync(log)

	e := &env{
		cfg: cfg,
		log: log,
		lib: assets.NewLibrary(importOptions(cfg, log)),
		out: stdout,
	}
	if err := cmd.run(e, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Usage: scenetool %s\n", cmd.usage)
			return 1
		}
		reportError(stderr, err)
		return 1
	}
	return 0
}

func importOptions(cfg *config.Config, log *zap.Logger) importer.Options {
	return importer.Options{
		BaseDir:        cfg.Import.BaseDir,
		RootTransform:  cfg.Import.RootTransform(),
		SkipValidation: !cfg.Import.Validate,
		Logger:         log.Named("importer"),
	}
}

// reportError prints err and, for import failures, the failure kind so
// scripts can match on it.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var ie *importer.Error
	if errors.As(err, &ie) {
		fmt.Fprintf(w, "Kind:  %s\n", ie.Kind)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `scenetool - glTF scene import inspector

Usage:
  scenetool <command> [options] <args>

Commands:
  info <file>            Show node, mesh, material and texture counts
  tree <file>            Print the node hierarchy
  joints <file>          Print joint placements for every skin
  draws <file>           List draw operations with model matrices
  dump <file> [node-id]  Dump nodes structurally
  texture <image>        Decode a PNG/JPEG as a standalone texture
  config [output.yaml]   Print or write the effective configuration

Options:
  -config <path>   Config file (default ./scenetool.yaml or user config dir)
  -debug           Enable debug logging
  -base-dir <dir>  Directory for relative buffer and image URIs
  -no-validate     Skip node graph validation after import
  -log-file <path> Also write logs to this file

Examples:
  scenetool info models/fox.glb
  scenetool tree -debug models/fox.gltf
  scenetool joints -base-dir ./shared models/rig.gltf`)
}
