// Command linkapp prepares user applications for the batch kernel.
//
//	linkapp asm     [flags] [app...]   generate link_app.S embedding the apps
//	linkapp pack    [flags] [app...]   build a flat image with the app table
//	linkapp bases   [flags] [app...]   print (and optionally write) per-app linker scripts
//	linkapp inspect [flags] image      print the app table of a flat image
//
// Applications come from the command line or, if none are given, from the
// "apps" list of the configuration file.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var errUsage = errors.New("usage: linkapp asm|pack|bases|inspect [flags] [args]")

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[linkapp] error: %s\n", err.Error())
	os.Exit(1)
}

// command is the state shared by all subcommands.
type command struct {
	cfg    Config
	logger *zap.Logger
	args   []string
	stdout io.Writer
}

func parseCommand(name string, args []string, stdout io.Writer, extraFlags func(*flag.FlagSet)) (*command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfgPath := fs.String("config", "", "a TOML or YAML configuration file")
	output := fs.String("out", "", "the file to write the output to or - for STDOUT (overrides the config)")
	if extraFlags != nil {
		extraFlags(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return nil, err
	}
	if *output != "" {
		cfg.Output = *output
	}

	return &command{
		cfg:    cfg,
		logger: newLoggerOrNop(cfg.Log),
		args:   fs.Args(),
		stdout: stdout,
	}, nil
}

// apps resolves the application list.
func (c *command) apps() ([]app, error) {
	patterns := c.args
	if len(patterns) == 0 {
		patterns = c.cfg.Apps
	}
	if len(patterns) == 0 {
		return nil, errors.New("no applications given")
	}

	apps, err := collectApps(patterns)
	if err != nil {
		return nil, err
	}
	for id, a := range apps {
		c.logger.Debug("application", zap.Int("id", id), zap.String("name", a.Name), zap.String("path", a.Path))
	}
	return apps, nil
}

// writeOutput writes data to the configured output.
func (c *command) writeOutput(data []byte) error {
	if c.cfg.Output == "-" {
		_, err := c.stdout.Write(data)
		return err
	}

	if err := os.WriteFile(c.cfg.Output, data, 0o644); err != nil {
		return err
	}
	c.logger.Info("wrote output", zap.String("path", c.cfg.Output), zap.Int("bytes", len(data)))
	return nil
}

func runAsm(args []string, stdout io.Writer) error {
	c, err := parseCommand("asm", args, stdout, nil)
	if err != nil {
		return err
	}
	defer func() { _ = c.logger.Sync() }()

	apps, err := c.apps()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writeLinkAppAsm(&buf, apps); err != nil {
		return err
	}
	return c.writeOutput(buf.Bytes())
}

func runPack(args []string, stdout io.Writer) error {
	c, err := parseCommand("pack", args, stdout, nil)
	if err != nil {
		return err
	}
	defer func() { _ = c.logger.Sync() }()

	apps, err := c.apps()
	if err != nil {
		return err
	}
	blobs, err := readApps(apps)
	if err != nil {
		return err
	}

	image, table, err := packImage(uintptr(c.cfg.Layout.ImageBase), blobs)
	if err != nil {
		return err
	}
	for id := range apps {
		span, _ := table.Range(id)
		c.logger.Info("packed application",
			zap.Int("id", id),
			zap.String("name", apps[id].Name),
			zap.String("start", fmt.Sprintf("%#x", span.Start)),
			zap.String("end", fmt.Sprintf("%#x", span.End)),
		)
	}

	return c.writeOutput(image)
}

func runBases(args []string, stdout io.Writer) error {
	var linkerScript, outDir *string
	c, err := parseCommand("bases", args, stdout, func(fs *flag.FlagSet) {
		linkerScript = fs.String("linker", "", "a linker script to relocate for each application")
		outDir = fs.String("out-dir", ".", "the directory relocated linker scripts are written to")
	})
	if err != nil {
		return err
	}
	defer func() { _ = c.logger.Sync() }()

	apps, err := c.apps()
	if err != nil {
		return err
	}

	var script []byte
	if *linkerScript != "" {
		if script, err = os.ReadFile(*linkerScript); err != nil {
			return err
		}
	}

	for id, a := range apps {
		base := linkBase(c.cfg.Layout, id)
		fmt.Fprintf(c.stdout, "[linkapp] application %s start with address %#x\n", a.Name, base)

		if script == nil {
			continue
		}

		relocated, err := relocateLinkerScript(string(script), c.cfg.Layout, id)
		if err != nil {
			return fmt.Errorf("%s: %w", *linkerScript, err)
		}

		path := filepath.Join(*outDir, fmt.Sprintf("linker_%s.ld", a.Name))
		if err := os.WriteFile(path, []byte(relocated), 0o644); err != nil {
			return err
		}
		c.logger.Info("wrote linker script", zap.String("path", path), zap.String("base", fmt.Sprintf("%#x", base)))
	}

	return nil
}

func runInspect(args []string, stdout io.Writer) error {
	c, err := parseCommand("inspect", args, stdout, nil)
	if err != nil {
		return err
	}
	defer func() { _ = c.logger.Sync() }()

	if len(c.args) != 1 {
		return errors.New("inspect expects exactly one image file")
	}

	blob, err := os.ReadFile(c.args[0])
	if err != nil {
		return err
	}

	_, err = inspectImage(c.stdout, blob, uintptr(c.cfg.Layout.ImageBase))
	return err
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "asm":
		return runAsm(args[1:], stdout)
	case "pack":
		return runPack(args[1:], stdout)
	case "bases":
		return runBases(args[1:], stdout)
	case "inspect":
		return runInspect(args[1:], stdout)
	default:
		return errUsage
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		exit(err)
	}
}
