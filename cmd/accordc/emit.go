package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/accord-lang/accord/config"
	"github.com/accord-lang/accord/ir/validate"
	"github.com/accord-lang/accord/modelcheck"
	"github.com/accord-lang/accord/protoyaml"
)

func runEmit(args []string) error {
	fs := flag.NewFlagSet("emit", flag.ExitOnError)
	protocolPath := fs.String("protocol", "", "path to a protoyaml protocol file (required)")
	projectConfig := fs.String("config", "", "path to the project-wide model-checker config")
	protocolConfig := fs.String("protocol-config", "", "path to a per-protocol config override")
	outDir := fs.String("out", ".", "directory to write <name>.tla and <name>.cfg into")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *protocolPath == "" {
		return fmt.Errorf("emit: -protocol is required")
	}

	in, err := protoyaml.Load(*protocolPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", *protocolPath, err)
	}

	result := validate.RunDefault(in)
	if !result.OK() {
		for _, r := range result.Reports.Errors() {
			fmt.Fprintln(os.Stderr, r.String())
		}
		return fmt.Errorf("emit: validation failed at pass %s", result.FailedAt)
	}
	for _, r := range result.Reports.Warnings() {
		fmt.Fprintln(os.Stderr, r.String())
	}

	cfg := &config.Config{}
	if *projectConfig != "" {
		cfg, err = config.LoadLayered(*projectConfig, *protocolConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	art, err := modelcheck.Emit(result.IR, cfg)
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	for _, w := range art.Warnings {
		fmt.Fprintf(os.Stderr, "emit: %s\n", w.Message)
	}

	specPath := filepath.Join(*outDir, art.ModuleName+".tla")
	cfgPath := filepath.Join(*outDir, art.ModuleName+".cfg")
	if err := os.WriteFile(specPath, []byte(art.SpecText), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", specPath, err)
	}
	if err := os.WriteFile(cfgPath, []byte(art.ConfigText), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", cfgPath, err)
	}
	fmt.Printf("wrote %s and %s\n", specPath, cfgPath)
	return nil
}
