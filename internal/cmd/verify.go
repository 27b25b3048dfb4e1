package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Alia5/iccgen/internal/codegen/generator"
	"github.com/Alia5/iccgen/internal/codegen/output"
)

type Verify struct {
	Inputs   `embed:""`
	Manifest string `help:"Also check a manifest written by generate against the regenerated files" env:"ICCGEN_MANIFEST"`
}

// Run is called by Kong when the verify command is executed.
func (v *Verify) Run(logger *slog.Logger) error {
	res, err := generator.New(v.options(), logger).Generate(output.NewMemSink())
	if err != nil {
		return err
	}
	stale, err := generator.Verify(res, os.ReadFile)
	for _, p := range stale {
		logger.Error("Stale generated file", "file", p)
	}
	if err != nil {
		return err
	}
	if v.Manifest != "" {
		recorded, err := generator.ReadManifest(v.Manifest)
		if err != nil {
			return err
		}
		if err := checkManifest(logger, v.Manifest, res.Manifest(), recorded); err != nil {
			return err
		}
	}
	logger.Info("Generated files are up to date", "files", len(res.Entries))
	return nil
}

func checkManifest(logger *slog.Logger, path string, want, recorded generator.Manifest) error {
	diff := want.Diff(recorded)
	if recorded.Version != want.Version {
		logger.Error("Stale manifest version", "manifest", path, "recorded", recorded.Version, "version", want.Version)
	}
	for _, p := range diff {
		logger.Error("Stale manifest entry", "manifest", path, "file", p)
	}
	if len(diff) > 0 || recorded.Version != want.Version {
		return fmt.Errorf("%w: manifest %s", generator.ErrStale, path)
	}
	return nil
}
