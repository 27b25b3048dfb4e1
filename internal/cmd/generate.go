package cmd

import (
	"log/slog"

	"github.com/Alia5/iccgen/internal/codegen/generator"
	"github.com/Alia5/iccgen/internal/codegen/output"
)

type Generate struct {
	Inputs   `embed:""`
	Manifest string `help:"Write a YAML manifest of the generated files to this path" env:"ICCGEN_MANIFEST"`
	DryRun   bool   `help:"Generate in memory without touching the filesystem" env:"ICCGEN_DRY_RUN"`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger) error {
	logger.Info("Starting ICC code generation", "functions", g.Functions, "legacy", g.Legacy, "dryRun", g.DryRun)

	gen := generator.New(g.options(), logger)
	var res *generator.Result
	var err error
	if g.DryRun {
		res, err = gen.Generate(output.NewMemSink())
	} else {
		res, err = gen.GenerateFiles()
	}
	if err != nil {
		return err
	}
	if g.Manifest != "" && !g.DryRun {
		if err := generator.WriteManifest(g.Manifest, res.Manifest()); err != nil {
			return err
		}
		logger.Info("Wrote manifest", "file", g.Manifest, "files", len(res.Entries))
	}
	return nil
}
