package cmd

import (
	"github.com/alecthomas/kong"

	"github.com/Alia5/iccgen/internal/codegen/emit"
	"github.com/Alia5/iccgen/internal/codegen/generator"
)

// CLI is the root command line of iccgen.
type CLI struct {
	Version kong.VersionFlag `help:"Print the iccgen version and exit"`
	Config  string           `help:"Configuration file (json, yaml or toml)" env:"ICCGEN_CONFIG"`
	Log     Log              `embed:"" prefix:"log."`

	Generate Generate      `cmd:"" help:"Generate the ICC sources, headers and export files"`
	Symbols  Symbols       `cmd:"" help:"Print the call table of every artifact"`
	Verify   Verify        `cmd:"" help:"Check that generated files on disk are up to date"`
	ConfigC  ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}

type Log struct {
	Level  string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"ICCGEN_LOG_LEVEL"`
	File   string `help:"Also write logs to this file" env:"ICCGEN_LOG_FILE"`
	Format string `help:"Console log format" enum:"auto,text,json" default:"auto" env:"ICCGEN_LOG_FORMAT"`
}

// Inputs are the options shared by every command reading declarations.
type Inputs struct {
	Functions   string `help:"Primary declaration file" default:"functions.txt" env:"ICCGEN_FUNCTIONS"`
	Legacy      string `help:"Declaration file of the older ICC shipped alongside" env:"ICCGEN_LEGACY"`
	VersionFile string `help:"File holding the ICC version on its first line" default:"ICC_ver.txt" env:"ICCGEN_VERSION_FILE"`
	ICCDir      string `name:"icc-dir" help:"Output directory of the ICC sources" default:"." env:"ICCGEN_ICC_DIR"`
	PkgDir      string `help:"Output directory of the packaging sources" default:"../iccpkg" env:"ICCGEN_PKG_DIR"`
	TestDir     string `help:"Output directory of the test scripts" default:"../icc_test" env:"ICCGEN_TEST_DIR"`
}

func (in Inputs) options() generator.Options {
	return generator.Options{
		Functions:   in.Functions,
		Legacy:      in.Legacy,
		VersionFile: in.VersionFile,
		Layout: emit.Layout{
			ICCDir:  in.ICCDir,
			PkgDir:  in.PkgDir,
			TestDir: in.TestDir,
		},
	}
}
