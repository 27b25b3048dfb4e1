// Package exports writes the per platform symbol export files of the
// generated shared libraries.
package exports

import (
	"fmt"

	"github.com/Alia5/iccgen/internal/codegen/namespace"
)

// Platform selects the export file syntax.
type Platform int

const (
	WIN Platform = iota
	AIX
	SUN
	LINUX
	HP
	OS2
	OSX
	OS400
	ZOS
)

var platformNames = [...]string{"WIN", "AIX", "SUN", "LINUX", "HP", "OS2", "OSX", "OS400", "ZOS"}

func (p Platform) String() string {
	if p < 0 || int(p) >= len(platformNames) {
		return fmt.Sprintf("Platform(%d)", int(p))
	}
	return platformNames[p]
}

// Target is one export file and the platform whose syntax it uses.
type Target struct {
	File     string
	Platform Platform
}

// Family is a set of export files sharing their symbols and settings.
type Family struct {
	Name string
	// Description is quoted in the file header of most platforms.
	Description string
	// Block names the version script node on SUN and LINUX.
	Block string
	// Marker, when set, is suffixed with the ICC version and exported last on HP.
	Marker         string
	OS2Library     string
	OS2Description string
	Signature      string
	// Prefix is prepended to every function name passed to the exporter.
	Prefix string
	// Fixed symbols are exported verbatim ahead of the function names.
	Fixed []string
	// WinFixed symbols follow Fixed on WIN only.
	WinFixed []string
	// Exclude lists function names never exported.
	Exclude []string
	Targets []Target
}

// Symbols returns the exported symbols for platform p in file order.
func (f Family) Symbols(p Platform, names []string) []string {
	out := append([]string(nil), f.Fixed...)
	if p == WIN {
		out = append(out, f.WinFixed...)
	}
	for _, n := range names {
		if f.excluded(n) {
			continue
		}
		out = append(out, namespace.Symbol(f.Prefix, n))
	}
	return out
}

func (f Family) excluded(name string) bool {
	for _, x := range f.Exclude {
		if x == name {
			return true
		}
	}
	return false
}

var iccTargets = []Target{
	{"icclib_win32.def", WIN},
	{"icclib_sun.exp", SUN},
	{"icclib_linux.exp", LINUX},
	{"icclib_aix.exp", AIX},
	{"icclib_hpux.exp", HP},
	{"icclib_os2.def", OS2},
	{"icclib_osx.def", OSX},
	{"icclib_os400.exp", OS400},
	{"icclib_zos.h", ZOS},
}

// stepTargets lists the step library export files, named after stem.
func stepTargets(stem string) []Target {
	return []Target{
		{stem + "aix4.exp", AIX},
		{stem + "sun64.exp", SUN},
		{stem + "aix64.exp", AIX},
		{stem + "sun64_x86.exp", SUN},
		{stem + "hpux.exp", HP},
		{stem + "sun_x86.exp", SUN},
		{stem + "hpux64.exp", HP},
		{stem + "win.def", WIN},
		{stem + "hpux64_ia64_gcc.exp", HP},
		{stem + "win64.def", WIN},
		{stem + "hpux_ia64.exp", HP},
		{stem + "linux.exp", LINUX},
		{stem + "sun4-sol2.exp", SUN},
		{stem + "OS400.exp", OS400},
		{stem + "ZOS.h", ZOS},
		{stem + "OSX.def", OSX},
	}
}

var (
	gskFixed = []string{
		"gskiccs_SCCSInfo",
		"gskiccs_Crypto_VersionInfo",
		"gskiccs_path",
		"gskiccs8_path",
		"ICC_Init",
		"Delta_T",
		"Delta_res",
		"Delta2Time",
		"Delta_spanT",
		"Delta_spanC",
		"ICC_MemCheck_start",
		"ICC_MemCheck_stop",
	}
	gskWinFixed  = []string{"ICC_InitW", "gskiccs8_pathW", "gskiccs_pathW"}
	jgskFixed    = []string{"JCC_Init", "JCC_HKDF", "JCC_MemCheck_start", "JCC_MemCheck_stop"}
	jgskWinFixed = []string{"JCC_InitW"}

	// GSKExclude names functions kept out of the step library exports.
	GSKExclude = []string{"OS_helpers"}
)

// ICC is the crypto library family. It only exports lib_init, namespaced for
// the FIPS or the non-FIPS build.
func ICC(fips bool) Family {
	prefix := "N_"
	if fips {
		prefix = "C_"
	}
	return Family{
		Name:           "icclib",
		Description:    "ICCLIB EXPORT FILE",
		Block:          "ICCLIB",
		Marker:         "icclib085_loaded_from",
		OS2Library:     "icclib",
		OS2Description: "ICC Shared Library",
		Signature:      "LIBICCLIB",
		Prefix:         prefix,
		Fixed:          []string{prefix + "lib_init"},
		Targets:        iccTargets,
	}
}

func gsk(name, block, marker, prefix string, fixed, winFixed []string, targets []Target, exclude []string) Family {
	return Family{
		Name:           name,
		Description:    "GSKICCS EXPORT FILE",
		Block:          block,
		Marker:         marker,
		OS2Library:     "icclib",
		OS2Description: "GSkit ICC Stub",
		Signature:      "LIBICCLIB",
		Prefix:         prefix,
		Fixed:          fixed,
		WinFixed:       winFixed,
		Exclude:        exclude,
		Targets:        targets,
	}
}

// GSK is the step library family written to exports/.
func GSK() Family {
	return gsk("gsk", "ICCSTUB", "gskiccs8_loaded_from", "ICC_", gskFixed, gskWinFixed, stepTargets("iccstep"), GSKExclude)
}

// GSKCompat is the step library family with the old version node, written
// to exports_old/.
func GSKCompat() Family {
	return gsk("gsk-compat", "GSKICCS", "gskiccs8_loaded_from", "ICC_", gskFixed, gskWinFixed, stepTargets("iccstep"), GSKExclude)
}

// JGSK is the Java step library family.
func JGSK() Family {
	return gsk("jgsk", "JGSKICCS", "jgskiccs8_loaded_from", "JCC_", jgskFixed, jgskWinFixed, stepTargets("jccstep"), nil)
}

// AUX is the auxiliary library family.
func AUX() Family {
	return Family{
		Name:           "aux",
		Description:    "ICC_AUX EXPORT FILE",
		Block:          "OPENSSL",
		OS2Library:     "ICC_AUX",
		OS2Description: "ICC Auxiliary Shared Library",
		Signature:      "LIBICC_AUX",
		Prefix:         "ICC_",
		Fixed:          []string{"ICC_AUX_Init", "ICC_AUX_Cleanup"},
		Targets:        stepTargets("iccaux"),
	}
}
