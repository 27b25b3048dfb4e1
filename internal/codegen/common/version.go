package common

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Version is set via ldflags at build time: -ldflags "-X github.com/Alia5/iccgen/internal/codegen/common.Version=x.y.z"
var Version = ""

// GetVersion returns the version string that was set at build time via ldflags.
// Returns "0.0.1-dev" if Version is empty (development builds only).
func GetVersion() (string, error) {
	if Version == "" {
		return "0.0.1-dev", nil
	}

	version := strings.TrimPrefix(Version, "v")
	baseVersion := strings.SplitN(version, "-", 2)[0]
	if !strings.Contains(baseVersion, ".") {
		return "", fmt.Errorf("invalid version format: %s (expected x.y.z)", Version)
	}

	return version, nil
}

// DefaultICCVersion is used when no version file exists.
const DefaultICCVersion = "0_0_0"

// ReadICCVersion returns the first line of the ICC version file at path.
// A missing file yields DefaultICCVersion.
func ReadICCVersion(path string) (string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultICCVersion, nil
	}
	if err != nil {
		return "", fmt.Errorf("open version file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read version file: %w", err)
		}
		return DefaultICCVersion, nil
	}
	return strings.TrimRight(sc.Text(), "\r"), nil
}
