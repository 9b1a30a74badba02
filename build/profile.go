package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml"

	"teslang/common"
	"teslang/report"
)

// Enumeration of output formats.
const (
	EmitBytecode = "bytecode"
	EmitLLVM     = "llvm"
)

// Profile is the compiler configuration.  It is read from `teslang.toml` if
// that file exists.
type Profile struct {
	VMPath       string `toml:"vm-path" default:"tsvm"`
	LogLevel     string `toml:"log-level" default:"verbose"`
	OutputSuffix string `toml:"output-suffix" default:"-bytecode.tes"`

	// Emit selects the output format: one of the enumerated formats.
	Emit string `toml:"emit" default:"bytecode"`

	// Indent is the number of spaces instructions are indented by.
	Indent int `toml:"indent" default:"4"`

	WarnUnused bool `toml:"warn-unused"`
}

// DefaultProfile returns the profile used when no configuration is given.
func DefaultProfile() *Profile {
	return &Profile{
		VMPath:       common.DefaultVMPath,
		LogLevel:     "verbose",
		OutputSuffix: common.BytecodeSuffix,
		Emit:         EmitBytecode,
		Indent:       4,
	}
}

// LoadProfile loads the profile at `path`.  If no file exists at `path`, the
// default profile is returned.  Keys missing from the file keep their default
// values.
func LoadProfile(path string) (*Profile, error) {
	buff, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultProfile(), nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading profile at `%s`: %w", path, err)
	}

	return ParseProfile(buff)
}

// ParseProfile parses and validates the TOML text of a profile.
func ParseProfile(buff []byte) (*Profile, error) {
	profile := DefaultProfile()
	if err := toml.Unmarshal(buff, profile); err != nil {
		return nil, fmt.Errorf("error parsing profile: %w", err)
	}

	if err := profile.validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// validate checks that every value of the profile is valid.
func (p *Profile) validate() error {
	if p.VMPath == "" {
		return errors.New("invalid profile: `vm-path` must not be empty")
	}

	if _, err := report.ParseLogLevel(p.LogLevel); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	if p.OutputSuffix == "" {
		return errors.New("invalid profile: `output-suffix` must not be empty")
	}

	if p.Emit != EmitBytecode && p.Emit != EmitLLVM {
		return fmt.Errorf("invalid profile: unknown output format `%s`", p.Emit)
	}

	if p.Indent < 0 {
		return errors.New("invalid profile: `indent` must not be negative")
	}

	return nil
}
