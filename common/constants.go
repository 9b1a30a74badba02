package common

// TeslangVersion is the current compiler version as a string.
const TeslangVersion string = "0.1.0"

// TeslangFileExt is the file extension for a teslang source file.
const TeslangFileExt string = ".teslang"

// ProfileFileName is the name of the optional compiler configuration file.
const ProfileFileName string = "teslang.toml"

// BytecodeSuffix replaces the source extension to form the bytecode file name.
const BytecodeSuffix string = "-bytecode.tes"

// DefaultVMPath is the VM executable used when no profile overrides it.
const DefaultVMPath string = "tsvm"
