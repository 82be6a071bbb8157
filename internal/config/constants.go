package config

// Version is the current clog version.
var Version = "0.1.0"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".clog", ".cl"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates if the program is running in test mode. It is set
// once at startup so that golden tests can normalize auto-generated
// type-variable names (TVar.String would otherwise print a fresh, unstable
// index per run) instead of comparing them verbatim.
var IsTestMode = false

// Built-in external function names (§6's required minimum).
const (
	PrintFuncName    = "print"
	I2StrFuncName    = "i2str"
	ReadlineFuncName = "readline"
	LenFuncName      = "len"
)
