package fundpool

import "fmt"

// Release version of the fundpool application. Suffix is set for builds that
// are not a tagged release, ie "-dev".
const (
	Maj    = 0
	Min    = 1
	Fix    = 0
	Suffix = "-dev"
)

// GitCommit is set by build flags.
var GitCommit = ""

// Version returns the release version followed by the commit the binary was
// built from, when known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit != "" {
		v += " " + GitCommit
	}
	return v
}
