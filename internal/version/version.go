package version

import (
	"fmt"

	"github.com/carlmjohnson/versioninfo"
)

const AppName = "Server Warden"

// String returns a one-line build description.
func String() string {
	return fmt.Sprintf("%s %s", AppName, versioninfo.Short())
}
