package version

import (
	"fmt"
	"runtime"

	"github.com/cocoonstack/cocoon-hwaddr/feed"
)

var (
	NAME     = "cocoon-hwaddr"
	VERSION  = "unknown"
	REVISION = "HEAD"
	BUILTAT  = "now"
)

func String() string {
	return fmt.Sprintf(
		"Version:        %s\nGit hash:       %s\nBuilt:          %s\nFeed encoding:  v%d\nGolang version: %s\nOS/Arch:        %s/%s\n",
		VERSION, REVISION, BUILTAT, feed.ConventionVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}
