package shotship

import "github.com/bft-labs/shotship/pkg/log"

// Version is the current version of the shotship module.
const Version = "1.0.0"

// ModuleVersions returns the versions of shotship and its public sub-modules.
func ModuleVersions() map[string]string {
	return map[string]string{
		"shotship": Version,
		"log":      log.Version,
	}
}
