package actions

import (
	"sort"
	"strings"

	"github.com/relloyd/airpipe/constants"
)

// supportedConnectionTypes holds the connection types that the config store and
// pipeline actions accept.
var supportedConnectionTypes = map[string]struct{}{
	constants.ConnectionTypePostgres: {},
	constants.ConnectionTypeS3:       {},
}

// IsSupportedConnectionType returns true if the supplied connection type can be
// used by pipeline actions, else false.
func IsSupportedConnectionType(connectionType string) bool {
	_, ok := supportedConnectionTypes[connectionType]
	return ok
}

// GetSupportedConnectionTypes returns a sorted CSV of the supported connection types.
func GetSupportedConnectionTypes() string {
	s := make([]string, 0, len(supportedConnectionTypes))
	for k := range supportedConnectionTypes { // for each supported connection type as a key...
		s = append(s, k) // save unique connection type key
	}
	sort.Strings(s)
	return strings.Join(s, ", ")
}
