package badger

import (
	"fmt"

	"github.com/uzhavan/disai/core"
)

// Key prefixes for different data types
const (
	vectorPrefix = "embvec"
)

// makeVectorKey generates a key for a cached vector by its content ID.
func makeVectorKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorPrefix, id))
}
