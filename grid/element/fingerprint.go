package element

import (
	"github.com/hnimtadd/gridvirt/grid/source"
	"github.com/mitchellh/hashstructure/v2"
)

// Fingerprint hashes a data context by value. Zero means "no fingerprint":
// nil items, the placeholder and values hashstructure cannot walk (funcs,
// channels) never match anything. Elements are their own containers and
// are not hashed.
func Fingerprint(item any) uint64 {
	if item == nil || source.IsPlaceholder(item) {
		return 0
	}
	if _, ok := item.(Element); ok {
		return 0
	}
	hashed, err := hashstructure.Hash(item, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return hashed
}
