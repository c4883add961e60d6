package virt

import (
	"fmt"

	"github.com/hnimtadd/gridvirt/grid/source"
)

var (
	ErrNoSource = fmt.Errorf("virt: no data source")

	// ErrInvalidChange matches every rejected change notification, the
	// ones source.Change.Validate rejects included.
	ErrInvalidChange = source.ErrInvalidChange
)
