package element

// Kind tags what a slot holds. The display window and the recycle pools
// dispatch on this tag instead of type switches spread over the engine.
type Kind int

const (
	// A row bound to one item of the data source.
	KindDataRow Kind = iota

	// The header of a group, showing the group key and its item count.
	// Headers of a collapsed group stay visible.
	KindGroupHeader

	// The footer closing a group. Footers only occupy slots when the
	// ShowGroupFooters mode is on, and collapse with their group.
	KindGroupFooter

	kindCount
)

// KindCount is the number of element kinds.
const KindCount = int(kindCount)

func (k Kind) String() string {
	switch k {
	case KindDataRow:
		return "row"
	case KindGroupHeader:
		return "group_header"
	case KindGroupFooter:
		return "group_footer"
	default:
		return "unknown"
	}
}
