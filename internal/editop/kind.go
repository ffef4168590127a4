package editop

// Kind identifies the variant of an Operation.
type Kind int

const (
	KindReplace Kind = iota
	KindDelete
	KindInsertBefore
	KindInsertAfter
	KindMoveBefore
	KindMoveAfter
	KindSwap
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindReplace:
		return "replace"
	case KindDelete:
		return "delete"
	case KindInsertBefore:
		return "insert-before"
	case KindInsertAfter:
		return "insert-after"
	case KindMoveBefore:
		return "move-before"
	case KindMoveAfter:
		return "move-after"
	case KindSwap:
		return "swap"
	default:
		return "unknown"
	}
}

// IsInsert returns true for the two insert kinds.
func (k Kind) IsInsert() bool {
	return k == KindInsertBefore || k == KindInsertAfter
}

// IsMove returns true for the two move kinds.
func (k Kind) IsMove() bool {
	return k == KindMoveBefore || k == KindMoveAfter
}
