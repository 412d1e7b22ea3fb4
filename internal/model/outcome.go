package model

// Outcome is the result of a save attempt on the collection.
type Outcome int

const (
	// Added means the item was appended to the collection.
	Added Outcome = iota
	// AlreadyExists means an item with the same id was already saved; the
	// collection is unchanged.
	AlreadyExists
)

// String returns the display name of the outcome
func (o Outcome) String() string {
	switch o {
	case Added:
		return "Added"
	case AlreadyExists:
		return "AlreadyExists"
	default:
		return "Unknown"
	}
}
