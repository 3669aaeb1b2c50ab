package model

// Aircraft is a tail available for assignment. Only ID is used by the
// assignment model; the remaining fields are carried for reporting.
type Aircraft struct {
	ID   string
	Tail string
	Type string
}
