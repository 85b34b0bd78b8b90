package defect

import "fmt"

// InvalidMultiplierError reports a non-positive supercell multiplier.
type InvalidMultiplierError struct {
	Nx, Ny, Nz int
}

func (e *InvalidMultiplierError) Error() string {
	return fmt.Sprintf("supercell multipliers must be positive, got (%d, %d, %d)", e.Nx, e.Ny, e.Nz)
}

// InsufficientAtomsError reports a removal request exceeding the number of
// atoms of that element present in the structure.
type InsufficientAtomsError struct {
	Element string
	Have    int
	Want    int
}

func (e *InsufficientAtomsError) Error() string {
	return fmt.Sprintf("not enough %s atoms to remove: have %d, want %d", e.Element, e.Have, e.Want)
}

// InsufficientSpaceError reports that vacancy reuse plus empty-site search
// could not place all requested atoms of an element.
type InsufficientSpaceError struct {
	Element string
	Added   int
	Want    int
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("could only add %d of %d requested %s atoms (not enough free space)", e.Added, e.Want, e.Element)
}

// UnknownElementError reports an element with no valence-table entry.
type UnknownElementError struct {
	Element string
}

func (e *UnknownElementError) Error() string {
	return fmt.Sprintf("element %s not present in valence data", e.Element)
}
