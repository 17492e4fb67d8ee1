package colon

import (
	"fmt"
	"sort"
	"strings"
)

// Kind distinguishes solid items from fluids.
type Kind string

const (
	KindItem  Kind = "item"
	KindFluid Kind = "fluid"
)

// ID identifies an item or fluid. It is comparable and used as a map key
// everywhere rates or stock are tracked.
type ID struct {
	Kind Kind
	Name string
}

// Item returns the identifier of a solid item
func Item(name string) ID { return ID{Kind: KindItem, Name: name} }

// Fluid returns the identifier of a fluid
func Fluid(name string) ID { return ID{Kind: KindFluid, Name: name} }

// ErrInvalidID indicates a string could not be parsed into an ID
type ErrInvalidID struct {
	Value  string
	Reason string
}

func (e *ErrInvalidID) Error() string {
	return fmt.Sprintf("invalid colon id %q: %s", e.Value, e.Reason)
}

// Parse converts the "kind:name" string form back into an ID.
func Parse(s string) (ID, error) {
	kind, name, ok := strings.Cut(s, ":")
	if !ok {
		return ID{}, &ErrInvalidID{Value: s, Reason: "missing ':' separator"}
	}
	if name == "" {
		return ID{}, &ErrInvalidID{Value: s, Reason: "empty name"}
	}
	switch Kind(kind) {
	case KindItem, KindFluid:
		return ID{Kind: Kind(kind), Name: name}, nil
	default:
		return ID{}, &ErrInvalidID{Value: s, Reason: "unknown kind " + kind}
	}
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the "kind:name" form
func (id ID) String() string {
	return string(id.Kind) + ":" + id.Name
}

// IsZero reports whether the id is unset
func (id ID) IsZero() bool {
	return id.Kind == "" && id.Name == ""
}

// IsFluid reports whether the id names a fluid
func (id ID) IsFluid() bool {
	return id.Kind == KindFluid
}

// MarshalText lets map[ID]T encode with string keys.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText is the inverse of MarshalText
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Less orders ids by kind then name
func Less(a, b ID) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Name < b.Name
}

// SortIDs sorts ids in place using Less
func SortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return Less(ids[i], ids[j]) })
}
