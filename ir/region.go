package ir

import "fmt"

var (
	_ Region = StaticRegion{}
	_ Region = (*InferRegion)(nil)
	_ Region = (*BoundRegion)(nil)
	_ Region = (*NamedRegion)(nil)
	_ Region = (*PlaceholderRegion)(nil)
)

// StaticRegion outlives every other region.
type StaticRegion struct{}

func (r StaticRegion) isRegion()      {}
func (r StaticRegion) String() string { return "'static" }
func (r StaticRegion) Hash() uint64   { return 0x9ddfea08eb382d69 }

// InferRegion is a not-yet-resolved region inference variable.
type InferRegion struct {
	ID RegionVarID
}

func (r *InferRegion) isRegion()      {}
func (r *InferRegion) String() string { return fmt.Sprintf("?r%d", r.ID) }
func (r *InferRegion) Hash() uint64   { return 0xa0761d6478bd642f ^ uint64(r.ID)*31 }

// BoundRegion is the de Bruijn form of a canonical region variable.
type BoundRegion struct {
	Index int
}

func (r *BoundRegion) isRegion()      {}
func (r *BoundRegion) String() string { return fmt.Sprintf("^r%d", r.Index) }
func (r *BoundRegion) Hash() uint64   { return 0xe7037ed1a0b428db ^ uint64(r.Index)*37 }

// NamedRegion is a region parameter named in the enclosing scope.
type NamedRegion struct {
	Name string
}

func (r *NamedRegion) isRegion()      {}
func (r *NamedRegion) String() string { return "'" + r.Name }
func (r *NamedRegion) Hash() uint64   { return hashString(r.Name) * 61 }

// PlaceholderRegion is a rigid skolem for a universally quantified region.
type PlaceholderRegion struct {
	Universe UniverseIndex
	Name     string
}

func (r *PlaceholderRegion) isRegion()      {}
func (r *PlaceholderRegion) String() string { return "!'" + r.Name }
func (r *PlaceholderRegion) Hash() uint64 {
	return hashString(r.Name)*67 ^ uint64(r.Universe)
}
