package collider

// MotionState distinguishes dynamic bodies (integrated, collide with
// everything) from static ones (infinite mass, inserted once into the
// broad phase and never repositioned).
type MotionState int

const (
	Dynamic MotionState = iota
	Static
)

// ID is the opaque external handle returned by PhysicsWorld.Add*.
// It packs a slot index in the low 24 bits and a generation counter in
// the high 8 bits so that a handle surviving past its slot's reuse is
// detected rather than silently aliasing a new object (see SPEC_FULL.md
// §9's resolution of the generational-handle Open Question).
type ID uint32

const (
	slotBits = 24
	slotMask = (1 << slotBits) - 1
)

// NewID packs a slot index and generation into an ID.
func NewID(slot uint32, generation uint8) ID {

	return ID((uint32(generation) << slotBits) | (slot & slotMask))
}

// Slot returns the slot index encoded in id.
func (id ID) Slot() uint32 { return uint32(id) & slotMask }

// Generation returns the generation byte encoded in id.
func (id ID) Generation() uint8 { return uint8(uint32(id) >> slotBits) }

// Invalid is the reserved ID that never names a live collider.
const Invalid ID = ID(0xFFFFFFFF)

// Identifier is the stable row identifying one collider: its shape kind,
// the index into that kind's contiguous storage array, and the index of
// the owning physics object (body). Mirrors spec.md §3's
// ColliderIdentifier { type_tag, collider_index, object_index }.
type Identifier struct {
	Kind           Kind
	ColliderIndex  int
	ObjectIndex    int
	Motion         MotionState
}
