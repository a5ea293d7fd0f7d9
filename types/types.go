// Package types holds the datapoint model shared by the datastore and its
// producers: the six datapoint types, the button states and the raw Word
// cell representation used for bit-exact storage and change detection.
package types

import "math"

// DatapointType selects one of the six typed arenas.
type DatapointType uint8

const (
	Binary DatapointType = iota
	Button
	Float
	Int
	MultiState
	Uint
	TypeCount
)

func (t DatapointType) String() string {
	switch t {
	case Binary:
		return "binary"
	case Button:
		return "button"
	case Float:
		return "float"
	case Int:
		return "int"
	case MultiState:
		return "multi_state"
	case Uint:
		return "uint"
	default:
		return "unknown"
	}
}

// ButtonState is the press state of a button datapoint.
type ButtonState uint32

const (
	ButtonUnpressed ButtonState = iota
	ButtonShortPressed
	ButtonLongPressed
	ButtonStateCount
)

func (b ButtonState) String() string {
	switch b {
	case ButtonUnpressed:
		return "unpressed"
	case ButtonShortPressed:
		return "short_pressed"
	case ButtonLongPressed:
		return "long_pressed"
	default:
		return "unknown"
	}
}

// Word is the untyped 32-bit cell every datapoint value is stored as.
// bool, button, f32, i32 and u32 all round-trip through it; comparing two
// Words compares the underlying bit patterns, which is exactly the change
// test the datastore worker runs on writes.
type Word uint32

func BoolWord(b bool) Word {
	if b {
		return 1
	}
	return 0
}

func (w Word) Bool() bool { return w != 0 }

func ButtonWord(s ButtonState) Word { return Word(s) }

func (w Word) Button() ButtonState { return ButtonState(w) }

func FloatWord(f float32) Word { return Word(math.Float32bits(f)) }

func (w Word) Float() float32 { return math.Float32frombits(uint32(w)) }

func IntWord(i int32) Word { return Word(uint32(i)) }

func (w Word) Int() int32 { return int32(uint32(w)) }

func UintWord(u uint32) Word { return Word(u) }

func (w Word) Uint() uint32 { return uint32(w) }

// Datapoint option flags.
const (
	FlagNone uint32 = 0
	FlagNVM  uint32 = 1 << 0 // value is persisted to NVM by the persistence sweep
)

// Datapoint is one cell of an arena: the current value and its option flags.
type Datapoint struct {
	Value Word
	Flags uint32
}
