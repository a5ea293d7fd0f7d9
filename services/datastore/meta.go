package datastore

import "sensornode-go/types"

// The datapoint set is frozen at build time. Each type owns one declaration
// table; the ID constants, default values, option flags and shell names for
// a type all come from the same table so they cannot drift apart. Adding a
// datapoint means adding one table row and one ID constant; newStore
// panics at init when the two disagree.

type decl struct {
	name  string
	flags uint32
	def   types.Word
}

// Binary datapoint IDs.
const (
	BinaryFirst uint32 = iota
	BinarySecond
	BinaryThird
	BinaryFourth
	binaryCount
)

var binaryDecls = []decl{
	{"binary_first", types.FlagNVM, types.BoolWord(true)},
	{"binary_second", types.FlagNVM, types.BoolWord(false)},
	{"binary_third", types.FlagNVM, types.BoolWord(true)},
	{"binary_fourth", types.FlagNVM, types.BoolWord(false)},
}

// Button datapoint IDs.
const (
	ButtonFirst uint32 = iota
	ButtonSecond
	ButtonThird
	ButtonFourth
	buttonCount
)

var buttonDecls = []decl{
	{"button_first", types.FlagNVM, types.ButtonWord(types.ButtonUnpressed)},
	{"button_second", types.FlagNVM, types.ButtonWord(types.ButtonUnpressed)},
	{"button_third", types.FlagNVM, types.ButtonWord(types.ButtonUnpressed)},
	{"button_fourth", types.FlagNVM, types.ButtonWord(types.ButtonUnpressed)},
}

// Float datapoint IDs.
const (
	FloatFirst uint32 = iota
	FloatSecond
	FloatThird
	FloatFourth
	floatCount
)

var floatDecls = []decl{
	{"float_first", types.FlagNVM, types.FloatWord(0.5)},
	{"float_second", types.FlagNVM, types.FloatWord(1.0)},
	{"float_third", types.FlagNVM, types.FloatWord(2.0)},
	{"float_fourth", types.FlagNVM, types.FloatWord(3.0)},
}

// Signed integer datapoint IDs.
const (
	IntFirst uint32 = iota
	IntSecond
	IntThird
	IntFourth
	intCount
)

var intDecls = []decl{
	{"int_first", types.FlagNVM, types.IntWord(0)},
	{"int_second", types.FlagNVM, types.IntWord(-5)},
	{"int_third", types.FlagNVM, types.IntWord(1)},
	{"int_fourth", types.FlagNVM, types.IntWord(2)},
}

// Multi-state datapoint IDs.
const (
	MultiStateFirst uint32 = iota
	MultiStateSecond
	MultiStateThird
	MultiStateFourth
	multiStateCount
)

var multiStateDecls = []decl{
	{"multi_state_first", types.FlagNVM, types.UintWord(1)},
	{"multi_state_second", types.FlagNVM, types.UintWord(3)},
	{"multi_state_third", types.FlagNVM, types.UintWord(0)},
	{"multi_state_fourth", types.FlagNVM, types.UintWord(2)},
}

// Unsigned integer datapoint IDs.
const (
	UintFirst uint32 = iota
	UintSecond
	UintThird
	UintFourth
	uintCount
)

var uintDecls = []decl{
	{"uint_first", types.FlagNVM, types.UintWord(0)},
	{"uint_second", types.FlagNVM, types.UintWord(1)},
	{"uint_third", types.FlagNVM, types.UintWord(2)},
	{"uint_fourth", types.FlagNVM, types.UintWord(3)},
}

var declTables = [types.TypeCount][]decl{
	types.Binary:     binaryDecls,
	types.Button:     buttonDecls,
	types.Float:      floatDecls,
	types.Int:        intDecls,
	types.MultiState: multiStateDecls,
	types.Uint:       uintDecls,
}

var declCounts = [types.TypeCount]uint32{
	types.Binary:     binaryCount,
	types.Button:     buttonCount,
	types.Float:      floatCount,
	types.Int:        intCount,
	types.MultiState: multiStateCount,
	types.Uint:       uintCount,
}

func init() {
	for typ, table := range declTables {
		if uint32(len(table)) != declCounts[typ] {
			panic("datastore: declaration table out of step with ID enum for " +
				types.DatapointType(typ).String())
		}
	}
}

// Count reports the arena length of a type.
func Count(typ types.DatapointType) int {
	if typ >= types.TypeCount {
		return 0
	}
	return len(declTables[typ])
}

// Names returns the declared datapoint names of a type, indexed by ID.
func Names(typ types.DatapointType) []string {
	if typ >= types.TypeCount {
		return nil
	}
	table := declTables[typ]
	names := make([]string, len(table))
	for i := range table {
		names[i] = table[i].name
	}
	return names
}

// Flags returns the option flags of a datapoint.
func Flags(typ types.DatapointType, id uint32) (uint32, error) {
	if typ >= types.TypeCount || id >= uint32(len(declTables[typ])) {
		return 0, errInvalid
	}
	return declTables[typ][id].flags, nil
}

func buildArena(typ types.DatapointType) []types.Datapoint {
	table := declTables[typ]
	arena := make([]types.Datapoint, len(table))
	for i := range table {
		arena[i] = types.Datapoint{Value: table[i].def, Flags: table[i].flags}
	}
	return arena
}

func maxArenaLen() int {
	max := 0
	for typ := range declTables {
		if len(declTables[typ]) > max {
			max = len(declTables[typ])
		}
	}
	return max
}
