package controller

import "github.com/gdamore/tcell/v2"

// Rune keys get folded into tcell's key space so that a single map drives all
// shortcuts.
const (
	KeyC tcell.Key = iota + 1000
	KeyD
	KeyE
	KeyK
	KeyL
	KeyM
	KeyN
	KeyP
	KeyQ
	KeyR
	KeyT
	KeyU
	KeyX
	KeyShiftE
	KeyShiftL
	KeySlash
)

var runeKeys map[rune]tcell.Key

func initKeys() {
	runeKeys = map[rune]tcell.Key{
		'c': KeyC,
		'd': KeyD,
		'e': KeyE,
		'k': KeyK,
		'l': KeyL,
		'm': KeyM,
		'n': KeyN,
		'p': KeyP,
		'q': KeyQ,
		'r': KeyR,
		't': KeyT,
		'u': KeyU,
		'x': KeyX,
		'E': KeyShiftE,
		'L': KeyShiftL,
		'/': KeySlash,
	}
}

// keyNames supplements tcell.KeyNames for the folded rune keys so headers can
// render shortcut hints.
var keyNames = map[tcell.Key]string{
	KeyC:      "c",
	KeyD:      "d",
	KeyE:      "e",
	KeyK:      "k",
	KeyL:      "l",
	KeyM:      "m",
	KeyN:      "n",
	KeyP:      "p",
	KeyQ:      "q",
	KeyR:      "r",
	KeyT:      "t",
	KeyU:      "u",
	KeyX:      "x",
	KeyShiftE: "E",
	KeyShiftL: "L",
	KeySlash:  "/",
}

// AsKey converts a key event to its map key, folding runes into the constants
// above.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}

	if key, ok := runeKeys[evt.Rune()]; ok {
		return key
	}

	return tcell.KeyRune
}

func keyName(key tcell.Key) string {
	if name, ok := keyNames[key]; ok {
		return name
	}

	return tcell.KeyNames[key]
}
