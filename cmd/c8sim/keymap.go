package main

// keyEscape quits the terminal frontend.
const keyEscape = 0x1b

// keyHoldFrames is how long a terminal key stays pressed after its last
// byte arrives. Terminals report presses but not releases.
const keyHoldFrames = 6

// keyLayout maps the left-hand block of a QWERTY keyboard onto the hex
// keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var keyLayout = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// keyForByte returns the keypad index for a terminal input byte.
func keyForByte(b byte) (uint8, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keyLayout[b]
	return key, ok
}

// keyHold turns a stream of key bytes into press and release events by
// holding each key for keyHoldFrames frames.
type keyHold struct {
	frames [16]int
}

// frame consumes the bytes read during one frame and returns the resulting
// transitions, and whether Escape was seen.
func (k *keyHold) frame(input []byte) ([]KeyEvent, bool) {
	var events []KeyEvent
	var seen [16]bool

	for _, b := range input {
		if b == keyEscape {
			return events, true
		}
		key, ok := keyForByte(b)
		if !ok {
			continue
		}
		seen[key] = true
		if k.frames[key] == 0 {
			events = append(events, KeyEvent{Key: key, Pressed: true})
		}
		k.frames[key] = keyHoldFrames
	}

	for key := range k.frames {
		if seen[key] || k.frames[key] == 0 {
			continue
		}
		k.frames[key]--
		if k.frames[key] == 0 {
			events = append(events, KeyEvent{Key: uint8(key), Pressed: false})
		}
	}

	return events, false
}
