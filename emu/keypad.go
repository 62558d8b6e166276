// Package emu provides functional CHIP-8 emulation.
package emu

// NumKeys is the number of keys on the hexadecimal keypad.
const NumKeys = 16

// Keypad holds the pressed state of keys 0x0-0xF.
type Keypad struct {
	keys [NumKeys]bool
}

// Set records a key press or release. Keys above 0xF are ignored.
func (k *Keypad) Set(key uint8, pressed bool) {
	if int(key) >= NumKeys {
		return
	}
	k.keys[key] = pressed
}

// Pressed reports whether the key selected by the low nibble of key is down.
func (k *Keypad) Pressed(key uint8) bool {
	return k.keys[key&0xF]
}

// FirstPressed returns the lowest-numbered key that is down.
func (k *Keypad) FirstPressed() (uint8, bool) {
	for i, pressed := range k.keys {
		if pressed {
			return uint8(i), true
		}
	}
	return 0, false
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.keys = [NumKeys]bool{}
}
