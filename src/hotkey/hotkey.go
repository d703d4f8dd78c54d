// Package hotkey registers the global panic-clear key combination.
package hotkey

import (
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listen starts a global keyboard hook and calls callback whenever every key
// of combo (for example "Ctrl+Alt+X") is held down at once. It returns an
// error when combo contains no mappable key. Stop ends the hook.
func Listen(combo string, callback func()) error {
	c, err := newChord(combo)
	if err != nil {
		return err
	}
	log.Printf("hotkey: listening for %s", combo)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey: PANIC in hook goroutine: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("hotkey: gohook.Start() returned nil channel")
			return
		}
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				if c.press(ev.Rawcode) && callback != nil {
					log.Printf("hotkey: %s activated", combo)
					callback()
				}
			case gohook.KeyUp:
				c.release(ev.Rawcode)
			}
		}
		log.Printf("hotkey: event channel closed")
	}()
	return nil
}

// Stop unregisters the global hook.
func Stop() {
	gohook.End()
}

type chordKey struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

// chord tracks which keys of a combination are currently held.
type chord struct {
	mu   sync.Mutex
	keys []chordKey
}

func newChord(combo string) (*chord, error) {
	c := &chord{}
	for _, name := range parseHotkey(combo) {
		rawcodes := keyNameToRawcodes(name)
		if len(rawcodes) == 0 {
			return nil, fmt.Errorf("hotkey %q: unknown key %q", combo, name)
		}
		c.keys = append(c.keys, chordKey{name: name, rawcodes: rawcodes})
	}
	if len(c.keys) == 0 {
		return nil, fmt.Errorf("hotkey %q: no keys", combo)
	}
	return c, nil
}

// press marks rawcode as held and reports whether the whole chord is now
// down. A completed chord resets so it fires once per press.
func (c *chord) press(rawcode uint16) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mark(rawcode, true)
	for i := range c.keys {
		if !c.keys[i].pressed {
			return false
		}
	}
	for i := range c.keys {
		c.keys[i].pressed = false
	}
	return true
}

func (c *chord) release(rawcode uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mark(rawcode, false)
}

func (c *chord) mark(rawcode uint16, pressed bool) {
	for i := range c.keys {
		for _, rc := range c.keys[i].rawcodes {
			if rc == rawcode {
				c.keys[i].pressed = pressed
				break
			}
		}
	}
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+x" to normalized key names
func parseHotkey(combo string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			part = "ctrl"
		case "win", "super":
			part = "cmd"
		}
		keys = append(keys, part)
	}
	return keys
}

// keyNameToRawcodes maps a key name to its Windows virtual key codes, with
// left and right variants for modifiers.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	if len(keyName) == 1 {
		ch := keyName[0]
		switch {
		case ch >= 'a' && ch <= 'z':
			return []uint16{uint16('A' + ch - 'a')} // VK 0x41-0x5A
		case ch >= '0' && ch <= '9':
			return []uint16{uint16(ch)} // VK 0x30-0x39
		}
	}
	var n int
	if _, err := fmt.Sscanf(keyName, "f%d", &n); err == nil && n >= 1 && n <= 24 && keyName == fmt.Sprintf("f%d", n) {
		return []uint16{uint16(111 + n)} // VK_F1 = 112
	}

	switch keyName {
	case "ctrl":
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case "alt":
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case "shift":
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case "cmd":
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	case "space":
		return []uint16{32}
	case "enter", "return":
		return []uint16{13}
	case "esc", "escape":
		return []uint16{27}
	case "tab":
		return []uint16{9}
	case "backspace":
		return []uint16{8}
	case "delete", "del":
		return []uint16{46}
	case "insert", "ins":
		return []uint16{45}
	case "home":
		return []uint16{36}
	case "end":
		return []uint16{35}
	case "pageup", "pgup":
		return []uint16{33}
	case "pagedown", "pgdn":
		return []uint16{34}
	case "left":
		return []uint16{37}
	case "up":
		return []uint16{38}
	case "right":
		return []uint16{39}
	case "down":
		return []uint16{40}
	default:
		return nil
	}
}
