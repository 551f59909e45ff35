package hotkey

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// rawcodes maps normalized key names to Windows virtual key codes.
// Modifiers carry both left and right variants so either side counts.
var rawcodes = map[string][]uint16{
	"ctrl":  {162, 163},
	"alt":   {164, 165},
	"shift": {160, 161},
	"cmd":   {91, 92},

	"space":     {32},
	"enter":     {13},
	"esc":       {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"insert":    {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pagedown":  {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		rawcodes[string(c)] = []uint16{uint16(c - 'a' + 65)}
	}
	for c := '0'; c <= '9'; c++ {
		rawcodes[string(c)] = []uint16{uint16(c - '0' + 48)}
	}
	for i := 1; i <= 24; i++ {
		rawcodes[fmt.Sprintf("f%d", i)] = []uint16{uint16(111 + i)}
	}
}

// aliases folds common alternate spellings onto canonical key names.
var aliases = map[string]string{
	"control": "ctrl",
	"win":     "cmd",
	"super":   "cmd",
	"return":  "enter",
	"escape":  "esc",
	"del":     "delete",
	"ins":     "insert",
	"pgup":    "pageup",
	"pgdn":    "pagedown",
}

type keyState struct {
	name    string
	codes   []uint16
	pressed bool
}

type binding struct {
	combo    string
	keys     []keyState
	callback func()
}

// Listener tracks registered hotkey combinations and dispatches their
// callbacks off a single gohook event pump.
type Listener struct {
	mu       sync.Mutex
	bindings []*binding
	started  bool
}

func NewListener() *Listener {
	return &Listener{}
}

// Register wires a combination like "Alt+Shift+S" to a callback. All
// registrations must happen before Start.
func (l *Listener) Register(combo string, callback func()) error {
	names, err := parseCombo(combo)
	if err != nil {
		return err
	}

	b := &binding{combo: combo, callback: callback}
	for _, name := range names {
		codes, ok := rawcodes[name]
		if !ok {
			return fmt.Errorf("hotkey %q: unknown key %q", combo, name)
		}
		b.keys = append(b.keys, keyState{name: name, codes: codes})
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return errors.New("hotkey: cannot register after Start")
	}
	l.bindings = append(l.bindings, b)
	return nil
}

// Start opens the global keyboard hook and pumps events on a background
// goroutine. An error here means no hotkey will ever fire, so callers
// should treat it as fatal.
func (l *Listener) Start() error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return errors.New("hotkey: already started")
	}
	if len(l.bindings) == 0 {
		l.mu.Unlock()
		return errors.New("hotkey: no bindings registered")
	}
	l.started = true
	l.mu.Unlock()

	evChan := gohook.Start()
	if evChan == nil {
		return errors.New("hotkey: keyboard hook unavailable")
	}

	go l.pump(evChan)
	return nil
}

func (l *Listener) pump(evChan chan gohook.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic in hotkey event pump: %v", r)
		}
	}()

	for ev := range evChan {
		switch ev.Kind {
		case gohook.KeyDown:
			l.keyDown(ev.Rawcode)
		case gohook.KeyUp:
			l.keyUp(ev.Rawcode)
		}
	}
	log.Printf("hotkey event channel closed")
}

func (l *Listener) keyDown(raw uint16) {
	var fire []func()

	l.mu.Lock()
	for _, b := range l.bindings {
		matched := false
		for i := range b.keys {
			if matchesCode(&b.keys[i], raw) {
				b.keys[i].pressed = true
				matched = true
			}
		}
		if !matched {
			continue
		}
		all := true
		for i := range b.keys {
			if !b.keys[i].pressed {
				all = false
				break
			}
		}
		if all {
			log.Printf("hotkey activated: %s", b.combo)
			for i := range b.keys {
				b.keys[i].pressed = false
			}
			if b.callback != nil {
				fire = append(fire, b.callback)
			}
		}
	}
	l.mu.Unlock()

	for _, cb := range fire {
		cb()
	}
}

func (l *Listener) keyUp(raw uint16) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.bindings {
		for i := range b.keys {
			if matchesCode(&b.keys[i], raw) {
				b.keys[i].pressed = false
			}
		}
	}
}

func matchesCode(k *keyState, raw uint16) bool {
	for _, c := range k.codes {
		if c == raw {
			return true
		}
	}
	return false
}

// parseCombo splits "Ctrl+Alt+Q" into normalized lowercase key names.
func parseCombo(combo string) ([]string, error) {
	parts := strings.Split(strings.ToLower(combo), "+")
	var names []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("hotkey %q: empty key name", combo)
		}
		if canon, ok := aliases[part]; ok {
			part = canon
		}
		names = append(names, part)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("hotkey %q: no keys", combo)
	}
	return names, nil
}
