//go:build windows

package hotkey

import (
	"fmt"
	"sort"
	"strings"

	"golang.design/x/hotkey"

	"github.com/TanaroSch/binkybox/internal/keys"
)

// modifierMap folds left and right modifier keys into the generic modifiers
// RegisterHotKey understands.
var modifierMap = map[keys.ID]hotkey.Modifier{
	keys.LCtrl:  hotkey.ModCtrl,
	keys.RCtrl:  hotkey.ModCtrl,
	keys.LAlt:   hotkey.ModAlt,
	keys.RAlt:   hotkey.ModAlt,
	keys.LShift: hotkey.ModShift,
	keys.RShift: hotkey.ModShift,
	keys.LWin:   hotkey.ModWin,
	keys.RWin:   hotkey.ModWin,
}

var modifierNames = map[hotkey.Modifier]string{
	hotkey.ModCtrl:  "ctrl",
	hotkey.ModAlt:   "alt",
	hotkey.ModShift: "shift",
	hotkey.ModWin:   "win",
}

// toHotkey converts a chord into golang.design/x/hotkey modifiers and key.
// Key IDs are virtual-key codes, which is what hotkey.Key holds on Windows.
func toHotkey(c keys.Chord) ([]hotkey.Modifier, hotkey.Key, error) {
	terminal, ok := c.Terminal()
	if !ok {
		return nil, 0, fmt.Errorf("empty chord")
	}

	seen := make(map[hotkey.Modifier]bool)
	var mods []hotkey.Modifier
	for _, k := range c[:len(c)-1] {
		m, ok := modifierMap[k]
		if !ok {
			return nil, 0, fmt.Errorf("unsupported modifier for RegisterHotKey: %s", k)
		}
		if !seen[m] {
			seen[m] = true
			mods = append(mods, m)
		}
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i] < mods[j] })
	return mods, hotkey.Key(terminal), nil
}

func comboName(mods []hotkey.Modifier, key hotkey.Key) string {
	parts := make([]string, 0, len(mods)+1)
	for _, m := range mods {
		parts = append(parts, modifierNames[m])
	}
	parts = append(parts, keys.Name(keys.ID(key)))
	return strings.Join(parts, "+")
}
