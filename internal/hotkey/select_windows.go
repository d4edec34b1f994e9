//go:build windows

package hotkey

func newLayer(pref Preference) (Layer, error) {
	if pref == PreferHotkey {
		return NewLegacyLayer(), nil
	}
	return NewHookLayer(), nil
}
