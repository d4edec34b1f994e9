package desktop

import "testing"

func TestSelectFocusTarget(t *testing.T) {
	ok := func(h uintptr, title string) Window {
		return Window{Handle: h, Title: title, Visible: true, TitleBarVisible: true, OnCurrentDesktop: true}
	}
	hidden := ok(1, "Hidden")
	hidden.Visible = false
	noTitleBar := ok(2, "Overlay")
	noTitleBar.TitleBarVisible = false
	tool := ok(3, "Palette")
	tool.ToolWindow = true
	untitled := ok(4, "")
	settings := ok(5, "BinkyBox Settings")
	elsewhere := ok(6, "Other desktop")
	elsewhere.OnCurrentDesktop = false

	tests := []struct {
		name    string
		windows []Window
		want    uintptr
		found   bool
	}{
		{"empty", nil, 0, false},
		{"first survivor wins", []Window{ok(10, "Editor"), ok(11, "Browser")}, 10, true},
		{"skips filtered windows", []Window{hidden, noTitleBar, tool, untitled, settings, elsewhere, ok(12, "Terminal")}, 12, true},
		{"nothing left", []Window{hidden, settings, elsewhere}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := SelectFocusTarget(tt.windows, "BinkyBox Settings")
			if found != tt.found || got.Handle != tt.want {
				t.Errorf("SelectFocusTarget() = %d, %v; want %d, %v", got.Handle, found, tt.want, tt.found)
			}
		})
	}

	// Without an exclusion the settings window is an ordinary target.
	if got, _ := SelectFocusTarget([]Window{settings}, ""); got.Handle != 5 {
		t.Errorf("SelectFocusTarget(no exclusion) = %d, want 5", got.Handle)
	}
}
