package desktop

// Window is a top-level window as seen by the focus policy.
type Window struct {
	Handle           uintptr
	Title            string
	Visible          bool
	TitleBarVisible  bool
	ToolWindow       bool
	OnCurrentDesktop bool
}

// SelectFocusTarget returns the first window, in z-order, that a user could
// have been working in on the current desktop. Windows titled excludeTitle
// are skipped.
func SelectFocusTarget(windows []Window, excludeTitle string) (Window, bool) {
	for _, w := range windows {
		switch {
		case !w.Visible, !w.TitleBarVisible, w.ToolWindow:
			continue
		case w.Title == "":
			continue
		case excludeTitle != "" && w.Title == excludeTitle:
			continue
		case !w.OnCurrentDesktop:
			continue
		}
		return w, true
	}
	return Window{}, false
}
