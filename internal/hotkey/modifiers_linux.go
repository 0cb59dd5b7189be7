//go:build linux

package hotkey

import "golang.design/x/hotkey"

var modMap = map[string]hotkey.Modifier{
	"ctrl":   hotkey.ModCtrl,
	"shift":  hotkey.ModShift,
	"alt":    hotkey.Mod1,
	"option": hotkey.Mod1,
	"super":  hotkey.Mod4,
	"cmd":    hotkey.Mod4,
}
