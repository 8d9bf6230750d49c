//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostKeyboard struct {
	held    KeySet
	pressed KeySet
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{}
}

func (k *hostKeyboard) Held() KeySet    { return k.held }
func (k *hostKeyboard) Pressed() KeySet { return k.pressed }

var hostKeyMap = []struct {
	code KeyCode
	keys []ebiten.Key
}{
	{KeyUp, []ebiten.Key{ebiten.KeyArrowUp}},
	{KeyDown, []ebiten.Key{ebiten.KeyArrowDown}},
	{KeyLeft, []ebiten.Key{ebiten.KeyArrowLeft}},
	{KeyRight, []ebiten.Key{ebiten.KeyArrowRight}},
	{KeyW, []ebiten.Key{ebiten.KeyW}},
	{KeyS, []ebiten.Key{ebiten.KeyS}},
	{KeySpace, []ebiten.Key{ebiten.KeySpace}},
	{KeyShift, []ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyShiftRight}},
	{KeyEscape, []ebiten.Key{ebiten.KeyEscape}},
	{KeyR, []ebiten.Key{ebiten.KeyR}},
	{KeyP, []ebiten.Key{ebiten.KeyP}},
	{KeyH, []ebiten.Key{ebiten.KeyH}},
}

func (k *hostKeyboard) poll() {
	var held, pressed KeySet
	for _, m := range hostKeyMap {
		for _, key := range m.keys {
			if ebiten.IsKeyPressed(key) {
				held = held.With(m.code)
			}
			if inpututil.IsKeyJustPressed(key) {
				pressed = pressed.With(m.code)
			}
		}
	}
	k.held = held
	k.pressed = pressed
}
