package screen

import (
	"fmt"

	"github.com/faiface/pixel/pixelgl"
)

// Buttons lists the key names accepted in the key map.
var Buttons = map[string]pixelgl.Button{
	"0": pixelgl.Key0, "1": pixelgl.Key1, "2": pixelgl.Key2, "3": pixelgl.Key3,
	"4": pixelgl.Key4, "5": pixelgl.Key5, "6": pixelgl.Key6, "7": pixelgl.Key7,
	"8": pixelgl.Key8, "9": pixelgl.Key9,
	"A": pixelgl.KeyA, "B": pixelgl.KeyB, "C": pixelgl.KeyC, "D": pixelgl.KeyD,
	"E": pixelgl.KeyE, "F": pixelgl.KeyF, "G": pixelgl.KeyG, "H": pixelgl.KeyH,
	"I": pixelgl.KeyI, "J": pixelgl.KeyJ, "K": pixelgl.KeyK, "L": pixelgl.KeyL,
	"M": pixelgl.KeyM, "N": pixelgl.KeyN, "O": pixelgl.KeyO, "P": pixelgl.KeyP,
	"Q": pixelgl.KeyQ, "R": pixelgl.KeyR, "S": pixelgl.KeyS, "T": pixelgl.KeyT,
	"U": pixelgl.KeyU, "V": pixelgl.KeyV, "W": pixelgl.KeyW, "X": pixelgl.KeyX,
	"Y": pixelgl.KeyY, "Z": pixelgl.KeyZ,
	"UP": pixelgl.KeyUp, "DOWN": pixelgl.KeyDown, "LEFT": pixelgl.KeyLeft, "RIGHT": pixelgl.KeyRight,
	"SPACE": pixelgl.KeySpace, "ENTER": pixelgl.KeyEnter,
	"KP0": pixelgl.KeyKP0, "KP1": pixelgl.KeyKP1, "KP2": pixelgl.KeyKP2, "KP3": pixelgl.KeyKP3,
	"KP4": pixelgl.KeyKP4, "KP5": pixelgl.KeyKP5, "KP6": pixelgl.KeyKP6, "KP7": pixelgl.KeyKP7,
	"KP8": pixelgl.KeyKP8, "KP9": pixelgl.KeyKP9,
}

func buttonMap(keys map[uint8]string) (map[uint16]pixelgl.Button, error) {
	m := make(map[uint16]pixelgl.Button, len(keys))
	for k, name := range keys {
		b, ok := Buttons[name]
		if !ok {
			return nil, fmt.Errorf("key %X: no window button named %q", k, name)
		}
		m[uint16(k)] = b
	}
	return m, nil
}
