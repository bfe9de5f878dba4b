package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRandom uint8

func (f fixedRandom) Byte() uint8 { return uint8(f) }

// program assembles instruction words into a big-endian ROM image.
func program(words ...uint16) []byte {
	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	return rom
}

func newTestEMU(t *testing.T, words ...uint16) *EMU {
	t.Helper()
	emu, err := NewEMU(program(words...), WithRandom(fixedRandom(0xFF)))
	require.NoError(t, err)
	return emu
}

func step(t *testing.T, emu *EMU) Outcome {
	t.Helper()
	out, err := emu.Step(Event{})
	require.NoError(t, err)
	return out
}

func TestNewEMU(t *testing.T) {
	emu := newTestEMU(t, 0x1234)

	assert.Equal(t, uint16(ProgramStart), emu.PC)
	assert.Equal(t, FontSet[:], emu.Memory[:len(FontSet)])
	assert.Equal(t, uint8(0x12), emu.Memory[0x200])
	assert.Equal(t, uint8(0x34), emu.Memory[0x201])
}

func TestNewEMU_ROMTooLarge(t *testing.T) {
	_, err := NewEMU(make([]byte, MaxROMSize+1))
	assert.ErrorIs(t, err, ErrROMTooLarge)

	_, err = NewEMU(make([]byte, MaxROMSize))
	assert.NoError(t, err)
}

func TestSysAddr(t *testing.T) {
	emu := newTestEMU(t, 0x0301)
	step(t, emu)
	assert.Equal(t, uint16(0x301), emu.PC)
}

func TestClearScreen(t *testing.T) {
	emu := newTestEMU(t, 0x00E0)
	emu.Display[5] = true

	out := step(t, emu)
	assert.Equal(t, Redraw, out.Kind)
	assert.Zero(t, out.Frame.Lit())
	assert.Zero(t, emu.Display.Lit())
}

func TestJump(t *testing.T) {
	emu := newTestEMU(t, 0x1455)
	step(t, emu)
	assert.Equal(t, uint16(0x455), emu.PC)
}

func TestCallThenReturn(t *testing.T) {
	emu := newTestEMU(t, 0x2300)
	emu.Memory[0x300] = 0x00
	emu.Memory[0x301] = 0xEE

	step(t, emu)
	assert.Equal(t, uint16(0x300), emu.PC)
	assert.Equal(t, uint8(1), emu.SP)
	assert.Equal(t, uint16(0x202), emu.Stack[0])

	step(t, emu)
	assert.Equal(t, uint16(0x202), emu.PC)
	assert.Equal(t, uint8(0), emu.SP)
}

func TestReturnFromStack(t *testing.T) {
	emu := newTestEMU(t, 0x00EE)
	emu.SP = 3
	emu.Stack[2] = 0x301

	step(t, emu)
	assert.Equal(t, uint16(0x301), emu.PC)
	assert.Equal(t, uint8(2), emu.SP)
}

func TestStackOverflow(t *testing.T) {
	// CALL 0x200 recurses forever.
	emu := newTestEMU(t, 0x2200)
	for i := 0; i < StackDepth; i++ {
		step(t, emu)
	}
	before := emu.Snapshot()

	_, err := emu.Step(Event{})
	assert.ErrorIs(t, err, ErrStackOverflow)
	assert.Equal(t, before, emu.Snapshot())
}

func TestStackUnderflow(t *testing.T) {
	emu := newTestEMU(t, 0x00EE)

	_, err := emu.Step(Event{})
	assert.ErrorIs(t, err, ErrStackUnderflow)
	assert.Equal(t, uint16(ProgramStart), emu.PC)
}

func TestUnknownOpcode(t *testing.T) {
	emu := newTestEMU(t, 0x6001, 0x5121)
	step(t, emu)

	_, err := emu.Step(Event{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownOpcode))

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, uint16(0x202), de.Addr)
	assert.Equal(t, uint16(0x5121), de.Word)
	assert.Equal(t, uint16(0x202), emu.PC)
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		v0, v1 uint8
		wantPC uint16
	}{
		{"SE byte taken", 0x3055, 0x55, 0, 0x204},
		{"SE byte not taken", 0x3055, 0x54, 0, 0x202},
		{"SNE byte taken", 0x4054, 0x55, 0, 0x204},
		{"SNE byte not taken", 0x4055, 0x55, 0, 0x202},
		{"SE reg taken", 0x5010, 0x55, 0x55, 0x204},
		{"SE reg not taken", 0x5010, 0x55, 0x56, 0x202},
		{"SNE reg taken", 0x9010, 0xFF, 0x01, 0x204},
		{"SNE reg not taken", 0x9010, 0x01, 0x01, 0x202},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emu := newTestEMU(t, tt.word)
			emu.V[0] = tt.v0
			emu.V[1] = tt.v1
			step(t, emu)
			assert.Equal(t, tt.wantPC, emu.PC)
		})
	}
}

func TestLoadAndAddImmediate(t *testing.T) {
	emu := newTestEMU(t, 0x60F0, 0x7020)
	step(t, emu)
	assert.Equal(t, uint8(0xF0), emu.V[0])

	step(t, emu)
	assert.Equal(t, uint8(0x10), emu.V[0], "7xkk wraps modulo 256")
	assert.Zero(t, emu.V[0xF], "7xkk leaves the flag alone")
}

func TestALU(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		vx, vy   uint8
		want, vf uint8
	}{
		{"LD", 0x8010, 0x00, 0x01, 0x01, 0},
		{"OR", 0x8011, 0x02, 0x01, 0x03, 0},
		{"AND", 0x8012, 0x03, 0x01, 0x01, 0},
		{"XOR", 0x8013, 0x03, 0x01, 0x02, 0},
		{"ADD carry", 0x8014, 0xFF, 0x01, 0x00, 1},
		{"ADD no carry", 0x8014, 0xFE, 0x01, 0xFF, 0},
		{"SUB no borrow", 0x8015, 0xFF, 0x01, 0xFE, 1},
		{"SUB borrow", 0x8015, 0x01, 0x02, 0xFF, 0},
		{"SUB equal", 0x8015, 0x05, 0x05, 0x00, 0},
		{"SHR low bit set", 0x8016, 0xFF, 0x00, 0x7F, 1},
		{"SHR low bit clear", 0x8016, 0x02, 0x00, 0x01, 0},
		{"SUBN no borrow", 0x8017, 0x01, 0xFF, 0xFE, 1},
		{"SUBN borrow", 0x8017, 0x02, 0x01, 0xFF, 0},
		{"SHL high bit clear", 0x801E, 0x7F, 0x00, 0xFE, 0},
		{"SHL high bit set", 0x801E, 0x81, 0x00, 0x02, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emu := newTestEMU(t, tt.word)
			emu.V[0] = tt.vx
			emu.V[1] = tt.vy
			step(t, emu)
			assert.Equal(t, tt.want, emu.V[0])
			assert.Equal(t, tt.vf, emu.V[0xF])
			assert.Equal(t, uint16(0x202), emu.PC)
		})
	}
}

func TestFlagWrittenAfterResult(t *testing.T) {
	// ADD VF, V1: the flag overwrites the sum.
	emu := newTestEMU(t, 0x8F14)
	emu.V[0xF] = 0xFF
	emu.V[1] = 0x02
	step(t, emu)
	assert.Equal(t, uint8(1), emu.V[0xF])

	// SHR VF: the shifted-out bit wins.
	emu = newTestEMU(t, 0x8F06)
	emu.V[0xF] = 0x02
	step(t, emu)
	assert.Equal(t, uint8(0), emu.V[0xF])
}

func TestIndexRegister(t *testing.T) {
	emu := newTestEMU(t, 0xAFFF, 0xF01E)
	step(t, emu)
	assert.Equal(t, uint16(0xFFF), emu.I)

	emu.I = 0xFFFF
	emu.V[0] = 0x02
	step(t, emu)
	assert.Equal(t, uint16(0x0001), emu.I, "ADD I wraps modulo 2^16")
}

func TestJumpWithOffset(t *testing.T) {
	emu := newTestEMU(t, 0xB300)
	emu.V[0] = 0x01
	step(t, emu)
	assert.Equal(t, uint16(0x301), emu.PC)
}

func TestRandom(t *testing.T) {
	emu, err := NewEMU(program(0xC30F), WithRandom(fixedRandom(0xAB)))
	require.NoError(t, err)
	step(t, emu)
	assert.Equal(t, uint8(0x0B), emu.V[3])
}

func TestDrawSprite(t *testing.T) {
	// LD I, 0x300; DRW V0, V1, 1; DRW V0, V1, 1
	emu := newTestEMU(t, 0xA300, 0xD011, 0xD011)
	emu.Memory[0x300] = 0xFF
	emu.V[0] = 4
	emu.V[1] = 2
	step(t, emu)

	out := step(t, emu)
	assert.Equal(t, Redraw, out.Kind)
	assert.Equal(t, 8, out.Frame.Lit())
	for col := 0; col < 8; col++ {
		assert.True(t, emu.Display.Pixel(4+col, 2))
	}
	assert.Zero(t, emu.V[0xF])

	out = step(t, emu)
	assert.Equal(t, Redraw, out.Kind)
	assert.Zero(t, out.Frame.Lit(), "drawing twice erases the sprite")
	assert.Equal(t, uint8(1), emu.V[0xF])
}

func TestDrawCollisionOnlyWhenPixelTurnsOff(t *testing.T) {
	emu := newTestEMU(t, 0xA300, 0xD011, 0xA301, 0xD011)
	emu.Memory[0x300] = 0xF0
	emu.Memory[0x301] = 0x0F
	for i := 0; i < 3; i++ {
		step(t, emu)
	}
	out := step(t, emu)

	assert.Equal(t, 8, out.Frame.Lit())
	assert.Zero(t, emu.V[0xF], "disjoint sprites do not collide")
}

func TestDrawWrapsAroundScreen(t *testing.T) {
	emu := newTestEMU(t, 0xA300, 0xD012)
	emu.Memory[0x300] = 0xFF
	emu.Memory[0x301] = 0x80
	emu.V[0] = 63
	emu.V[1] = 31
	step(t, emu)
	step(t, emu)

	assert.True(t, emu.Display.Pixel(63, 31))
	for col := 0; col < 7; col++ {
		assert.True(t, emu.Display.Pixel(col, 31), "column %d", col)
	}
	assert.True(t, emu.Display.Pixel(63, 0), "second row wraps to the top")
	assert.Equal(t, 9, emu.Display.Lit())
}

func TestSkipOnKey(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		ev     Event
		wantPC uint16
	}{
		{"SKP held", 0xE09E, Press(0x7), 0x204},
		{"SKP other key", 0xE09E, Press(0x3), 0x202},
		{"SKP no key", 0xE09E, Event{}, 0x202},
		{"SKNP held", 0xE0A1, Press(0x7), 0x202},
		{"SKNP other key", 0xE0A1, Press(0x3), 0x204},
		{"SKNP no key", 0xE0A1, Event{}, 0x204},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emu := newTestEMU(t, tt.word)
			emu.V[0] = 0x17 // only the low nibble is compared
			_, err := emu.Step(tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPC, emu.PC)
		})
	}
}

func TestAwaitKey(t *testing.T) {
	emu := newTestEMU(t, 0xF50A)

	for i := 0; i < 3; i++ {
		out, err := emu.Step(Event{})
		require.NoError(t, err)
		assert.Equal(t, AwaitKey, out.Kind)
		assert.Equal(t, uint16(0x200), emu.PC)
	}

	out, err := emu.Step(Press(0x2))
	require.NoError(t, err)
	assert.Equal(t, AwaitKey, out.Kind, "a held key does not resolve the wait")

	reg, waiting := emu.AwaitingKey()
	assert.True(t, waiting)
	assert.Equal(t, uint8(5), reg)

	out, err = emu.Step(Resolve(0x7))
	require.NoError(t, err)
	assert.Equal(t, Continue, out.Kind)
	assert.Equal(t, uint8(0x7), emu.V[5])
	assert.Equal(t, uint16(0x202), emu.PC)

	_, waiting = emu.AwaitingKey()
	assert.False(t, waiting)
}

func TestTimerRegisters(t *testing.T) {
	emu := newTestEMU(t, 0xF015, 0xF118, 0xF207)
	emu.V[0] = 5
	emu.V[1] = 2
	step(t, emu)
	step(t, emu)
	assert.Equal(t, uint8(5), emu.DelayTimer)
	assert.Equal(t, uint8(2), emu.SoundTimer)

	emu.TickTimers()
	step(t, emu)
	assert.Equal(t, uint8(4), emu.V[2])
}

func TestTickTimersSaturates(t *testing.T) {
	emu := newTestEMU(t)
	emu.DelayTimer = 1
	emu.SoundTimer = 2

	for i := 0; i < 5; i++ {
		emu.TickTimers()
	}
	assert.Zero(t, emu.DelayTimer)
	assert.Zero(t, emu.SoundTimer)
}

func TestFontAddress(t *testing.T) {
	emu := newTestEMU(t, 0xF029, 0xF129)
	emu.V[0] = 0xF
	emu.V[1] = 0x1A // low nibble selects glyph A
	emu.I = 0x300

	step(t, emu)
	assert.Equal(t, uint16(75), emu.I)
	step(t, emu)
	assert.Equal(t, uint16(50), emu.I)

	_, err := fontAddress(0x10)
	assert.ErrorIs(t, err, ErrInvalidFont)
}

func TestBCD(t *testing.T) {
	emu := newTestEMU(t, 0xF033)
	emu.V[0] = 123
	emu.I = 0x300
	step(t, emu)

	assert.Equal(t, []uint8{1, 2, 3}, emu.Memory[0x300:0x303])
	assert.Equal(t, uint16(0x300), emu.I)
}

func TestStoreAndLoadRegisters(t *testing.T) {
	emu := newTestEMU(t, 0xF355, 0xF365)
	emu.V[0], emu.V[1], emu.V[2], emu.V[3] = 0x01, 0x02, 0x03, 0x04
	emu.V[4] = 0xEE
	emu.I = 0x300

	step(t, emu)
	assert.Equal(t, []uint8{1, 2, 3, 4, 0}, emu.Memory[0x300:0x305])
	assert.Equal(t, uint16(0x300), emu.I)

	original := emu.V
	emu.V = [16]uint8{}
	step(t, emu)
	assert.Equal(t, original[:4], emu.V[:4])
	assert.Zero(t, emu.V[4], "registers above x are untouched")
}

func TestMemoryAccessWraps(t *testing.T) {
	emu := newTestEMU(t, 0xF133)
	emu.V[1] = 255
	emu.I = 0xFFF
	step(t, emu)

	assert.Equal(t, uint8(2), emu.Memory[0xFFF])
	assert.Equal(t, uint8(5), emu.Memory[0x000])
	assert.Equal(t, uint8(5), emu.Memory[0x001])
}
