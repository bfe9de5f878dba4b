package cpu

const (
	Width  = 64
	Height = 32

	MemorySize   = 0x1000
	ProgramStart = 0x200
	MaxROMSize   = MemorySize - ProgramStart
	StackDepth   = 16

	fontGlyphSize = 5
	addrMask      = MemorySize - 1
)

// FontSet holds the 16 hexadecimal digit sprites, 5 bytes each, that live
// at the bottom of memory.
var FontSet = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Framebuffer is the 64x32 monochrome display, row-major.
type Framebuffer [Width * Height]bool

// Pixel reports whether the pixel at (x, y) is lit. Coordinates wrap.
func (fb *Framebuffer) Pixel(x, y int) bool {
	return fb[offset(x, y)]
}

// Lit returns the number of lit pixels.
func (fb *Framebuffer) Lit() int {
	n := 0
	for _, p := range fb {
		if p {
			n++
		}
	}
	return n
}

func offset(x, y int) int {
	x %= Width
	if x < 0 {
		x += Width
	}
	y %= Height
	if y < 0 {
		y += Height
	}
	return y*Width + x
}

// State is the complete machine: registers, memory, stack, timers and
// display. It carries no behaviour of its own; the EMU mutates it.
type State struct {
	V      [16]uint8 // VF doubles as carry/borrow/collision flag
	I      uint16    // address register
	PC     uint16
	Memory [MemorySize]uint8
	Stack  [StackDepth]uint16
	SP     uint8 // number of return addresses on the stack

	DelayTimer uint8 // counts down at the host's timer cadence
	SoundTimer uint8 // same as above

	Display Framebuffer
}

func (s *State) read(addr uint16) uint8 {
	return s.Memory[addr&addrMask]
}

func (s *State) write(addr uint16, v uint8) {
	s.Memory[addr&addrMask] = v
}

// word fetches the big-endian instruction word at addr.
func (s *State) word(addr uint16) uint16 {
	return uint16(s.read(addr))<<8 | uint16(s.read(addr+1))
}

func (s *State) push(addr uint16) error {
	if int(s.SP) >= StackDepth {
		return ErrStackOverflow
	}
	s.Stack[s.SP] = addr
	s.SP++
	return nil
}

func (s *State) pop() (uint16, error) {
	if s.SP == 0 {
		return 0, ErrStackUnderflow
	}
	s.SP--
	return s.Stack[s.SP], nil
}

func fontAddress(digit uint8) (uint16, error) {
	if digit > 0xF {
		return 0, ErrInvalidFont
	}
	return uint16(digit) * fontGlyphSize, nil
}
