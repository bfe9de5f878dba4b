package cpu

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// EMU owns the machine state and executes one instruction per Step.
type EMU struct {
	State

	rand  RandomSource
	log   *slog.Logger
	trace bool

	// pending Fx0A: the PC is held on the instruction until KeyResolved
	waiting bool
	waitReg uint8
}

// Option configures an EMU.
type Option func(*EMU)

// WithRandom replaces the source of RND bytes.
func WithRandom(r RandomSource) Option {
	return func(emu *EMU) { emu.rand = r }
}

// WithLogger sets the logger used for failures and tracing.
func WithLogger(l *slog.Logger) Option {
	return func(emu *EMU) { emu.log = l }
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(on bool) Option {
	return func(emu *EMU) { emu.trace = on }
}

// NewEMU builds a machine with the font loaded at 0x000 and program copied
// to 0x200.
func NewEMU(program []byte, opts ...Option) (*EMU, error) {
	if len(program) > MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, can't cross %d", ErrROMTooLarge, len(program), MaxROMSize)
	}

	emu := &EMU{}
	for _, opt := range opts {
		opt(emu)
	}
	if emu.rand == nil {
		emu.rand = defaultRandom()
	}
	if emu.log == nil {
		emu.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	emu.PC = ProgramStart
	copy(emu.Memory[:], FontSet[:])
	copy(emu.Memory[ProgramStart:], program)
	return emu, nil
}

// Snapshot returns a copy of the current machine state.
func (emu *EMU) Snapshot() State {
	return emu.State
}

// AwaitingKey reports whether an Fx0A is pending and which register it
// will load.
func (emu *EMU) AwaitingKey() (uint8, bool) {
	return emu.waitReg, emu.waiting
}

// TickTimers decrements both timers once, stopping at zero.
func (emu *EMU) TickTimers() {
	if emu.DelayTimer > 0 {
		emu.DelayTimer--
	}
	if emu.SoundTimer > 0 {
		emu.SoundTimer--
	}
}

// Step fetches, decodes and executes the instruction at PC. On error the
// machine state is left as it was before the call.
func (emu *EMU) Step(ev Event) (Outcome, error) {
	pc := emu.PC
	word := emu.word(pc)

	in, err := Decode(word)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Addr = pc & addrMask
		}
		emu.log.Error("decode failed", "pc", fmt.Sprintf("%03X", pc), "opcode", fmt.Sprintf("%04X", word))
		return Outcome{}, err
	}

	if emu.trace {
		emu.log.Debug("exec", "pc", fmt.Sprintf("%03X", pc), "op", in.String())
	}

	if in.Op == OpLDK && ev.Kind != KeyResolved {
		emu.waiting = true
		emu.waitReg = in.X
		return Outcome{Kind: AwaitKey}, nil
	}

	emu.PC += 2
	out, err := emu.execute(in, ev)
	if err != nil {
		emu.PC = pc
		emu.log.Error("execute failed", "pc", fmt.Sprintf("%03X", pc), "op", in.String(), "err", err)
		return Outcome{}, fmt.Errorf("%03X %s: %w", pc, in, err)
	}
	return out, nil
}

func (emu *EMU) skipIf(cond bool) {
	if cond {
		emu.PC += 2
	}
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (emu *EMU) execute(in Instruction, ev Event) (Outcome, error) {
	x, y := in.X, in.Y
	const F = 0xF

	switch in.Op {
	case OpSYS, OpJP:
		emu.PC = in.NNN
	case OpCLS:
		emu.Display = Framebuffer{}
		return Outcome{Kind: Redraw, Frame: emu.Display}, nil
	case OpRET:
		addr, err := emu.pop()
		if err != nil {
			return Outcome{}, err
		}
		emu.PC = addr
	case OpCALL:
		if err := emu.push(emu.PC); err != nil {
			return Outcome{}, err
		}
		emu.PC = in.NNN
	case OpSEI:
		emu.skipIf(emu.V[x] == in.KK)
	case OpSNEI:
		emu.skipIf(emu.V[x] != in.KK)
	case OpSE:
		emu.skipIf(emu.V[x] == emu.V[y])
	case OpSNE:
		emu.skipIf(emu.V[x] != emu.V[y])
	case OpLDI:
		emu.V[x] = in.KK
	case OpADDI:
		emu.V[x] += in.KK
	case OpLD:
		emu.V[x] = emu.V[y]
	case OpOR:
		emu.V[x] |= emu.V[y]
	case OpAND:
		emu.V[x] &= emu.V[y]
	case OpXOR:
		emu.V[x] ^= emu.V[y]
	case OpADD:
		sum := uint16(emu.V[x]) + uint16(emu.V[y])
		emu.V[x] = uint8(sum)
		emu.V[F] = flag(sum > 0xFF)
	case OpSUB:
		noBorrow := emu.V[x] > emu.V[y]
		emu.V[x] -= emu.V[y]
		emu.V[F] = flag(noBorrow)
	case OpSUBN:
		noBorrow := emu.V[y] > emu.V[x]
		emu.V[x] = emu.V[y] - emu.V[x]
		emu.V[F] = flag(noBorrow)
	case OpSHR:
		out := emu.V[x] & 0x01
		emu.V[x] >>= 1
		emu.V[F] = out
	case OpSHL:
		out := emu.V[x] >> 7
		emu.V[x] <<= 1
		emu.V[F] = out
	case OpLDIA:
		emu.I = in.NNN
	case OpJPV0:
		emu.PC = in.NNN + uint16(emu.V[0])
	case OpRND:
		emu.V[x] = emu.rand.Byte() & in.KK
	case OpDRW:
		emu.draw(emu.V[x], emu.V[y], in.N)
		return Outcome{Kind: Redraw, Frame: emu.Display}, nil
	case OpSKP:
		k, held := ev.held()
		emu.skipIf(held && k == emu.V[x]&0xF)
	case OpSKNP:
		k, held := ev.held()
		emu.skipIf(!held || k != emu.V[x]&0xF)
	case OpLDVDT:
		emu.V[x] = emu.DelayTimer
	case OpLDK:
		emu.V[x] = ev.Key
		emu.waiting = false
	case OpLDDTV:
		emu.DelayTimer = emu.V[x]
	case OpLDSTV:
		emu.SoundTimer = emu.V[x]
	case OpADDIV:
		emu.I += uint16(emu.V[x])
	case OpLDF:
		addr, err := fontAddress(emu.V[x] & 0xF)
		if err != nil {
			return Outcome{}, err
		}
		emu.I = addr
	case OpLDB:
		v := emu.V[x]
		emu.write(emu.I, v/100)
		emu.write(emu.I+1, v/10%10)
		emu.write(emu.I+2, v%10)
	case OpSTORE:
		for i := uint16(0); i <= uint16(x); i++ {
			emu.write(emu.I+i, emu.V[i])
		}
	case OpLOAD:
		for i := uint16(0); i <= uint16(x); i++ {
			emu.V[i] = emu.read(emu.I + i)
		}
	default:
		return Outcome{}, unknownOpcode(in.Word)
	}
	return Outcome{}, nil
}

// draw XORs an n-byte sprite from memory at I onto the display at (vx, vy).
// VF is set when any lit pixel is switched off.
func (emu *EMU) draw(vx, vy, n uint8) {
	var collision uint8
	for row := 0; row < int(n); row++ {
		sprite := emu.read(emu.I + uint16(row))
		for col := 0; col < 8; col++ {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			i := offset(int(vx)+col, int(vy)+row)
			if emu.Display[i] {
				collision = 1
			}
			emu.Display[i] = !emu.Display[i]
		}
	}
	emu.V[0xF] = collision
}
