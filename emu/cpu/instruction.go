package cpu

import "fmt"

// Op identifies one instruction of the CHIP-8 instruction set.
type Op uint8

const (
	OpSYS  Op = iota // 0nnn
	OpCLS            // 00E0
	OpRET            // 00EE
	OpJP             // 1nnn
	OpCALL           // 2nnn
	OpSEI            // 3xkk
	OpSNEI           // 4xkk
	OpSE             // 5xy0
	OpLDI            // 6xkk
	OpADDI           // 7xkk
	OpLD             // 8xy0
	OpOR             // 8xy1
	OpAND            // 8xy2
	OpXOR            // 8xy3
	OpADD            // 8xy4
	OpSUB            // 8xy5
	OpSHR            // 8xy6
	OpSUBN           // 8xy7
	OpSHL            // 8xyE
	OpSNE            // 9xy0
	OpLDIA           // Annn
	OpJPV0           // Bnnn
	OpRND            // Cxkk
	OpDRW            // Dxyn
	OpSKP            // Ex9E
	OpSKNP           // ExA1
	OpLDVDT          // Fx07
	OpLDK            // Fx0A
	OpLDDTV          // Fx15
	OpLDSTV          // Fx18
	OpADDIV          // Fx1E
	OpLDF            // Fx29
	OpLDB            // Fx33
	OpSTORE          // Fx55
	OpLOAD           // Fx65
)

// Instruction is a decoded instruction word with every operand field
// extracted up front.
type Instruction struct {
	Op   Op
	Word uint16
	X    uint8  // second nibble
	Y    uint8  // third nibble
	N    uint8  // last nibble
	KK   uint8  // last byte
	NNN  uint16 // 12-bit address
}

// Decode splits a 16-bit instruction word into its operand fields and
// selects the Op from the fixed nibble patterns.
func Decode(word uint16) (Instruction, error) {
	in := Instruction{
		Word: word,
		X:    uint8((word & 0x0F00) >> 8),
		Y:    uint8((word & 0x00F0) >> 4),
		N:    uint8(word & 0x000F),
		KK:   uint8(word & 0x00FF),
		NNN:  word & 0x0FFF,
	}

	switch word & 0xF000 {
	case 0x0000:
		switch word {
		case 0x00E0:
			in.Op = OpCLS
		case 0x00EE:
			in.Op = OpRET
		default:
			in.Op = OpSYS
		}
	case 0x1000:
		in.Op = OpJP
	case 0x2000:
		in.Op = OpCALL
	case 0x3000:
		in.Op = OpSEI
	case 0x4000:
		in.Op = OpSNEI
	case 0x5000:
		if in.N != 0 {
			return in, unknownOpcode(word)
		}
		in.Op = OpSE
	case 0x6000:
		in.Op = OpLDI
	case 0x7000:
		in.Op = OpADDI
	case 0x8000:
		switch in.N {
		case 0x0:
			in.Op = OpLD
		case 0x1:
			in.Op = OpOR
		case 0x2:
			in.Op = OpAND
		case 0x3:
			in.Op = OpXOR
		case 0x4:
			in.Op = OpADD
		case 0x5:
			in.Op = OpSUB
		case 0x6:
			in.Op = OpSHR
		case 0x7:
			in.Op = OpSUBN
		case 0xE:
			in.Op = OpSHL
		default:
			return in, unknownOpcode(word)
		}
	case 0x9000:
		if in.N != 0 {
			return in, unknownOpcode(word)
		}
		in.Op = OpSNE
	case 0xA000:
		in.Op = OpLDIA
	case 0xB000:
		in.Op = OpJPV0
	case 0xC000:
		in.Op = OpRND
	case 0xD000:
		in.Op = OpDRW
	case 0xE000:
		switch in.KK {
		case 0x9E:
			in.Op = OpSKP
		case 0xA1:
			in.Op = OpSKNP
		default:
			return in, unknownOpcode(word)
		}
	case 0xF000:
		switch in.KK {
		case 0x07:
			in.Op = OpLDVDT
		case 0x0A:
			in.Op = OpLDK
		case 0x15:
			in.Op = OpLDDTV
		case 0x18:
			in.Op = OpLDSTV
		case 0x1E:
			in.Op = OpADDIV
		case 0x29:
			in.Op = OpLDF
		case 0x33:
			in.Op = OpLDB
		case 0x55:
			in.Op = OpSTORE
		case 0x65:
			in.Op = OpLOAD
		default:
			return in, unknownOpcode(word)
		}
	}
	return in, nil
}

// String returns the assembler mnemonic, e.g. "LD V1, $2A".
func (in Instruction) String() string {
	switch in.Op {
	case OpSYS:
		return fmt.Sprintf("SYS $%03X", in.NNN)
	case OpCLS:
		return "CLS"
	case OpRET:
		return "RET"
	case OpJP:
		return fmt.Sprintf("JP $%03X", in.NNN)
	case OpCALL:
		return fmt.Sprintf("CALL $%03X", in.NNN)
	case OpSEI:
		return fmt.Sprintf("SE V%X, $%02X", in.X, in.KK)
	case OpSNEI:
		return fmt.Sprintf("SNE V%X, $%02X", in.X, in.KK)
	case OpSE:
		return fmt.Sprintf("SE V%X, V%X", in.X, in.Y)
	case OpLDI:
		return fmt.Sprintf("LD V%X, $%02X", in.X, in.KK)
	case OpADDI:
		return fmt.Sprintf("ADD V%X, $%02X", in.X, in.KK)
	case OpLD:
		return fmt.Sprintf("LD V%X, V%X", in.X, in.Y)
	case OpOR:
		return fmt.Sprintf("OR V%X, V%X", in.X, in.Y)
	case OpAND:
		return fmt.Sprintf("AND V%X, V%X", in.X, in.Y)
	case OpXOR:
		return fmt.Sprintf("XOR V%X, V%X", in.X, in.Y)
	case OpADD:
		return fmt.Sprintf("ADD V%X, V%X", in.X, in.Y)
	case OpSUB:
		return fmt.Sprintf("SUB V%X, V%X", in.X, in.Y)
	case OpSHR:
		return fmt.Sprintf("SHR V%X", in.X)
	case OpSUBN:
		return fmt.Sprintf("SUBN V%X, V%X", in.X, in.Y)
	case OpSHL:
		return fmt.Sprintf("SHL V%X", in.X)
	case OpSNE:
		return fmt.Sprintf("SNE V%X, V%X", in.X, in.Y)
	case OpLDIA:
		return fmt.Sprintf("LD I, $%03X", in.NNN)
	case OpJPV0:
		return fmt.Sprintf("JP V0, $%03X", in.NNN)
	case OpRND:
		return fmt.Sprintf("RND V%X, $%02X", in.X, in.KK)
	case OpDRW:
		return fmt.Sprintf("DRW V%X, V%X, $%X", in.X, in.Y, in.N)
	case OpSKP:
		return fmt.Sprintf("SKP V%X", in.X)
	case OpSKNP:
		return fmt.Sprintf("SKNP V%X", in.X)
	case OpLDVDT:
		return fmt.Sprintf("LD V%X, DT", in.X)
	case OpLDK:
		return fmt.Sprintf("LD V%X, K", in.X)
	case OpLDDTV:
		return fmt.Sprintf("LD DT, V%X", in.X)
	case OpLDSTV:
		return fmt.Sprintf("LD ST, V%X", in.X)
	case OpADDIV:
		return fmt.Sprintf("ADD I, V%X", in.X)
	case OpLDF:
		return fmt.Sprintf("LD F, V%X", in.X)
	case OpLDB:
		return fmt.Sprintf("LD B, V%X", in.X)
	case OpSTORE:
		return fmt.Sprintf("LD [I], V%X", in.X)
	case OpLOAD:
		return fmt.Sprintf("LD V%X, [I]", in.X)
	}
	return fmt.Sprintf("DW $%04X", in.Word)
}
