package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/rom"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm `path/ROM`",
	Short: "print the instructions of a ROM",
	Long:  "Decodes a ROM two bytes at a time from 0x200 and prints address, word and mnemonic. Words that are not instructions (sprite data, usually) are printed as DW.",
	Args:  cobra.ExactArgs(1),
	RunE:  Disasm,
}

func Disasm(cmd *cobra.Command, args []string) error {
	program, err := rom.Read(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for off := 0; off < len(program); off += 2 {
		addr := cpu.ProgramStart + off
		if off+1 == len(program) {
			fmt.Fprintf(w, "%03X  %02X    DB $%02X\n", addr, program[off], program[off])
			break
		}

		word := uint16(program[off])<<8 | uint16(program[off+1])
		text := fmt.Sprintf("DW $%04X", word)
		if in, err := cpu.Decode(word); err == nil {
			text = in.String()
		}
		fmt.Fprintf(w, "%03X  %04X  %s\n", addr, word, text)
	}
	return nil
}
