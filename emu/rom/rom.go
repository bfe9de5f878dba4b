// Package rom reads CHIP-8 program images from disk.
package rom

import (
	"errors"
	"fmt"
	"os"

	"github.com/beanboi7/chyp8/emu/cpu"
)

// MaxSize is the largest image that fits between 0x200 and the end of memory.
const MaxSize = cpu.MaxROMSize

var (
	ErrEmpty    = errors.New("ROM is empty")
	ErrTooLarge = errors.New("ROM too big")
)

// Read loads the whole image at path. The file has no header; its length is
// the program size.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("%s: %w, can't cross %d bytes", path, ErrTooLarge, MaxSize)
	}
	return data, nil
}
