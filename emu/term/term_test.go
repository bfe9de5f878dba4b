package term

import (
	"image/color"
	"testing"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyHeldUntilRepeatExpires(t *testing.T) {
	term, err := newTerminal(Config{Keys: map[uint8]string{0x5: "W", 0xA: "z"}})
	require.NoError(t, err)

	now := time.Unix(100, 0)
	term.now = func() time.Time { return now }

	_, held := term.HeldKey()
	assert.False(t, held)

	term.handle(termbox.Event{Type: termbox.EventKey, Ch: 'w'})
	k, held := term.HeldKey()
	assert.True(t, held)
	assert.Equal(t, uint8(0x5), k)

	now = now.Add(keyRepeatDuration)
	_, held = term.HeldKey()
	assert.False(t, held)

	term.handle(termbox.Event{Type: termbox.EventKey, Ch: 'Z'})
	k, held = term.HeldKey()
	assert.True(t, held)
	assert.Equal(t, uint8(0xA), k)
}

func TestEscapeCloses(t *testing.T) {
	term, err := newTerminal(Config{})
	require.NoError(t, err)

	assert.False(t, term.Closed())
	term.handle(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc})
	assert.True(t, term.Closed())
}

func TestNewTerminalRejectsLongNames(t *testing.T) {
	_, err := newTerminal(Config{Keys: map[uint8]string{0x1: "KP1"}})
	assert.Error(t, err)
}

func TestAttr256(t *testing.T) {
	assert.Equal(t, termbox.Attribute(17), attr256(color.RGBA{A: 0xFF}))
	assert.Equal(t, termbox.Attribute(232), attr256(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}))
	assert.Equal(t, termbox.Attribute(17+36*5), attr256(color.RGBA{R: 0xFF, A: 0xFF}))
	assert.Equal(t, termbox.Attribute(17+6*3+1), attr256(color.RGBA{G: 0x99, B: 0x33, A: 0xFF}))
}

func TestDrainHandlesQueuedEvents(t *testing.T) {
	term, err := newTerminal(Config{Keys: map[uint8]string{0x5: "W"}})
	require.NoError(t, err)
	now := time.Unix(100, 0)
	term.now = func() time.Time { return now }

	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'w'}
	term.drain()

	k, held := term.HeldKey()
	assert.True(t, held)
	assert.Equal(t, uint8(0x5), k)
	assert.False(t, term.Closed())
	assert.Empty(t, term.events)
}

func TestDrainClosedChannelEndsSession(t *testing.T) {
	term, err := newTerminal(Config{})
	require.NoError(t, err)

	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'x'}
	close(term.events)

	done := make(chan struct{})
	go func() {
		term.drain()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drain did not return on a closed channel")
	}
	assert.True(t, term.Closed())
}
