package display

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPublishesOnFlush(t *testing.T) {
	d := NewText(16)
	d.SetPixel(0, 0, true)
	d.SetPixel(7, 15, true)

	rows, n := d.Frame()
	assert.Equal(t, uint64(0), n)
	assert.Equal(t, make([]uint8, 16), rows, "nothing visible before Flush")

	require.NoError(t, d.Flush())
	rows, n = d.Frame()
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, uint8(0x80), rows[0])
	assert.Equal(t, uint8(0x01), rows[15])
	assert.True(t, d.Pixel(7, 15))
	assert.False(t, d.Pixel(6, 15))
	assert.False(t, d.Pixel(0, 99))
}

func TestTextBoundsAndFill(t *testing.T) {
	d := NewText(8)
	d.SetPixel(8, 0, true)
	d.SetPixel(0, 8, true)
	d.SetPixel(-1, 3, true)
	require.NoError(t, d.Flush())
	rows, _ := d.Frame()
	assert.Equal(t, make([]uint8, 8), rows)

	d.Fill(true)
	d.SetPixel(1, 0, false)
	require.NoError(t, d.Flush())
	rows, _ = d.Frame()
	assert.Equal(t, uint8(0b10111111), rows[0])
	assert.Equal(t, uint8(0xFF), rows[7])
}

func TestTextString(t *testing.T) {
	d := NewText(2)
	d.SetPixel(0, 0, true)
	d.SetPixel(7, 1, true)
	require.NoError(t, d.Flush())

	lines := strings.Split(d.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "● ◌ ◌ ◌ ◌ ◌ ◌ ◌", lines[0])
	assert.Equal(t, "◌ ◌ ◌ ◌ ◌ ◌ ◌ ●", lines[1])
}

type failingDisplay struct {
	*Text
	err error
}

func (f *failingDisplay) Flush() error { return f.err }

func TestTeeForwardsAndJoinsErrors(t *testing.T) {
	a := NewText(8)
	b := &failingDisplay{Text: NewText(8), err: errors.New("bus fault")}
	tee := Tee{a, b}

	tee.Fill(false)
	tee.SetPixel(2, 3, true)
	err := tee.Flush()
	require.Error(t, err)
	assert.ErrorIs(t, err, b.err)

	rows, _ := a.Frame()
	assert.Equal(t, uint8(0b00100000), rows[3], "healthy display still flushed")
	assert.Equal(t, uint8(0b00100000), b.draw[3])
}

func TestParseRotation(t *testing.T) {
	for deg, expected := range map[int]Rotation{0: Deg0, 90: Deg90, 180: Deg180, 270: Deg270} {
		r, err := ParseRotation(deg)
		require.NoError(t, err)
		assert.Equal(t, expected, r)
	}
	_, err := ParseRotation(45)
	assert.Error(t, err)
}
