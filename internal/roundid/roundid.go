// Package roundid generates sortable round identifiers: a UUIDv7 encoded as
// 26 characters of Crockford base32.
package roundid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/coder/quartz"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID. 26 characters carry 130 bits; the top two are zero.
const Length = 26

// RandSource supplies the random bits of an ID.
type RandSource interface {
	IntN(n int) int
}

// Generator creates round IDs stamped with its clock.
type Generator struct {
	clock      quartz.Clock
	randSource RandSource
}

// NewGenerator creates a generator. A nil clock uses the real clock and a
// nil randSource uses crypto/rand.
func NewGenerator(clock quartz.Clock, randSource RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, randSource: randSource}
}

// New returns a fresh round ID
func (g *Generator) New() string {
	return encode(g.uuidV7(g.clock.Now()))
}

func (g *Generator) uuidV7(now time.Time) [16]byte {
	var uuid [16]byte

	// 48-bit millisecond timestamp, then version, random, variant, random.
	ms := now.UnixMilli()
	for i := 0; i < 6; i++ {
		uuid[i] = byte(ms >> (40 - 8*i))
	}

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			uuid[i] = byte(g.randSource.IntN(256))
		}
	} else if _, err := rand.Read(uuid[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return uuid
}

// encode writes the 128 bits of data behind two zero bits, five bits per
// character.
func encode(data [16]byte) string {
	var sb strings.Builder
	sb.Grow(Length)
	for i := 0; i < Length; i++ {
		var v byte
		for b := 0; b < 5; b++ {
			v = v<<1 | bit(data, i*5+b-2)
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

func bit(data [16]byte, pos int) byte {
	if pos < 0 {
		return 0
	}
	return (data[pos/8] >> (7 - pos%8)) & 1
}

func decode(id string) ([16]byte, error) {
	var data [16]byte
	if err := Validate(id); err != nil {
		return data, err
	}
	for i := 0; i < Length; i++ {
		v := byte(strings.IndexByte(alphabet, id[i]))
		for b := 0; b < 5; b++ {
			pos := i*5 + b - 2
			if pos < 0 {
				continue
			}
			if v>>(4-b)&1 == 1 {
				data[pos/8] |= 1 << (7 - pos%8)
			}
		}
	}
	return data, nil
}

// Time returns the creation time embedded in id, to the millisecond.
func Time(id string) (time.Time, error) {
	data, err := decode(id)
	if err != nil {
		return time.Time{}, err
	}
	var ms int64
	for i := 0; i < 6; i++ {
		ms = ms<<8 | int64(data[i])
	}
	return time.UnixMilli(ms), nil
}

// Validate checks that id is 26 base32 characters with a leading 0-7.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
