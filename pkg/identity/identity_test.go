package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geoffoxholm/retropie-scripts/pkg/identity"
)

func TestFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"absolute path", "/home/pi/RetroPie/roms/snes/Super Mario World.zip", "Super Mario World"},
		{"relative path", "./a.zip", "a"},
		{"bare file", "a.zip", "a"},
		{"no extension", "chocolatier", "chocolatier"},
		{"dotted name", "game.v1.2.zip", "game.v1.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.FromPath(tt.path))
		})
	}
}

func TestFromPathExtensionIndependent(t *testing.T) {
	// The same rom in a different container format keeps its identity.
	assert.Equal(t, identity.FromPath("roms/snes/a.zip"), identity.FromPath("roms/snes/a.sfc"))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"case folded", "MARIO", "mario"},
		{"ampersand spelled out", "Sonic & Knuckles", "sonic and knuckles"},
		{"punctuation dropped", "Pac-Man!", "pacman"},
		{"whitespace collapsed", "  Zelda   II  ", "zelda ii"},
		{"symbols dropped", "Street Fighter II Turbo (USA)", "street fighter ii turbo usa"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.NormalizeName(tt.in))
		})
	}
}

func TestNormalizeNameEquivalence(t *testing.T) {
	// The loose key matches the spellings users actually type.
	pairs := [][2]string{
		{"Sonic & Knuckles", "sonic and knuckles"},
		{"Super Mario World", "SUPER MARIO WORLD"},
		{"Kirby's Dream Land", "kirbys dream land"},
	}
	for _, p := range pairs {
		assert.Equal(t, identity.NormalizeName(p[0]), identity.NormalizeName(p[1]),
			"%q and %q should normalize identically", p[0], p[1])
	}
}
