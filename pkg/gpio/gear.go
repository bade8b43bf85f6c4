package gpio

import "github.com/rcar-vhal/vhal-go/pkg/model"

// Key codes of the gear switches (linux/input-event-codes.h).
const (
	KeyPark    = 61 // KEY_F3
	KeyReverse = 62 // KEY_F4

	// KeyMax is KEY_MAX; the key bitmap covers codes 0..KeyMax.
	KeyMax = 0x2ff
)

// KeyBitmapSize is the byte length of a full key state bitmap.
const KeyBitmapSize = (KeyMax + 1 + 7) / 8

// Pressed reports whether key is set in bitmap.
func Pressed(bitmap []byte, key int) bool {
	i := key / 8
	if key < 0 || i >= len(bitmap) {
		return false
	}
	return bitmap[i]&(1<<(key%8)) != 0
}

// Gear derives the selected gear. Reverse wins over park; neither is
// neutral.
func Gear(bitmap []byte) int32 {
	switch {
	case Pressed(bitmap, KeyReverse):
		return model.GearReverse
	case Pressed(bitmap, KeyPark):
		return model.GearPark
	default:
		return model.GearNeutral
	}
}
