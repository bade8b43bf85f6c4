// Package gpio watches the gear selector switches wired to an evdev input
// device.
//
// The board exposes two switches as keys: KEY_F4 selects reverse and
// KEY_F3 selects park. With neither pressed the gear is neutral. The
// Monitor evaluates the key bitmap once at start, so a switch engaged at
// boot is honoured, and again after every batch of input events.
package gpio
