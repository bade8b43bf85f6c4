//go:build linux

package gpio

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// inputEventSize is sizeof(struct input_event) on 64-bit targets.
const inputEventSize = 24

// evIOCGKey returns the EVIOCGKEY(size) request number.
func evIOCGKey(size int) uintptr {
	const (
		iocRead      = 2
		iocDirShift  = 30
		iocSizeShift = 16
		iocTypeShift = 8
	)
	return iocRead<<iocDirShift | uintptr(size)<<iocSizeShift | 'E'<<iocTypeShift | 0x18
}

type evdev struct {
	file *os.File
	buf  []byte
}

// OpenEvdev opens an evdev node. The descriptor is nonblocking so Wait
// parks in the runtime poller and Close wakes it.
func OpenEvdev(path string) (Device, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NONBLOCK|syscall.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &evdev{file: f, buf: make([]byte, 64*inputEventSize)}, nil
}

func (d *evdev) Wait() error {
	_, err := d.file.Read(d.buf)
	return err
}

func (d *evdev) KeyState() ([]byte, error) {
	conn, err := d.file.SyscallConn()
	if err != nil {
		return nil, err
	}

	bitmap := make([]byte, KeyBitmapSize)
	var errno syscall.Errno
	err = conn.Control(func(fd uintptr) {
		_, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, evIOCGKey(len(bitmap)), uintptr(unsafe.Pointer(&bitmap[0])))
	})
	if err != nil {
		return nil, err
	}
	if errno != 0 {
		return nil, fmt.Errorf("EVIOCGKEY: %w", errno)
	}
	return bitmap, nil
}

func (d *evdev) Close() error {
	return d.file.Close()
}
