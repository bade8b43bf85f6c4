//go:build linux

package can

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Dial opens a raw CAN socket bound to iface. The socket is nonblocking and
// wrapped in an *os.File, so reads park in the runtime poller and Close
// wakes a blocked reader.
func Dial(iface string) (*os.File, error) {
	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.CAN_RAW)
	if err != nil {
		return nil, fmt.Errorf("can socket: %w", err)
	}

	ifreq, err := unix.NewIfreq(iface)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("can interface %q: %w", iface, err)
	}
	if err := unix.IoctlIfreq(fd, unix.SIOCGIFINDEX, ifreq); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("can interface %q index: %w", iface, err)
	}

	addr := &unix.SockaddrCAN{Ifindex: int(ifreq.Uint32())}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %q: %w", iface, err)
	}

	return os.NewFile(uintptr(fd), "can:"+iface), nil
}
