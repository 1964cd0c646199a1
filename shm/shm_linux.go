//go:build linux

package shm

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Region is an mmap'd anonymous file. The file descriptor stays open for the
// lifetime of the region so a compositor binding can duplicate it across the
// display connection.
type Region struct {
	fd   int
	data []byte
}

func createRegion(byteSize int) (*Region, error) {
	fd, err := createAnonymousFile(int64(byteSize))
	if err != nil {
		return nil, errors.Wrap(err, "create anonymous file")
	}
	data, err := unix.Mmap(fd, 0, byteSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, errors.Wrap(err, "mmap")
	}
	return &Region{fd: fd, data: data}, nil
}

// createAnonymousFile prefers memfd_create (sealed against resizing), with
// an O_TMPFILE fallback on /dev/shm for older kernels.
func createAnonymousFile(byteSize int64) (int, error) {
	fd, err := unix.MemfdCreate("vitrine-shm", unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err == nil {
		if err = unix.Ftruncate(fd, byteSize); err != nil {
			_ = unix.Close(fd)
			return -1, err
		}
		if _, err = unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS,
			unix.F_SEAL_SHRINK|unix.F_SEAL_GROW|unix.F_SEAL_SEAL); err != nil {
			_ = unix.Close(fd)
			return -1, err
		}
		return fd, nil
	}

	fd, err = unix.Open("/dev/shm", unix.O_TMPFILE|unix.O_RDWR|unix.O_CLOEXEC, 0600)
	if err != nil {
		return -1, err
	}
	if err = unix.Ftruncate(fd, byteSize); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}
	return fd, nil
}

func (self *Region) Data() []byte {
	return self.data
}

func (self *Region) Size() int {
	return len(self.data)
}

// Fd is the region's file descriptor, for compositor bindings that pass the
// memory across a display connection.
func (self *Region) Fd() int {
	return self.fd
}

func (self *Region) Close() error {
	if self.data != nil {
		if err := unix.Munmap(self.data); err != nil {
			return errors.Wrap(err, "munmap")
		}
		self.data = nil
	}
	if self.fd >= 0 {
		if err := unix.Close(self.fd); err != nil {
			return errors.Wrap(err, "close")
		}
		self.fd = -1
	}
	return nil
}
