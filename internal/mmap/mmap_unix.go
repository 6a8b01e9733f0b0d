//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) ([]byte, bool, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func unmapFile(data []byte) error {
	return unix.Munmap(data)
}

func advise(data []byte, p AccessPattern) error {
	switch p {
	case AccessSequential:
		return unix.Madvise(data, unix.MADV_SEQUENTIAL)
	case AccessRandom:
		return unix.Madvise(data, unix.MADV_RANDOM)
	default:
		return unix.Madvise(data, unix.MADV_NORMAL)
	}
}
