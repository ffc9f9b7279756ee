// mmap.go -- mmap a file as a StorageMem region
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Maps a whole region of Words and reinterprets the raw mapped bytes
// as a []Word in the host's native order, a zero-copy reinterpret via
// reflect.SliceHeader/unsafe.Pointer. Because the on-disk format is
// defined in terms of logical little-endian word values, every value
// crossing the native<->logical boundary goes through
// ToLittleEndianWord/ToBigEndianWord (see endian_le.go / endian_be.go),
// which is a no-op on LE hosts and a byte-swap on BE hosts.
package norstore

import (
	"fmt"
	"os"
	"reflect"
	"syscall"
	"unsafe"
)

// MappedRegion is a StorageMem backed by a memory-mapped file, letting
// a region's contents survive process restarts the way real NOR flash
// would.
type MappedRegion struct {
	fd   *os.File
	data []byte
	w    []Word
}

// OpenMappedRegion mmaps a file of exactly n*WordSize bytes as a
// region of n words. If the file is shorter than that, it is grown
// and the new bytes are filled with the erased pattern before
// mapping, matching a freshly-erased flash sector.
func OpenMappedRegion(path string, n int) (*MappedRegion, error) {
	fd, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("norstore: open %s: %w", path, err)
	}

	sz := int64(n) * int64(WordSize)
	st, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("norstore: stat %s: %w", path, err)
	}

	if st.Size() < sz {
		if err := growErased(fd, st.Size(), sz); err != nil {
			fd.Close()
			return nil, err
		}
	}

	data, err := syscall.Mmap(int(fd.Fd()), 0, int(sz), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("norstore: mmap %s: %w", path, err)
	}

	r := &MappedRegion{
		fd:   fd,
		data: data,
		w:    wordSliceOf(data, n),
	}
	return r, nil
}

// growErased extends fd from 'from' to 'to' bytes, filling the new
// range with the erased pattern (0xFF) rather than the zero-filled
// hole a plain Truncate would leave.
func growErased(fd *os.File, from, to int64) error {
	const chunk = 64 * 1024
	var fill [chunk]byte
	for i := range fill {
		fill[i] = 0xFF
	}

	if _, err := fd.Seek(from, 0); err != nil {
		return err
	}

	remaining := to - from
	for remaining > 0 {
		n := int64(chunk)
		if remaining < n {
			n = remaining
		}
		if _, err := fd.Write(fill[:n]); err != nil {
			return fmt.Errorf("norstore: grow region: %w", err)
		}
		remaining -= n
	}
	return fd.Sync()
}

// wordSliceOf reinterprets a raw byte buffer as a []Word of length n,
// without copying.
func wordSliceOf(b []byte, n int) []Word {
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	var w []Word
	wh := (*reflect.SliceHeader)(unsafe.Pointer(&w))
	wh.Data = bh.Data
	wh.Len = n
	wh.Cap = n
	return w
}

func (r *MappedRegion) Capacity() int {
	return len(r.w)
}

func (r *MappedRegion) Read(i int) Word {
	return ToLittleEndianWord(r.w[i])
}

// ReadSpan materializes the requested words into a freshly allocated
// slice in logical (little-endian) order. Unlike RAMRegion, a mapped
// region can't hand back a zero-copy alias on big-endian hosts (the
// native bytes and the logical value may differ), so this always
// copies; callers needing the hot path should prefer Read in a loop
// on BE hosts.
func (r *MappedRegion) ReadSpan(start, end int) []Word {
	out := make([]Word, end-start)
	for i := start; i < end; i++ {
		out[i-start] = r.Read(i)
	}
	return out
}

func (r *MappedRegion) Write(i int, w Word) error {
	if r.Read(i) != Erased {
		return errNotErased(i)
	}
	r.w[i] = ToLittleEndianWord(w)
	return nil
}

// Sync flushes the mapped pages to the backing file.
func (r *MappedRegion) Sync() error {
	return syscall.Msync(r.data, syscall.MS_SYNC)
}

// Close unmaps the region and closes the backing file.
func (r *MappedRegion) Close() error {
	if err := syscall.Munmap(r.data); err != nil {
		return err
	}
	return r.fd.Close()
}
