package hash

import "encoding/binary"

// lengthOffset is where the 64-bit bit count starts in the last block.
const lengthOffset = BlockSize - 8

// finish applies the closing padding to a copy of state: a 0x80 byte after
// tail, zero fill, and the big-endian bit length in the last 8 bytes of the
// final block. A tail of 56 bytes or more leaves no room for the length, so
// it takes a second block.
func finish(state [8]uint32, tail []byte, length uint64) Digest {
	var block [BlockSize]byte
	n := copy(block[:], tail)
	block[n] = 0x80

	if n >= lengthOffset {
		compress(&state, &block)
		block = [BlockSize]byte{}
	}

	binary.BigEndian.PutUint64(block[lengthOffset:], length*8)
	compress(&state, &block)

	return Digest(state)
}
