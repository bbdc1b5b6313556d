package buffer

// Buffer accumulates bytes up to a fixed limit. The memory is kept between messages, so
// once grown it's reused after Reset.
type Buffer struct {
	memory  []byte
	maxSize int
}

func New(initialSize, maxSize int) Buffer {
	return Buffer{
		memory:  make([]byte, 0, min(initialSize, maxSize)),
		maxSize: maxSize,
	}
}

// Append writes as many bytes as fit into the limit and returns their number. The rest
// is discarded.
func (b *Buffer) Append(data []byte) (n int) {
	n = min(len(data), b.Free())
	b.memory = append(b.memory, data[:n]...)

	return n
}

// Free returns how many bytes can be appended yet.
func (b *Buffer) Free() int {
	return b.maxSize - len(b.memory)
}

func (b *Buffer) Full() bool {
	return b.Free() == 0
}

func (b *Buffer) Len() int {
	return len(b.memory)
}

// Bytes returns the accumulated data. It's valid until the next Append or Reset.
func (b *Buffer) Bytes() []byte {
	return b.memory
}

// Reset empties the buffer, keeping the memory.
func (b *Buffer) Reset() {
	b.memory = b.memory[:0]
}
