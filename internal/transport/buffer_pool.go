package transport

import "sync"

// recvBufferSize is large enough for any UDP DNS message, including an
// EDNS0 OPT RR advertising a bigger-than-512 UDP payload.
const recvBufferSize = 65535

// bufferPool pools receive buffers so Receive doesn't allocate one
// per datagram on the hot path.
var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, recvBufferSize)
		return &buf
	},
}

// GetBuffer returns a pointer to a buffer from the pool. Callers must
// call PutBuffer to return it (use defer).
func GetBuffer() *[]byte {
	return bufferPool.Get().(*[]byte)
}

// PutBuffer returns a buffer to the pool, zeroing it first so no
// query/response data from one source leaks into the next caller's
// read.
func PutBuffer(bufPtr *[]byte) {
	buf := *bufPtr
	for i := range buf {
		buf[i] = 0
	}
	bufferPool.Put(bufPtr)
}
