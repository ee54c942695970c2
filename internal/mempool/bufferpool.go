package mempool

import (
	"bytes"
	"sync"
)

// A sized pool of byte buffers for encoding frames without allocating a new
// buffer per frame.

const (
	minClass = 16 * 1024
	// Buffers that grew beyond maxClass are dropped instead of pooled.
	maxClass = 64 * 1024 * 1024
)

var bufferPools sync.Map // key: size class (int), value: *sync.Pool

// sizeClass rounds n up to a multiple of minClass.
func sizeClass(n int) int {
	if n <= minClass {
		return minClass
	}
	r := (n + minClass - 1) / minClass
	return r * minClass
}

func pool(cls int) *sync.Pool {
	pAny, _ := bufferPools.LoadOrStore(cls, &sync.Pool{New: func() any {
		return bytes.NewBuffer(make([]byte, 0, cls))
	}})
	p, _ := pAny.(*sync.Pool)
	return p
}

// GetBuffer returns an empty buffer with room for at least n bytes.
// The caller must return it via PutBuffer when done.
func GetBuffer(n int) *bytes.Buffer {
	cls := sizeClass(n)
	p := pool(cls)
	if p == nil {
		return bytes.NewBuffer(make([]byte, 0, cls))
	}
	buf, ok := p.Get().(*bytes.Buffer)
	if !ok || buf.Cap() < cls {
		buf = bytes.NewBuffer(make([]byte, 0, cls))
	}
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool. It is safe to pass nil. The
// buffer's contents must not be used afterwards.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxClass {
		return
	}
	// pool by the class the capacity fully covers so Get never sees a smaller buffer
	cls := (buf.Cap() / minClass) * minClass
	if cls < minClass {
		return
	}
	if p := pool(cls); p != nil {
		buf.Reset()
		p.Put(buf)
	}
}

// FrameSizeHint estimates the encoded size of a width x height RGBA frame.
// PNG output of annotated photos is rarely above a third of the raw size.
func FrameSizeHint(width, height int) int {
	if width <= 0 || height <= 0 {
		return minClass
	}
	return width * height * 4 / 3
}
