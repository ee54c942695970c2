package mempool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeClass(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"zero gets minimum", 0, minClass},
		{"small size gets minimum", 1, minClass},
		{"exactly minimum", minClass, minClass},
		{"just above minimum", minClass + 1, 2 * minClass},
		{"multiple", 5 * minClass, 5 * minClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sizeClass(tt.input))
		})
	}
}

func TestGetBuffer(t *testing.T) {
	buf := GetBuffer(100)
	require.NotNil(t, buf)
	assert.Zero(t, buf.Len())
	assert.GreaterOrEqual(t, buf.Cap(), minClass)

	big := GetBuffer(3*minClass + 5)
	assert.GreaterOrEqual(t, big.Cap(), 4*minClass)
}

func TestPutBufferResets(t *testing.T) {
	buf := GetBuffer(10)
	buf.WriteString("frame data")
	PutBuffer(buf)

	again := GetBuffer(10)
	assert.Zero(t, again.Len(), "pooled buffers come back empty")
}

func TestPutBufferEdgeCases(t *testing.T) {
	assert.NotPanics(t, func() { PutBuffer(nil) })
	assert.NotPanics(t, func() { PutBuffer(new(bytes.Buffer)) })
	assert.NotPanics(t, func() { PutBuffer(bytes.NewBuffer(make([]byte, 0, maxClass+1))) })
}

func TestFrameSizeHint(t *testing.T) {
	assert.Equal(t, minClass, FrameSizeHint(0, 10))
	assert.Equal(t, 100*60*4/3, FrameSizeHint(100, 60))
}

func TestConcurrentAccess(t *testing.T) {
	const goroutines = 10
	const iterations = 100

	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range iterations {
				buf := GetBuffer((id + 1) * (i + 1) * 64)
				buf.WriteByte(byte(i))
				assert.Equal(t, 1, buf.Len())
				PutBuffer(buf)
			}
		}(g)
	}
	wg.Wait()
}
