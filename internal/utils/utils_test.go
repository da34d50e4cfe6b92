package utils

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 31.59, Round(31.587301587, 2))
	assert.Equal(t, 77.78, Round(77.77777777, 2))
	assert.Equal(t, 30.0, Round(29.999, 2))
	assert.Equal(t, 0.0, Round(0, 2))
	assert.Equal(t, 100.0, Round(100, 2))

	// 恰好位于中间的值取偶数
	assert.Equal(t, 0.12, Round(0.125, 2))
	assert.Equal(t, 12.12, Round(12.125, 2))
	assert.Equal(t, 0.38, Round(0.375, 2))
	assert.Equal(t, -0.12, Round(-0.125, 2))
	// 2.675的二进制值略小于2.675
	assert.Equal(t, 2.67, Round(2.675, 2))
}

func TestRoundProbability(t *testing.T) {
	p := 97.0
	assert.Equal(t, 12.12, Round(Percent(p/800), 2))
	p = 107.0
	assert.Equal(t, 2.67, Round(Percent(p/4000), 2))
}

func TestPercent(t *testing.T) {
	p := 0.3
	assert.Equal(t, p*100, Percent(p))
	assert.Equal(t, 100.0, Percent(1))
	assert.Equal(t, 0.0, Percent(0))
}

func TestWriterCounter(t *testing.T) {
	buf := &bytes.Buffer{}
	counter := &WriterCounter{Writer: buf}
	_, _ = counter.Write([]byte("hello"))
	_, _ = counter.Write([]byte(" world"))
	assert.Equal(t, uint64(11), counter.Count)
	assert.Equal(t, "hello world", buf.String())
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return len(p) / 2, nil
}

func TestWriterCounterShortWrite(t *testing.T) {
	counter := &WriterCounter{Writer: shortWriter{}}
	n, err := counter.Write([]byte("abcd"))
	assert.Equal(t, 2, n)
	assert.Equal(t, io.ErrShortWrite, err)
	assert.Equal(t, uint64(2), counter.Count)
}
