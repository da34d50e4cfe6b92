package utils

import "io"

// WriterCounter 记录已经写入底层Writer的字节数，用于检查输出是否完整
type WriterCounter struct {
	Writer io.Writer
	Count  uint64
}

func (w *WriterCounter) Write(p []byte) (int, error) {
	n, err := w.Writer.Write(p)
	w.Count += uint64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}
