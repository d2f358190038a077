package msp

import (
	"bufio"
	"io"
	"strings"
)

// lineReader reads an MSP stream either a line at a time (metadata) or a
// whitespace-delimited token at a time (peak lists). After a token, the next
// ReadLine returns whatever is left of the token's physical line.
type lineReader struct {
	br     *bufio.Reader
	lineNo int // 1-based line the read position is on
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64*1024), lineNo: 1}
}

// ReadLine returns the rest of the current line without its terminator and
// the line's number. It returns io.EOF only when nothing was left to read.
func (lr *lineReader) ReadLine() (string, int, error) {
	start := lr.lineNo
	s, err := lr.br.ReadString('\n')
	if err != nil {
		if err == io.EOF && s != "" {
			return strings.TrimSuffix(s, "\r"), start, nil
		}
		return "", start, err
	}
	lr.lineNo++
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r"), start, nil
}

// Token skips whitespace (across lines) and returns the next run of
// non-whitespace bytes with the line it sits on. The delimiter after the
// token is left unread.
func (lr *lineReader) Token() (string, int, error) {
	for {
		b, err := lr.br.ReadByte()
		if err != nil {
			return "", lr.lineNo, err
		}
		if b == '\n' {
			lr.lineNo++
			continue
		}
		if isSpace(b) {
			continue
		}
		if err := lr.br.UnreadByte(); err != nil {
			return "", lr.lineNo, err
		}
		break
	}

	var sb strings.Builder
	for {
		b, err := lr.br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", lr.lineNo, err
		}
		if isSpace(b) || b == '\n' {
			if err := lr.br.UnreadByte(); err != nil {
				return "", lr.lineNo, err
			}
			break
		}
		sb.WriteByte(b)
	}
	return sb.String(), lr.lineNo, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}
