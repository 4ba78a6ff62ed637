// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gorinex

import (
	"bufio"
	"io"
)

// Line oriented reader with one line of pushback.
// Both LF and CRLF terminated lines are accepted.
type LineReader struct {
	s      *bufio.Scanner
	last   string
	pushed bool
	ok     bool // last Next returned a line
	num    int
	err    error
}

func NewLineReader(r io.Reader) *LineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 1024), 1024*1024)
	return &LineReader{s: s}
}

// Return the next line without its terminator, or io.EOF at the end of the stream
func (p *LineReader) Next() (string, error) {
	if p.pushed {
		p.pushed = false
		p.ok = true
		p.num++
		return p.last, nil
	}
	p.ok = false
	if p.err != nil {
		return "", p.err
	}
	if !p.s.Scan() {
		p.err = p.s.Err()
		if p.err == nil {
			p.err = io.EOF
		}
		return "", p.err
	}
	p.last = p.s.Text()
	p.ok = true
	p.num++
	return p.last, nil
}

// Push back the line returned by the last Next. Only one line can be pushed back.
func (p *LineReader) Unread() {
	if p.pushed || !p.ok {
		return
	}
	p.pushed = true
	p.num--
}

// Return the next line without consuming it
func (p *LineReader) Peek() (string, error) {
	l, err := p.Next()
	if err != nil {
		return "", err
	}
	p.Unread()
	return l, nil
}

func (p *LineReader) AtEnd() bool {
	_, err := p.Peek()
	return err != nil
}

// Number of lines consumed so far
func (p *LineReader) LineNum() int {
	return p.num
}
