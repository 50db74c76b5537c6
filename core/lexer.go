package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// Lexer reads PDF objects from a byte slice. It is used both for the
// document body and for content streams.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer over data starting at offset 0.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the current offset.
func (l *Lexer) Pos() int {
	return l.pos
}

// Seek moves the lexer to the given offset.
func (l *Lexer) Seek(pos int) {
	l.pos = pos
}

// EOF reports whether the lexer has consumed all input.
func (l *Lexer) EOF() bool {
	return l.pos >= len(l.data)
}

// SkipWhitespace advances past PDF whitespace and comments.
func (l *Lexer) SkipWhitespace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isWhitespace(c) {
			l.pos++
			continue
		}
		if c == '%' {
			// Comment runs to end of line.
			for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		break
	}
}

// Peek returns the next byte without consuming it.
func (l *Lexer) Peek() (byte, bool) {
	if l.pos >= len(l.data) {
		return 0, false
	}
	return l.data[l.pos], true
}

// ReadKeyword reads a run of regular (non-whitespace, non-delimiter)
// characters. It returns "" at EOF or before a delimiter.
func (l *Lexer) ReadKeyword() string {
	start := l.pos
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// ReadObject reads the next PDF object: number, indirect reference,
// string, hex string, name, array, dictionary, boolean or null.
func (l *Lexer) ReadObject() (Object, error) {
	l.SkipWhitespace()

	c, ok := l.Peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input")
	}

	switch {
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return l.readNumberOrRef()
	case c == '(':
		return l.readString()
	case c == '/':
		return l.readName()
	case c == '[':
		return l.readArray()
	case c == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			return l.readDict()
		}
		return l.readHexString()
	case c == 't' || c == 'f' || c == 'n':
		return l.readKeywordObject()
	default:
		return nil, fmt.Errorf("unexpected character %q at offset %d", c, l.pos)
	}
}

// readNumberOrRef reads a number, upgrading "N G R" sequences to an
// indirect reference.
func (l *Lexer) readNumberOrRef() (Object, error) {
	num, err := l.readNumber()
	if err != nil {
		return nil, err
	}

	first, isInt := num.(Int)
	if !isInt || first < 0 {
		return num, nil
	}

	// Lookahead for "<gen> R".
	save := l.pos
	l.SkipWhitespace()

	c, ok := l.Peek()
	if !ok || c < '0' || c > '9' {
		l.pos = save
		return num, nil
	}

	gen, err := l.readNumber()
	if err != nil {
		l.pos = save
		return num, nil
	}
	genInt, isInt := gen.(Int)
	if !isInt {
		l.pos = save
		return num, nil
	}

	l.SkipWhitespace()
	if c, ok = l.Peek(); !ok || c != 'R' {
		l.pos = save
		return num, nil
	}
	// 'R' must stand alone.
	if l.pos+1 < len(l.data) && !isWhitespace(l.data[l.pos+1]) && !isDelimiter(l.data[l.pos+1]) {
		l.pos = save
		return num, nil
	}
	l.pos++

	return IndirectRef{Number: int(first), Generation: int(genInt)}, nil
}

// readNumber reads an integer or real number.
func (l *Lexer) readNumber() (Object, error) {
	start := l.pos
	hasDecimal := false

	if c, ok := l.Peek(); ok && (c == '+' || c == '-') {
		l.pos++
	}

	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c >= '0' && c <= '9' {
			l.pos++
		} else if c == '.' && !hasDecimal {
			hasDecimal = true
			l.pos++
		} else {
			break
		}
	}

	numStr := string(l.data[start:l.pos])

	if hasDecimal {
		val, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", numStr, err)
		}
		return Real(val), nil
	}

	val, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", numStr, err)
	}
	return Int(val), nil
}

// readString reads a literal string (...) with escape handling.
func (l *Lexer) readString() (Object, error) {
	l.pos++ // skip '('

	var result bytes.Buffer
	depth := 1

	for l.pos < len(l.data) && depth > 0 {
		c := l.data[l.pos]

		switch {
		case c == '\\' && l.pos+1 < len(l.data):
			l.pos++
			next := l.data[l.pos]
			switch next {
			case 'n':
				result.WriteByte('\n')
				l.pos++
			case 'r':
				result.WriteByte('\r')
				l.pos++
			case 't':
				result.WriteByte('\t')
				l.pos++
			case 'b':
				result.WriteByte('\b')
				l.pos++
			case 'f':
				result.WriteByte('\f')
				l.pos++
			case '(', ')', '\\':
				result.WriteByte(next)
				l.pos++
			case '\r':
				// Line continuation.
				l.pos++
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
				l.pos++
			case '0', '1', '2', '3', '4', '5', '6', '7':
				val := int(next - '0')
				l.pos++
				for i := 0; i < 2 && l.pos < len(l.data); i++ {
					d := l.data[l.pos]
					if d < '0' || d > '7' {
						break
					}
					val = val*8 + int(d-'0')
					l.pos++
				}
				result.WriteByte(byte(val & 0xFF))
			default:
				// Unknown escape: drop the backslash.
				result.WriteByte(next)
				l.pos++
			}
		case c == '(':
			depth++
			result.WriteByte(c)
			l.pos++
		case c == ')':
			depth--
			if depth > 0 {
				result.WriteByte(c)
			}
			l.pos++
		default:
			result.WriteByte(c)
			l.pos++
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unclosed string")
	}

	return String(result.String()), nil
}

// readHexString reads a hexadecimal string <...>.
func (l *Lexer) readHexString() (Object, error) {
	l.pos++ // skip '<'

	var result bytes.Buffer
	var digits []byte

	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == '>' {
			l.pos++
			break
		}
		if isWhitespace(c) {
			l.pos++
			continue
		}
		if !isHexDigit(c) {
			return nil, fmt.Errorf("invalid hex digit %q at offset %d", c, l.pos)
		}
		digits = append(digits, c)
		l.pos++
	}

	for i := 0; i < len(digits); i += 2 {
		hi := hexValue(digits[i])
		lo := byte(0) // odd digit count implies trailing 0
		if i+1 < len(digits) {
			lo = hexValue(digits[i+1])
		}
		result.WriteByte(hi<<4 | lo)
	}

	return String(result.String()), nil
}

// readName reads a name /Name with # escapes.
func (l *Lexer) readName() (Object, error) {
	l.pos++ // skip '/'

	var result bytes.Buffer

	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && l.pos+2 < len(l.data) && isHexDigit(l.data[l.pos+1]) && isHexDigit(l.data[l.pos+2]) {
			result.WriteByte(hexValue(l.data[l.pos+1])<<4 | hexValue(l.data[l.pos+2]))
			l.pos += 3
			continue
		}
		result.WriteByte(c)
		l.pos++
	}

	return Name(result.String()), nil
}

// readArray reads an array [...].
func (l *Lexer) readArray() (Object, error) {
	l.pos++ // skip '['

	var arr Array

	for {
		l.SkipWhitespace()
		c, ok := l.Peek()
		if !ok {
			return nil, fmt.Errorf("unclosed array")
		}
		if c == ']' {
			l.pos++
			return arr, nil
		}

		obj, err := l.ReadObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// readDict reads a dictionary <<...>>.
func (l *Lexer) readDict() (Object, error) {
	l.pos += 2 // skip '<<'

	dict := make(Dict)

	for {
		l.SkipWhitespace()
		if l.pos+1 < len(l.data) && l.data[l.pos] == '>' && l.data[l.pos+1] == '>' {
			l.pos += 2
			return dict, nil
		}

		c, ok := l.Peek()
		if !ok {
			return nil, fmt.Errorf("unclosed dictionary")
		}
		if c != '/' {
			return nil, fmt.Errorf("dictionary key must be a name at offset %d", l.pos)
		}

		key, err := l.readName()
		if err != nil {
			return nil, err
		}

		value, err := l.ReadObject()
		if err != nil {
			return nil, err
		}

		dict[string(key.(Name))] = value
	}
}

// readKeywordObject reads true, false or null.
func (l *Lexer) readKeywordObject() (Object, error) {
	start := l.pos
	keyword := l.ReadKeyword()

	switch keyword {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return Null{}, nil
	default:
		l.pos = start
		return nil, fmt.Errorf("unexpected keyword %q at offset %d", keyword, start)
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

// isHexDigit reports whether c is a hexadecimal digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hexValue returns the numeric value of a hexadecimal digit.
func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
