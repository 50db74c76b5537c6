package contentstream

import (
	"fmt"

	"github.com/examine-dev/examine/core"
)

// Operation represents a single content stream operation: an operator and
// the operands that preceded it. For inline images (BI..EI) the image
// dictionary and raw data are captured instead of operands.
type Operation struct {
	Operator string
	Operands []core.Object

	// InlineDict and InlineData are set for the BI operator.
	InlineDict core.Dict
	InlineData []byte
}

// Parser parses PDF content streams into a sequence of operations.
type Parser struct {
	lex  *core.Lexer
	data []byte
}

// NewParser creates a content stream parser for the given decoded stream
// data.
func NewParser(data []byte) *Parser {
	return &Parser{
		lex:  core.NewLexer(data),
		data: data,
	}
}

// Parse parses the content stream and returns all operations in order.
func (p *Parser) Parse() ([]Operation, error) {
	var ops []Operation
	var operands []core.Object

	for {
		p.lex.SkipWhitespace()
		c, ok := p.lex.Peek()
		if !ok {
			break
		}

		if isOperatorStart(c) {
			op := p.readOperator()
			if op == "" {
				return nil, fmt.Errorf("empty operator at offset %d", p.lex.Pos())
			}

			if op == "BI" {
				inline, err := p.parseInlineImage()
				if err != nil {
					return nil, err
				}
				ops = append(ops, inline)
				operands = nil
				continue
			}

			ops = append(ops, Operation{
				Operator: op,
				Operands: operands,
			})
			operands = nil
			continue
		}

		obj, err := p.lex.ReadObject()
		if err != nil {
			return nil, fmt.Errorf("at offset %d: %w", p.lex.Pos(), err)
		}
		operands = append(operands, obj)
	}

	return ops, nil
}

// readOperator reads an operator token: letters plus the quote and star
// forms (', ", T*, b*, W*) and digit suffixes (d0, d1).
func (p *Parser) readOperator() string {
	start := p.lex.Pos()
	pos := start
	for pos < len(p.data) {
		c := p.data[pos]
		if isLetter(c) || c == '\'' || c == '"' || c == '*' || (pos > start && c >= '0' && c <= '9') {
			pos++
		} else {
			break
		}
	}
	p.lex.Seek(pos)
	return string(p.data[start:pos])
}

// parseInlineImage parses the dictionary entries and raw data of a BI..EI
// inline image. The BI operator has already been consumed.
func (p *Parser) parseInlineImage() (Operation, error) {
	dict := make(core.Dict)

	for {
		p.lex.SkipWhitespace()
		c, ok := p.lex.Peek()
		if !ok {
			return Operation{}, fmt.Errorf("unterminated inline image dictionary")
		}

		if c != '/' {
			// Must be the ID keyword introducing the binary data.
			keyword := p.lex.ReadKeyword()
			if keyword != "ID" {
				return Operation{}, fmt.Errorf("expected ID in inline image, got %q", keyword)
			}
			break
		}

		key, err := p.lex.ReadObject()
		if err != nil {
			return Operation{}, err
		}
		value, err := p.lex.ReadObject()
		if err != nil {
			return Operation{}, err
		}
		dict[string(key.(core.Name))] = value
	}

	// Exactly one whitespace byte separates ID from the data.
	pos := p.lex.Pos()
	if pos < len(p.data) && isPDFWhitespace(p.data[pos]) {
		pos++
	}

	end := findInlineEnd(p.data, pos)
	if end < 0 {
		return Operation{}, fmt.Errorf("unterminated inline image data")
	}

	// Data ends before the whitespace byte separating it from EI.
	dataEnd := end
	if dataEnd > pos && isPDFWhitespace(p.data[dataEnd-1]) {
		dataEnd--
	}

	data := p.data[pos:dataEnd]
	p.lex.Seek(end + 2) // past EI

	return Operation{
		Operator:   "BI",
		InlineDict: dict,
		InlineData: data,
	}, nil
}

// findInlineEnd locates the EI terminator of inline image data: an "EI"
// preceded by whitespace and followed by whitespace or end of stream. It
// returns the offset of the 'E'.
func findInlineEnd(data []byte, from int) int {
	for i := from; i+1 < len(data); i++ {
		if data[i] != 'E' || data[i+1] != 'I' {
			continue
		}
		if i > from && !isPDFWhitespace(data[i-1]) {
			continue
		}
		if i+2 < len(data) && !isPDFWhitespace(data[i+2]) {
			continue
		}
		return i
	}
	return -1
}

// isOperatorStart reports whether c can begin an operator token.
func isOperatorStart(c byte) bool {
	return isLetter(c) || c == '\'' || c == '"'
}

// isLetter reports whether c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isPDFWhitespace reports whether c is a PDF whitespace character.
func isPDFWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
