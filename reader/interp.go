package reader

import (
	"math"
	"unicode/utf16"

	"github.com/examine-dev/examine/content"
	"github.com/examine-dev/examine/contentstream"
	"github.com/examine-dev/examine/core"
	"github.com/examine-dev/examine/model"
)

// nominalGlyphWidth approximates glyph advance as a fraction of font size.
// Font metric decoding is outside this reader's scope, so run widths are
// estimates.
const nominalGlyphWidth = 0.5

// textState holds the PDF text state parameters the interpreter tracks.
type textState struct {
	fontSize    float64
	charSpacing float64
	wordSpacing float64
	horizScale  float64 // percent
	leading     float64
	rise        float64
	textMatrix  model.Matrix
	lineMatrix  model.Matrix
}

// interpreter replays a page's content stream, producing positioned text
// runs and the drawing-operator stream the diagram extractor consumes.
type interpreter struct {
	doc       *Document
	resources core.Dict

	ctm      model.Matrix
	ctmStack []model.Matrix
	text     textState

	runs []content.TextRun
	ops  []content.Op
}

// newInterpreter creates an interpreter over the given page resources.
func newInterpreter(doc *Document, resources core.Dict) *interpreter {
	return &interpreter{
		doc:       doc,
		resources: resources,
		ctm:       model.Identity(),
		text: textState{
			fontSize:   12,
			horizScale: 100,
			textMatrix: model.Identity(),
			lineMatrix: model.Identity(),
		},
	}
}

// run interprets decoded content stream data.
func (in *interpreter) run(data []byte) ([]content.TextRun, []content.Op, error) {
	operations, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return nil, nil, err
	}

	for _, op := range operations {
		in.apply(op)
	}

	return in.runs, in.ops, nil
}

// apply executes a single operation.
func (in *interpreter) apply(op contentstream.Operation) {
	switch op.Operator {
	case "q":
		in.ctmStack = append(in.ctmStack, in.ctm)
		in.ops = append(in.ops, content.Op{Kind: content.OpSave})

	case "Q":
		if n := len(in.ctmStack); n > 0 {
			in.ctm = in.ctmStack[n-1]
			in.ctmStack = in.ctmStack[:n-1]
		} else {
			in.ctm = model.Identity()
		}
		in.ops = append(in.ops, content.Op{Kind: content.OpRestore})

	case "cm":
		if m, ok := matrixOperands(op.Operands); ok {
			in.ctm = m.Multiply(in.ctm)
			in.ops = append(in.ops, content.Op{Kind: content.OpTransform, Matrix: m})
		}

	case "Do":
		if len(op.Operands) == 1 {
			if name, ok := op.Operands[0].(core.Name); ok && in.isImageXObject(string(name)) {
				in.ops = append(in.ops, content.Op{Kind: content.OpPaintImageRef, Name: string(name)})
			}
		}

	case "BI":
		in.ops = append(in.ops, content.Op{
			Kind:  content.OpPaintInlineImage,
			Image: inlineImage(op.InlineDict, op.InlineData),
		})

	case "BT":
		in.text.textMatrix = model.Identity()
		in.text.lineMatrix = model.Identity()

	case "ET":
		// Nothing to finalize.

	case "Tf":
		if len(op.Operands) == 2 {
			if size, ok := core.Number(op.Operands[1]); ok {
				in.text.fontSize = size
			}
		}

	case "Tc":
		if v, ok := numberOperand(op.Operands, 0); ok {
			in.text.charSpacing = v
		}

	case "Tw":
		if v, ok := numberOperand(op.Operands, 0); ok {
			in.text.wordSpacing = v
		}

	case "Tz":
		if v, ok := numberOperand(op.Operands, 0); ok {
			in.text.horizScale = v
		}

	case "TL":
		if v, ok := numberOperand(op.Operands, 0); ok {
			in.text.leading = v
		}

	case "Ts":
		if v, ok := numberOperand(op.Operands, 0); ok {
			in.text.rise = v
		}

	case "Td":
		if tx, ok := numberOperand(op.Operands, 0); ok {
			if ty, ok := numberOperand(op.Operands, 1); ok {
				in.translateText(tx, ty)
			}
		}

	case "TD":
		if tx, ok := numberOperand(op.Operands, 0); ok {
			if ty, ok := numberOperand(op.Operands, 1); ok {
				in.text.leading = -ty
				in.translateText(tx, ty)
			}
		}

	case "Tm":
		if m, ok := matrixOperands(op.Operands); ok {
			in.text.textMatrix = m
			in.text.lineMatrix = m
		}

	case "T*":
		in.translateText(0, -in.text.leading)

	case "Tj":
		if len(op.Operands) == 1 {
			if s, ok := op.Operands[0].(core.String); ok {
				in.showText(decodeTextString(string(s)))
			}
		}

	case "'":
		in.translateText(0, -in.text.leading)
		if len(op.Operands) == 1 {
			if s, ok := op.Operands[0].(core.String); ok {
				in.showText(decodeTextString(string(s)))
			}
		}

	case "\"":
		// aw ac string "
		if len(op.Operands) == 3 {
			if aw, ok := core.Number(op.Operands[0]); ok {
				in.text.wordSpacing = aw
			}
			if ac, ok := core.Number(op.Operands[1]); ok {
				in.text.charSpacing = ac
			}
			in.translateText(0, -in.text.leading)
			if s, ok := op.Operands[2].(core.String); ok {
				in.showText(decodeTextString(string(s)))
			}
		}

	case "TJ":
		if len(op.Operands) == 1 {
			if arr, ok := op.Operands[0].(core.Array); ok {
				in.showTextArray(arr)
			}
		}
	}
}

// translateText applies a Td-style translation to the line matrix.
func (in *interpreter) translateText(tx, ty float64) {
	in.text.lineMatrix = model.Translate(tx, ty).Multiply(in.text.lineMatrix)
	in.text.textMatrix = in.text.lineMatrix
}

// showText emits one text run at the current text position and advances
// the text matrix past it.
func (in *interpreter) showText(text string) {
	if text == "" {
		return
	}

	ts := &in.text
	scale := ts.horizScale / 100

	// Run-local space -> user space: font scaling, then the text
	// matrix, then the CTM.
	fontMatrix := model.Matrix{ts.fontSize * scale, 0, 0, ts.fontSize, 0, ts.rise}
	transform := fontMatrix.Multiply(ts.textMatrix).Multiply(in.ctm)

	chars := 0
	spaces := 0
	for _, r := range text {
		chars++
		if r == ' ' {
			spaces++
		}
	}

	width := float64(chars) * nominalGlyphWidth * ts.fontSize * scale
	advance := width + (float64(chars)*ts.charSpacing+float64(spaces)*ts.wordSpacing)*scale

	in.runs = append(in.runs, content.TextRun{
		Text:      text,
		Transform: transform,
		Width:     width,
		Height:    math.Hypot(transform[2], transform[3]),
	})

	ts.textMatrix[4] += advance
}

// showTextArray handles the TJ operator: strings interleaved with
// positioning adjustments in thousandths of font size.
func (in *interpreter) showTextArray(arr core.Array) {
	for _, item := range arr {
		switch v := item.(type) {
		case core.String:
			in.showText(decodeTextString(string(v)))
		case core.Int:
			in.text.textMatrix[4] -= float64(v) / 1000 * in.text.fontSize
		case core.Real:
			in.text.textMatrix[4] -= float64(v) / 1000 * in.text.fontSize
		}
	}
}

// isImageXObject reports whether name refers to an image XObject in the
// page resources. Form XObjects are not descended into.
func (in *interpreter) isImageXObject(name string) bool {
	if in.resources == nil {
		return false
	}
	xobjects, err := in.doc.resolveDict(in.resources.Get("XObject"))
	if err != nil {
		return false
	}
	resolved, err := in.doc.resolve(xobjects.Get(name))
	if err != nil {
		return false
	}
	stream, ok := resolved.(*core.Stream)
	if !ok {
		return false
	}
	subtype, _ := stream.Dict.GetName("Subtype")
	return subtype == "Image"
}

// matrixOperands converts six numeric operands into a matrix.
func matrixOperands(operands []core.Object) (model.Matrix, bool) {
	if len(operands) != 6 {
		return model.Matrix{}, false
	}
	var m model.Matrix
	for i, obj := range operands {
		v, ok := core.Number(obj)
		if !ok {
			return model.Matrix{}, false
		}
		m[i] = v
	}
	return m, true
}

// numberOperand extracts the numeric operand at index i.
func numberOperand(operands []core.Object, i int) (float64, bool) {
	if i >= len(operands) {
		return 0, false
	}
	return core.Number(operands[i])
}

// decodeTextString interprets raw string bytes as UTF-16BE when a BOM is
// present and as Latin-1 otherwise. Full font/CMap decoding is the
// responsibility of a richer reader.
func decodeTextString(s string) string {
	b := []byte(s)

	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		u16 := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			u16 = append(u16, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(u16))
	}

	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
