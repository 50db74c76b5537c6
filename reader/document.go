package reader

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/examine-dev/examine/content"
	"github.com/examine-dev/examine/core"
)

// ErrNoObjects is returned when no indirect objects can be located in the
// input bytes.
var ErrNoObjects = errors.New("reader: no PDF objects found")

// ErrNoPages is returned when the document contains no page objects.
var ErrNoPages = errors.New("reader: no pages found")

// objPattern locates indirect object headers ("N G obj") anywhere in the
// file. Building the index by scanning instead of trusting the xref table
// lets damaged or incrementally-updated files load.
var objPattern = regexp.MustCompile(`(\d+)\s+(\d+)\s+obj\b`)

// Document is the default PDF implementation of content.Document.
type Document struct {
	data []byte

	// offsets maps object numbers to the offset just past their "obj"
	// keyword. Later occurrences win (incremental updates).
	offsets map[int]int

	// compressed holds objects expanded out of object streams, used
	// when an object has no direct offset.
	compressed map[int]core.Object

	cache map[int]core.Object

	pages []*Page
}

// New loads a PDF document from raw bytes. The returned Document is not
// safe for concurrent use.
func New(data []byte) (*Document, error) {
	d := &Document{
		data:       data,
		offsets:    make(map[int]int),
		compressed: make(map[int]core.Object),
		cache:      make(map[int]core.Object),
	}

	d.scanObjects()
	if len(d.offsets) == 0 {
		return nil, ErrNoObjects
	}

	d.expandObjectStreams()

	if err := d.buildPages(); err != nil {
		return nil, err
	}

	return d, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the page with the given 0-based index.
func (d *Document) Page(n int) (content.Page, error) {
	if n < 0 || n >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0,%d)", n, len(d.pages))
	}
	return d.pages[n], nil
}

// Close releases the document. The byte slice is caller-owned, so there is
// nothing to free.
func (d *Document) Close() error {
	return nil
}

// scanObjects indexes the offsets of all indirect object headers.
func (d *Document) scanObjects() {
	for _, m := range objPattern.FindAllSubmatchIndex(d.data, -1) {
		num := parseInt(d.data[m[2]:m[3]])
		if num <= 0 {
			continue
		}
		d.offsets[num] = m[1]
	}
}

// parseInt converts ASCII digits to int, returning 0 on overflow-ish
// garbage.
func parseInt(b []byte) int {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
		if n > 1<<30 {
			return 0
		}
	}
	return n
}

// getObject parses and caches the object with the given number.
func (d *Document) getObject(num int) (core.Object, error) {
	if obj, ok := d.cache[num]; ok {
		return obj, nil
	}

	offset, ok := d.offsets[num]
	if !ok {
		if obj, ok := d.compressed[num]; ok {
			d.cache[num] = obj
			return obj, nil
		}
		return core.Null{}, nil
	}

	obj, err := d.parseObjectAt(offset)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}

	d.cache[num] = obj
	return obj, nil
}

// parseObjectAt parses the object body starting just past an "obj"
// keyword, including stream data when present.
func (d *Document) parseObjectAt(offset int) (core.Object, error) {
	lex := core.NewLexer(d.data)
	lex.Seek(offset)

	obj, err := lex.ReadObject()
	if err != nil {
		return nil, err
	}

	dict, isDict := obj.(core.Dict)
	if !isDict {
		return obj, nil
	}

	lex.SkipWhitespace()
	save := lex.Pos()
	if lex.ReadKeyword() != "stream" {
		lex.Seek(save)
		return dict, nil
	}

	// Stream data starts after the EOL following the "stream" keyword.
	pos := lex.Pos()
	if pos < len(d.data) && d.data[pos] == '\r' {
		pos++
	}
	if pos < len(d.data) && d.data[pos] == '\n' {
		pos++
	}

	raw, err := d.streamData(dict, pos)
	if err != nil {
		return nil, err
	}

	return &core.Stream{Dict: dict, Raw: raw}, nil
}

// streamData slices the raw stream bytes starting at pos, using the
// Length entry when it is usable and scanning for endstream otherwise.
func (d *Document) streamData(dict core.Dict, pos int) ([]byte, error) {
	length := -1
	switch v := dict.Get("Length").(type) {
	case core.Int:
		length = int(v)
	case core.IndirectRef:
		if obj, err := d.getObject(v.Number); err == nil {
			if n, ok := obj.(core.Int); ok {
				length = int(n)
			}
		}
	}

	if length >= 0 && pos+length <= len(d.data) {
		return d.data[pos : pos+length], nil
	}

	end := indexKeyword(d.data, pos, "endstream")
	if end < 0 {
		return nil, fmt.Errorf("unterminated stream at offset %d", pos)
	}
	// Trim the EOL preceding endstream.
	for end > pos && (d.data[end-1] == '\n' || d.data[end-1] == '\r') {
		end--
	}
	return d.data[pos:end], nil
}

// indexKeyword finds the next occurrence of kw at or after from.
func indexKeyword(data []byte, from int, kw string) int {
	for i := from; i+len(kw) <= len(data); i++ {
		if string(data[i:i+len(kw)]) == kw {
			return i
		}
	}
	return -1
}

// resolve follows indirect references until a direct object is reached.
func (d *Document) resolve(obj core.Object) (core.Object, error) {
	seen := make(map[int]bool)
	for {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj, nil
		}
		if seen[ref.Number] {
			return nil, fmt.Errorf("circular reference to object %d", ref.Number)
		}
		seen[ref.Number] = true

		next, err := d.getObject(ref.Number)
		if err != nil {
			return nil, err
		}
		obj = next
	}
}

// resolveDict resolves obj and asserts it is a dictionary.
func (d *Document) resolveDict(obj core.Object) (core.Dict, error) {
	resolved, err := d.resolve(obj)
	if err != nil {
		return nil, err
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		if stream, ok := resolved.(*core.Stream); ok {
			return stream.Dict, nil
		}
		return nil, fmt.Errorf("expected dictionary, got %T", resolved)
	}
	return dict, nil
}

// expandObjectStreams parses /Type /ObjStm streams and indexes the
// objects they contain. Directly stored objects take precedence.
func (d *Document) expandObjectStreams() {
	for num := range d.offsets {
		obj, err := d.getObject(num)
		if err != nil {
			continue
		}
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
			continue
		}

		d.expandObjectStream(stream)
	}
}

// expandObjectStream indexes the contents of one object stream.
func (d *Document) expandObjectStream(stream *core.Stream) {
	count, ok := stream.Dict.GetInt("N")
	if !ok {
		return
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok {
		return
	}

	data, err := stream.Decode()
	if err != nil {
		return
	}

	// Header: N pairs of "objnum offset".
	lex := core.NewLexer(data)
	type entry struct{ num, off int }
	entries := make([]entry, 0, int(count))
	for i := 0; i < int(count); i++ {
		numObj, err := lex.ReadObject()
		if err != nil {
			return
		}
		offObj, err := lex.ReadObject()
		if err != nil {
			return
		}
		num, ok1 := numObj.(core.Int)
		off, ok2 := offObj.(core.Int)
		if !ok1 || !ok2 {
			return
		}
		entries = append(entries, entry{num: int(num), off: int(off)})
	}

	for _, e := range entries {
		pos := int(first) + e.off
		if pos < 0 || pos >= len(data) {
			continue
		}
		objLex := core.NewLexer(data)
		objLex.Seek(pos)
		obj, err := objLex.ReadObject()
		if err != nil {
			continue
		}
		if _, direct := d.offsets[e.num]; !direct {
			d.compressed[e.num] = obj
		}
	}
}
