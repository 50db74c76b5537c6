package reader

import (
	"bytes"
	"context"
	"sort"

	"github.com/examine-dev/examine/content"
	"github.com/examine-dev/examine/core"
	"github.com/examine-dev/examine/model"
)

// Page is the default implementation of content.Page.
type Page struct {
	doc       *Document
	dict      core.Dict
	resources core.Dict

	// Media box origin and extent in user space units.
	originX, originY float64
	width, height    float64

	// Lazily interpreted content.
	interpreted bool
	interpErr   error
	runs        []content.TextRun
	ops         []content.Op
}

// Size returns the page width and height in pixel units.
func (p *Page) Size() (float64, float64) {
	return p.width, p.height
}

// Viewport returns the transform from PDF user space (bottom-left origin)
// to top-left pixel space.
func (p *Page) Viewport() model.Matrix {
	return model.Matrix{1, 0, 0, -1, -p.originX, p.originY + p.height}
}

// TextRuns returns the positioned text runs of the page.
func (p *Page) TextRuns() ([]content.TextRun, error) {
	if err := p.interpret(); err != nil {
		return nil, err
	}
	return p.runs, nil
}

// Operations returns the page's drawing-operator stream.
func (p *Page) Operations() ([]content.Op, error) {
	if err := p.interpret(); err != nil {
		return nil, err
	}
	return p.ops, nil
}

// ResolveImage resolves a named image XObject from the page resources.
// Unknown names, non-image XObjects and undecodable streams all yield
// (nil, nil): the caller skips the paint.
func (p *Page) ResolveImage(ctx context.Context, name string) (*content.RawImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.doc.resolveImage(p.resources, name), nil
}

// interpret runs the content interpreter once and caches its output.
func (p *Page) interpret() error {
	if p.interpreted {
		return p.interpErr
	}
	p.interpreted = true

	data, err := p.contentData()
	if err != nil {
		p.interpErr = err
		return err
	}

	interp := newInterpreter(p.doc, p.resources)
	p.runs, p.ops, p.interpErr = interp.run(data)
	return p.interpErr
}

// contentData decodes and concatenates the page's content streams.
func (p *Page) contentData() ([]byte, error) {
	contents, err := p.doc.resolve(p.dict.Get("Contents"))
	if err != nil {
		return nil, err
	}

	var parts [][]byte
	appendStream := func(obj core.Object) {
		resolved, err := p.doc.resolve(obj)
		if err != nil {
			return
		}
		stream, ok := resolved.(*core.Stream)
		if !ok {
			return
		}
		data, err := stream.Decode()
		if err != nil {
			return
		}
		parts = append(parts, data)
	}

	switch v := contents.(type) {
	case *core.Stream:
		if data, err := v.Decode(); err == nil {
			parts = append(parts, data)
		}
	case core.Array:
		for _, obj := range v {
			appendStream(obj)
		}
	}

	return bytes.Join(parts, []byte("\n")), nil
}

// buildPages walks the page tree and materializes Page values in document
// order.
func (d *Document) buildPages() error {
	root := d.findCatalogPages()
	if root != nil {
		d.walkNode(root, inherited{}, 0)
	}

	if len(d.pages) == 0 {
		// Damaged or catalog-less file: fall back to collecting every
		// /Type /Page dictionary in object-number order.
		d.collectOrphanPages()
	}

	if len(d.pages) == 0 {
		return ErrNoPages
	}
	return nil
}

// inherited carries attributes a Pages node passes down to its kids.
type inherited struct {
	resources core.Dict
	mediaBox  core.Array
}

// findCatalogPages locates the root Pages node via the document catalog.
func (d *Document) findCatalogPages() core.Dict {
	for num := range d.offsets {
		obj, err := d.getObject(num)
		if err != nil {
			continue
		}
		dict, ok := obj.(core.Dict)
		if !ok {
			continue
		}
		if t, _ := dict.GetName("Type"); t != "Catalog" {
			continue
		}
		pages, err := d.resolveDict(dict.Get("Pages"))
		if err != nil {
			continue
		}
		return pages
	}
	return nil
}

// walkNode is the recursive page tree walk, accumulating inherited
// attributes. depth guards against cycles in damaged files.
func (d *Document) walkNode(node core.Dict, inh inherited, depth int) {
	if depth > 64 {
		return
	}

	if res, err := d.resolveDict(node.Get("Resources")); err == nil && res != nil {
		inh.resources = res
	}
	if mb, ok := node.GetArray("MediaBox"); ok {
		inh.mediaBox = mb
	} else if mbObj, err := d.resolve(node.Get("MediaBox")); err == nil {
		if mb, ok := mbObj.(core.Array); ok {
			inh.mediaBox = mb
		}
	}

	if t, _ := node.GetName("Type"); t == "Page" {
		d.appendPage(node, inh)
		return
	}

	kidsObj, err := d.resolve(node.Get("Kids"))
	if err != nil {
		return
	}
	kids, ok := kidsObj.(core.Array)
	if !ok {
		return
	}

	for _, kid := range kids {
		kidDict, err := d.resolveDict(kid)
		if err != nil {
			continue
		}
		d.walkNode(kidDict, inh, depth+1)
	}
}

// collectOrphanPages gathers /Type /Page dictionaries when no intact page
// tree exists.
func (d *Document) collectOrphanPages() {
	nums := make([]int, 0, len(d.offsets))
	for num := range d.offsets {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	for _, num := range nums {
		obj, err := d.getObject(num)
		if err != nil {
			continue
		}
		dict, ok := obj.(core.Dict)
		if !ok {
			continue
		}
		if t, _ := dict.GetName("Type"); t != "Page" {
			continue
		}
		d.appendPage(dict, inherited{})
	}
}

// appendPage materializes one page with its effective resources and media
// box.
func (d *Document) appendPage(dict core.Dict, inh inherited) {
	resources := inh.resources
	if res, err := d.resolveDict(dict.Get("Resources")); err == nil && res != nil {
		resources = res
	}

	mediaBox := inh.mediaBox
	if mbObj, err := d.resolve(dict.Get("MediaBox")); err == nil {
		if mb, ok := mbObj.(core.Array); ok {
			mediaBox = mb
		}
	}

	x0, y0, x1, y1 := 0.0, 0.0, 612.0, 792.0 // US Letter default
	if len(mediaBox) == 4 {
		if v, ok := core.Number(mediaBox.Get(0)); ok {
			x0 = v
		}
		if v, ok := core.Number(mediaBox.Get(1)); ok {
			y0 = v
		}
		if v, ok := core.Number(mediaBox.Get(2)); ok {
			x1 = v
		}
		if v, ok := core.Number(mediaBox.Get(3)); ok {
			y1 = v
		}
	}

	d.pages = append(d.pages, &Page{
		doc:       d,
		dict:      dict,
		resources: resources,
		originX:   x0,
		originY:   y0,
		width:     x1 - x0,
		height:    y1 - y0,
	})
}
