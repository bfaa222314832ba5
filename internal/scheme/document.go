package scheme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	fieldVacancies = "vacancies"
	fieldSkills    = "skills"
)

// maxDepth bounds nesting while reading a document.
const maxDepth = 64

type nodeKind int

const (
	nullNode nodeKind = iota
	boolNode
	numberNode
	stringNode
	arrayNode
	objectNode
)

// position is a 1-based line and byte column in the source document.
type position struct {
	line, column int
}

// node is one JSON value. Object members keep document order, and repeated
// keys are kept so the builders can report them.
type node struct {
	kind   nodeKind
	value  string // string contents, number literal or "true"/"false"
	items  []*node
	fields []field
	pos    position
}

type field struct {
	key   string
	pos   position
	value *node
}

// document holds the two top-level fields of a parsed schema.
type document struct {
	vacancies *node
	skills    *node
}

func readDocument(r io.Reader) (*document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &SchemaError{Kind: KindIO, Err: err}
	}

	p := newParser(b)
	tok, pos, err := p.next()
	if errors.Is(err, io.EOF) {
		return nil, structural(nil, "", "empty document")
	}
	if err != nil {
		return nil, p.invalid(err)
	}
	top, err := p.value(tok, pos, 0)
	if err != nil {
		return nil, err
	}
	if _, pos, err := p.next(); err == nil {
		return nil, structural(&node{pos: pos}, "", "unexpected data after the top-level value")
	} else if !errors.Is(err, io.EOF) {
		return nil, p.invalid(err)
	}

	if top.kind != objectNode {
		return nil, structural(top, "", "top level must be an object with %q and %q", fieldVacancies, fieldSkills)
	}

	doc := &document{}
	for _, f := range top.fields {
		var slot **node
		switch f.key {
		case fieldVacancies:
			slot = &doc.vacancies
		case fieldSkills:
			slot = &doc.skills
		default:
			return nil, structural(&node{pos: f.pos}, f.key, "unknown top-level field")
		}
		if *slot != nil {
			return nil, duplicate(f.pos, f.key, f.key)
		}
		*slot = f.value
	}

	if doc.vacancies == nil {
		return nil, structural(top, fieldVacancies, "required field is missing")
	}
	if doc.skills == nil {
		return nil, structural(top, fieldSkills, "required field is missing")
	}
	return doc, nil
}

// parser walks the token stream of a json.Decoder and builds a node tree.
type parser struct {
	src []byte
	dec *json.Decoder
}

func newParser(src []byte) *parser {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	return &parser{src: src, dec: dec}
}

// next returns the next token and where it starts.
func (p *parser) next() (json.Token, position, error) {
	pos := p.position(p.dec.InputOffset())
	tok, err := p.dec.Token()
	return tok, pos, err
}

func (p *parser) value(tok json.Token, pos position, depth int) (*node, error) {
	if depth > maxDepth {
		return nil, structural(&node{pos: pos}, "", "document is nested too deeply")
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return p.object(pos, depth)
		case '[':
			return p.array(pos, depth)
		}
		return nil, structural(&node{pos: pos}, "", "unexpected %q", rune(t))
	case string:
		return &node{kind: stringNode, value: t, pos: pos}, nil
	case json.Number:
		return &node{kind: numberNode, value: t.String(), pos: pos}, nil
	case bool:
		return &node{kind: boolNode, value: strconv.FormatBool(t), pos: pos}, nil
	case nil:
		return &node{kind: nullNode, pos: pos}, nil
	}
	return nil, structural(&node{pos: pos}, "", "unexpected token %v", tok)
}

func (p *parser) object(pos position, depth int) (*node, error) {
	n := &node{kind: objectNode, pos: pos}
	for {
		tok, kpos, err := p.next()
		if err != nil {
			return nil, p.invalid(err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return n, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, structural(&node{pos: kpos}, "", "object keys must be strings")
		}

		tok, vpos, err := p.next()
		if err != nil {
			return nil, p.invalid(err)
		}
		v, err := p.value(tok, vpos, depth+1)
		if err != nil {
			return nil, err
		}
		n.fields = append(n.fields, field{key: key, pos: kpos, value: v})
	}
}

func (p *parser) array(pos position, depth int) (*node, error) {
	n := &node{kind: arrayNode, pos: pos}
	for {
		tok, ipos, err := p.next()
		if err != nil {
			return nil, p.invalid(err)
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return n, nil
		}
		v, err := p.value(tok, ipos, depth+1)
		if err != nil {
			return nil, err
		}
		n.items = append(n.items, v)
	}
}

// invalid turns a decoder error into a structural error.
func (p *parser) invalid(err error) *SchemaError {
	e := &SchemaError{Kind: KindStructure, Description: "invalid document", Err: err}
	var se *json.SyntaxError
	switch {
	case errors.As(err, &se):
		e.Line, e.Column = p.lineColumn(se.Offset)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		e.Description = "unexpected end of document"
		e.Err = nil
		e.Line, e.Column = p.lineColumn(int64(len(p.src)))
	}
	return e
}

// position skips whitespace and separators from off to the start of the
// next token.
func (p *parser) position(off int64) position {
	for off < int64(len(p.src)) && isSeparator(p.src[off]) {
		off++
	}
	line, col := p.lineColumn(off)
	return position{line: line, column: col}
}

func isSeparator(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',', ':':
		return true
	}
	return false
}

func (p *parser) lineColumn(off int64) (int, int) {
	if off > int64(len(p.src)) {
		off = int64(len(p.src))
	}
	head := p.src[:off]
	line := bytes.Count(head, []byte{'\n'}) + 1
	col := int(off) - bytes.LastIndexByte(head, '\n')
	return line, col
}

// stringValue returns the contents of a string node.
func stringValue(n *node, path, what string) (string, error) {
	if n.kind != stringNode {
		return "", structural(n, path, "%s must be a string, got %s", what, describe(n))
	}
	return n.value, nil
}

// intValue parses an integer number node into an int64.
func intValue(n *node, path string) (int64, error) {
	if n.kind != numberNode {
		return 0, structural(n, path, "weight must be an integer, got %s", describe(n))
	}
	w, err := strconv.ParseInt(n.value, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, structural(n, path, "weight %s does not fit a signed 64-bit integer", n.value)
	}
	if err != nil {
		return 0, structural(n, path, "weight must be an integer, got %s", describe(n))
	}
	return w, nil
}

// describe names the shape of a node for error messages.
func describe(n *node) string {
	switch n.kind {
	case arrayNode:
		return "array"
	case objectNode:
		return "object"
	case stringNode:
		return "string"
	case numberNode:
		return "number " + n.value
	case boolNode:
		return "boolean"
	default:
		return "null"
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func structural(n *node, path, format string, args ...any) *SchemaError {
	e := &SchemaError{
		Kind:        KindStructure,
		Path:        path,
		Description: fmt.Sprintf(format, args...),
	}
	if n != nil {
		e.Line, e.Column = n.pos.line, n.pos.column
	}
	return e
}

func duplicate(pos position, path, name string) *SchemaError {
	return &SchemaError{
		Kind:        KindStructure,
		Path:        path,
		Name:        name,
		Description: fmt.Sprintf("%q is defined more than once", name),
		Line:        pos.line,
		Column:      pos.column,
		Err:         ErrDuplicateName,
	}
}
