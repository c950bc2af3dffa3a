package manifest

import (
	"fmt"
	"slices"
)

// Section names whose path-bearing entries count as local dependencies.
const (
	sectionDependencies      = "dependencies"
	sectionBuildDependencies = "build-dependencies"
)

// pathKey is the inline-table key that names a local dependency folder.
const pathKey = "path"

// symbol is one entry on the parse stack: a shifted token or a reduced
// production.
type symbol interface {
	pos() span
	describe() string
}

type sectionHeader struct {
	name string
	at   span
}

func (s *sectionHeader) pos() span { return s.at }
func (s *sectionHeader) describe() string {
	return fmt.Sprintf("section header '[%s]'", s.name)
}

type section struct {
	header *sectionHeader
	pairs  []*pair
	at     span
}

func (s *section) pos() span { return s.at }
func (s *section) describe() string {
	return fmt.Sprintf("section '[%s]'", s.header.name)
}

type pair struct {
	key   string
	value *value
	at    span
}

func (p *pair) pos() span        { return p.at }
func (p *pair) describe() string { return fmt.Sprintf("pair '%s'", p.key) }

// value wraps a string, boolean, list or inline table.
type value struct {
	inner symbol
	at    span
}

func (v *value) pos() span        { return v.at }
func (v *value) describe() string { return "value" }

type list struct {
	values []*value
	at     span
}

func (l *list) pos() span        { return l.at }
func (l *list) describe() string { return "list" }

type dict struct {
	pairs []*pair
	at    span
}

func (d *dict) pos() span        { return d.at }
func (d *dict) describe() string { return "inline table" }

// parser is a shift-reduce machine over the token stream. Each shifted token
// is followed by as many reductions as will apply; reductions that discover a
// malformed production record the error, drop the offending symbols and carry
// on, so every problem in the file surfaces in one pass.
type parser struct {
	lex   *lexer
	stack []symbol
	errs  []error
}

// parse extracts the path entries of every dependency section. The returned
// paths are raw manifest strings, relative to the manifest's directory. A
// non-empty error list means the paths are incomplete and must not be used.
func parse(text string) ([]string, []error) {
	p := &parser{lex: newLexer(text)}
	for {
		tok, err := p.lex.next()
		if err != nil {
			p.errs = append(p.errs, err)
			continue
		}
		if tok == nil {
			break
		}
		p.shift(tok)
	}

	paths := p.extract()
	return paths, p.errs
}

// shift pushes a token and reduces until no rule applies.
func (p *parser) shift(tok *token) {
	p.stack = append(p.stack, tok)
	for {
		applied, err := p.reduce()
		if err != nil {
			p.errs = append(p.errs, err)
			continue
		}
		if !applied {
			return
		}
	}
}

// reduce applies the first production that matches the top of the stack.
func (p *parser) reduce() (bool, error) {
	top := len(p.stack) - 1
	if top < 0 {
		return false, nil
	}

	switch s := p.stack[top].(type) {
	case *token:
		switch s.kind {
		case tokenString, tokenBool:
			p.replace(top, &value{inner: s, at: s.at})
			return true, nil
		case tokenRSquare:
			return p.reduceSquare(top)
		case tokenRCurly:
			return p.reduceDict(top)
		}
		return false, nil

	case *sectionHeader:
		p.replace(top, &section{header: s, at: s.at})
		return true, nil

	case *pair:
		// A pair right after a section folds into it.
		if top >= 1 {
			if sec, ok := p.stack[top-1].(*section); ok {
				sec.pairs = append(sec.pairs, s)
				sec.at.end = s.at.end
				p.stack = p.stack[:top]
				return true, nil
			}
		}
		return false, nil

	case *value:
		return p.reducePair(top)

	case *list:
		p.replace(top, &value{inner: s, at: s.at})
		return true, nil

	case *dict:
		p.replace(top, &value{inner: s, at: s.at})
		return true, nil
	}
	return false, nil
}

// reduceSquare handles a closing ']': an empty list, a section header, or a
// populated list.
func (p *parser) reduceSquare(top int) (bool, error) {
	if top < 1 {
		return false, nil
	}

	switch s := p.stack[top-1].(type) {
	case *token:
		switch s.kind {
		case tokenLSquare:
			p.fold(top-1, &list{at: span{s.at.start, p.stack[top].pos().end}})
			return true, nil
		case tokenIdent:
			if top >= 2 {
				if open, ok := p.stack[top-2].(*token); ok && open.kind == tokenLSquare {
					p.fold(top-2, &sectionHeader{name: s.text, at: span{open.at.start, p.stack[top].pos().end}})
					return true, nil
				}
			}
		}
		return false, nil

	case *value:
		return p.reduceList(top)
	}
	return false, nil
}

// reduceList folds '[' Value (',' Value)* ']' into a list. The scan runs from
// the closing bracket backwards; a symbol that cannot continue the production
// is an error, and everything from it upwards is dropped.
func (p *parser) reduceList(top int) (bool, error) {
	var values []*value
	expectValue := true
	for i := top - 1; i >= 0; i-- {
		s := p.stack[i]

		if expectValue {
			v, ok := s.(*value)
			if !ok {
				p.stack = p.stack[:i]
				return false, errorAt(s.pos().start, "invalid list entry: expected a value, got %s", s.describe())
			}
			values = append(values, v)
			expectValue = false
			continue
		}

		tok, ok := s.(*token)
		if !ok || (tok.kind != tokenComma && tok.kind != tokenLSquare) {
			p.stack = p.stack[:i]
			return false, errorAt(s.pos().start, "invalid list: expected ',' or '[', got %s", s.describe())
		}
		if tok.kind == tokenComma {
			expectValue = true
			continue
		}

		slices.Reverse(values)
		p.fold(i, &list{values: values, at: span{tok.at.start, p.stack[top].pos().end}})
		return true, nil
	}
	return false, nil
}

// reduceDict folds '{' Pair (',' Pair)* '}' into an inline table, with the
// same backward scan and error recovery as reduceList.
func (p *parser) reduceDict(top int) (bool, error) {
	var pairs []*pair
	expectPair := true
	for i := top - 1; i >= 0; i-- {
		s := p.stack[i]

		if expectPair {
			switch e := s.(type) {
			case *pair:
				pairs = append(pairs, e)
				expectPair = false
				continue
			case *token:
				if e.kind == tokenLCurly {
					p.fold(i, &dict{at: span{e.at.start, p.stack[top].pos().end}})
					return true, nil
				}
			}
			p.stack = p.stack[:i]
			return false, errorAt(s.pos().start, "invalid table entry: expected a key/value pair, got %s", s.describe())
		}

		tok, ok := s.(*token)
		if !ok || (tok.kind != tokenComma && tok.kind != tokenLCurly) {
			p.stack = p.stack[:i]
			return false, errorAt(s.pos().start, "invalid table: expected ',' or '{', got %s", s.describe())
		}
		if tok.kind == tokenComma {
			expectPair = true
			continue
		}

		slices.Reverse(pairs)
		p.fold(i, &dict{pairs: pairs, at: span{tok.at.start, p.stack[top].pos().end}})
		return true, nil
	}
	return false, nil
}

// reducePair folds Identifier '=' Value into a pair.
func (p *parser) reducePair(top int) (bool, error) {
	if top < 2 {
		return false, nil
	}
	eq, ok := p.stack[top-1].(*token)
	if !ok || eq.kind != tokenEquals {
		return false, nil
	}
	key, ok := p.stack[top-2].(*token)
	if !ok || key.kind != tokenIdent {
		return false, nil
	}

	v := p.stack[top].(*value)
	p.fold(top-2, &pair{key: key.text, value: v, at: span{key.at.start, v.at.end}})
	return true, nil
}

// replace swaps the symbol at i for a reduced production.
func (p *parser) replace(i int, s symbol) {
	p.stack[i] = s
}

// fold truncates the stack at i and pushes a reduced production.
func (p *parser) fold(i int, s symbol) {
	p.stack = append(p.stack[:i], s)
}

// extract walks the finished stack. Anything that did not reduce to a section
// is reported; dependency sections contribute the path entry of every
// inline-table value.
func (p *parser) extract() []string {
	var paths []string
	for _, s := range p.stack {
		sec, ok := s.(*section)
		if !ok {
			p.errs = append(p.errs, errorAt(s.pos().start, "stray symbol: %s", s.describe()))
			continue
		}
		if sec.header.name != sectionDependencies && sec.header.name != sectionBuildDependencies {
			continue
		}

		for _, dep := range sec.pairs {
			table, ok := dep.value.inner.(*dict)
			if !ok {
				continue
			}
			for _, attr := range table.pairs {
				if attr.key != pathKey {
					continue
				}
				if str, ok := attr.value.inner.(*token); ok && str.kind == tokenString {
					paths = append(paths, str.text)
				}
			}
		}
	}
	return paths
}
