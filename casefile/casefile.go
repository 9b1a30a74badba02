// Package casefile extracts compiler test cases from Markdown documents.  A
// case starts at a heading of the form "Test: <name>" and is made up of the
// fenced code blocks that follow it: exactly one `teslang` source fence and
// any number of expectation fences.
package casefile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// SourceFence is the language of the fence holding a case's source.
const SourceFence = "teslang"

// ExpectKind is the kind of an expectation fence.
type ExpectKind string

const (
	// ExpectBytecode holds the exact bytecode listing the source compiles to.
	ExpectBytecode ExpectKind = "bytecode"

	// ExpectErrors holds the errors reported for the source, one per line.
	ExpectErrors ExpectKind = "errors"

	// ExpectWarnings holds the warnings reported for the source, one per line.
	ExpectWarnings ExpectKind = "warnings"
)

// Expectation is a single expectation fence.
type Expectation struct {
	Kind    ExpectKind
	Content string

	// Line is the line of the document the fence's content starts on.
	Line int
}

// Lines returns the non-empty lines of the expectation.
func (e Expectation) Lines() []string {
	var lines []string
	for _, line := range strings.Split(e.Content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// Case is a single test case.
type Case struct {
	Name    string
	Source  string
	Expects []Expectation
}

// Expect returns the case's expectation of a given kind, if any.
func (c *Case) Expect(kind ExpectKind) (Expectation, bool) {
	for _, e := range c.Expects {
		if e.Kind == kind {
			return e, true
		}
	}

	return Expectation{}, false
}

// Extract parses a Markdown document and returns the cases it contains in
// document order.
func Extract(doc []byte) ([]*Case, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(doc))

	var (
		cases []*Case
		curr  *Case
	)

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, doc)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkSkipChildren, nil
			}

			if curr != nil {
				if err := curr.validate(); err != nil {
					return ast.WalkStop, err
				}
				cases = append(cases, curr)
			}

			curr = &Case{Name: strings.TrimSpace(strings.TrimPrefix(heading, "Test: "))}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			lang := string(n.Language(doc))
			line := lineOf(n, doc)

			// Unlabelled fences are prose.
			if lang == "" {
				return ast.WalkContinue, nil
			}

			if curr == nil {
				return ast.WalkStop, fmt.Errorf("line %d: `%s` fence outside of a test case", line, lang)
			}

			content := strings.TrimRight(fenceContent(n, doc), "\n")

			switch lang {
			case SourceFence:
				if curr.Source != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple source fences in test `%s`", line, curr.Name)
				}

				curr.Source = content
			case string(ExpectBytecode), string(ExpectErrors), string(ExpectWarnings):
				if _, ok := curr.Expect(ExpectKind(lang)); ok {
					return ast.WalkStop, fmt.Errorf("line %d: multiple `%s` fences in test `%s`", line, lang, curr.Name)
				}

				curr.Expects = append(curr.Expects, Expectation{
					Kind:    ExpectKind(lang),
					Content: content,
					Line:    line,
				})
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence `%s` in test `%s`", line, lang, curr.Name)
			}
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return nil, err
	}

	if curr != nil {
		if err := curr.validate(); err != nil {
			return nil, err
		}
		cases = append(cases, curr)
	}

	return cases, nil
}

// validate checks that a case is complete.
func (c *Case) validate() error {
	if c.Source == "" {
		return fmt.Errorf("test `%s` has no source fence", c.Name)
	} else if len(c.Expects) == 0 {
		return fmt.Errorf("test `%s` has no expectations", c.Name)
	}

	return nil
}

// -----------------------------------------------------------------------------

// nodeText returns the plain text of an inline node tree.
func nodeText(node ast.Node, src []byte) string {
	var buff bytes.Buffer

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buff.Write(t.Segment.Value(src))
		}

		return ast.WalkContinue, nil
	})

	return buff.String()
}

// fenceContent returns the raw content of a fenced code block.
func fenceContent(block *ast.FencedCodeBlock, src []byte) string {
	var buff bytes.Buffer

	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buff.Write(seg.Value(src))
	}

	return buff.String()
}

// lineOf returns the 1-based line a block's content starts on.
func lineOf(node ast.Node, src []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}

	start := node.Lines().At(0).Start
	return bytes.Count(src[:start], []byte{'\n'}) + 1
}
