// Package stepparser parses numbered-list algorithm steps out of spec
// markdown content and builds a hierarchical step tree.
package stepparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/webspec-lens/webspec-lens/internal/normalize"
)

// AlgorithmStep is a single step in a spec algorithm, positioned in the tree
// by its hierarchical number rather than by any digits found in the source.
type AlgorithmStep struct {
	Number   []int
	Text     string
	Children []*AlgorithmStep
}

var stepLine = regexp.MustCompile(`^( *)\d+\.\s`)

// Parse parses algorithm steps out of markdown content. The content is
// expected to contain numbered lists at various indentation levels
// representing nested algorithm steps, interspersed with prose, notes, and
// bullet lists that are not part of the step structure.
func Parse(content string) []*AlgorithmStep {
	lines := strings.Split(content, "\n")

	type rawStep struct {
		indent int
		text   string
	}
	var raw []rawStep

	i := 0
	for i < len(lines) {
		indent, _, text, ok := parseStepLine(lines[i])
		if !ok {
			i++
			continue
		}

		j := i + 1
		for j < len(lines) {
			next := lines[j]
			if strings.TrimSpace(next) == "" {
				j++
				continue
			}
			if _, _, _, isStep := parseStepLine(next); isStep {
				break
			}
			stripped := strings.TrimLeft(next, " ")
			nextIndent := len(next) - len(stripped)
			stepIndent := indent * 4
			if nextIndent > stepIndent && !strings.HasPrefix(stripped, ">") && !strings.HasPrefix(stripped, "*") {
				text += " " + stripped
			} else {
				break
			}
			j++
		}

		raw = append(raw, rawStep{indent: indent, text: text})
		i = j
	}

	var roots []*AlgorithmStep
	type frame struct {
		indent   int
		children *[]*AlgorithmStep
	}
	stack := []frame{{indent: -1, children: &roots}}

	for _, r := range raw {
		step := &AlgorithmStep{Text: normalize.StripMarkdown(r.text)}

		for len(stack) > 1 && stack[len(stack)-1].indent >= r.indent {
			stack = stack[:len(stack)-1]
		}

		parent := stack[len(stack)-1]
		*parent.children = append(*parent.children, step)
		stack = append(stack, frame{indent: r.indent, children: &step.Children})
	}

	assignNumbers(roots, nil)
	return roots
}

// parseStepLine recognizes a numbered list line: optional indentation, then
// "N. text". indent is reported in units of 4-space indentation.
func parseStepLine(line string) (indent, num int, text string, ok bool) {
	m := stepLine.FindStringSubmatchIndex(line)
	if m == nil {
		return 0, 0, "", false
	}
	spaces := m[3] - m[2]
	rest := strings.TrimLeft(line, " ")
	dot := strings.Index(rest, ".")
	if dot < 0 {
		return 0, 0, "", false
	}
	n, err := strconv.Atoi(rest[:dot])
	if err != nil {
		return 0, 0, "", false
	}
	return spaces / 4, n, strings.TrimSpace(rest[dot+1:]), true
}

// assignNumbers assigns hierarchical step numbers based on tree position,
// not any digit found in the source text.
func assignNumbers(steps []*AlgorithmStep, prefix []int) {
	for i, step := range steps {
		number := make([]int, len(prefix)+1)
		copy(number, prefix)
		number[len(prefix)] = i + 1
		step.Number = number
		assignNumbers(step.Children, number)
	}
}

// Find looks up a step by its hierarchical number path, e.g. [5, 1] for
// step 5.1.
func Find(steps []*AlgorithmStep, number []int) *AlgorithmStep {
	if len(number) == 0 {
		return nil
	}
	current := steps
	var target *AlgorithmStep
	for _, n := range number {
		if n < 1 || n > len(current) {
			return nil
		}
		target = current[n-1]
		current = target.Children
	}
	return target
}

// Flatten flattens a step tree into a depth-first list.
func Flatten(steps []*AlgorithmStep) []*AlgorithmStep {
	var result []*AlgorithmStep
	for _, step := range steps {
		result = append(result, step)
		result = append(result, Flatten(step.Children)...)
	}
	return result
}
