package catalog

import (
	"fmt"

	"github.com/Garsondee/battle-report/internal/reporttext"
)

// Problem is a defect found in a catalog template.
type Problem struct {
	ID      int
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("message %d: %s", p.ID, p.Message)
}

// Lint checks every template for <msg:A,B> references to missing ids and
// for messages that can reach themselves through <msg> references.
func Lint(c *Catalog) []Problem {
	var problems []Problem
	refs := make(map[int][]int, c.Len())

	for _, id := range c.IDs() {
		for _, tok := range reporttext.Tokenize(c.messages[id]) {
			if tok.Kind != reporttext.Msg {
				continue
			}
			for _, ref := range []int{tok.IfTrue, tok.IfFalse} {
				if _, ok := c.messages[ref]; !ok {
					problems = append(problems, Problem{ID: id, Message: fmt.Sprintf("references missing message %d", ref)})
					continue
				}
				refs[id] = append(refs[id], ref)
			}
		}
	}

	for _, id := range c.IDs() {
		if reaches(refs, id, id, map[int]bool{}) {
			problems = append(problems, Problem{ID: id, Message: "refers back to itself through <msg> tags"})
		}
	}
	return problems
}

func reaches(refs map[int][]int, from, target int, seen map[int]bool) bool {
	for _, next := range refs[from] {
		if next == target {
			return true
		}
		if seen[next] {
			continue
		}
		seen[next] = true
		if reaches(refs, next, target, seen) {
			return true
		}
	}
	return false
}
