package reporttext

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/Garsondee/battle-report/internal/report"
)

func listEntry(values []string, sensitive bool) *report.Entry {
	e := report.New(300)
	e.Newlines = 0
	for _, v := range values {
		e.AddObscure(v, sensitive)
	}
	return e
}

func TestProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	r := newTestResolver()

	properties.Property("resolving twice yields the same text", prop.ForAll(
		func(values []string, indent int) bool {
			e := listEntry(values, false)
			e.IndentBy(indent)
			return r.Text(e) == r.Text(e)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(0, 3),
	))

	properties.Property("list joins every remaining value", prop.ForAll(
		func(values []string) bool {
			got, err := r.Resolve(listEntry(values, false))
			return err == nil && got == strings.Join(values, ", ")
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("redacted sensitive values always render the mask", prop.ForAll(
		func(values []string) bool {
			e := report.Obscure(listEntry(values, true), "blue", false)
			got, err := r.Resolve(e)
			if err != nil {
				return false
			}
			for _, v := range values {
				if strings.Contains(got, v) {
					return false
				}
			}
			masks := make([]string, len(values))
			for i := range masks {
				masks[i] = MaskToken
			}
			return got == strings.Join(masks, ", ")
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("trailing break count equals Newlines", prop.ForAll(
		func(n int, debug bool) bool {
			e := report.New(600)
			e.Newlines = n
			if debug {
				e.Visibility = report.Debug
			}
			got := r.Text(e)
			return len(got)-len(strings.TrimRight(got, "\n")) == n
		},
		gen.IntRange(0, 6),
		gen.Bool(),
	))

	properties.Property("indentation appears exactly once", prop.ForAll(
		func(groups int, levels int) bool {
			cat := mapCatalog{1: strings.Repeat("<newline>", groups*4) + "x"}
			res := NewResolver(cat, WithIndentUnit("_"))
			e := report.New(1)
			e.Newlines = 0
			e.IndentBy(levels)
			pad := strings.Repeat("_", levels*report.DefaultIndentation)
			want := strings.Repeat("\n", groups*4) + pad + "x"
			return res.Text(e) == want && strings.Count(res.Text(e), "_") == len(pad)
		},
		gen.IntRange(0, 3),
		gen.IntRange(1, 3),
	))

	properties.TestingRun(t)
}
