package output

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"craft-cost/core/catalog"
)

// SortMaterials orders materials for listing: those in used first, then by
// localized name, then id. The input slice is left untouched.
func SortMaterials(materials []*catalog.Material, used map[string]bool, v Variant) []*catalog.Material {
	sorted := make([]*catalog.Material, len(materials))
	copy(sorted, materials)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if used[a.ID] != used[b.ID] {
			return used[a.ID]
		}
		na, nb := LocalizedName(a.Name, v), LocalizedName(b.Name, v)
		if na != nb {
			return na < nb
		}
		return a.ID < b.ID
	})
	return sorted
}

// RenderMaterials writes a material price list. Materials in used are
// listed first and marked with '*'.
func RenderMaterials(w io.Writer, materials []*catalog.Material, used map[string]bool, opts Options) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "  %s %s %s %s %s\n",
		padRight("ID", 8), padRight("名称", nameColumn), padLeft("单价", 10),
		padRight("来源", 10), "职业")

	for _, m := range SortMaterials(materials, used, opts.Variant) {
		mark := " "
		if used[m.ID] {
			mark = "*"
		}
		fmt.Fprintf(bw, "%s %s %s %s %s %s\n",
			mark,
			padRight(m.ID, 8),
			padRight(LocalizedName(m.Name, opts.Variant), nameColumn),
			padLeft(fmt.Sprintf("%d%s", m.Price, opts.CurrencyLabel), 10),
			padRight(m.Source, 10),
			strings.Join(m.Professions, "/"),
		)
	}
	return bw.Flush()
}
