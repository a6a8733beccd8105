package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"craft-cost/core/cost"
)

// RenderTree writes a bill-of-materials tree, one node per line, indented
// two spaces per level. Products show their coefficient when it is not 1
// and, below the root, how many are needed. Materials show quantity,
// unit price and subtotal.
func RenderTree(w io.Writer, root *cost.TreeNode, opts Options) error {
	bw := bufio.NewWriter(w)
	root.Walk(func(n *cost.TreeNode, depth int) {
		indent := strings.Repeat("  ", depth)
		name := LocalizedName(n.Name, opts.Variant)

		switch n.Kind {
		case cost.KindMaterial:
			fmt.Fprintf(bw, "%s- %s  用量: %s个  单价: %s  小计: %s\n",
				indent, name,
				n.Quantity.Round(0).String(),
				n.UnitPrice.String(),
				n.Subtotal.StringFixed(0))
		default:
			var b strings.Builder
			fmt.Fprintf(&b, "%s+ %s", indent, name)
			if n.Coefficient != 1 {
				fmt.Fprintf(&b, "  [系数: %dx]", n.Coefficient)
			}
			if depth > 0 {
				fmt.Fprintf(&b, "  用量: %s个", n.Quantity.Round(0).String())
			}
			fmt.Fprintf(&b, "  小计: %s%s", n.Subtotal.StringFixed(0), opts.CurrencyLabel)
			if n.Truncated {
				b.WriteString("  (循环引用)")
			}
			fmt.Fprintln(bw, b.String())
		}
	})
	return bw.Flush()
}
