package cart

import (
	"sort"
	"strconv"
	"strings"

	"tableside/internal/domain"
)

// ItemKey derives the deterministic line identifier:
// productID "-" skuID "-" sorted "name:value" pairs joined by "|".
// A product without a SKU uses 0, so two additions that differ only in
// attribute order collapse to the same cart line.
func ItemKey(productID, skuID int64, attributes []domain.Attribute) string {
	pairs := make([]string, 0, len(attributes))
	for _, attr := range attributes {
		pairs = append(pairs, attr.Name+":"+attr.Value)
	}
	sort.Strings(pairs)

	var b strings.Builder
	b.WriteString(strconv.FormatInt(productID, 10))
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(skuID, 10))
	b.WriteByte('-')
	b.WriteString(strings.Join(pairs, "|"))
	return b.String()
}
