package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tableside/internal/cart"
	"tableside/internal/domain"
)

func TestItemKey(t *testing.T) {
	tests := []struct {
		name       string
		productID  int64
		skuID      int64
		attributes []domain.Attribute
		want       string
	}{
		{
			name:      "no sku no attributes",
			productID: 5,
			want:      "5-0-",
		},
		{
			name:      "sku without attributes",
			productID: 10,
			skuID:     3,
			want:      "10-3-",
		},
		{
			name:      "attributes sorted",
			productID: 10,
			skuID:     3,
			attributes: []domain.Attribute{
				{Name: "sugar", Value: "50%"},
				{Name: "size", Value: "L"},
			},
			want: "10-3-size:L|sugar:50%",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := cart.ItemKey(testCase.productID, testCase.skuID, testCase.attributes)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestItemKey_OrderIndependent(t *testing.T) {
	a := cart.ItemKey(10, 3, []domain.Attribute{
		{Name: "size", Value: "L"},
		{Name: "sugar", Value: "50%"},
	})
	b := cart.ItemKey(10, 3, []domain.Attribute{
		{Name: "sugar", Value: "50%"},
		{Name: "size", Value: "L"},
	})
	assert.Equal(t, a, b)
}
