package domain

import "strconv"

// Product is the catalog data the Product Lookup contract returns.
type Product struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	// Price in minor currency units.
	Price int64 `json:"price"`
}

type CartItem struct {
	ProductID   string `json:"productId"`
	ColorID     string `json:"colorId"`
	SizeID      string `json:"sizeId"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
	ProductName string `json:"productName"`
}

// VariantKey distinguishes otherwise identical lines of the same product.
func (i CartItem) VariantKey() string {
	return VariantKey(i.ColorID, i.SizeID)
}

// VariantKey quotes each part so separators inside a color or size can
// never make two variants collide.
func VariantKey(colorID, sizeID string) string {
	return strconv.Quote(colorID) + strconv.Quote(sizeID)
}

// ProductKey is the prefix every LineKey of productID starts with. No other
// product's LineKey shares it.
func ProductKey(productID string) string {
	return strconv.Quote(productID)
}

// LineKey is unique per cart: at most one item exists for a product+variant.
func (i CartItem) LineKey() string {
	return ProductKey(i.ProductID) + i.VariantKey()
}

func (i CartItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

// Merge adds item to the cart, incrementing the quantity of an existing
// line with the same product and variant instead of appending a duplicate.
func (c *Cart) Merge(item CartItem) {
	for i := range c.Items {
		if c.Items[i].LineKey() == item.LineKey() {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveProduct drops every variant of productID.
func (c *Cart) RemoveProduct(productID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

func (c Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}
