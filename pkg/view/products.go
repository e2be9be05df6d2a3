package view

import (
	"strconv"
	"strings"

	"tableflip.dev/labdash/pkg/record"
)

// UnknownProduct is shown when a code has no catalog entry.
const UnknownProduct = "Unknown Product"

// Catalog resolves product codes to names. Codes are kept as strings because
// QC logs and results store them that way.
type Catalog map[string]string

// NewCatalog indexes products by code.
func NewCatalog(products []record.Product) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		c[strconv.Itoa(p.Code)] = p.Name
	}
	return c
}

// Name looks up a code given as text.
func (c Catalog) Name(code string) string {
	if name, ok := c[strings.TrimSpace(code)]; ok && name != "" {
		return name
	}
	return UnknownProduct
}

// NameFor looks up a numeric code.
func (c Catalog) NameFor(code int) string {
	return c.Name(strconv.Itoa(code))
}
