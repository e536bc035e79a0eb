package query

// Users is the admin users table.
var Users = Spec{
	Name:         "users",
	FilterFields: []string{"fullName", "email"},
	DateField:    "createdAt",
	SortFields:   []string{"createdAt"},
	DefaultSort:  Sort{Field: "createdAt", Direction: Descending},
}

// Books is the admin books table.
var Books = Spec{
	Name:         "books",
	FilterFields: []string{"mainText", "author"},
	DateField:    "createdAt",
	SortFields:   []string{"createdAt"},
	DefaultSort:  Sort{Field: "createdAt", Direction: Descending},
}

// Storefront returns the public book grid spec with the given price slider bounds.
func Storefront(bounds PriceRange) Spec {
	return Spec{
		Name:          "storefront",
		SortFields:    []string{"sold", "updatedAt", "price"},
		DefaultSort:   Sort{Field: "sold", Direction: Descending},
		CategoryField: "category",
		PriceField:    "price",
		PriceBounds:   bounds,
	}
}

// Storefront sort tabs.
const (
	SortPopular   = "sold"
	SortNewest    = "updatedAt"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// StorefrontSortKeys lists the storefront tabs in display order.
var StorefrontSortKeys = []string{SortPopular, SortNewest, SortPriceAsc, SortPriceDesc}

// StorefrontSort maps a storefront tab key to its sort. Unknown keys mean popular.
func StorefrontSort(key string) Sort {
	switch key {
	case SortNewest:
		return Sort{Field: "updatedAt", Direction: Descending}
	case SortPriceAsc:
		return Sort{Field: "price", Direction: Ascending}
	case SortPriceDesc:
		return Sort{Field: "price", Direction: Descending}
	default:
		return Sort{Field: "sold", Direction: Descending}
	}
}
