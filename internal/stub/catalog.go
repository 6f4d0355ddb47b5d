package stub

import "github.com/dadikeladdu/storefront/internal/domain"

func ptr(v float64) *float64 { return &v }

// Catalog is the stub's product list. Snapshots are copied into cart items
// at add time and stay frozen there afterwards.
type Catalog map[string]domain.ProductSnapshot

// DefaultCatalog seeds a small laddu price list for development
func DefaultCatalog() Catalog {
	return Catalog{
		"laddu-besan": {
			Name:  "Besan Laddu (500g)",
			Price: 349,
			Image: "/images/besan-laddu.jpg",
		},
		"laddu-motichoor": {
			Name:          "Motichoor Laddu (500g)",
			Price:         399,
			DiscountPrice: ptr(359),
			Image:         "/images/motichoor-laddu.jpg",
		},
		"laddu-dryfruit": {
			Name:          "Dry Fruit Laddu (500g)",
			Price:         549,
			DiscountPrice: ptr(499),
			Image:         "/images/dryfruit-laddu.jpg",
		},
		"laddu-til": {
			Name:  "Til Gud Laddu (250g)",
			Price: 249,
			Image: "/images/til-laddu.jpg",
		},
	}
}

// Coupons maps accepted codes to their percentage discount
type Coupons map[string]float64

// DefaultCoupons returns the codes the stub honours
func DefaultCoupons() Coupons {
	return Coupons{
		"LADDU10":   10,
		"FESTIVE20": 20,
	}
}
