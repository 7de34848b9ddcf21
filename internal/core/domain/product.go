package domain

// A Product is a catalog item. Products are defined at build time and
// never change while the service is running.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// Catalog returns the fixed product list, ordered by id.
func Catalog() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Midnight Hoodie",
			Price:       89,
			Description: "Ultra-soft cotton blend with minimalist design",
			Image:       "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=400&h=400&fit=crop&crop=center",
		},
		{
			ID:          2,
			Name:        "Tech Cargo Pants",
			Price:       129,
			Description: "Functional streetwear with multiple pockets",
			Image:       "https://images.unsplash.com/photo-1473966968600-fa801b869a1a?w=400&h=400&fit=crop&crop=center",
		},
		{
			ID:          3,
			Name:        "Urban Leather Jacket",
			Price:       299,
			Description: "Genuine leather with modern cut and details",
			Image:       "https://images.unsplash.com/photo-1520975954732-35dd22299614?w=400&h=400&fit=crop&crop=center",
		},
		{
			ID:          4,
			Name:        "Stealth Sneakers",
			Price:       159,
			Description: "All-black premium sneakers for every occasion",
			Image:       "https://images.unsplash.com/photo-1549298916-b41d501d3772?w=400&h=400&fit=crop&crop=center",
		},
		{
			ID:          5,
			Name:        "Essential Oversized Tee",
			Price:       49,
			Description: "Relaxed fit tee in premium organic cotton",
			Image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400&h=400&fit=crop&crop=center",
		},
		{
			ID:          6,
			Name:        "Black Denim Jacket",
			Price:       119,
			Description: "Classic denim jacket with modern twist",
			Image:       "https://images.unsplash.com/photo-1544022613-e87ca75a784a?w=400&h=400&fit=crop&crop=center",
		},
	}
}
