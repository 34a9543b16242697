package catalog

// Seed returns the sample catalog shipped with the demo deployment.
func Seed() *Memory {
	m := NewMemory()
	m.Add("Villa Marbella Seaview", Property{
		Ref:         "MLG1234",
		Price:       "€3,950,000",
		Location:    "Golden Mile, Marbella",
		Size:        "650 m²",
		Plot:        "1,200 m²",
		Bedrooms:    5,
		Bathrooms:   6,
		Description: "Luxurious contemporary villa with panoramic sea views, featuring an infinity pool, home cinema, and wine cellar.",
		Features:    []string{"Sea Views", "Private Pool", "Home Cinema", "Wine Cellar", "Smart Home", "24h Security"},
	})
	m.Add("Puente Romano Penthouse", Property{
		Ref:         "MLG5678",
		Price:       "€4,800,000",
		Location:    "Puente Romano, Marbella",
		Size:        "400 m²",
		Plot:        "N/A",
		Bedrooms:    4,
		Bathrooms:   4,
		Description: "Exclusive penthouse in the prestigious Puente Romano resort, offering luxury amenities and direct beach access.",
		Features:    []string{"Beachfront", "Resort Amenities", "Terrace", "Sea Views", "Concierge Service"},
	})
	return m
}
