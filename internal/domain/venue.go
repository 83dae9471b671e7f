package domain

// VenueTypeCafe is the only venue type the engine distinguishes; everything else counts as food.
const VenueTypeCafe = "cafe"

// Venue is the canonical catalog record. Source rows are normalized into this
// shape before they reach the recommendation engine.
type Venue struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	NameLocalized string  `json:"nameLocalized,omitempty"`
	City          string  `json:"city,omitempty"`
	Address       string  `json:"address,omitempty"`
	Type          string  `json:"type,omitempty"`
	CuisineType   string  `json:"cuisineType,omitempty"`
	PriceRange    string  `json:"priceRange,omitempty"` // "$" .. "$$$$"
	Rating        float64 `json:"rating"`               // 0.0 - 5.0
	Description   string  `json:"description,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// IsCafe reports whether the venue is categorized as a cafe
func (v Venue) IsCafe() bool {
	return v.Type == VenueTypeCafe
}
