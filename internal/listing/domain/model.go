package domain

// StatusActive marks a listing as publicly visible. The string is kept
// verbatim for compatibility with documents written by the mobile client.
const StatusActive = "Activo"

// Listing is one property post. Every field except ID is filled by the
// publishing user. ID is assigned by the store on the first successful
// write and is immutable afterwards; UserID is stamped once at creation
// and never altered by the edit paths.
type Listing struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Contact     string   `json:"contact,omitempty"`
	Type        string   `json:"type,omitempty"`
	Price       string   `json:"price,omitempty"`
	Address     string   `json:"address,omitempty"`
	Location    string   `json:"location,omitempty"`
	Latitude    string   `json:"latitude,omitempty"`
	Longitude   string   `json:"longitude,omitempty"`
	Image       []string `json:"image,omitempty"`
	Status      string   `json:"status,omitempty"`
	UserID      string   `json:"userId,omitempty"`
}

// Filter narrows FindByFilter results. Zero-value fields are not applied.
type Filter struct {
	Status string
	UserID string
}

// Identity is the authenticated session user as seen by this service. It
// comes from the identity provider's token and is consumed read-only.
type Identity struct {
	UserID   string
	Name     string
	Email    string
	PhotoURL string
}
