package model

// Equipment is a static catalog entry. The catalog is fixed at build time
// and never persisted.
type Equipment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var catalog = []Equipment{
	{ID: "projector", Name: "Projector", Icon: "📽️"},
	{ID: "mobile-screen", Name: "Mobile Screen", Icon: "🖥️"},
}

// Catalog returns the fixed equipment list in display order.
func Catalog() []Equipment {
	out := make([]Equipment, len(catalog))
	copy(out, catalog)
	return out
}

// EquipmentByID looks up a catalog entry.
func EquipmentByID(id string) (Equipment, bool) {
	for _, eq := range catalog {
		if eq.ID == id {
			return eq, true
		}
	}
	return Equipment{}, false
}
