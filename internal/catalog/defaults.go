package catalog

// Snapshot is the serialisable form of a catalog, used by caches and remote providers.
type Snapshot struct {
	Services []Service `json:"services"`
	Packages []Package `json:"packages"`
}

func (c *Catalog) Snapshot() Snapshot {
	return Snapshot{Services: c.Services(), Packages: c.Packages()}
}

// FromSnapshot validates a snapshot into a catalog.
func FromSnapshot(s Snapshot) (*Catalog, error) {
	return New(s.Services, s.Packages)
}

// Default is the price list published on the website.
func Default() *Catalog {
	return MustNew(defaultServices(), defaultPackages())
}

func defaultServices() []Service {
	return []Service{
		{ID: "exterior-wash", Name: "Hand Wash & Dry", Price: 79},
		{ID: "clay-bar", Name: "Clay Bar Decontamination", Price: 149},
		{ID: "interior-detail", Name: "Interior Deep Clean", Price: 249},
		{ID: "headlight-restoration", Name: "Headlight Restoration", Price: 129},
		{ID: "engine-bay", Name: "Engine Bay Detail", Price: 99},
		{ID: "paint-correction", Name: "Paint Correction", Price: 599},
		{ID: "ceramic-coating", Name: "Ceramic Coating", Price: 899},
		{ID: "wheel-coating", Name: "Wheel & Caliper Coating", Price: 299},
		{ID: "ppf-front", Name: "Paint Protection Film (Front)", Price: 1499},
	}
}

func defaultPackages() []Package {
	return []Package{
		{
			ID:          "essential",
			Name:        "Essential Refresh",
			Price:       399,
			Description: "Inside and out, back to showroom clean.",
			Features:    []string{"Hand wash & dry", "Clay bar decontamination", "Interior deep clean"},
			Includes:    []string{"exterior-wash", "clay-bar", "interior-detail"},
		},
		{
			ID:          "sport",
			Name:        "Sport Protection",
			Price:       1200,
			Description: "Single-stage correction sealed under ceramic.",
			Features:    []string{"Paint correction", "Ceramic coating", "2-year protection"},
			Popular:     true,
			Includes:    []string{"paint-correction", "ceramic-coating"},
		},
		{
			ID:          "showroom",
			Name:        "Showroom Complete",
			Price:       2999,
			Description: "Every surface corrected, coated and protected.",
			Features: []string{
				"Full decontamination",
				"Paint correction",
				"Ceramic coating",
				"Front PPF",
				"Wheel & caliper coating",
			},
			Includes: []string{
				"exterior-wash", "clay-bar", "paint-correction",
				"ceramic-coating", "ppf-front", "wheel-coating",
			},
		},
	}
}
