package estimator

import (
	"detailing-bot/internal/catalog"
)

// FallbackPackageName is shown when the selected package is missing from the catalog.
const FallbackPackageName = "Selected Package"

// Selection is what the customer has ticked. Services is treated as a set.
type Selection struct {
	Services []string `json:"services"`
	Package  string   `json:"package,omitempty"`
}

// Empty reports whether nothing at all is selected.
func (s Selection) Empty() bool {
	return len(s.Services) == 0 && s.Package == ""
}

func (s Selection) Has(serviceID string) bool {
	for _, id := range s.Services {
		if id == serviceID {
			return true
		}
	}
	return false
}

// Toggle returns a copy with serviceID added or removed.
func (s Selection) Toggle(serviceID string) Selection {
	out := Selection{Package: s.Package, Services: make([]string, 0, len(s.Services)+1)}
	found := false
	for _, id := range s.Services {
		if id == serviceID {
			found = true
			continue
		}
		out.Services = append(out.Services, id)
	}
	if !found {
		out.Services = append(out.Services, serviceID)
	}
	return out
}

// Quote is the pure result of pricing a selection.
type Quote struct {
	Visible         bool
	Target          int
	IndividualTotal int
	Savings         int
	PackageSelected bool
	PackageName     string
}

// Compute prices sel against c. Unknown ids cost nothing.
func Compute(c *catalog.Catalog, sel Selection) Quote {
	q := Quote{Visible: !sel.Empty()}

	seen := make(map[string]struct{}, len(sel.Services))
	for _, id := range sel.Services {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		q.IndividualTotal += c.ServicePrice(id)
	}

	if sel.Package == "" {
		q.Target = q.IndividualTotal
		return q
	}

	q.PackageSelected = true
	q.PackageName = FallbackPackageName
	if p, ok := c.Package(sel.Package); ok {
		q.Target = p.Price
		if p.Name != "" {
			q.PackageName = p.Name
		}
	}
	if q.IndividualTotal > q.Target {
		q.Savings = q.IndividualTotal - q.Target
	}
	return q
}
