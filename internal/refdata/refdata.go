// Package refdata supplies the static taxonomies the aggregator UI is built
// on: known marketplaces, brand/model lists, fuel types, locations, browse
// categories, and the fallback image map. It also generates the bundled
// sample dataset used when the backend is unreachable on first load.
package refdata

import "sort"

// Sources are the marketplaces the aggregator scrapes.
var Sources = []string{"wallapop", "coches.net", "autoscout24", "milanuncios", "motor.es"}

// FuelTypes as reported by the backend.
var FuelTypes = []string{"gasolina", "diesel", "electrico", "hibrido"}

// Transmissions as reported by the backend.
var Transmissions = []string{"manual", "automatico"}

// Locations covered by the scraped marketplaces.
var Locations = []string{
	"Madrid", "Barcelona", "Valencia", "Sevilla", "Málaga",
	"Bilbao", "Zaragoza", "Alicante", "Murcia", "Palma",
}

// brandModels is the bundled brand taxonomy, used until GET /brands succeeds.
var brandModels = map[string][]string{
	"Audi":          {"A1", "A3", "A4", "A5", "A6", "Q3", "Q5", "Q7", "e-tron", "RS3", "RS6"},
	"BMW":           {"Serie 1", "Serie 2", "Serie 3", "Serie 4", "Serie 5", "X1", "X3", "X5", "X6", "i3", "i4", "iX"},
	"Mercedes-Benz": {"Clase A", "Clase B", "Clase C", "Clase E", "Clase S", "GLA", "GLC", "GLE", "EQA", "EQC"},
	"Volkswagen":    {"Golf", "Polo", "Passat", "Tiguan", "T-Roc", "T-Cross", "ID.3", "ID.4", "Arteon"},
	"SEAT":          {"Ibiza", "León", "Arona", "Ateca", "Tarraco", "Cupra Formentor", "Cupra Born"},
	"Renault":       {"Clio", "Mégane", "Captur", "Kadjar", "Arkana", "Zoe", "Mégane E-Tech"},
	"Peugeot":       {"208", "308", "508", "2008", "3008", "5008", "e-208", "e-2008"},
	"Citroën":       {"C3", "C4", "C5 Aircross", "Berlingo", "ë-C4"},
	"Ford":          {"Fiesta", "Focus", "Puma", "Kuga", "Mustang", "Mustang Mach-E"},
	"Toyota":        {"Yaris", "Corolla", "C-HR", "RAV4", "Camry", "Land Cruiser", "bZ4X"},
	"Honda":         {"Civic", "Jazz", "HR-V", "CR-V", "e"},
	"Hyundai":       {"i20", "i30", "Tucson", "Kona", "Ioniq 5", "Santa Fe"},
	"Kia":           {"Picanto", "Rio", "Ceed", "Sportage", "Niro", "EV6", "Sorento"},
	"Nissan":        {"Micra", "Juke", "Qashqai", "X-Trail", "Leaf", "Ariya"},
	"Tesla":         {"Model 3", "Model Y", "Model S", "Model X"},
	"Porsche":       {"911", "Cayenne", "Macan", "Panamera", "Taycan"},
	"Jeep":          {"Renegade", "Compass", "Wrangler", "Grand Cherokee"},
	"Volvo":         {"XC40", "XC60", "XC90", "V60", "S60", "C40 Recharge"},
	"Mazda":         {"Mazda2", "Mazda3", "CX-3", "CX-30", "CX-5", "MX-5", "MX-30"},
	"Skoda":         {"Fabia", "Octavia", "Superb", "Kamiq", "Karoq", "Kodiaq", "Enyaq"},
}

// Category is one browse shortcut on the home view. Its filter mapping is
// applied by the session when the category is selected; categories without a
// mapping only label the result view.
type Category struct {
	Tag      string
	Name     string
	Fuel     string // restricts fuel when set
	Brand    string // restricts brand when set
	MaxPrice int    // caps price when > 0
}

// Categories in home-view display order. The premium mapping uses a single
// fixed brand, kept from the legacy behavior.
var Categories = []Category{
	{Tag: "electrico", Name: "Eléctricos", Fuel: "electrico"},
	{Tag: "suv", Name: "SUV"},
	{Tag: "deportivo", Name: "Deportivos"},
	{Tag: "familiar", Name: "Familiares"},
	{Tag: "hibrido", Name: "Híbridos", Fuel: "hibrido"},
	{Tag: "economico", Name: "Económicos", MaxPrice: 10000},
	{Tag: "premium", Name: "Premium", Brand: "Mercedes-Benz"},
	{Tag: "todoterreno", Name: "Todoterreno"},
}

// CategoryByTag looks up a category definition.
func CategoryByTag(tag string) (Category, bool) {
	for _, c := range Categories {
		if c.Tag == tag {
			return c, true
		}
	}
	return Category{}, false
}

// carImages maps brands to a representative fallback image, used when a
// listing carries no image of its own.
var carImages = map[string]string{
	"Audi":          "https://images.unsplash.com/photo-1606664515524-ed2f786a0bd6?w=400&h=300&fit=crop",
	"BMW":           "https://images.unsplash.com/photo-1555215695-3004980ad54e?w=400&h=300&fit=crop",
	"Mercedes-Benz": "https://images.unsplash.com/photo-1618843479313-40f8afb4b4d8?w=400&h=300&fit=crop",
	"Volkswagen":    "https://images.unsplash.com/photo-1541348263662-e068662d82af?w=400&h=300&fit=crop",
	"Tesla":         "https://images.unsplash.com/photo-1560958089-b8a1929cea89?w=400&h=300&fit=crop",
	"Porsche":       "https://images.unsplash.com/photo-1503376780353-7e6692767b70?w=400&h=300&fit=crop",
	"Toyota":        "https://images.unsplash.com/photo-1559416523-140ddc3d238c?w=400&h=300&fit=crop",
	"Ford":          "https://images.unsplash.com/photo-1551830820-330a71b99659?w=400&h=300&fit=crop",
	"Jeep":          "https://images.unsplash.com/photo-1519641471654-76ce0107ad1b?w=400&h=300&fit=crop",
}

// DefaultImage is the generic fallback when no brand image exists either.
const DefaultImage = "https://images.unsplash.com/photo-1494976388531-d1058494cdd8?w=400&h=300&fit=crop"

// ImageFor resolves a listing image: the listing's own URL, the brand
// fallback, or the generic default, in that order.
func ImageFor(brand, imageURL string) string {
	if imageURL != "" {
		return imageURL
	}
	if img, ok := carImages[brand]; ok {
		return img
	}
	return DefaultImage
}

// BrandNames returns the known brand names, sorted.
func BrandNames() []string {
	names := make([]string, 0, len(brandModels))
	for name := range brandModels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModelsFor returns the known models for a brand, or nil for an unknown brand.
func ModelsFor(brand string) []string {
	models := brandModels[brand]
	if models == nil {
		return nil
	}
	out := make([]string, len(models))
	copy(out, models)
	return out
}
