package refdata

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/buscar-app/buscar/internal/model"
)

// sampleSeed fixes the PRNG so the bundled dataset is identical on every run.
const sampleSeed = 20240612

// SampleListings generates the bundled offline dataset. It is only shown when
// the very first fetch against the backend fails; steady-state failures keep
// the last fetched listings instead.
func SampleListings(count int) []model.CarListing {
	rng := rand.New(rand.NewSource(sampleSeed))
	brands := BrandNames()
	now := time.Now()

	cars := make([]model.CarListing, 0, count)
	for i := 0; i < count; i++ {
		brand := brands[rng.Intn(len(brands))]
		models := brandModels[brand]
		carModel := models[rng.Intn(len(models))]
		year := 2015 + rng.Intn(11)
		km := rng.Intn(150000) + 5000
		fuel := FuelTypes[rng.Intn(len(FuelTypes))]
		transmission := Transmissions[rng.Intn(len(Transmissions))]
		source := Sources[rng.Intn(len(Sources))]
		location := Locations[rng.Intn(len(Locations))]

		price := samplePrice(rng, brand, fuel, year, km)
		power := 70 + rng.Intn(250)
		if fuel == "electrico" {
			power = 100 + rng.Intn(400)
		}

		seller := model.SellerProfessional
		if rng.Float64() > 0.6 {
			seller = model.SellerPrivate
		}

		scraped := now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour)

		cars = append(cars, model.CarListing{
			ID:           fmt.Sprintf("sample-%d", i+1),
			Brand:        brand,
			Model:        carModel,
			FullName:     brand + " " + carModel,
			Year:         year,
			Price:        price,
			KM:           km,
			Fuel:         fuel,
			Transmission: transmission,
			Power:        power,
			Source:       source,
			Location:     location,
			Image:        ImageFor(brand, ""),
			URL:          "#",
			ScrapedAt:    scraped,
			SellerType:   seller,
			Warranty:     rng.Float64() > 0.5,
			Negotiable:   rng.Float64() > 0.7,
		})
	}

	sort.Slice(cars, func(i, j int) bool {
		return cars[i].ScrapedAt.After(cars[j].ScrapedAt)
	})
	return cars
}

// samplePrice mirrors the pricing heuristics of the original seed data:
// premium brands, electric drivetrains, and recent years push the price up,
// mileage pulls it down, and the result is rounded to the nearest hundred.
func samplePrice(rng *rand.Rand, brand, fuel string, year, km int) int {
	base := 8000 + rng.Float64()*50000
	switch brand {
	case "Audi", "BMW", "Mercedes-Benz", "Porsche", "Tesla":
		base *= 1.5
	}
	if fuel == "electrico" {
		base *= 1.3
	}
	if year >= 2022 {
		base *= 1.2
	}
	base *= 1 - float64(km)/500000
	return int(base/100+0.5) * 100
}
