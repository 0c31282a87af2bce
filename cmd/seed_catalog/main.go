package main

import (
	"encoding/json"
	"log"
	"os"

	"kalkulai-be/internal/model"
	"kalkulai-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

type seedItem struct {
	SKU         string
	Name        string
	Unit        string
	Category    string
	Brand       string
	Synonyms    []string
	Description string
	Price       float64
	Margin      float64
	Available   bool
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🎨 Seeding painting material catalog\n")

	items := []seedItem{
		{
			SKU: "GRU-TG-10", Name: "Tiefgrund LF 10 L", Unit: "L", Category: "grundierung", Brand: "Caparol",
			Synonyms:    []string{"Tiefengrund", "Grundierung", "Sperrgrund"},
			Description: "Lösemittelfreier Tiefgrund für saugende Untergründe im Innen- und Außenbereich.",
			Price:       34.90, Margin: 0.28, Available: true,
		},
		{
			SKU: "GRU-HG-10", Name: "Haftgrund Spezial 10 L", Unit: "L", Category: "grundierung", Brand: "Caparol",
			Synonyms:    []string{"Haftvermittler", "Putzgrund"},
			Description: "Pigmentierter Haftgrund für glatte, nicht saugende Untergründe.",
			Price:       42.50, Margin: 0.25, Available: true,
		},
		{
			SKU: "WF-WM-12", Name: "Wandfarbe Weiss Matt 12,5 L", Unit: "L", Category: "wandfarbe", Brand: "Alpina",
			Synonyms:    []string{"Innenfarbe", "Dispersionsfarbe", "Wandweiss"},
			Description: "Hochdeckende matte Innendispersion, Nassabriebklasse 2.",
			Price:       54.90, Margin: 0.32, Available: true,
		},
		{
			SKU: "WF-WM-05", Name: "Wandfarbe Weiss Matt 5 L", Unit: "L", Category: "wandfarbe", Brand: "Alpina",
			Synonyms:    []string{"Innenfarbe", "Dispersionsfarbe"},
			Description: "Hochdeckende matte Innendispersion, kleines Gebinde.",
			Price:       27.90, Margin: 0.30, Available: true,
		},
		{
			SKU: "LA-SL-075", Name: "Seidenmattlack Weiss 750 ml", Unit: "ml", Category: "lack", Brand: "Sikkens",
			Synonyms:    []string{"Acryllack", "Weisslack", "Lackfarbe"},
			Description: "Wasserbasierter Seidenmattlack für Holz und Metall innen.",
			Price:       19.90, Margin: 0.35, Available: true,
		},
		{
			SKU: "SP-FS-25", Name: "Flächenspachtel 25 kg", Unit: "kg", Category: "spachtelmasse", Brand: "Knauf",
			Synonyms:    []string{"Spachtel", "Glättspachtel", "Flaechenspachtel"},
			Description: "Pastöse Spachtelmasse für vollflächiges Glätten von Wand und Decke.",
			Price:       31.50, Margin: 0.22, Available: true,
		},
		{
			SKU: "AB-FO-450", Name: "Abdeckfolie 4x5 m", Unit: "Stk", Category: "abdeckmaterial", Brand: "",
			Synonyms:    []string{"Malerfolie", "Schutzfolie"},
			Description: "Dünne Abdeckfolie zum Schutz von Möbeln und Böden.",
			Price:       2.40, Margin: 0.45, Available: true,
		},
		{
			SKU: "AB-KB-50", Name: "Klebeband Gold 50 m", Unit: "Stk", Category: "abdeckmaterial", Brand: "Tesa",
			Synonyms:    []string{"Malerkrepp", "Abklebeband", "Kreppband"},
			Description: "UV-beständiges Präzisionsklebeband für scharfe Farbkanten.",
			Price:       7.90, Margin: 0.40, Available: true,
		},
		{
			SKU: "WF-LF-12", Name: "Latexfarbe Seidenglanz 12,5 L", Unit: "L", Category: "wandfarbe", Brand: "Alpina",
			Synonyms:    []string{"Latex", "Scheuerfeste Farbe"},
			Description: "Strapazierfähige Latexfarbe für stark beanspruchte Flächen.",
			Price:       69.90, Margin: 0.27, Available: false,
		},
		{
			SKU: "PU-RO-25", Name: "Rollputz Fein 25 kg", Unit: "kg", Category: "putz", Brand: "Knauf",
			Synonyms:    []string{"Strukturputz", "Streichputz"},
			Description: "Gebrauchsfertiger Rollputz mit feiner Körnung für innen.",
			Price:       44.90, Margin: 0.24, Available: true,
		},
	}

	created, skipped := 0, 0
	for _, s := range items {
		var existing model.CatalogItem
		if err := db.Where("sku = ?", s.SKU).First(&existing).Error; err == nil {
			color.Yellow("Item '%s' already exists, skipping...", s.SKU)
			skipped++
			continue
		}

		synonyms, _ := json.Marshal(s.Synonyms)
		unit := s.Unit
		price := s.Price
		margin := s.Margin

		row := model.CatalogItem{
			Id:          uuid.New(),
			SKU:         s.SKU,
			Name:        s.Name,
			Unit:        &unit,
			Category:    s.Category,
			Brand:       s.Brand,
			Synonyms:    datatypes.JSON(synonyms),
			Description: s.Description,
			Price:       &price,
			Margin:      &margin,
			Available:   s.Available,
		}

		if err := db.Create(&row).Error; err != nil {
			color.Red("Error creating item '%s': %v", s.SKU, err)
			continue
		}
		color.Green("Created: %s (%s)", s.Name, s.SKU)
		created++
	}

	color.Cyan("\nDone: %d created, %d skipped", created, skipped)
	color.White("Note: run the API and re-save items (or trigger re-embedding) to index them for vector search.")
}
