// Command seed loads a demo catalog into an empty database: a handful of
// artist accounts, filler artworks spread across every category, and the
// starter promo codes.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/artwork"
	"github.com/artvista/marketplace/internal/config"
	"github.com/artvista/marketplace/internal/db"
	"github.com/artvista/marketplace/internal/promo"
	"github.com/artvista/marketplace/internal/user"
)

const artworkCount = 60

var categories = []artwork.Category{
	artwork.CategoryPainting,
	artwork.CategoryPhotography,
	artwork.CategoryDigital,
	artwork.CategorySculpture,
	artwork.CategoryDrawing,
	artwork.CategoryMixedMedia,
}

var mediums = map[artwork.Category][]string{
	artwork.CategoryPainting:    {"Oil on canvas", "Acrylic on canvas", "Watercolor on paper", "Tempera on wood"},
	artwork.CategoryPhotography: {"Digital photography", "Film photography", "Polaroid", "Large format print"},
	artwork.CategoryDigital:     {"Digital art", "3D rendering", "Digital collage"},
	artwork.CategorySculpture:   {"Bronze", "White marble", "Clay", "Steel", "Wood", "Glass"},
	artwork.CategoryDrawing:     {"Graphite on paper", "Charcoal on paper", "Ink on paper", "Colored pencil"},
	artwork.CategoryMixedMedia:  {"Acrylic and collage", "Digital print and paint", "Found objects and paint"},
}

var basePrices = map[artwork.Category]float64{
	artwork.CategoryPainting:    1000,
	artwork.CategoryPhotography: 400,
	artwork.CategoryDigital:     600,
	artwork.CategorySculpture:   2000,
	artwork.CategoryDrawing:     250,
	artwork.CategoryMixedMedia:  800,
}

var categoryTags = map[artwork.Category][]string{
	artwork.CategoryPainting:    {"abstract", "colorful", "modern", "vibrant"},
	artwork.CategoryPhotography: {"urban", "nature", "portrait", "landscape"},
	artwork.CategoryDigital:     {"futuristic", "technology", "contemporary", "experimental"},
	artwork.CategorySculpture:   {"contemporary", "elegant", "abstract", "figurative"},
	artwork.CategoryDrawing:     {"detailed", "botanical", "portrait", "realistic"},
	artwork.CategoryMixedMedia:  {"experimental", "collage", "textural", "layered"},
}

var adjectives = []string{"Abstract", "Vibrant", "Serene", "Dynamic", "Ethereal", "Bold", "Delicate", "Mysterious", "Luminous", "Textured"}

var nouns = []string{"Harmony", "Solitude", "Dreams", "Elegance", "Whisper", "Reality", "Depths", "Lights", "Shadows", "Reflections", "Memories", "Journey", "Symphony", "Essence", "Vision", "Spirit", "Rhythm", "Balance", "Energy", "Tranquility"}

var seedArtists = []user.User{
	{ExternalID: "seed|mira-voss", Email: "mira@example.com", Name: "Mira Voss", Role: user.RoleArtist, Bio: "Oil painter working with large abstract forms.", Location: "Lisbon", IsVerified: true},
	{ExternalID: "seed|dario-lenz", Email: "dario@example.com", Name: "Dario Lenz", Role: user.RoleArtist, Bio: "Street and architecture photographer.", Location: "Berlin", IsVerified: true},
	{ExternalID: "seed|ines-kato", Email: "ines@example.com", Name: "Ines Kato", Role: user.RoleArtist, Bio: "Sculptor and mixed-media experimentalist.", Location: "Kyoto", IsVerified: false},
}

var seedPromoCodes = []promo.PromoCode{
	{Code: "SAVE10", DiscountType: promo.DiscountPercentage, DiscountValue: 10, Description: "10% off any order"},
	{Code: "WELCOME20", DiscountType: promo.DiscountPercentage, DiscountValue: 20, MinOrderAmount: floatPtr(100), Description: "20% off orders over $100"},
	{Code: "FIRST50", DiscountType: promo.DiscountFixed, DiscountValue: 50, MinOrderAmount: floatPtr(200), MaxUses: intPtr(100), Description: "$50 off orders over $200 (limited use)"},
	{Code: "STUDENT15", DiscountType: promo.DiscountPercentage, DiscountValue: 15, Description: "15% student discount"},
	{Code: "HOLIDAY25", DiscountType: promo.DiscountPercentage, DiscountValue: 25, MinOrderAmount: floatPtr(150), Description: "25% holiday discount (expires in 30 days)"},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	database, err := db.New(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	ctx := context.Background()

	userRepo := user.NewRepository(database.Pool)
	artworkSvc := artwork.NewService(artwork.NewRepository(database.Pool))
	promoSvc := promo.NewService(promo.NewRepository(database.Pool))

	artistIDs, err := seedUsers(ctx, userRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed artists")
	}

	if err := seedCatalog(ctx, artworkSvc, artistIDs); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed artworks")
	}

	if err := seedPromos(ctx, promoSvc); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed promo codes")
	}

	log.Info().Msg("Seeding finished")
}

func seedUsers(ctx context.Context, repo user.Repository) ([]user.User, error) {
	var artists []user.User

	for _, artist := range seedArtists {
		existing, err := repo.GetByExternalID(ctx, artist.ExternalID)
		if err == nil {
			artists = append(artists, *existing)
			continue
		}

		if _, err := repo.Create(ctx, &artist); err != nil {
			return nil, fmt.Errorf("create artist %s: %w", artist.Name, err)
		}

		log.Info().Str("name", artist.Name).Stringer("id", artist.ID).Msg("Created artist")
		artists = append(artists, artist)
	}

	return artists, nil
}

func seedCatalog(ctx context.Context, svc artwork.Service, artists []user.User) error {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < artworkCount; i++ {
		category := categories[i%len(categories)]
		artist := artists[i%len(artists)]

		title := adjectives[rng.Intn(len(adjectives))] + " " + nouns[rng.Intn(len(nouns))]
		if i >= 20 {
			title = fmt.Sprintf("%s %d", title, i+1)
		}

		base := basePrices[category]
		price := float64(int(base*0.6 + rng.Float64()*base*0.8))

		var depth *float64
		if category == artwork.CategorySculpture || category == artwork.CategoryMixedMedia {
			d := float64(5 + rng.Intn(30))
			depth = &d
		}

		year := 2020 + rng.Intn(5)

		a := artwork.Artwork{
			Title:       title,
			Description: "A captivating piece that explores the relationship between color and emotion.",
			ArtistID:    artist.ID,
			Category:    category,
			Medium:      mediums[category][rng.Intn(len(mediums[category]))],
			Dimensions: artwork.Dimensions{
				Width:  float64(30 + rng.Intn(70)),
				Height: float64(30 + rng.Intn(90)),
				Depth:  depth,
				Unit:   "cm",
			},
			Price:       price,
			Currency:    "USD",
			Tags:        categoryTags[category][:3],
			IsFeatured:  rng.Float64() > 0.7,
			YearCreated: &year,
		}

		if _, err := svc.CreateArtwork(ctx, &a); err != nil {
			return fmt.Errorf("create artwork %q: %w", title, err)
		}
	}

	log.Info().Int("count", artworkCount).Msg("Created artworks")

	return nil
}

func seedPromos(ctx context.Context, svc promo.Service) error {
	for _, code := range seedPromoCodes {
		if code.Code == "HOLIDAY25" {
			expires := time.Now().Add(30 * 24 * time.Hour)
			code.ExpiresAt = &expires
		}

		if _, err := svc.Create(ctx, &code); err != nil {
			return fmt.Errorf("create promo code %s: %w", code.Code, err)
		}

		log.Info().Str("code", code.Code).Msg("Created promo code")
	}

	return nil
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
