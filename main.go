package main

import (
	"flag"
	"log"

	"readly/crud"
	"readly/http"
	"readly/seed"
	"readly/storage"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")

	// Check if the flag "-reset" has been provided. It drops and rebuilds all
	// tables instead of migrating, wiping all data.
	resetBool := flag.Bool("reset", false, "Provide this flag to drop and recreate all database tables on startup.")

	// Demo-data flags. With -seed the app populates the database and exits
	// instead of serving.
	seedBool := flag.Bool("seed", false, "Populate the database with demo data and exit.")
	seedDefaults := seed.DefaultConfig()
	seedUsers := flag.Int("users", seedDefaults.Users, "Number of demo users to create.")
	seedRand := flag.Int64("rand-seed", seedDefaults.Seed, "Random seed for the demo-data run.")
	seedAvatarDir := flag.String("avatar-dir", "", "Directory with avatar images for demo users.")
	seedCoverDir := flag.String("cover-dir", "", "Directory with cover images for demo articles.")
	seedPopular := flag.Float64("popular-share", seedDefaults.PopularShare, "Fraction of demo articles considered popular.")
	seedBuckets := flag.Int("buckets", seedDefaults.Buckets, "Bucket count for spreading demo timestamps across the year.")
	flag.Parse()

	// Load configuration from a .config.json file if present, otherwise use
	// the default dev setup. In production the file is required.
	config := LoadConfig(*productionBool)

	// Open a database connection and execute migrations.
	dbConfig := config.Database
	db := NewDB(dbConfig.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	if *resetBool {
		err = DestructiveReset(db)
	} else {
		err = AutoMigrate(db)
	}
	must(err)

	// Start the image storage service.
	images := storage.NewImageService()

	// A -seed run populates the database and exits.
	if *seedBool {
		cfg := seedDefaults
		cfg.Users = *seedUsers
		cfg.Seed = *seedRand
		cfg.AvatarDir = *seedAvatarDir
		cfg.CoverDir = *seedCoverDir
		cfg.PopularShare = *seedPopular
		cfg.Buckets = *seedBuckets

		generator := seed.NewGenerator(db.Gorm, images)
		stats, err := generator.Run(cfg)
		must(err)
		log.Printf("demo seed completed: %+v", *stats)
		return
	}

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.HMACKey, config.Pepper),
		crud.WithArticle(),
		crud.WithComment(),
		crud.WithFollow(),
		crud.WithLike(),
		crud.WithFavorite(),
		crud.WithFeed(),
	)
	must(err)

	// Set up a webserver.
	server := http.NewServer(config.IsProd(), config.CSRFKey, services, images)

	// Serve the app.
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
