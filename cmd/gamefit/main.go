package main

import (
	"os"
	"strconv"

	"github.com/gamefit-dev/gamefit/config"
	"github.com/gamefit-dev/gamefit/db"
	"github.com/gamefit-dev/gamefit/internal/auth"
	"github.com/gamefit-dev/gamefit/internal/mailer"
	"github.com/gamefit-dev/gamefit/internal/middleware"
	achievementsrepo "github.com/gamefit-dev/gamefit/internal/repositories/achievements"
	exercisesrepo "github.com/gamefit-dev/gamefit/internal/repositories/exercises"
	usersrepo "github.com/gamefit-dev/gamefit/internal/repositories/users"
	"github.com/gamefit-dev/gamefit/internal/router"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment")
	}

	cfg := config.LoadConfigOrPanic()

	database, err := db.ConnectDatabase(cfg.DBConfig.DSN())

	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.MigrateDatabase(database); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	deps := router.Dependencies{
		Users:        usersrepo.NewUserRepository(database),
		Exercises:    exercisesrepo.NewExerciseRepository(database),
		Achievements: achievementsrepo.NewAchievementRepository(database),
		Tokens:       auth.NewTokenManager(cfg.AuthConfig),
		Mailer:       mailer.New(cfg.MailConfig),
		Cookies:      middleware.NewSessionCookies(cfg.AppConfig, cfg.AuthConfig),
		BaseURL:      cfg.AppConfig.BaseURL,
		Version:      cfg.AppConfig.Version,
		CORSOrigins:  cfg.AppConfig.CORSOrigins(),
	}

	r := router.NewRouter(deps)

	port := strconv.Itoa(cfg.AppConfig.Port)
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	log.Info().Str("port", port).Str("version", cfg.AppConfig.Version).Msg("starting gamefit")

	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
