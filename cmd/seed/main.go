package main

import (
	"context"
	"time"

	"club-hub/internal/config"
	"club-hub/internal/database"
	"club-hub/internal/features/club"
	"club-hub/internal/features/event"
	"club-hub/internal/features/user"
	"club-hub/internal/logger"
	"club-hub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seed inserts a development admin, one club and one approved event. Each
// step skips records that already exist so the seeder is rerunnable.
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	clubRepo club.ClubRepository,
	eventRepo event.EventRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding...")

				admin, err := userRepo.FindByEmail(ctx, "admin@clubhub.local")
				if err != nil {
					hash, hashErr := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
					if hashErr != nil {
						logger.Error("Failed to hash admin password", zap.Error(hashErr))
						return
					}
					admin = &models.User{
						ID:        primitive.NewObjectID(),
						Name:      "Administrator",
						Username:  "admin",
						Email:     "admin@clubhub.local",
						Password:  string(hash),
						Role:      models.RoleAdmin,
						IsActive:  true,
						CreatedAt: time.Now(),
					}
					if err := userRepo.Create(ctx, admin); err != nil {
						logger.Error("Failed to seed admin user", zap.Error(err))
						return
					}
					logger.Info("Seeded admin user", zap.String("email", admin.Email))
				} else {
					logger.Info("Admin user exists, skipping")
				}

				seedClub, err := clubRepo.FindByName(ctx, "Coding Club")
				if err != nil {
					seedClub = &models.Club{
						ID:                 primitive.NewObjectID(),
						Name:               "Coding Club",
						Description:        "Weekly programming sessions, hackathons and peer mentoring.",
						Category:           "technical",
						FacultyCoordinator: admin.ID,
						EstablishedDate:    time.Now().AddDate(-2, 0, 0),
						IsActive:           true,
						CreatedAt:          time.Now(),
					}
					if err := clubRepo.Create(ctx, seedClub); err != nil {
						logger.Error("Failed to seed club", zap.Error(err))
						return
					}
					logger.Info("Seeded club", zap.String("name", seedClub.Name))
				} else {
					logger.Info("Club exists, skipping")
				}

				evt := &models.Event{
					ID:          primitive.NewObjectID(),
					Title:       "Intro to Open Source",
					Description: "Hands-on session on contributing to open source projects.",
					ClubID:      seedClub.ID,
					Organizer:   admin.ID,
					EventType:   "workshop",
					Venue:       "Lab 204",
					Date:        time.Now().AddDate(0, 0, 14),
					StartTime:   "14:00",
					EndTime:     "16:00",
					Status:      models.EventApproved,
					CreatedAt:   time.Now(),
				}
				if err := eventRepo.Create(ctx, evt); err != nil {
					logger.Error("Failed to seed event", zap.Error(err))
					return
				}
				logger.Info("Seeded event", zap.String("title", evt.Title))

				logger.Info("Database seeding completed")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
			club.NewClubRepository,
			event.NewEventRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
