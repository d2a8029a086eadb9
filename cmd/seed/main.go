package main

import (
	"bytes"
	"context"
	"fmt"

	"makerhub/pkg/config"
	"makerhub/pkg/database"
	"makerhub/pkg/logger"
	"makerhub/pkg/models"
	"makerhub/pkg/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		log.Error("Failed to init storage: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, store, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, store storage.Storage, log *logger.Logger) error {
	testUsers := []struct {
		email    string
		username string
		password string
		role     models.UserRole
		coin     int
	}{
		{"admin@makerhub.dev", "admin", "password123", models.RoleSuperAdmin, 1000},
		{"alice@makerhub.dev", "alice_maker", "password123", models.RoleUser, 500},
		{"bob@makerhub.dev", "bob_builds", "password123", models.RoleUser, 200},
		{"carol@makerhub.dev", "carol_cnc", "password123", models.RoleUser, 50},
	}

	userIDs := make([]string, 0, len(testUsers))

	for _, userData := range testUsers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)

		user := &models.User{
			Email:    userData.email,
			Username: userData.username,
			Password: string(hashedPassword),
			Role:     userData.role,
			Coin:     userData.coin,
			Verified: true,
			IsActive: true,
		}

		var existing models.User
		result := db.Where("email = ? OR username = ?", user.Email, user.Username).First(&existing)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", user.Username)
			userIDs = append(userIDs, existing.ID)
			continue
		}

		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", user.Username, err)
			continue
		}

		log.Info("Created user: %s (%s)", user.Username, user.Email)
		userIDs = append(userIDs, user.ID)
	}

	for i, userID := range userIDs {
		post := &models.Post{
			AuthorID: userID,
			Title:    fmt.Sprintf("Build log #%d", i+1),
			Body:     "Notes from the workbench.",
		}
		if err := db.Create(post).Error; err != nil {
			log.Error("Failed to create post: %v", err)
		}
	}
	log.Info("Created test posts")

	// Everyone follows the first user
	for _, userID := range userIDs[1:] {
		var existing models.Follow
		result := db.Where("follower_id = ? AND following_id = ?", userID, userIDs[0]).First(&existing)
		if result.Error == nil {
			continue
		}
		follow := &models.Follow{FollowerID: userID, FollowingID: userIDs[0]}
		if err := db.Create(follow).Error; err != nil {
			log.Error("Failed to create follow: %v", err)
		}
	}
	log.Info("Created test follows")

	categories := []struct {
		category models.ProjectCategory
		price    int
	}{
		{models.CategoryFree, 0},
		{models.CategoryPaid, 30},
		{models.CategoryPremium, 120},
	}

	for i, c := range categories {
		ownerID := userIDs[i%len(userIDs)]
		content := []byte(fmt.Sprintf("seed archive for %s project", c.category))

		obj, err := store.Save(context.Background(),
			fmt.Sprintf("seed_%s.zip", c.category),
			bytes.NewReader(content), int64(len(content)), "application/zip")
		if err != nil {
			log.Error("Failed to store seed file: %v", err)
			continue
		}

		project := &models.Project{
			OwnerID:     ownerID,
			Title:       fmt.Sprintf("Sample %s project", c.category),
			Description: "Seeded marketplace entry.",
			Category:    c.category,
			Price:       c.price,
			FileKey:     obj.Key,
			FileName:    fmt.Sprintf("seed_%s.zip", c.category),
			FileHash:    obj.Hash,
			FileSize:    obj.Size,
		}
		if err := db.Create(project).Error; err != nil {
			log.Error("Failed to create project: %v", err)
			continue
		}
		log.Info("Created project: %s", project.Title)
	}

	return nil
}
