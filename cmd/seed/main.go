package main

import (
	"context"
	"log"

	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// Demo fixtures for local frontend development. The seed is idempotent:
// rows are matched by their unique fields and skipped when present.
var (
	seedCategories = []model.Category{
		{Name: "Design", Color: "--variant03", NameTag: "De"},
		{Name: "Backend", Color: "--variant07", NameTag: "Ba"},
		{Name: "Marketing", Color: "--variant12", NameTag: "Ma"},
	}
	seedUsers = []model.User{
		{Email: "admin@example.com", Name: "Ada Admin", NameTag: "AA", Color: "--variant02", IsActive: true, IsStaff: true, IsSuperuser: true},
		{Email: "jane@example.com", Name: "Jane Doe", NameTag: "JD", Color: "--variant05", IsActive: true},
		{Email: "max@example.com", Name: "Max Muster", NameTag: "MM", Color: "--default", IsActive: true},
	}
	seedPassword = "changeme123"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Task{},
		&model.SubTask{},
		&model.AuthToken{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	categories, err := seedCategoryRows(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	users, err := seedUserRows(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	if err := seedSampleTask(ctx, gormDB, categories, users); err != nil {
		log.Fatalf("Failed to seed sample task: %v", err)
	}

	log.Println("Seed completed")
}

func seedCategoryRows(ctx context.Context, gormDB *gorm.DB) ([]model.Category, error) {
	repo := repository.NewCategoryRepository(gormDB)
	out := make([]model.Category, 0, len(seedCategories))
	for _, category := range seedCategories {
		existing, err := repo.FindByName(ctx, category.Name)
		if err == nil {
			out = append(out, *existing)
			continue
		}
		if err := repo.Create(ctx, &category); err != nil {
			return nil, err
		}
		log.Printf("Created category %q", category.Name)
		out = append(out, category)
	}
	return out, nil
}

func seedUserRows(ctx context.Context, gormDB *gorm.DB) ([]model.User, error) {
	repo := repository.NewUserRepository(gormDB)
	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(seedUsers))
	for _, user := range seedUsers {
		existing, err := repo.FindByEmail(ctx, user.Email)
		if err == nil {
			out = append(out, *existing)
			continue
		}
		user.PasswordHash = hash
		if err := repo.Create(ctx, &user); err != nil {
			return nil, err
		}
		log.Printf("Created user %q", user.Email)
		out = append(out, user)
	}
	return out, nil
}

func seedSampleTask(ctx context.Context, gormDB *gorm.DB, categories []model.Category, users []model.User) error {
	var count int64
	if err := gormDB.WithContext(ctx).Model(&model.Task{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	repo := repository.NewTaskRepository(gormDB)
	due := model.NewDate(2026, 10, 15)
	task := &model.Task{
		Container:   model.ContainerToDo,
		Title:       "Kick off the board",
		Description: "Walk through the demo data with the team",
		DueDate:     &due,
		Priority:    model.PriorityUrgent,
		PriorityImg: "/assets/icons/urgent.svg",
	}
	subtasks := []model.SubTask{
		{Name: "Invite everyone", Checked: true},
		{Name: "Prepare the columns", Checked: false},
	}
	err := repo.CreateWithAssociations(ctx, task,
		[]uint{categories[0].ID},
		[]uint{users[1].ID, users[2].ID},
		subtasks, nil)
	if err != nil {
		return err
	}
	log.Printf("Created sample task %q", task.Title)
	return nil
}
