package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ops-portal-backend/internal/config"
	"ops-portal-backend/internal/database"
	"ops-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Simple structures that directly match DB schema
type UserData struct {
	FullName string `yaml:"full_name"`
	Email    string `yaml:"email"`
	IsActive bool   `yaml:"is_active"`
}

type TeamData struct {
	Name         string `yaml:"name"`
	Slug         string `yaml:"slug"`
	Description  string `yaml:"description"`
	ManagerEmail string `yaml:"manager_email,omitempty"`
}

type MembershipData struct {
	TeamSlug string `yaml:"team_slug"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
}

// File structures
type UsersFile struct {
	Users []UserData `yaml:"users"`
}

type TeamsFile struct {
	Teams []TeamData `yaml:"teams"`
}

type MembershipsFile struct {
	Memberships []MembershipData `yaml:"memberships"`
}

func main() {
	log.Println("🚀 Loading initial data from YAML files...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Load data from YAML files
	if err := loadDataFromYAMLFiles(db, "scripts/data"); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("✅ Initial data loaded successfully!")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	// Suppress verbose GORM logging during data loading
	opts := &database.Options{
		LogLevel:    logger.Silent,
		AutoMigrate: true,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		// Only log every 10 attempts to reduce noise
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func loadDataFromYAMLFiles(db *gorm.DB, dataDir string) error {
	users, err := loadUsers(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	teams, err := loadTeams(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load teams: %w", err)
	}

	memberships, err := loadMemberships(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load memberships: %w", err)
	}

	// Create users first
	userMap := make(map[string]*models.User)
	userCreated := 0
	for _, userData := range users {
		user, created, err := createUser(db, userData)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.Email, err)
		}
		userMap[userData.Email] = user
		if created {
			userCreated++
		}
	}
	log.Printf("📋 Users: %d created, %d total", userCreated, len(users))

	// Create teams
	teamMap := make(map[string]*models.Team)
	teamCreated := 0
	for _, teamData := range teams {
		team, created, err := createTeam(db, teamData, userMap)
		if err != nil {
			return fmt.Errorf("failed to create team %s: %w", teamData.Name, err)
		}
		teamMap[teamData.Slug] = team
		if created {
			teamCreated++
		}
	}
	log.Printf("📋 Teams: %d created, %d total", teamCreated, len(teams))

	// Create roster rows
	membershipCreated := 0
	for _, membershipData := range memberships {
		created, err := createMembership(db, membershipData, userMap, teamMap)
		if err != nil {
			log.Printf("⚠️  Warning: failed to create membership %s/%s: %v", membershipData.TeamSlug, membershipData.Email, err)
			continue // Continue with other memberships
		}
		if created {
			membershipCreated++
		}
	}
	log.Printf("📋 Memberships: %d created, %d total", membershipCreated, len(memberships))

	return nil
}

func loadUsers(dataDir string) ([]UserData, error) {
	var allUsers []UserData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "users") {
			var file UsersFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allUsers = append(allUsers, file.Users...)
		}
		return nil
	})

	return allUsers, err
}

func loadTeams(dataDir string) ([]TeamData, error) {
	var allTeams []TeamData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "teams") {
			var file TeamsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allTeams = append(allTeams, file.Teams...)
		}
		return nil
	})

	return allTeams, err
}

func loadMemberships(dataDir string) ([]MembershipData, error) {
	var allMemberships []MembershipData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "memberships") {
			var file MembershipsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allMemberships = append(allMemberships, file.Memberships...)
		}
		return nil
	})

	return allMemberships, err
}

func createUser(db *gorm.DB, userData UserData) (*models.User, bool, error) {
	var user models.User
	if err := db.Where("email = ?", userData.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			user = models.User{
				FullName: userData.FullName,
				Email:    userData.Email,
				IsActive: userData.IsActive,
			}

			if err := db.Create(&user).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create user: %w", err)
			}
			return &user, true, nil // created = true
		} else {
			return nil, false, fmt.Errorf("failed to query user: %w", err)
		}
	}

	return &user, false, nil // created = false (existing)
}

func createTeam(db *gorm.DB, teamData TeamData, userMap map[string]*models.User) (*models.Team, bool, error) {
	var managerID *uuid.UUID
	if teamData.ManagerEmail != "" {
		if manager := userMap[teamData.ManagerEmail]; manager != nil {
			managerID = &manager.ID
		} else {
			log.Printf("⚠️  Warning: manager %s not found for team %s", teamData.ManagerEmail, teamData.Name)
		}
	}

	var team models.Team
	if err := db.Where("slug = ?", teamData.Slug).First(&team).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			team = models.Team{
				Name:        teamData.Name,
				Slug:        teamData.Slug,
				Description: teamData.Description,
				ManagerID:   managerID,
			}

			if err := db.Create(&team).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create team: %w", err)
			}
			return &team, true, nil // created = true
		} else {
			return nil, false, fmt.Errorf("failed to query team: %w", err)
		}
	}

	return &team, false, nil // created = false (existing)
}

func createMembership(db *gorm.DB, membershipData MembershipData, userMap map[string]*models.User, teamMap map[string]*models.Team) (bool, error) {
	user := userMap[membershipData.Email]
	if user == nil {
		return false, fmt.Errorf("user %s not found", membershipData.Email)
	}

	team := teamMap[membershipData.TeamSlug]
	if team == nil {
		return false, fmt.Errorf("team %s not found", membershipData.TeamSlug)
	}

	role := models.MembershipRoleMember
	if membershipData.Role != "" {
		role = models.MembershipRole(membershipData.Role)
	}

	var membership models.TeamMembership
	if err := db.Where("team_id = ? AND user_id = ?", team.ID, user.ID).First(&membership).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			membership = models.TeamMembership{
				TeamID: team.ID,
				UserID: user.ID,
				Role:   role,
			}

			if err := db.Create(&membership).Error; err != nil {
				return false, fmt.Errorf("failed to create membership: %w", err)
			}
			return true, nil // created = true
		}
		return false, fmt.Errorf("failed to query membership: %w", err)
	}

	return false, nil // created = false (existing)
}
