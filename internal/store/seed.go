package store

import (
	"log"

	"github.com/cesariojr/ecommerce-microservices/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	Email    string
	Password string
	Role     string
	Name     string
}

var demoUsers = []seedUser{
	{Email: "admin@ecommerce.com", Password: "admin123", Role: models.RoleAdmin, Name: "System Administrator"},
	{Email: "viewer@ecommerce.com", Password: "viewer123", Role: models.RoleViewer, Name: "Sales Analyst"},
	{Email: "customer@ecommerce.com", Password: "customer123", Role: models.RoleCustomer, Name: "John Customer"},
}

var demoClient = models.OAuthClient{
	ClientID:     "ecommerce-frontend",
	ClientSecret: "frontend-secret-key",
	Name:         "E-commerce Frontend",
	RedirectURIs: "http://localhost:3000/callback",
	Scopes:       "read write admin",
}

// SeedDemoData inserts the demo users and OAuth client if the tables are
// empty. Idempotent: a populated database is left untouched.
func (s *Store) SeedDemoData() error {
	var userCount int64
	s.db.Model(&models.User{}).Count(&userCount)
	if userCount == 0 {
		for _, u := range demoUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user := &models.User{
				Email:        u.Email,
				PasswordHash: string(hash),
				Role:         u.Role,
				Name:         u.Name,
			}
			if err := s.db.Create(user).Error; err != nil {
				return err
			}
		}
		log.Printf("Seeded %d demo users", len(demoUsers))
	}

	var clientCount int64
	s.db.Model(&models.OAuthClient{}).Count(&clientCount)
	if clientCount == 0 {
		client := demoClient
		if err := s.db.Create(&client).Error; err != nil {
			return err
		}
		log.Printf("Seeded demo OAuth client: %s (%s)", client.ClientID, client.Name)
	}

	return nil
}
