package store

import (
	"errors"
	"time"

	"github.com/cesariojr/ecommerce-microservices/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

func New(driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers; a single connection avoids "database is
	// locked" errors under the concurrent conditional updates below.
	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.OAuthClient{},
		&models.AuthorizationCode{},
		&models.RefreshToken{},
	); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// User operations

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

// Client operations

func (s *Store) GetClient(clientID string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.Where("client_id = ?", clientID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (s *Store) CreateClient(client *models.OAuthClient) error {
	return s.db.Create(client).Error
}

// Authorization code operations

func (s *Store) CreateAuthorizationCode(code *models.AuthorizationCode) error {
	return s.db.Create(code).Error
}

func (s *Store) GetAuthorizationCode(code string) (*models.AuthorizationCode, error) {
	var record models.AuthorizationCode
	if err := s.db.Where("code = ?", code).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ConsumeAuthorizationCode marks a code as used with a conditional update.
// The WHERE used = false clause makes consumption atomic: of any number of
// concurrent redemptions, exactly one updates a row and the rest receive
// ErrCodeAlreadyUsed.
func (s *Store) ConsumeAuthorizationCode(code string) error {
	result := s.db.Model(&models.AuthorizationCode{}).
		Where("code = ? AND used = ?", code, false).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCodeAlreadyUsed
	}
	return nil
}

// Refresh token operations

func (s *Store) CreateRefreshToken(token *models.RefreshToken) error {
	return s.db.Create(token).Error
}

func (s *Store) GetRefreshToken(token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	if err := s.db.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// RevokeRefreshToken marks a token as revoked with a conditional update.
// Same atomicity contract as ConsumeAuthorizationCode: one winner per value.
func (s *Store) RevokeRefreshToken(token string) error {
	result := s.db.Model(&models.RefreshToken{}).
		Where("token = ? AND revoked = ?", token, false).
		Update("revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenAlreadyRevoked
	}
	return nil
}

// Maintenance

// DeleteExpiredCredentials removes authorization codes and refresh tokens
// whose expiry has passed. Used and revoked records past expiry go too;
// correctness never depends on this, it only keeps the tables small.
func (s *Store) DeleteExpiredCredentials(now time.Time) (int64, error) {
	var total int64

	result := s.db.Where("expires_at < ?", now).Delete(&models.AuthorizationCode{})
	if result.Error != nil {
		return total, result.Error
	}
	total += result.RowsAffected

	result = s.db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return total, result.Error
	}
	total += result.RowsAffected

	return total, nil
}

// Health reports whether the database connection is usable.
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
