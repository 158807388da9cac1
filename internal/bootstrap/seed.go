package bootstrap

import (
	"log"

	"github.com/gracepointe/engage/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RewardEvent{},
		&model.DailyQuiz{},
		&model.DailyVerse{},
		&model.Event{},
		&model.Submission{},
		&model.Attendance{},
	)
}

// SeedAdminUser creates the standing admin account when none exists. This is
// a normal database row, distinct from the emergency credential bypass.
func SeedAdminUser(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Name:         "Super Admin",
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
		Role:         model.RoleAdmin,
		ReferralCode: "ADMIN1",
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Printf("Admin user seeded: %s", email)
	return nil
}
