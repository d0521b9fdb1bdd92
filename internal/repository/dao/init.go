package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Company{},
		&Invite{},
		&Request{},
		&Quiz{},
		&Question{},
		&AnswerVariant{},
		&Result{},
	)
}
