package models

import "gorm.io/gorm"

// Migrate brings the schema up to date with the models in this package
func Migrate(db *gorm.DB) error {

	// Use the explicit join model so participant rows carry a creation date
	// and a composite primary key
	if err := db.SetupJoinTable(&Room{}, "Participants", &RoomParticipant{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&User{},
		&Topic{},
		&Room{},
		&RoomParticipant{},
		&Message{},
	)

}
