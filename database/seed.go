package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/movewatch/backend/models"
)

// daily window applied to all default levels: 10:00 to 18:00
const (
	defaultWindowStart = 10 * 3600
	defaultWindowEnd   = 18 * 3600
)

// Seed populates an empty database with the default access levels, a
// default room and its cameras. It is a no-op when access levels already
// exist, so it is safe to run on every startup.
func Seed(db *gorm.DB, cameraCount int) error {
	var levelCount int64
	if err := db.Model(&models.AccessLevel{}).Count(&levelCount).Error; err != nil {
		return fmt.Errorf("failed to count access levels: %w", err)
	}
	if levelCount > 0 {
		return nil
	}

	levels := []models.AccessLevel{
		{Name: "Level zero", Description: "Assigned to everyone entering the monitored area", StartSeconds: defaultWindowStart, EndSeconds: defaultWindowEnd},
		{Name: "Level one", Description: "Assigned to junior staff", StartSeconds: defaultWindowStart, EndSeconds: defaultWindowEnd},
		{Name: "Level two", Description: "Assigned to mid-level staff", StartSeconds: defaultWindowStart, EndSeconds: defaultWindowEnd},
		{Name: "Level three", Description: "Assigned to senior staff", StartSeconds: defaultWindowStart, EndSeconds: defaultWindowEnd},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range levels {
			if err := tx.Create(&levels[i]).Error; err != nil {
				return fmt.Errorf("failed to seed access level %q: %w", levels[i].Name, err)
			}
		}

		room := models.Room{Name: "Room 1", Description: "Default monitored room", AccessLevelID: levels[0].ID}
		if err := tx.Create(&room).Error; err != nil {
			return fmt.Errorf("failed to seed default room: %w", err)
		}

		if cameraCount < 1 {
			cameraCount = 1
		}
		for i := 1; i <= cameraCount; i++ {
			camera := models.Camera{Name: fmt.Sprintf("Camera %d", i), Description: "Seeded camera", RoomID: room.ID}
			if err := tx.Create(&camera).Error; err != nil {
				return fmt.Errorf("failed to seed camera %d: %w", i, err)
			}
			log.Printf("Seeded camera %d (source id %s) in room %q", camera.ID, camera.SourceID(), room.Name)
		}

		log.Printf("Seeded %d access levels, 1 room, %d camera(s)", len(levels), cameraCount)
		return nil
	})
}
