package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// nextDocumentNumber produces the next sequential document number for an
// organization, in the form PREFIX-YYYY-NNNNN (e.g. INV-2026-00042). The
// sequence restarts each calendar year. A uniqueness check guards against
// concurrent generation racing on the same sequence value.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, tableName, prefix string, orgID uuid.UUID) (string, error) {
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, time.Now().Year())

	var lastNumbers []string
	err := db.WithContext(ctx).
		Table(tableName).
		Where("org_id = ? AND number LIKE ?", orgID, yearPrefix+"%").
		Order("number DESC").
		Limit(1).
		Pluck("number", &lastNumbers).Error
	if err != nil {
		return "", err
	}

	var nextNum int64 = 1
	if len(lastNumbers) > 0 {
		parts := strings.Split(lastNumbers[0], "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	for range 100 {
		number := fmt.Sprintf("%s%05d", yearPrefix, nextNum)
		exists, err := documentNumberExists(ctx, db, tableName, orgID, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
		nextNum++
	}
	return "", fmt.Errorf("could not allocate a unique %s number", prefix)
}

func documentNumberExists(ctx context.Context, db *gorm.DB, tableName string, orgID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Table(tableName).
		Where("org_id = ? AND number = ?", orgID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
