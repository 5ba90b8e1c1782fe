package models

import "time"

// ManualUnlock is a staff-granted override: the row's presence makes the
// module accessible to the member regardless of any computed timing. Revoking
// deletes the row outright so a later re-unlock can recreate it.
type ManualUnlock struct {
	ID         uint `gorm:"primarykey"`
	UserID     uint `gorm:"uniqueIndex:idx_user_module;not null"`
	ModuleID   uint `gorm:"uniqueIndex:idx_user_module;not null"`
	UnlockedAt time.Time
	UnlockedBy uint // staff user id
	Notes      string
	CreatedAt  time.Time
}

func (ManualUnlock) TableName() string {
	return "user_module_unlocks"
}
