package permission

import "time"

// Permission associates a role with an operation.
type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	RoleID      int64     `gorm:"column:role_id;not null;index"`
	OperationID int64     `gorm:"column:operation_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}
