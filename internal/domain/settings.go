package domain

import "time"

type AppSetting struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	Name      string    `gorm:"column:whatfor;type:text;not null;index" db:"whatfor" json:"whatfor"`
	Value     string    `gorm:"type:text;not null" db:"value" json:"value"`
	Global    bool      `gorm:"column:globalsetting;not null;default:false" db:"globalsetting" json:"globalsetting"`
	UserID    *UserID   `gorm:"type:uuid;index" db:"user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"-"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"-"`
}

func (AppSetting) TableName() string { return "app_settings" }

const (
	SettingAllowSelfRegister = "allowselfregister"
	SettingEnabled           = "Yes"
)

// DefaultSettings are seeded once per database.
func DefaultSettings(allowSelfRegister string) []AppSetting {
	return []AppSetting{
		{Name: SettingAllowSelfRegister, Value: allowSelfRegister, Global: true},
		{Name: "global_service_status", Value: "Yes", Global: true},
		{Name: "global_asset_status", Value: "Yes", Global: true},
		{Name: "service_status", Value: "Pending", Global: true},
		{Name: "service_status", Value: "On Hold", Global: true},
		{Name: "service_status", Value: "Completed", Global: true},
		{Name: "asset_status", Value: "Ready", Global: true},
		{Name: "asset_status", Value: "Needs Attention", Global: true},
		{Name: "asset_status", Value: "Removed", Global: true},
	}
}
