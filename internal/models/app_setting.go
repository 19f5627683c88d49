package models

const SettingInitialized = "initialized"

type AppSetting struct {
	Key   string  `gorm:"column:key;primaryKey" json:"key"`
	Value *string `gorm:"column:value" json:"value"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
