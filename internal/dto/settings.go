package dto

type AppSettingRequest struct {
	ID     uint   `json:"id,omitempty"`
	Name   string `json:"whatfor"`
	Value  string `json:"value"`
	Global bool   `json:"globalsetting"`
}

type AppSettingResponse struct {
	ID     uint    `json:"id"`
	Name   string  `json:"whatfor"`
	Value  string  `json:"value"`
	Global bool    `json:"globalsetting"`
	UserID *string `json:"user_id"`
}

type AppSettingsResponse struct {
	Settings []AppSettingResponse `json:"settings"`
}
