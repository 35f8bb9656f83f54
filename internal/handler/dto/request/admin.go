package request

type SetSeatActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type EnergyCommandRequest struct {
	Command string   `json:"command" binding:"required,oneof=lights_on lights_off ac_on ac_off set_temperature"`
	Value   *float64 `json:"value,omitempty"`
}

type GenerateSuggestionsRequest struct {
	Date         *string  `json:"date,omitempty"`
	Hour         *int     `json:"hour,omitempty" binding:"omitempty,min=0,max=23"`
	HistoryDays  int      `json:"history_days,omitempty" binding:"omitempty,min=1"`
	TopN         int      `json:"top_n,omitempty" binding:"omitempty,min=1"`
	RecentWeight *float64 `json:"recent_weight,omitempty" binding:"omitempty,min=0,max=1"`
}
