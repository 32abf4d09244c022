package catalog

type DayHoursRequest struct {
	Open  string `json:"open" binding:"required"`
	Close string `json:"close" binding:"required"`
}

type CreateBranchRequest struct {
	Name                   string                     `json:"name" binding:"required"`
	Address                string                     `json:"address"`
	Phone                  string                     `json:"phone"`
	Email                  string                     `json:"email" binding:"omitempty,email"`
	Currency               string                     `json:"currency" binding:"required,len=3"`
	MinNoticeMinutes       int                        `json:"min_notice_minutes" binding:"omitempty,gte=0"`
	SlotGranularityMinutes int                        `json:"slot_granularity_minutes" binding:"omitempty,gte=0"`
	Timezone               string                     `json:"timezone" binding:"omitempty,timezone"`
	Hours                  map[string]DayHoursRequest `json:"hours" binding:"required"`
}

type CreateServiceRequest struct {
	Name            string `json:"name" binding:"required"`
	Category        string `json:"category" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0"`
	BufferMinutes   int    `json:"buffer_minutes" binding:"omitempty,gte=0"`
	Price           string `json:"price" binding:"required"`
	DepositAmount   string `json:"deposit_amount"`
}

type CreateStaffRequest struct {
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"omitempty,email"`
	Phone          string   `json:"phone"`
	Role           string   `json:"role" binding:"required,oneof=admin manager stylist assistant"`
	Specialties    []string `json:"specialties"`
	CommissionRate string   `json:"commission_rate"`
}

type CreateShiftRequest struct {
	DayOfWeek int    `json:"day_of_week" binding:"gte=0,lte=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}
