package availability

type SlotsQuery struct {
	Date     string `form:"date" binding:"required"`
	Duration int    `form:"duration" binding:"required,gt=0"`
}

type AvailableStaffQuery struct {
	At       string `form:"at" binding:"required"`
	Duration int    `form:"duration" binding:"required,gt=0"`
}
