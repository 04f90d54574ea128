package dto

// HeatmapQuery selects a class and month.
type HeatmapQuery struct {
	ClassName string `form:"kelas" validate:"required"`
	Month     int    `form:"month" validate:"required,min=1,max=12"`
	Year      int    `form:"year" validate:"required,min=2000,max=2100"`
}

// DailyDetailQuery selects a class and date.
type DailyDetailQuery struct {
	ClassName string `form:"kelas" validate:"required"`
	Date      string `form:"date" validate:"required,datetime=2006-01-02"`
}

// PreviewQuery selects a date range of the caller's homeroom class.
type PreviewQuery struct {
	StartDate string `form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" validate:"required,datetime=2006-01-02"`
	Format    string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
