package domain

// ActivityCategory is the running scan total of one activity. The category
// label is fixed by the first scan that creates the row.
type ActivityCategory struct {
	ActivityName     string `gorm:"column:activity_name;primaryKey;size:255" json:"activity_name"`
	ActivityCategory string `gorm:"column:activity_category;not null;index" json:"activity_category"`
	ScanCount        int64  `gorm:"column:scan_count;not null;default:0" json:"scan_count"`
}

func (ActivityCategory) TableName() string {
	return "activity_categories"
}

type ActivityStat struct {
	ActivityName     string `json:"activity_name"`
	ScanCount        int64  `json:"scan_count"`
	ActivityCategory string `json:"activity_category"`
}

type StatsFilter struct {
	MinFrequency *int64
	MaxFrequency *int64
	Category     *string
}
