package models

// ScheduleModel is one weekly lesson slot of a class.
type ScheduleModel struct {
	Base
	ClassName    string      `json:"class_name"    gorm:"size:40;not null;index:idx_schedule_slot"`
	Subject      string      `json:"subject"       gorm:"size:150;not null"`
	TeacherID    *uint       `json:"teacher_id"    gorm:"index"`
	Teacher      *StaffModel `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	DayOfWeek    int         `json:"day_of_week"   gorm:"not null;index:idx_schedule_slot"`
	StartTime    string      `json:"start_time"    gorm:"type:varchar(8);not null"`
	EndTime      string      `json:"end_time"      gorm:"type:varchar(8);not null"`
	AcademicYear string      `json:"academic_year" gorm:"size:9;not null;index:idx_schedule_slot"`
	Semester     int         `json:"semester"      gorm:"not null;index:idx_schedule_slot"`
	Room         string      `json:"room"          gorm:"size:80"`
	IsActive     bool        `json:"is_active"     gorm:"index;not null"`
}

func (ScheduleModel) TableName() string { return "schedules" }

func (ScheduleModel) MorphType() MorphType { return MorphSchedule }

// Day names indexed by DayOfWeek, Monday first.
var dayNames = [...]string{"", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}

// DayName returns the Indonesian name of the schedule's day.
func (s ScheduleModel) DayName() string {
	if s.DayOfWeek < 1 || s.DayOfWeek > 7 {
		return ""
	}
	return dayNames[s.DayOfWeek]
}

// Overlaps reports whether two slots share any instant, touching ends included.
func (s ScheduleModel) Overlaps(o ScheduleModel) bool {
	return s.StartTime <= o.EndTime && s.EndTime >= o.StartTime
}
