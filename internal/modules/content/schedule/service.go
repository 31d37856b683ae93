// Package schedule manages weekly class timetables and rejects slots that
// collide with an existing lesson of the same class.
package schedule

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/sekolah-web/core/internal/models"
	"github.com/sekolah-web/core/internal/modules/content"
	"github.com/sekolah-web/core/internal/pkg/apperr"
	"github.com/sekolah-web/core/internal/pkg/softdelete"
	"github.com/sekolah-web/core/internal/pkg/validate"
)

type CreateScheduleDTO struct {
	ClassName    string `json:"class_name"    validate:"required,max=40"`
	Subject      string `json:"subject"       validate:"required,max=150"`
	TeacherID    *uint  `json:"teacher_id"`
	DayOfWeek    int    `json:"day_of_week"   validate:"required,min=1,max=7"`
	StartTime    string `json:"start_time"    validate:"required,clock"`
	EndTime      string `json:"end_time"      validate:"required,clock"`
	AcademicYear string `json:"academic_year" validate:"required,academic_year"`
	Semester     int    `json:"semester"      validate:"required,min=1,max=2"`
	Room         string `json:"room"          validate:"max=80"`
	IsActive     *bool  `json:"is_active"`
}

type UpdateScheduleDTO struct {
	ClassName    *string `json:"class_name"    validate:"omitempty,min=1,max=40"`
	Subject      *string `json:"subject"       validate:"omitempty,min=1,max=150"`
	TeacherID    *uint   `json:"teacher_id"`
	ClearTeacher bool    `json:"clear_teacher"`
	DayOfWeek    *int    `json:"day_of_week"   validate:"omitempty,min=1,max=7"`
	StartTime    *string `json:"start_time"    validate:"omitempty,clock"`
	EndTime      *string `json:"end_time"      validate:"omitempty,clock"`
	AcademicYear *string `json:"academic_year" validate:"omitempty,academic_year"`
	Semester     *int    `json:"semester"      validate:"omitempty,min=1,max=2"`
	Room         *string `json:"room"          validate:"omitempty,max=80"`
	IsActive     *bool   `json:"is_active"`
}

// ClassQuery selects the timetable of one class in one term.
type ClassQuery struct {
	ClassName    string
	AcademicYear string
	Semester     int
	Mode         softdelete.Mode
}

type Service struct {
	softdelete.Ledger[models.ScheduleModel]

	deps content.Deps
}

func NewService(deps content.Deps) *Service {
	return &Service{
		Ledger: softdelete.NewLedger[models.ScheduleModel](deps.DB, string(models.MorphSchedule)),
		deps:   deps,
	}
}

// FindConflicts returns the active schedules of the same class, day and term
// whose time range touches or overlaps candidate. excludeID skips the row
// being edited.
func (s *Service) FindConflicts(ctx context.Context, candidate models.ScheduleModel, excludeID uint) ([]models.ScheduleModel, error) {
	q := s.deps.DB.WithContext(ctx).
		Where("class_name = ? AND day_of_week = ? AND academic_year = ? AND semester = ?",
			candidate.ClassName, candidate.DayOfWeek, candidate.AcademicYear, candidate.Semester).
		Where("is_active = ?", true).
		Where("start_time <= ? AND end_time >= ?", candidate.EndTime, candidate.StartTime)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var out []models.ScheduleModel
	if err := q.Order("start_time ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find schedule conflicts: %w", err)
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateScheduleDTO) (*models.ScheduleModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	sc := &models.ScheduleModel{
		ClassName:    strings.TrimSpace(dto.ClassName),
		Subject:      strings.TrimSpace(dto.Subject),
		TeacherID:    dto.TeacherID,
		DayOfWeek:    dto.DayOfWeek,
		StartTime:    clock(dto.StartTime),
		EndTime:      clock(dto.EndTime),
		AcademicYear: dto.AcademicYear,
		Semester:     dto.Semester,
		Room:         strings.TrimSpace(dto.Room),
		IsActive:     dto.IsActive == nil || *dto.IsActive,
	}
	if err := s.check(ctx, sc); err != nil {
		return nil, err
	}
	if err := s.deps.DB.WithContext(ctx).Create(sc).Error; err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	s.deps.Activity.Created(ctx, sc, fmt.Sprintf("Menambahkan jadwal %s %s kelas %s",
		sc.Subject, sc.DayName(), sc.ClassName))
	return sc, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateScheduleDTO) (*models.ScheduleModel, error) {
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	sc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *sc
	if dto.ClassName != nil {
		sc.ClassName = strings.TrimSpace(*dto.ClassName)
	}
	if dto.Subject != nil {
		sc.Subject = strings.TrimSpace(*dto.Subject)
	}
	if dto.TeacherID != nil {
		sc.TeacherID = dto.TeacherID
	}
	if dto.ClearTeacher {
		sc.TeacherID = nil
	}
	if dto.DayOfWeek != nil {
		sc.DayOfWeek = *dto.DayOfWeek
	}
	if dto.StartTime != nil {
		sc.StartTime = clock(*dto.StartTime)
	}
	if dto.EndTime != nil {
		sc.EndTime = clock(*dto.EndTime)
	}
	if dto.AcademicYear != nil {
		sc.AcademicYear = *dto.AcademicYear
	}
	if dto.Semester != nil {
		sc.Semester = *dto.Semester
	}
	if dto.Room != nil {
		sc.Room = strings.TrimSpace(*dto.Room)
	}
	if dto.IsActive != nil {
		sc.IsActive = *dto.IsActive
	}
	if err := s.check(ctx, sc); err != nil {
		return nil, err
	}

	res := s.deps.DB.WithContext(ctx).Model(sc).
		Select("*").
		Omit("id", "uuid", "created_at", "deleted_at", clause.Associations).
		Updates(sc)
	if res.Error != nil {
		return nil, fmt.Errorf("update schedule %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound(string(models.MorphSchedule), id)
	}
	s.deps.Activity.Updated(ctx, sc, before, *sc, fmt.Sprintf("Mengubah jadwal %s %s kelas %s",
		sc.Subject, sc.DayName(), sc.ClassName))
	return s.Get(ctx, id)
}

// Get loads a live schedule with its teacher.
func (s *Service) Get(ctx context.Context, id uint) (*models.ScheduleModel, error) {
	var sc models.ScheduleModel
	if err := s.deps.DB.WithContext(ctx).Preload("Teacher").First(&sc, id).Error; err != nil {
		return nil, apperr.FromDB(string(models.MorphSchedule), id, err)
	}
	return &sc, nil
}

// Load satisfies morph.Loader.
func (s *Service) Load(ctx context.Context, id uint) (models.Subject, error) {
	var sc models.ScheduleModel
	if err := s.deps.DB.WithContext(ctx).Unscoped().First(&sc, id).Error; err != nil {
		return nil, apperr.FromDB(string(models.MorphSchedule), id, err)
	}
	return &sc, nil
}

// ListForClass returns the timetable of a class ordered by day and start time.
func (s *Service) ListForClass(ctx context.Context, q ClassQuery) ([]models.ScheduleModel, error) {
	tx := softdelete.Apply(s.deps.DB.WithContext(ctx).Model(&models.ScheduleModel{}), q.Mode).
		Preload("Teacher").
		Where("class_name = ?", q.ClassName)
	if q.AcademicYear != "" {
		tx = tx.Where("academic_year = ?", q.AcademicYear)
	}
	if q.Semester > 0 {
		tx = tx.Where("semester = ?", q.Semester)
	}
	var out []models.ScheduleModel
	if err := tx.Order("day_of_week ASC, start_time ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list schedule of %s: %w", q.ClassName, err)
	}
	return out, nil
}

// ListForTeacher returns the active lessons of one staff member.
func (s *Service) ListForTeacher(ctx context.Context, teacherID uint) ([]models.ScheduleModel, error) {
	var out []models.ScheduleModel
	err := s.deps.DB.WithContext(ctx).
		Where("teacher_id = ? AND is_active = ?", teacherID, true).
		Order("day_of_week ASC, start_time ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list schedule of teacher %d: %w", teacherID, err)
	}
	return out, nil
}

// Classes lists the distinct class names with a live schedule.
func (s *Service) Classes(ctx context.Context) ([]string, error) {
	var out []string
	err := s.deps.DB.WithContext(ctx).Model(&models.ScheduleModel{}).
		Distinct("class_name").Order("class_name ASC").Pluck("class_name", &out).Error
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	sc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Ledger.Delete(ctx, id); err != nil {
		return err
	}
	s.deps.Activity.Deleted(ctx, sc, fmt.Sprintf("Menghapus jadwal %s %s kelas %s",
		sc.Subject, sc.DayName(), sc.ClassName))
	return nil
}

// Restore brings a trashed schedule back unless its slot has been taken meanwhile.
func (s *Service) Restore(ctx context.Context, id uint) error {
	var sc models.ScheduleModel
	if err := s.deps.DB.WithContext(ctx).Unscoped().First(&sc, id).Error; err != nil {
		return apperr.FromDB(string(models.MorphSchedule), id, err)
	}
	if sc.IsActive && sc.Trashed() {
		conflicts, err := s.FindConflicts(ctx, sc, sc.ID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &apperr.ConflictError{Conflicts: conflicts}
		}
	}
	if err := s.Ledger.Restore(ctx, id); err != nil {
		return err
	}
	s.deps.Activity.Restored(ctx, &sc, fmt.Sprintf("Memulihkan jadwal %s %s kelas %s",
		sc.Subject, sc.DayName(), sc.ClassName))
	return nil
}

func (s *Service) ForceDelete(ctx context.Context, id uint) error {
	var sc models.ScheduleModel
	if err := s.deps.DB.WithContext(ctx).Unscoped().First(&sc, id).Error; err != nil {
		return apperr.FromDB(string(models.MorphSchedule), id, err)
	}
	if err := s.Ledger.ForceDelete(ctx, id); err != nil {
		return err
	}
	content.Record(ctx, s.deps.Activity, models.ActionDelete, &sc,
		fmt.Sprintf("Menghapus permanen jadwal %s kelas %s", sc.Subject, sc.ClassName))
	return nil
}

// check validates the time range and teacher, then looks for collisions.
func (s *Service) check(ctx context.Context, sc *models.ScheduleModel) error {
	if sc.StartTime >= sc.EndTime {
		return apperr.Invalid("end_time", "must be after start_time")
	}
	if sc.TeacherID != nil {
		var n int64
		err := s.deps.DB.WithContext(ctx).Model(&models.StaffModel{}).
			Where("id = ?", *sc.TeacherID).Count(&n).Error
		if err != nil {
			return fmt.Errorf("check teacher %d: %w", *sc.TeacherID, err)
		}
		if n == 0 {
			return apperr.Invalid("teacher_id", "staff %d does not exist", *sc.TeacherID)
		}
	}
	if !sc.IsActive {
		return nil
	}
	conflicts, err := s.FindConflicts(ctx, *sc, sc.ID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &apperr.ConflictError{Conflicts: conflicts}
	}
	return nil
}

// clock trims seconds so stored times compare as HH:MM strings.
func clock(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 5 {
		return v[:5]
	}
	return v
}
