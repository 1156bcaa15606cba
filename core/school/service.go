package school

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("record not found")

type (
	// Repository is the persistence contract shared by all school entities.
	// Implementations assign surrogate ids on Create; Update and DeleteByID
	// fail with ErrNotFound for unknown ids.
	Repository[E any] interface {
		Create(ctx context.Context, e E) (E, error)
		QueryAll(ctx context.Context) ([]E, error)
		GetByID(ctx context.Context, id string) (E, error)
		Update(ctx context.Context, e E) (E, error)
		DeleteByID(ctx context.Context, id string) error
	}

	// AttendanceRepository adds the per-student listing on top of the common
	// CRUD contract.
	AttendanceRepository interface {
		Repository[Attendance]

		// QueryByStudent returns the empty slice (not an error) when the
		// student has no records or does not exist.
		QueryByStudent(ctx context.Context, studentID string) ([]Attendance, error)
	}

	Service struct {
		students   Repository[Student]
		teachers   Repository[Teacher]
		classes    Repository[Class]
		subjects   Repository[Subject]
		attendance AttendanceRepository
		results    Repository[Result]
	}
)

var nowFunc = time.Now // mockable

func NewService(
	students Repository[Student],
	teachers Repository[Teacher],
	classes Repository[Class],
	subjects Repository[Subject],
	attendance AttendanceRepository,
	results Repository[Result],
) *Service {
	return &Service{
		students:   students,
		teachers:   teachers,
		classes:    classes,
		subjects:   subjects,
		attendance: attendance,
		results:    results,
	}
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, in StudentInput) (Student, error) {
	return svc.students.Create(ctx, in.student(""))
}

func (svc *Service) QueryAllStudents(ctx context.Context) ([]Student, error) {
	return svc.students.QueryAll(ctx)
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.students.GetByID(ctx, id)
}

func (svc *Service) UpdateStudent(ctx context.Context, id string, in StudentInput) (Student, error) {
	return svc.students.Update(ctx, in.student(id))
}

func (svc *Service) DeleteStudent(ctx context.Context, id string) error {
	return svc.students.DeleteByID(ctx, id)
}

// Teachers

func (svc *Service) CreateTeacher(ctx context.Context, in TeacherInput) (Teacher, error) {
	return svc.teachers.Create(ctx, in.teacher(""))
}

func (svc *Service) QueryAllTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.teachers.QueryAll(ctx)
}

func (svc *Service) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	return svc.teachers.GetByID(ctx, id)
}

func (svc *Service) UpdateTeacher(ctx context.Context, id string, in TeacherInput) (Teacher, error) {
	return svc.teachers.Update(ctx, in.teacher(id))
}

func (svc *Service) DeleteTeacher(ctx context.Context, id string) error {
	return svc.teachers.DeleteByID(ctx, id)
}

// Classes

func (svc *Service) CreateClass(ctx context.Context, in ClassInput) (Class, error) {
	return svc.classes.Create(ctx, in.class(""))
}

func (svc *Service) QueryAllClasses(ctx context.Context) ([]Class, error) {
	return svc.classes.QueryAll(ctx)
}

func (svc *Service) GetClass(ctx context.Context, id string) (Class, error) {
	return svc.classes.GetByID(ctx, id)
}

func (svc *Service) UpdateClass(ctx context.Context, id string, in ClassInput) (Class, error) {
	return svc.classes.Update(ctx, in.class(id))
}

func (svc *Service) DeleteClass(ctx context.Context, id string) error {
	return svc.classes.DeleteByID(ctx, id)
}

// Subjects

func (svc *Service) CreateSubject(ctx context.Context, in SubjectInput) (Subject, error) {
	return svc.subjects.Create(ctx, in.subject(""))
}

func (svc *Service) QueryAllSubjects(ctx context.Context) ([]Subject, error) {
	return svc.subjects.QueryAll(ctx)
}

func (svc *Service) GetSubject(ctx context.Context, id string) (Subject, error) {
	return svc.subjects.GetByID(ctx, id)
}

func (svc *Service) UpdateSubject(ctx context.Context, id string, in SubjectInput) (Subject, error) {
	return svc.subjects.Update(ctx, in.subject(id))
}

func (svc *Service) DeleteSubject(ctx context.Context, id string) error {
	return svc.subjects.DeleteByID(ctx, id)
}

// Attendance

func (svc *Service) CreateAttendance(ctx context.Context, in AttendanceInput) (Attendance, error) {
	return svc.attendance.Create(ctx, in.attendance(""))
}

func (svc *Service) QueryAllAttendance(ctx context.Context) ([]Attendance, error) {
	return svc.attendance.QueryAll(ctx)
}

func (svc *Service) QueryAttendanceByStudent(ctx context.Context, studentID string) ([]Attendance, error) {
	return svc.attendance.QueryByStudent(ctx, studentID)
}

func (svc *Service) GetAttendance(ctx context.Context, id string) (Attendance, error) {
	return svc.attendance.GetByID(ctx, id)
}

func (svc *Service) UpdateAttendance(ctx context.Context, id string, in AttendanceInput) (Attendance, error) {
	return svc.attendance.Update(ctx, in.attendance(id))
}

func (svc *Service) DeleteAttendance(ctx context.Context, id string) error {
	return svc.attendance.DeleteByID(ctx, id)
}

// Results

func (svc *Service) CreateResult(ctx context.Context, in ResultInput) (Result, error) {
	res := in.result("")
	res.DateSubmitted = nowFunc().UTC()
	return svc.results.Create(ctx, res)
}

func (svc *Service) QueryAllResults(ctx context.Context) ([]Result, error) {
	return svc.results.QueryAll(ctx)
}

func (svc *Service) GetResult(ctx context.Context, id string) (Result, error) {
	return svc.results.GetByID(ctx, id)
}

// UpdateResult replaces all client-mutable fields; date_submitted keeps its
// creation-time value.
func (svc *Service) UpdateResult(ctx context.Context, id string, in ResultInput) (Result, error) {
	orig, err := svc.results.GetByID(ctx, id)
	if err != nil {
		return Result{}, err
	}
	res := in.result(id)
	res.DateSubmitted = orig.DateSubmitted
	return svc.results.Update(ctx, res)
}

func (svc *Service) DeleteResult(ctx context.Context, id string) error {
	return svc.results.DeleteByID(ctx, id)
}
