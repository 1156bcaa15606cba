package school

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

// All cross-entity references (user_id, class_id, teacher_id, student_id,
// subject_id) are weak: they are stored as-is with no existence check and no
// cascade on delete. See DESIGN.md.

type Student struct {
	ID            string      `json:"id" db:"id"`
	UserID        string      `json:"user_id" db:"user_id"`
	FirstName     string      `json:"first_name" db:"first_name"`
	LastName      string      `json:"last_name" db:"last_name"`
	Age           int         `json:"age" db:"age"`
	Gender        string      `json:"gender" db:"gender"`
	ClassID       null.String `json:"class_id" db:"class_id"`
	ParentContact null.String `json:"parent_contact" db:"parent_contact"`
	Address       null.String `json:"address" db:"address"`
}

type Teacher struct {
	ID                    string `json:"id" db:"id"`
	UserID                string `json:"user_id" db:"user_id"`
	FirstName             string `json:"first_name" db:"first_name"`
	LastName              string `json:"last_name" db:"last_name"`
	SubjectSpecialization string `json:"subject_specialization" db:"subject_specialization"`
	Phone                 string `json:"phone" db:"phone"`
	Email                 string `json:"email" db:"email"`
}

type Class struct {
	ID        string `json:"id" db:"id"`
	ClassName string `json:"class_name" db:"class_name"`
	TeacherID string `json:"teacher_id" db:"teacher_id"`
}

type Subject struct {
	ID          string `json:"id" db:"id"`
	SubjectName string `json:"subject_name" db:"subject_name"`
	TeacherID   string `json:"teacher_id" db:"teacher_id"`
}

type Attendance struct {
	ID        string `json:"id" db:"id"`
	StudentID string `json:"student_id" db:"student_id"`
	Date      string `json:"date" db:"date"` // YYYY-MM-DD
	Status    string `json:"status" db:"status"`
}

type Result struct {
	ID            string    `json:"id" db:"id"`
	StudentID     string    `json:"student_id" db:"student_id"`
	SubjectID     string    `json:"subject_id" db:"subject_id"`
	Score         float64   `json:"score" db:"score"`
	Grade         string    `json:"grade" db:"grade"`
	Term          string    `json:"term" db:"term"`
	DateSubmitted time.Time `json:"date_submitted" db:"date_submitted"` // server-assigned, immutable
}

// Inputs. Updates are full replacements, so create and update share the same
// representation; absent optional fields come through as null, not "unchanged".

type StudentInput struct {
	UserID        string      `json:"user_id" validate:"required"`
	FirstName     string      `json:"first_name" validate:"required"`
	LastName      string      `json:"last_name" validate:"required"`
	Age           int         `json:"age" validate:"required,gt=0"`
	Gender        string      `json:"gender" validate:"required"`
	ClassID       null.String `json:"class_id"`
	ParentContact null.String `json:"parent_contact"`
	Address       null.String `json:"address"`
}

func (in *StudentInput) Validate(validate *validator.Validate) error {
	in.FirstName = core.CleanString(in.FirstName)
	in.LastName = core.CleanString(in.LastName)
	return validate.Struct(in)
}

func (in StudentInput) student(id string) Student {
	return Student{
		ID:            id,
		UserID:        in.UserID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Age:           in.Age,
		Gender:        in.Gender,
		ClassID:       in.ClassID,
		ParentContact: in.ParentContact,
		Address:       in.Address,
	}
}

type TeacherInput struct {
	UserID                string `json:"user_id" validate:"required"`
	FirstName             string `json:"first_name" validate:"required"`
	LastName              string `json:"last_name" validate:"required"`
	SubjectSpecialization string `json:"subject_specialization" validate:"required"`
	Phone                 string `json:"phone" validate:"required"`
	Email                 string `json:"email" validate:"required,email"`
}

func (in *TeacherInput) Validate(validate *validator.Validate) error {
	in.FirstName = core.CleanString(in.FirstName)
	in.LastName = core.CleanString(in.LastName)
	in.Email = core.CleanString(in.Email, true /* lower */)
	return validate.Struct(in)
}

func (in TeacherInput) teacher(id string) Teacher {
	return Teacher{
		ID:                    id,
		UserID:                in.UserID,
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		SubjectSpecialization: in.SubjectSpecialization,
		Phone:                 in.Phone,
		Email:                 in.Email,
	}
}

type ClassInput struct {
	ClassName string `json:"class_name" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"required"`
}

func (in *ClassInput) Validate(validate *validator.Validate) error {
	in.ClassName = core.CleanString(in.ClassName)
	return validate.Struct(in)
}

func (in ClassInput) class(id string) Class {
	return Class{ID: id, ClassName: in.ClassName, TeacherID: in.TeacherID}
}

type SubjectInput struct {
	SubjectName string `json:"subject_name" validate:"required"`
	TeacherID   string `json:"teacher_id" validate:"required"`
}

func (in *SubjectInput) Validate(validate *validator.Validate) error {
	in.SubjectName = core.CleanString(in.SubjectName)
	return validate.Struct(in)
}

func (in SubjectInput) subject(id string) Subject {
	return Subject{ID: id, SubjectName: in.SubjectName, TeacherID: in.TeacherID}
}

type AttendanceInput struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required"`
}

func (in *AttendanceInput) Validate(validate *validator.Validate) error {
	in.Date = core.CleanString(in.Date)
	in.Status = core.CleanString(in.Status, true /* lower */)
	return validate.Struct(in)
}

func (in AttendanceInput) attendance(id string) Attendance {
	return Attendance{ID: id, StudentID: in.StudentID, Date: in.Date, Status: in.Status}
}

// ResultInput never carries date_submitted; the service stamps it at creation
// and updates leave it untouched.
type ResultInput struct {
	StudentID string  `json:"student_id" validate:"required"`
	SubjectID string  `json:"subject_id" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0"`
	Grade     string  `json:"grade" validate:"required"`
	Term      string  `json:"term" validate:"required"`
}

func (in *ResultInput) Validate(validate *validator.Validate) error {
	in.Grade = core.CleanString(in.Grade)
	in.Term = core.CleanString(in.Term)
	return validate.Struct(in)
}

func (in ResultInput) result(id string) Result {
	return Result{
		ID:        id,
		StudentID: in.StudentID,
		SubjectID: in.SubjectID,
		Score:     in.Score,
		Grade:     in.Grade,
		Term:      in.Term,
	}
}
