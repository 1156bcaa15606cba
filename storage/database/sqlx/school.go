package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/shulehq/shule/core/school"
)

func NewStudentRepository(db *sql.DB) school.Repository[school.Student] {
	return newCrudRepository(sqlx.NewDb(db, "postgres"), entityMeta[school.Student]{
		table:    "student",
		columns:  []string{"user_id", "first_name", "last_name", "age", "gender", "class_id", "parent_contact", "address"},
		setID:    func(s *school.Student, id string) { s.ID = id },
		notFound: school.ErrNotFound,
	})
}

func NewTeacherRepository(db *sql.DB) school.Repository[school.Teacher] {
	return newCrudRepository(sqlx.NewDb(db, "postgres"), entityMeta[school.Teacher]{
		table:    "teacher",
		columns:  []string{"user_id", "first_name", "last_name", "subject_specialization", "phone", "email"},
		setID:    func(t *school.Teacher, id string) { t.ID = id },
		notFound: school.ErrNotFound,
	})
}

func NewClassRepository(db *sql.DB) school.Repository[school.Class] {
	return newCrudRepository(sqlx.NewDb(db, "postgres"), entityMeta[school.Class]{
		table:    "class",
		columns:  []string{"class_name", "teacher_id"},
		setID:    func(c *school.Class, id string) { c.ID = id },
		notFound: school.ErrNotFound,
	})
}

func NewSubjectRepository(db *sql.DB) school.Repository[school.Subject] {
	return newCrudRepository(sqlx.NewDb(db, "postgres"), entityMeta[school.Subject]{
		table:    "subject",
		columns:  []string{"subject_name", "teacher_id"},
		setID:    func(s *school.Subject, id string) { s.ID = id },
		notFound: school.ErrNotFound,
	})
}

func NewResultRepository(db *sql.DB) school.Repository[school.Result] {
	return newCrudRepository(sqlx.NewDb(db, "postgres"), entityMeta[school.Result]{
		table:    "result",
		columns:  []string{"student_id", "subject_id", "score", "grade", "term", "date_submitted"},
		setID:    func(r *school.Result, id string) { r.ID = id },
		notFound: school.ErrNotFound,
	})
}

type attendanceRepository struct {
	*crudRepository[school.Attendance]
}

var _ school.AttendanceRepository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sql.DB) school.AttendanceRepository {
	return &attendanceRepository{
		crudRepository: newCrudRepository(sqlx.NewDb(db, "postgres"), entityMeta[school.Attendance]{
			table:    "attendance",
			columns:  []string{"student_id", "date", "status"},
			setID:    func(a *school.Attendance, id string) { a.ID = id },
			notFound: school.ErrNotFound,
		}),
	}
}

func (repo *attendanceRepository) QueryByStudent(ctx context.Context, studentID string) ([]school.Attendance, error) {
	out := make([]school.Attendance, 0)
	q := "SELECT id, student_id, date, status FROM attendance WHERE student_id = $1 ORDER BY id"
	if err := repo.db.SelectContext(ctx, &out, q, studentID); err != nil {
		return nil, trapErr(err, school.ErrNotFound, "querying attendance by student")
	}
	return out, nil
}
