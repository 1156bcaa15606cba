package inmemdb

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/shulehq/shule/core/school"
)

// crudRepository is a map-backed stand-in for the sqlx repositories, used in
// tests.
type crudRepository[E any] struct {
	mu    sync.RWMutex
	rows  map[string]E
	getID func(E) string
	setID func(*E, string)
}

func newCrudRepository[E any](getID func(E) string, setID func(*E, string)) *crudRepository[E] {
	return &crudRepository[E]{
		rows:  make(map[string]E),
		getID: getID,
		setID: setID,
	}
}

func (repo *crudRepository[E]) Create(_ context.Context, e E) (E, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.setID(&e, uuid.New().String())
	repo.rows[repo.getID(e)] = e
	return e, nil
}

func (repo *crudRepository[E]) QueryAll(_ context.Context) ([]E, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.query(), nil
}

func (repo *crudRepository[E]) GetByID(_ context.Context, id string) (E, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if e, ok := repo.rows[id]; ok {
		return e, nil
	}
	var zero E
	return zero, school.ErrNotFound
}

func (repo *crudRepository[E]) Update(_ context.Context, e E) (E, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	id := repo.getID(e)
	if _, ok := repo.rows[id]; !ok {
		var zero E
		return zero, school.ErrNotFound
	}
	repo.rows[id] = e
	return e, nil
}

func (repo *crudRepository[E]) DeleteByID(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.rows[id]; !ok {
		return school.ErrNotFound
	}
	delete(repo.rows, id)
	return nil
}

func (repo *crudRepository[E]) query() []E {
	out := make([]E, 0, len(repo.rows))
	for _, e := range repo.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return repo.getID(out[i]) < repo.getID(out[j]) })
	return out
}

func NewStudentRepository() school.Repository[school.Student] {
	return newCrudRepository(
		func(s school.Student) string { return s.ID },
		func(s *school.Student, id string) { s.ID = id },
	)
}

func NewTeacherRepository() school.Repository[school.Teacher] {
	return newCrudRepository(
		func(t school.Teacher) string { return t.ID },
		func(t *school.Teacher, id string) { t.ID = id },
	)
}

func NewClassRepository() school.Repository[school.Class] {
	return newCrudRepository(
		func(c school.Class) string { return c.ID },
		func(c *school.Class, id string) { c.ID = id },
	)
}

func NewSubjectRepository() school.Repository[school.Subject] {
	return newCrudRepository(
		func(s school.Subject) string { return s.ID },
		func(s *school.Subject, id string) { s.ID = id },
	)
}

func NewResultRepository() school.Repository[school.Result] {
	return newCrudRepository(
		func(r school.Result) string { return r.ID },
		func(r *school.Result, id string) { r.ID = id },
	)
}

type attendanceRepository struct {
	*crudRepository[school.Attendance]
}

var _ school.AttendanceRepository = (*attendanceRepository)(nil)

func NewAttendanceRepository() school.AttendanceRepository {
	return &attendanceRepository{
		crudRepository: newCrudRepository(
			func(a school.Attendance) string { return a.ID },
			func(a *school.Attendance, id string) { a.ID = id },
		),
	}
}

func (repo *attendanceRepository) QueryByStudent(_ context.Context, studentID string) ([]school.Attendance, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]school.Attendance, 0)
	for _, a := range repo.query() {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}
