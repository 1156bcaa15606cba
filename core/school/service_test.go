package school

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
)

// fakeRepo is a minimal in-memory Repository for exercising the service.
type fakeRepo[E any] struct {
	rows  map[string]E
	getID func(E) string
	setID func(*E, string)
	seq   int
}

func newFakeRepo[E any](getID func(E) string, setID func(*E, string)) *fakeRepo[E] {
	return &fakeRepo[E]{rows: make(map[string]E), getID: getID, setID: setID}
}

func (r *fakeRepo[E]) Create(_ context.Context, e E) (E, error) {
	r.seq++
	r.setID(&e, strconv.Itoa(r.seq))
	r.rows[r.getID(e)] = e
	return e, nil
}

func (r *fakeRepo[E]) QueryAll(_ context.Context) ([]E, error) {
	out := make([]E, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeRepo[E]) GetByID(_ context.Context, id string) (E, error) {
	if e, ok := r.rows[id]; ok {
		return e, nil
	}
	var zero E
	return zero, ErrNotFound
}

func (r *fakeRepo[E]) Update(_ context.Context, e E) (E, error) {
	id := r.getID(e)
	if _, ok := r.rows[id]; !ok {
		var zero E
		return zero, ErrNotFound
	}
	r.rows[id] = e
	return e, nil
}

func (r *fakeRepo[E]) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type fakeAttendanceRepo struct {
	*fakeRepo[Attendance]
}

func (r *fakeAttendanceRepo) QueryByStudent(_ context.Context, studentID string) ([]Attendance, error) {
	out := make([]Attendance, 0)
	for _, att := range r.rows {
		if att.StudentID == studentID {
			out = append(out, att)
		}
	}
	return out, nil
}

func newTestService() *Service {
	return NewService(
		newFakeRepo(func(s Student) string { return s.ID }, func(s *Student, id string) { s.ID = id }),
		newFakeRepo(func(t Teacher) string { return t.ID }, func(t *Teacher, id string) { t.ID = id }),
		newFakeRepo(func(c Class) string { return c.ID }, func(c *Class, id string) { c.ID = id }),
		newFakeRepo(func(s Subject) string { return s.ID }, func(s *Subject, id string) { s.ID = id }),
		&fakeAttendanceRepo{newFakeRepo(
			func(a Attendance) string { return a.ID }, func(a *Attendance, id string) { a.ID = id },
		)},
		newFakeRepo(func(r Result) string { return r.ID }, func(r *Result, id string) { r.ID = id }),
	)
}

func Test_Service_CreateResult(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	stamp := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	origNow := nowFunc
	nowFunc = func() time.Time { return stamp }
	defer func() { nowFunc = origNow }()

	res, err := svc.CreateResult(ctx, ResultInput{
		StudentID: "1",
		SubjectID: "2",
		Score:     87.5,
		Grade:     "A",
		Term:      "Term 1",
	})
	if err != nil {
		t.Fatalf("CreateResult() failed: %v", err)
	}
	if !res.DateSubmitted.Equal(stamp) {
		t.Errorf("DateSubmitted = %v; want %v", res.DateSubmitted, stamp)
	}
}

func Test_Service_UpdateResult(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	stamp := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	origNow := nowFunc
	nowFunc = func() time.Time { return stamp }
	defer func() { nowFunc = origNow }()

	res, err := svc.CreateResult(ctx, ResultInput{
		StudentID: "1",
		SubjectID: "2",
		Score:     61,
		Grade:     "C",
		Term:      "Term 1",
	})
	if err != nil {
		t.Fatalf("CreateResult() failed: %v", err)
	}

	// moving the clock must not move date_submitted
	nowFunc = func() time.Time { return stamp.Add(48 * time.Hour) }

	updated, err := svc.UpdateResult(ctx, res.ID, ResultInput{
		StudentID: "1",
		SubjectID: "2",
		Score:     74,
		Grade:     "B",
		Term:      "Term 1",
	})
	if err != nil {
		t.Fatalf("UpdateResult() failed: %v", err)
	}
	if updated.Score != 74 || updated.Grade != "B" {
		t.Errorf("UpdateResult() = %+v", updated)
	}
	if !updated.DateSubmitted.Equal(res.DateSubmitted) {
		t.Errorf("DateSubmitted changed on update: %v -> %v", res.DateSubmitted, updated.DateSubmitted)
	}

	if _, err = svc.UpdateResult(ctx, "nope", ResultInput{
		StudentID: "1", SubjectID: "2", Grade: "B", Term: "Term 1",
	}); err != ErrNotFound {
		t.Errorf("UpdateResult() error = %v; want ErrNotFound", err)
	}
}

func Test_Service_UpdateStudent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	std, err := svc.CreateStudent(ctx, StudentInput{
		UserID:        "42",
		FirstName:     "Amani",
		LastName:      "Kazadi",
		Age:           12,
		Gender:        "F",
		ClassID:       null.StringFrom("7"),
		ParentContact: null.StringFrom("+243 999 000 111"),
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	// updates are full replacements: omitted optional fields become null
	updated, err := svc.UpdateStudent(ctx, std.ID, StudentInput{
		UserID:    "42",
		FirstName: "Amani",
		LastName:  "Kazadi",
		Age:       13,
		Gender:    "F",
	})
	if err != nil {
		t.Fatalf("UpdateStudent() failed: %v", err)
	}
	if updated.Age != 13 {
		t.Errorf("Age = %d; want 13", updated.Age)
	}
	if updated.ClassID.Valid || updated.ParentContact.Valid {
		t.Errorf("optional fields survived a full replacement: %+v", updated)
	}
}

func Test_Service_DeleteStudent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	std, err := svc.CreateStudent(ctx, StudentInput{
		UserID: "42", FirstName: "Amani", LastName: "Kazadi", Age: 12, Gender: "F",
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	if err = svc.DeleteStudent(ctx, std.ID); err != nil {
		t.Fatalf("DeleteStudent() failed: %v", err)
	}
	if err = svc.DeleteStudent(ctx, std.ID); err != ErrNotFound {
		t.Errorf("DeleteStudent() error = %v; want ErrNotFound", err)
	}
	if _, err = svc.GetStudent(ctx, std.ID); err != ErrNotFound {
		t.Errorf("GetStudent() after delete error = %v; want ErrNotFound", err)
	}
}

func Test_Service_QueryAttendanceByStudent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateAttendance(ctx, AttendanceInput{
		StudentID: "1", Date: "2021-03-01", Status: "present",
	}); err != nil {
		t.Fatalf("CreateAttendance() failed: %v", err)
	}
	if _, err := svc.CreateAttendance(ctx, AttendanceInput{
		StudentID: "2", Date: "2021-03-01", Status: "absent",
	}); err != nil {
		t.Fatalf("CreateAttendance() failed: %v", err)
	}

	recs, err := svc.QueryAttendanceByStudent(ctx, "1")
	if err != nil {
		t.Fatalf("QueryAttendanceByStudent() failed: %v", err)
	}
	if len(recs) != 1 || recs[0].StudentID != "1" {
		t.Errorf("QueryAttendanceByStudent() = %+v", recs)
	}

	// unknown student: empty list, not an error
	recs, err = svc.QueryAttendanceByStudent(ctx, "ghost")
	if err != nil {
		t.Fatalf("QueryAttendanceByStudent() failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("QueryAttendanceByStudent() = %+v; want empty", recs)
	}
}
