package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shulehq/shule/core/school"
)

func Test_schoolApi_studentsCRUD(t *testing.T) {
	server := setup(t)

	body := marshalObj(t, map[string]interface{}{
		"user_id":        "42",
		"first_name":     "Amani",
		"last_name":      "Kazadi",
		"age":            12,
		"gender":         "F",
		"class_id":       "7", // weak reference: no class with this id exists
		"parent_contact": "+243 999 000 111",
		"address":        "12 Av. Kasavubu",
	})

	t.Run("create", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusCreated,
			wantData: marshalObj(t, MessageResponse{Message: "Student added successfully!"}),
		}
		req, rec := newRequest(http.MethodPost, "/api/students", body)
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("create missing required field", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/students", marshalObj(t, map[string]interface{}{
			"user_id": "42", "first_name": "Amani", "age": 12, "gender": "F",
		}))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d; want 400 (body %s)", rec.Code, rec.Body.String())
		}
	})

	var std school.Student
	t.Run("query all", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/students")
		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; want 200 (body %s)", rec.Code, rec.Body.String())
		}
		var stds []school.Student
		if err := json.Unmarshal(rec.Body.Bytes(), &stds); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(stds) != 1 {
			t.Fatalf("got %d students; want 1", len(stds))
		}
		std = stds[0]
		if std.ClassID.String != "7" {
			t.Errorf("class_id = %q; weak references are stored as-is", std.ClassID.String)
		}
	})

	t.Run("update is a full replacement", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marshalObj(t, MessageResponse{Message: "Student updated successfully!"}),
		}
		// optional fields omitted on purpose
		req, rec := newRequest(http.MethodPut, "/api/students/"+std.ID, marshalObj(t, map[string]interface{}{
			"user_id": "42", "first_name": "Amani", "last_name": "Kazadi", "age": 13, "gender": "F",
		}))
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		req, rec = newRequest(http.MethodGet, "/api/students/"+std.ID)
		server.ServeHTTP(rec, req)
		var got school.Student
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if got.Age != 13 {
			t.Errorf("age = %d; want 13", got.Age)
		}
		if got.ClassID.Valid || got.ParentContact.Valid || got.Address.Valid {
			t.Errorf("optional fields survived a full replacement: %+v", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marshalObj(t, MessageResponse{Message: "Student deleted successfully!"}),
		}
		req, rec := newRequest(http.MethodDelete, "/api/students/"+std.ID)
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		req, rec = newRequest(http.MethodDelete, "/api/students/"+std.ID)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %d; want 404 (body %s)", rec.Code, rec.Body.String())
		}
	})
}

func Test_schoolApi_classesAndSubjects(t *testing.T) {
	server := setup(t)

	tests := []httpTest{
		{
			name: "create class with unknown teacher", method: http.MethodPost, path: "/api/classes",
			body:     marshalObj(t, map[string]string{"class_name": "Form 1A", "teacher_id": "999"}),
			wantCode: http.StatusCreated,
			wantData: marshalObj(t, MessageResponse{Message: "Class added successfully!"}),
		},
		{
			name: "create class missing name", method: http.MethodPost, path: "/api/classes",
			body:     marshalObj(t, map[string]string{"teacher_id": "999"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "create subject", method: http.MethodPost, path: "/api/subjects",
			body:     marshalObj(t, map[string]string{"subject_name": "Mathematics", "teacher_id": "999"}),
			wantCode: http.StatusCreated,
			wantData: marshalObj(t, MessageResponse{Message: "Subject added successfully!"}),
		},
		{
			name: "create teacher", method: http.MethodPost, path: "/api/teachers",
			body: marshalObj(t, map[string]string{
				"user_id": "7", "first_name": "Grace", "last_name": "Ilunga",
				"subject_specialization": "Mathematics", "phone": "+243 998 111 222", "email": "grace@test.cd",
			}),
			wantCode: http.StatusCreated,
			wantData: marshalObj(t, MessageResponse{Message: "Teacher added successfully!"}),
		},
		{
			name: "retrieve unknown class", method: http.MethodGet, path: "/api/classes/nope",
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, MessageResponse{Message: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_schoolApi_attendance(t *testing.T) {
	server := setup(t)

	record := func(studentID, date, status string) httpTest {
		return httpTest{
			body:     marshalObj(t, map[string]string{"student_id": studentID, "date": date, "status": status}),
			wantCode: http.StatusCreated,
			wantData: marshalObj(t, MessageResponse{Message: "Attendance recorded successfully!"}),
		}
	}

	for _, tt := range []httpTest{record("1", "2021-03-01", "present"), record("2", "2021-03-01", "absent")} {
		req, rec := newRequest(http.MethodPost, "/api/attendance", tt.body)
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	}

	t.Run("bad date format", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/attendance", marshalObj(t, map[string]string{
			"student_id": "1", "date": "01/03/2021", "status": "present",
		}))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d; want 400 (body %s)", rec.Code, rec.Body.String())
		}
	})

	t.Run("by student", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/attendance/student/1")
		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; want 200 (body %s)", rec.Code, rec.Body.String())
		}
		var recs []school.Attendance
		if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(recs) != 1 || recs[0].StudentID != "1" {
			t.Errorf("got %+v; want student 1's single record", recs)
		}
	})

	t.Run("by unknown student", func(t *testing.T) {
		// an empty list, not a 404
		tt := httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}
		req, rec := newRequest(http.MethodGet, "/api/attendance/student/ghost")
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_schoolApi_results(t *testing.T) {
	server := setup(t)

	body := marshalObj(t, map[string]interface{}{
		"student_id": "1", "subject_id": "2", "score": 87.5, "grade": "A", "term": "Term 1",
	})

	t.Run("create", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusCreated,
			wantData: marshalObj(t, MessageResponse{Message: "Result added successfully!"}),
		}
		req, rec := newRequest(http.MethodPost, "/api/results", body)
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	var res school.Result
	t.Run("date_submitted is server-assigned", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/results")
		server.ServeHTTP(rec, req)

		var results []school.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("got %d results; want 1", len(results))
		}
		res = results[0]
		if res.DateSubmitted.IsZero() {
			t.Error("date_submitted not stamped on create")
		}
	})

	t.Run("update keeps date_submitted", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, "/api/results/"+res.ID, marshalObj(t, map[string]interface{}{
			"student_id": "1", "subject_id": "2", "score": 91.0, "grade": "A+", "term": "Term 1",
		}))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; want 200 (body %s)", rec.Code, rec.Body.String())
		}

		req, rec = newRequest(http.MethodGet, "/api/results/"+res.ID)
		server.ServeHTTP(rec, req)
		var got school.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if got.Score != 91 || got.Grade != "A+" {
			t.Errorf("update not applied: %+v", got)
		}
		if !got.DateSubmitted.Equal(res.DateSubmitted) {
			t.Errorf("date_submitted changed on update: %v -> %v", res.DateSubmitted, got.DateSubmitted)
		}
	})
}
