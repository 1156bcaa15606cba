package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/school"
)

// validatable is satisfied by every school input's pointer type.
type validatable interface {
	Validate(*validator.Validate) error
}

var (
	_ validatable = (*school.StudentInput)(nil)
	_ validatable = (*school.TeacherInput)(nil)
	_ validatable = (*school.ClassInput)(nil)
	_ validatable = (*school.SubjectInput)(nil)
	_ validatable = (*school.AttendanceInput)(nil)
	_ validatable = (*school.ResultInput)(nil)
)

// resourceApi serves one school entity's CRUD with a shared handler set; the
// per-entity bits (service calls, response messages) come in as closures.
type resourceApi[I, E any] struct {
	conf     *core.Config
	validate *validator.Validate

	createFn func(context.Context, I) (E, error)
	queryFn  func(context.Context) ([]E, error)
	getFn    func(context.Context, string) (E, error)
	updateFn func(context.Context, string, I) (E, error)
	deleteFn func(context.Context, string) error

	createdMsg string
	updatedMsg string
	deletedMsg string
}

func (api *resourceApi[I, E]) register(g *echo.Group) {
	g.POST("", api.create)
	g.GET("", api.query)
	g.GET("/:id", api.retrieve)
	g.PUT("/:id", api.update)
	g.DELETE("/:id", api.destroy)
}

func (api *resourceApi[I, E]) bind(ctx echo.Context) (I, error) {
	var data I
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding request body")
	}
	if err := any(&data).(validatable).Validate(api.validate); err != nil {
		return data, err
	}
	return data, nil
}

func (api *resourceApi[I, E]) create(ctx echo.Context) error {
	data, err := api.bind(ctx)
	if err != nil {
		return err
	}

	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	if _, err = api.createFn(c, data); err != nil {
		return errors.Wrap(err, "creating record")
	}
	return ctx.JSON(http.StatusCreated, MessageResponse{Message: api.createdMsg})
}

func (api *resourceApi[I, E]) query(ctx echo.Context) error {
	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	recs, err := api.queryFn(c)
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *resourceApi[I, E]) retrieve(ctx echo.Context) error {
	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	rec, err := api.getFn(c, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *resourceApi[I, E]) update(ctx echo.Context) error {
	data, err := api.bind(ctx)
	if err != nil {
		return err
	}

	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	if _, err = api.updateFn(c, ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "updating record")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: api.updatedMsg})
}

func (api *resourceApi[I, E]) destroy(ctx echo.Context) error {
	c, cancel := reqCtx(ctx, api.conf.Database.Timeout)
	defer cancel()

	if err := api.deleteFn(c, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting record")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: api.deletedMsg})
}

// registerSchoolAPI wires the six school resources. None of these routes
// require a token; see DESIGN.md.
func registerSchoolAPI(g *echo.Group, deps ServerDeps) {
	conf, svc, validate := deps.Conf, deps.SchoolSvc, deps.Validate

	students := resourceApi[school.StudentInput, school.Student]{
		conf:       conf,
		validate:   validate,
		createFn:   svc.CreateStudent,
		queryFn:    svc.QueryAllStudents,
		getFn:      svc.GetStudent,
		updateFn:   svc.UpdateStudent,
		deleteFn:   svc.DeleteStudent,
		createdMsg: "Student added successfully!",
		updatedMsg: "Student updated successfully!",
		deletedMsg: "Student deleted successfully!",
	}
	students.register(g.Group("/students"))

	teachers := resourceApi[school.TeacherInput, school.Teacher]{
		conf:       conf,
		validate:   validate,
		createFn:   svc.CreateTeacher,
		queryFn:    svc.QueryAllTeachers,
		getFn:      svc.GetTeacher,
		updateFn:   svc.UpdateTeacher,
		deleteFn:   svc.DeleteTeacher,
		createdMsg: "Teacher added successfully!",
		updatedMsg: "Teacher updated successfully!",
		deletedMsg: "Teacher deleted successfully!",
	}
	teachers.register(g.Group("/teachers"))

	classes := resourceApi[school.ClassInput, school.Class]{
		conf:       conf,
		validate:   validate,
		createFn:   svc.CreateClass,
		queryFn:    svc.QueryAllClasses,
		getFn:      svc.GetClass,
		updateFn:   svc.UpdateClass,
		deleteFn:   svc.DeleteClass,
		createdMsg: "Class added successfully!",
		updatedMsg: "Class updated successfully!",
		deletedMsg: "Class deleted successfully!",
	}
	classes.register(g.Group("/classes"))

	subjects := resourceApi[school.SubjectInput, school.Subject]{
		conf:       conf,
		validate:   validate,
		createFn:   svc.CreateSubject,
		queryFn:    svc.QueryAllSubjects,
		getFn:      svc.GetSubject,
		updateFn:   svc.UpdateSubject,
		deleteFn:   svc.DeleteSubject,
		createdMsg: "Subject added successfully!",
		updatedMsg: "Subject updated successfully!",
		deletedMsg: "Subject deleted successfully!",
	}
	subjects.register(g.Group("/subjects"))

	attendance := resourceApi[school.AttendanceInput, school.Attendance]{
		conf:       conf,
		validate:   validate,
		createFn:   svc.CreateAttendance,
		queryFn:    svc.QueryAllAttendance,
		getFn:      svc.GetAttendance,
		updateFn:   svc.UpdateAttendance,
		deleteFn:   svc.DeleteAttendance,
		createdMsg: "Attendance recorded successfully!",
		updatedMsg: "Attendance updated successfully!",
		deletedMsg: "Attendance deleted successfully!",
	}
	atg := g.Group("/attendance")
	attendance.register(atg)
	atg.GET("/student/:studentId", func(ctx echo.Context) error {
		c, cancel := reqCtx(ctx, conf.Database.Timeout)
		defer cancel()

		recs, err := svc.QueryAttendanceByStudent(c, ctx.Param("studentId"))
		if err != nil {
			return errors.Wrap(err, "querying attendance by student")
		}
		return ctx.JSON(http.StatusOK, recs)
	})

	results := resourceApi[school.ResultInput, school.Result]{
		conf:       conf,
		validate:   validate,
		createFn:   svc.CreateResult,
		queryFn:    svc.QueryAllResults,
		getFn:      svc.GetResult,
		updateFn:   svc.UpdateResult,
		deleteFn:   svc.DeleteResult,
		createdMsg: "Result added successfully!",
		updatedMsg: "Result updated successfully!",
		deletedMsg: "Result deleted successfully!",
	}
	results.register(g.Group("/results"))
}
