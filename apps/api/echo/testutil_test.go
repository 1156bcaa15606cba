package echoapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/account"
	"github.com/shulehq/shule/core/school"
	emailsvc "github.com/shulehq/shule/services/email"
	logsvc "github.com/shulehq/shule/services/logger"
	inmemdb "github.com/shulehq/shule/storage/database/inmem"
)

var (
	conf     *core.Config
	acctRepo account.Repository

	errMissingToken = MessageResponse{Message: "missing or malformed jwt"}
)

func setup(t *testing.T) *Server {
	t.Helper()

	conf = core.NewConfig()
	conf.Debug = true
	conf.TestMode = true

	// repos
	acctRepo = inmemdb.NewAccountRepository()

	// services
	emailsvc.SentMessages = emailsvc.SentMessages[:0]
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	acctSvc := account.NewService(acctRepo, mailSvc, conf)
	schoolSvc := school.NewService(
		inmemdb.NewStudentRepository(),
		inmemdb.NewTeacherRepository(),
		inmemdb.NewClassRepository(),
		inmemdb.NewSubjectRepository(),
		inmemdb.NewAttendanceRepository(),
		inmemdb.NewResultRepository(),
	)

	// validation
	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)

	return NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		AccountSvc: acctSvc,
		SchoolSvc:  schoolSvc,
		Validate:   validate,
		Translator: translator,
	})
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, acct account.Account) string {
	t.Helper()

	token, err := GenerateToken(conf, GetAccountClaims(conf, acct))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

// checkCodeAndData compares the response against the expected code and body;
// a nil wantData only checks the code.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v (body %s)", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
