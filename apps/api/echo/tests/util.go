package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/flmvela/gemeos/apps/api/echo"
	"github.com/flmvela/gemeos/core"
	"github.com/flmvela/gemeos/core/concept"
	"github.com/flmvela/gemeos/core/domain"
	"github.com/flmvela/gemeos/services/email"
	"github.com/flmvela/gemeos/services/logger"
	"github.com/flmvela/gemeos/storage/database/dummy"
)

var (
	conf = &core.Config{
		AppName:         "Gemeos",
		TestMode:        true,
		FrontendBaseURL: "http://localhost:3000",
		Auth:            core.AuthConfig{JWTSecret: "secret", Issuer: "gemeos-auth"},
	}

	admin   = core.Person{ID: "a1", Name: "Admin", Email: "admin@test.test", Roles: []string{core.RoleAdmin}}
	teacher = core.Person{ID: "t1", Name: "Teacher", Email: "teacher@test.test", Roles: []string{core.RoleTeacher}}
	student = core.Person{ID: "s1", Name: "Student", Email: "student@test.test", Roles: []string{core.RoleStudent}}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type testApp struct {
	server      *Server
	domRepo     domain.Repository
	conceptRepo concept.Repository
}

func setup(t *testing.T, opts ...func(*concept.Options)) testApp {
	t.Helper()

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	domRepo := dummydb.NewDomainRepository(db)
	conceptRepo := dummydb.NewConceptRepository(db)

	// set up services
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	conceptOpts := concept.Options{
		Repo:       conceptRepo,
		DomainRepo: domRepo,
		MailSvc:    mailSvc,
		Logger:     logger,
	}
	for _, opt := range opts {
		opt(&conceptOpts)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	concept.InitValidators(validate, translator)

	// set up server
	server := NewServer(
		ServerDeps{
			Conf:           conf,
			Logger:         logger,
			DisableReqLogs: true,
			DomainSvc:      domain.NewService(domRepo),
			ConceptSvc:     concept.NewService(conceptOpts),
			Validate:       validate,
			Translator:     translator,
		},
	)
	return testApp{server: server, domRepo: domRepo, conceptRepo: conceptRepo}
}

type httpErr struct {
	Error string `json:"error"`
}

type ingestionErr struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
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

func getToken(t *testing.T, p core.Person) string {
	token, err := GenerateToken(conf, NewClaims(conf, p, time.Hour))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func assertJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if !assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), v)) {
		t.Logf("body: %s", rec.Body.String())
	}
}
