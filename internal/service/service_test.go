package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contacts-book/internal/config"
	"gitlab.com/dirk.krummacker/contacts-book/internal/model"
	"gitlab.com/dirk.krummacker/contacts-book/internal/storage"
	api "gitlab.com/dirk.krummacker/contacts-book/pkg/model"
)

// wednesday is the clock of the service under test: 10 January 2024.
var wednesday = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

// createMockObjects builds a mock database handle and a mock object for defining our expected SQL
// calls.
func createMockObjects(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return db, mock
}

// addContact adds a contact with one phone and an optional birthday to the book.
func addContact(t *testing.T, book *model.AddressBook, name string, phone string, birthday string) {
	t.Helper()
	n, err := model.NewName(name)
	require.NoError(t, err)
	contact := model.NewContact(n)
	require.NoError(t, contact.AddPhone(phone))
	if birthday != "" {
		require.NoError(t, contact.SetBirthday(birthday))
	}
	book.Add(contact)
}

// sampleGateway returns an in-memory gateway holding three contacts.
func sampleGateway(t *testing.T) storage.Gateway {
	book := model.NewAddressBook()
	addContact(t, book, "Aaron", "1111111111", "12.01.1970")
	addContact(t, book, "Berta", "2222222222", "")
	addContact(t, book, "Carla", "3333333333", "14.01.1990")
	return storage.NewMemoryGateway(book)
}

// runTest executes the HTTP request against a service backed by the gateway and returns the
// response.
func runTest(gateway storage.Gateway, method string, url string) *httptest.ResponseRecorder {
	gin.SetMode(gin.ReleaseMode)
	router := New(gateway, zap.NewNop(), func() time.Time { return wednesday }).SetupHttpRouter(config.ServiceConfig{RequestLogging: true})
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, url, nil)
	router.ServeHTTP(recorder, request)
	return recorder
}

// TestGetAll executes a GET request for all contacts. It expects that the JSON for a list of
// contacts is returned in the order they were added.
func TestGetAll(t *testing.T) {
	recorder := runTest(sampleGateway(t), "GET", "/contacts")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var contacts []api.Contact
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &contacts))
	require.Equal(t, 3, len(contacts))

	assert.Equal(t, "Aaron", contacts[0].Name)
	assert.Equal(t, []string{"1111111111"}, contacts[0].Phones)
	assert.Equal(t, time.Date(1970, time.January, 12, 0, 0, 0, 0, time.UTC), *contacts[0].Birthday)

	assert.Equal(t, "Berta", contacts[1].Name)
	assert.Nil(t, contacts[1].Birthday)

	assert.Equal(t, "Carla", contacts[2].Name)
}

// TestGetAllEmpty executes a GET request for all contacts while nothing has been saved. It expects
// the NOT FOUND status code.
func TestGetAllEmpty(t *testing.T) {
	recorder := runTest(storage.NewMemoryGateway(nil), "GET", "/contacts")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "no contacts in phonebook", body["message"])
}

// TestGet executes a GET request for a single contact. It expects that the JSON for the contact
// is returned.
func TestGet(t *testing.T) {
	recorder := runTest(sampleGateway(t), "GET", "/contacts/Aaron")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var getBody map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &getBody))
	assert.Equal(t, "Aaron", getBody["name"])
	assert.Equal(t, []interface{}{"1111111111"}, getBody["phones"])
	assert.Equal(t, "1970-01-12T00:00:00Z", getBody["birthday"])
}

// TestGetUnknownName expects the NOT FOUND status code for a name that is not in the book.
func TestGetUnknownName(t *testing.T) {
	recorder := runTest(sampleGateway(t), "GET", "/contacts/Dora")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

// TestGetInvalidName expects the BAD REQUEST status code for a name that cannot exist.
func TestGetInvalidName(t *testing.T) {
	recorder := runTest(sampleGateway(t), "GET", "/contacts/R2D2")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// TestGetBirthdays executes a GET request for the upcoming birthdays of the service's today. It
// expects a weekend birthday to be listed under Monday.
func TestGetBirthdays(t *testing.T) {
	recorder := runTest(sampleGateway(t), "GET", "/birthdays")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var buckets []api.BirthdayBucket
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &buckets))
	assert.Equal(t, []api.BirthdayBucket{
		{Weekday: "Friday", Names: []string{"Aaron"}},
		{Weekday: "Monday", Names: []string{"Carla"}},
	}, buckets)
}

// TestGetBirthdaysForDate executes GET requests with an explicit date parameter.
func TestGetBirthdaysForDate(t *testing.T) {
	recorder := runTest(sampleGateway(t), "GET", "/birthdays?date=2024-01-12")
	assert.Equal(t, http.StatusOK, recorder.Code)
	var buckets []api.BirthdayBucket
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &buckets))
	assert.Equal(t, []api.BirthdayBucket{
		{Weekday: "Friday", Names: []string{"Aaron"}},
		{Weekday: "Monday", Names: []string{"Carla"}},
	}, buckets)

	// On a Saturday, Carla's Sunday birthday is not moved to Monday.
	recorder = runTest(sampleGateway(t), "GET", "/birthdays?date=2024-01-13")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = runTest(sampleGateway(t), "GET", "/birthdays?date=2024-06-01")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = runTest(sampleGateway(t), "GET", "/birthdays?date=10.01.2024")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// brokenGateway fails every load.
type brokenGateway struct{}

func (brokenGateway) Load(context.Context) (*model.AddressBook, error) {
	return nil, errors.New("connection refused")
}

func (brokenGateway) Save(context.Context, *model.AddressBook) error {
	return nil
}

func (brokenGateway) Close() error {
	return nil
}

// TestStorageFailure expects the INTERNAL SERVER ERROR status code if the book cannot be loaded.
func TestStorageFailure(t *testing.T) {
	for _, url := range []string{"/contacts", "/contacts/Aaron", "/birthdays"} {
		recorder := runTest(brokenGateway{}, "GET", url)
		assert.Equal(t, http.StatusInternalServerError, recorder.Code, url)
	}
}

// TestGetFromDatabase runs the service on top of the SQL gateway. It expects the contact to be
// read from the contacts and phones tables.
func TestGetFromDatabase(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	mock.ExpectQuery("SELECT position, name, birthday FROM contacts").
		WillReturnRows(mock.NewRows([]string{"position", "name", "birthday"}).
			AddRow(0, "Erika", "1969-03-02"))
	mock.ExpectQuery("SELECT contact_position, phone FROM phones").
		WillReturnRows(mock.NewRows([]string{"contact_position", "phone"}).
			AddRow(0, "0815471100"))

	// Run test and compare results
	recorder := runTest(storage.NewSQLGateway(sqlx.NewDb(db, "mysql")), "GET", "/contacts/Erika")
	assert.Equal(t, http.StatusOK, recorder.Code)
	var getBody map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &getBody))
	assert.Equal(t, "Erika", getBody["name"])
	assert.Equal(t, "1969-03-02T00:00:00Z", getBody["birthday"])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestCORS sends a preflight request from an allowed and from an unknown origin. It expects only
// the allowed origin to be echoed.
func TestCORS(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	router := New(sampleGateway(t), zap.NewNop(), func() time.Time { return wednesday }).
		SetupHttpRouter(config.ServiceConfig{AllowOrigins: []string{"http://localhost:5173"}})

	for origin, want := range map[string]string{
		"http://localhost:5173": "http://localhost:5173",
		"http://example.com":    "",
	} {
		recorder := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/contacts", nil)
		request.Header.Set("Origin", origin)
		router.ServeHTTP(recorder, request)
		assert.Equal(t, want, recorder.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}
