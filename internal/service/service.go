// Package service exposes the saved address book as a read-only REST API.
package service

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contacts-book/internal/config"
	"gitlab.com/dirk.krummacker/contacts-book/internal/model"
	"gitlab.com/dirk.krummacker/contacts-book/internal/storage"
	api "gitlab.com/dirk.krummacker/contacts-book/pkg/model"
)

// dateLayout is the format of the 'date' URL parameter.
const dateLayout = "2006-01-02"

// Service answers REST API calls with the address book as it is currently saved. The book is
// loaded through the gateway on every request, so changes saved by the shell show up without a
// restart.
type Service struct {
	gateway storage.Gateway
	log     *zap.Logger
	now     func() time.Time
}

// New creates the service. now is the clock used when a birthdays request names no date.
func New(gateway storage.Gateway, log *zap.Logger, now func() time.Time) *Service {
	return &Service{gateway: gateway, log: log, now: now}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. Request logging
// can be turned off, e.g. for benchmarks.
func (s *Service) SetupHttpRouter(cfg config.ServiceConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RequestLogging {
		router.Use(requestLogger(s.log))
	}
	if len(cfg.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodOptions},
			AllowHeaders: []string{"Content-Type"},
		}))
	}
	router.GET("/contacts", s.findContacts)
	router.GET("/contacts/:name", s.findContactByName)
	router.GET("/birthdays", s.findBirthdays)
	return router
}

// requestLogger logs one line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// loadBook loads the saved address book. If nothing has been saved yet, the book is empty. Other
// failures abort the request with an internal server error.
func (s *Service) loadBook(c *gin.Context) (*model.AddressBook, bool) {
	book, err := s.gateway.Load(c.Request.Context())
	if errors.Is(err, storage.ErrNoData) {
		return model.NewAddressBook(), true
	}
	if err != nil {
		s.log.Error("could not load address book", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "could not load contacts"})
		return nil, false
	}
	return book, true
}

// findContacts responds with the list of all contacts as JSON, in the order they were added.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts
func (s *Service) findContacts(c *gin.Context) {
	book, ok := s.loadBook(c)
	if !ok {
		return
	}
	if book.Len() == 0 {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "no contacts in phonebook"})
		return
	}
	contacts := make([]api.Contact, 0, book.Len())
	for _, contact := range book.Contacts() {
		contacts = append(contacts, toAPI(contact))
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// findContactByName locates the contact whose name matches the name parameter of the request URL,
// then returns that contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/Erika
func (s *Service) findContactByName(c *gin.Context) {
	name, err := model.NewName(c.Param("name"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid name parameter"})
		return
	}
	book, ok := s.loadBook(c)
	if !ok {
		return
	}
	contact, err := book.Find(name.String())
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, toAPI(contact))
}

// findBirthdays responds with the contacts to congratulate within seven days of the date given in
// the URL parameter 'date' (YYYY-MM-DD). Without the parameter, the window starts today.
//
// REST API calls:
//
//	> curl "http://localhost:8080/birthdays"
//	> curl "http://localhost:8080/birthdays?date=2024-01-10"
func (s *Service) findBirthdays(c *gin.Context) {
	today := s.now()
	if date := c.Query("date"); date != "" {
		var err error
		today, err = time.Parse(dateLayout, date)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid date parameter"})
			return
		}
	}
	book, ok := s.loadBook(c)
	if !ok {
		return
	}
	upcoming, err := book.BirthdaysInNextWeek(today)
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "no birthdays in the next 7 days"})
		return
	}
	buckets := make([]api.BirthdayBucket, 0, len(upcoming))
	for _, bucket := range upcoming {
		buckets = append(buckets, api.BirthdayBucket{Weekday: bucket.Weekday, Names: bucket.Names})
	}
	c.IndentedJSON(http.StatusOK, buckets)
}

// toAPI converts a contact into its JSON representation.
func toAPI(contact *model.Contact) api.Contact {
	result := api.Contact{
		Name:   contact.Name().String(),
		Phones: []string{},
	}
	for _, phone := range contact.Phones() {
		result.Phones = append(result.Phones, phone.String())
	}
	if birthday, ok := contact.Birthday(); ok {
		t := birthday.Time()
		result.Birthday = &t
	}
	return result
}
