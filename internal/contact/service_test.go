package contact

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/waitlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockContactRepository is a mock type for contact.Repository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, contact *Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Contact), args.Error(1)
}

func (m *MockContactRepository) Update(ctx context.Context, contact *Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactRepository) ListAll(ctx context.Context) ([]Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Contact), args.Error(1)
}

func (m *MockContactRepository) Search(ctx context.Context, q SearchQuery) ([]Contact, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Contact), args.Get(1).(int64), args.Error(2)
}

func (m *MockContactRepository) ExistsByEmail(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *MockContactRepository) ExistsByPhone(ctx context.Context, phone string, exclude uuid.UUID) (bool, error) {
	args := m.Called(ctx, phone, exclude)
	return args.Bool(0), args.Error(1)
}

type ContactServiceTestSuite struct {
	service *ServiceImplementation
	repo    *MockContactRepository
	ctx     context.Context
}

func setupContactServiceTestSuite(t *testing.T) *ContactServiceTestSuite {
	t.Helper()
	repo := new(MockContactRepository)
	svc := NewService(repo, &config.Config{DefaultLocation: "Nigeria"}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 3, 12, 0, 0, 0, time.UTC) }
	return &ContactServiceTestSuite{service: svc, repo: repo, ctx: context.Background()}
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok, "expected APIError, got %v", err)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	details, ok := apiErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, field)
}

func TestContactService_Create_Email(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	ts.repo.On("ExistsByEmail", ts.ctx, "ada@example.com", uuid.Nil).Return(false, nil).Once()
	ts.repo.On("Create", ts.ctx, mock.AnythingOfType("*contact.Contact")).Return(nil).Once()

	c, err := ts.service.Create(ts.ctx, CreateContactRequest{
		Email:       "  Ada@Example.com ",
		Phone:       waitlist.BlankPhone,
		Location:    " Port Harcourt ",
		ServiceType: waitlist.ServiceUser,
	})

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.Equal(t, waitlist.BlankPhone, c.Phone)
	assert.Equal(t, "Port Harcourt", c.Location)
	assert.Equal(t, "port-harcourt", c.LocationSlug)
	ts.repo.AssertNotCalled(t, "ExistsByPhone", mock.Anything, mock.Anything, mock.Anything)
	ts.repo.AssertExpectations(t)
}

func TestContactService_Create_PhoneWithDefaults(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	ts.repo.On("ExistsByPhone", ts.ctx, "+2348012345678", uuid.Nil).Return(false, nil).Once()
	ts.repo.On("Create", ts.ctx, mock.AnythingOfType("*contact.Contact")).Return(nil).Once()

	c, err := ts.service.Create(ts.ctx, CreateContactRequest{
		Phone:       "+234 801 234 5678",
		ServiceType: waitlist.ServiceProvider,
	})

	require.NoError(t, err)
	assert.Equal(t, waitlist.BlankEmail, c.Email)
	assert.Equal(t, "+2348012345678", c.Phone)
	assert.Equal(t, "Nigeria", c.Location)
	assert.Equal(t, "nigeria", c.LocationSlug)
	ts.repo.AssertExpectations(t)
}

func TestContactService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		req   CreateContactRequest
		field string
	}{
		{"both contacts", CreateContactRequest{Email: "a@b.co", Phone: "08012345678", ServiceType: waitlist.ServiceUser}, "contact"},
		{"no contact", CreateContactRequest{Email: waitlist.BlankEmail, Phone: waitlist.BlankPhone, ServiceType: waitlist.ServiceUser}, "contact"},
		{"bad email", CreateContactRequest{Email: "not-an-email", ServiceType: waitlist.ServiceUser}, "email"},
		{"short phone", CreateContactRequest{Phone: "0801234", ServiceType: waitlist.ServiceUser}, "phone"},
		{"bad service type", CreateContactRequest{Phone: "08012345678", ServiceType: "vip"}, "servicestype"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupContactServiceTestSuite(t)
			_, err := ts.service.Create(ts.ctx, tt.req)
			assertValidationField(t, err, tt.field)
			ts.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestContactService_Create_Duplicate(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	ts.repo.On("ExistsByPhone", ts.ctx, "08012345678", uuid.Nil).Return(true, nil).Once()

	_, err := ts.service.Create(ts.ctx, CreateContactRequest{Phone: "08012345678", ServiceType: waitlist.ServiceUser})

	assert.True(t, errors.Is(err, common.ErrConflict))
	ts.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactService_Create_RepositoryError(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	dbErr := errors.New("connection reset")
	ts.repo.On("ExistsByEmail", ts.ctx, "ada@example.com", uuid.Nil).Return(false, nil).Once()
	ts.repo.On("Create", ts.ctx, mock.Anything).Return(dbErr).Once()

	_, err := ts.service.Create(ts.ctx, CreateContactRequest{Email: "ada@example.com", ServiceType: waitlist.ServiceUser})

	assert.ErrorIs(t, err, dbErr)
	_, isAPI := common.IsAPIError(err)
	assert.False(t, isAPI)
}

func TestContactService_Create_LostRaceIsConflict(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	ts.repo.On("ExistsByEmail", ts.ctx, "ada@example.com", uuid.Nil).Return(false, nil).Once()
	ts.repo.On("Create", ts.ctx, mock.Anything).Return(common.ErrConflict.WithDetails("This email is already on the waitlist.")).Once()

	_, err := ts.service.Create(ts.ctx, CreateContactRequest{Email: "ada@example.com", ServiceType: waitlist.ServiceUser})

	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestContactService_Update_SwitchesContact(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	id := uuid.New()
	stored := &Contact{
		BaseModel:   common.BaseModel{ID: id},
		Email:       waitlist.BlankEmail,
		Phone:       "08012345678",
		Location:    "Lagos",
		ServiceType: waitlist.ServiceUser,
	}
	ts.repo.On("FindByID", ts.ctx, id).Return(stored, nil).Once()
	ts.repo.On("ExistsByEmail", ts.ctx, "ada@example.com", id).Return(false, nil).Once()
	ts.repo.On("Update", ts.ctx, stored).Return(nil).Once()

	email, phone, provider := "ada@example.com", waitlist.BlankPhone, waitlist.ServiceProvider
	updated, err := ts.service.Update(ts.ctx, id, UpdateContactRequest{Email: &email, Phone: &phone, ServiceType: &provider})

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", updated.Email)
	assert.Equal(t, waitlist.BlankPhone, updated.Phone)
	assert.Equal(t, "Lagos", updated.Location)
	assert.Equal(t, waitlist.ServiceProvider, updated.ServiceType)
	ts.repo.AssertExpectations(t)
}

func TestContactService_Update_RejectsSecondContact(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	id := uuid.New()
	stored := &Contact{
		BaseModel:   common.BaseModel{ID: id},
		Email:       waitlist.BlankEmail,
		Phone:       "08012345678",
		Location:    "Lagos",
		ServiceType: waitlist.ServiceUser,
	}
	ts.repo.On("FindByID", ts.ctx, id).Return(stored, nil).Once()

	email := "ada@example.com"
	_, err := ts.service.Update(ts.ctx, id, UpdateContactRequest{Email: &email})

	assertValidationField(t, err, "contact")
	ts.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestContactService_Update_NotFound(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	id := uuid.New()
	ts.repo.On("FindByID", ts.ctx, id).Return(nil, common.ErrNotFound.WithDetails("Contact not found.")).Once()

	_, err := ts.service.Update(ts.ctx, id, UpdateContactRequest{})

	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestContactService_Search(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	expected := SearchQuery{Search: "0801", ServiceType: waitlist.ServiceUser, Page: 1, PageSize: common.MaxPageSize}
	ts.repo.On("Search", ts.ctx, expected).Return([]Contact{{Phone: "08012345678"}}, int64(1), nil).Once()

	contacts, pagination, err := ts.service.Search(ts.ctx, SearchQuery{Search: "0801", ServiceType: waitlist.ServiceUser, PageSize: 500})

	require.NoError(t, err)
	assert.Len(t, contacts, 1)
	assert.Equal(t, int64(1), pagination.TotalItems)
	assert.Equal(t, 1, pagination.TotalPages)
	ts.repo.AssertExpectations(t)
}

func TestContactService_Search_InvalidServiceType(t *testing.T) {
	ts := setupContactServiceTestSuite(t)

	_, _, err := ts.service.Search(ts.ctx, SearchQuery{ServiceType: "vip"})

	assertValidationField(t, err, "service_type")
	ts.repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestContactService_Stats(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	day := func(d int) common.BaseModel {
		return common.BaseModel{ID: uuid.New(), CreatedAt: time.Date(2026, 10, d, 9, 0, 0, 0, time.UTC)}
	}
	ts.repo.On("ListAll", ts.ctx).Return([]Contact{
		{BaseModel: day(1), Phone: "08012345678", Email: waitlist.BlankEmail, Location: "Lagos", ServiceType: waitlist.ServiceUser},
		{BaseModel: day(3), Phone: "08012345679", Email: waitlist.BlankEmail, Location: "lagos", ServiceType: waitlist.ServiceProvider},
		{BaseModel: day(3), Phone: waitlist.BlankPhone, Email: "a@b.co", Location: "Abuja", ServiceType: waitlist.ServiceUser},
	}, nil).Once()

	stats, err := ts.service.Stats(ts.ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Users)
	assert.Equal(t, 1, stats.Providers)
	assert.Equal(t, map[string]int{"lagos": 2, "abuja": 1}, stats.ByLocation)
	require.Len(t, stats.DailyStats, waitlist.StatsWindowDays)
	assert.Equal(t, waitlist.DailyCount{Date: "2026-10-03", Count: 2}, stats.DailyStats[6])
	assert.Equal(t, waitlist.DailyCount{Date: "2026-10-01", Count: 1}, stats.DailyStats[4])
}

func TestContactService_Delete(t *testing.T) {
	ts := setupContactServiceTestSuite(t)
	id := uuid.New()
	ts.repo.On("Delete", ts.ctx, id).Return(nil).Once()

	require.NoError(t, ts.service.Delete(ts.ctx, id))
	ts.repo.AssertExpectations(t)
}
