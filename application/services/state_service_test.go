package services

import (
	"context"
	stderrors "errors"
	"testing"

	"statesapi/application/commands"
	"statesapi/application/ports"
	"statesapi/application/queries"
	"statesapi/domain/core/entities"
	"statesapi/domain/core/valueobjects"
	"statesapi/domain/events"
	"statesapi/domain/reference"
	"statesapi/infrastructure/persistence/memory"
	"statesapi/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockFactRepository is a mock implementation of ports.FactRepository
type MockFactRepository struct {
	mock.Mock
}

func (m *MockFactRepository) FindAll(ctx context.Context) ([]*entities.FactDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FactDocument), args.Error(1)
}

func (m *MockFactRepository) FindByCode(ctx context.Context, code valueobjects.StateCode) (*entities.FactDocument, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FactDocument), args.Error(1)
}

func (m *MockFactRepository) Create(ctx context.Context, doc *entities.FactDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockFactRepository) Save(ctx context.Context, doc *entities.FactDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockFactRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFactRepository) InsertMany(ctx context.Context, docs []*entities.FactDocument) error {
	return m.Called(ctx, docs).Error(0)
}

func (m *MockFactRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	return m.Called(ctx, evts).Error(0)
}

type fixture struct {
	service   *StateService
	repo      *memory.FactRepository
	publisher *MockEventPublisher
	dataset   *reference.Dataset
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dataset := reference.MustLoad()
	repo := memory.NewFactRepository()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	return &fixture{
		service:   NewStateService(dataset, repo, publisher, zap.NewNop()),
		repo:      repo,
		publisher: publisher,
		dataset:   dataset,
	}
}

func (f *fixture) record(t *testing.T, code string) entities.StateRecord {
	t.Helper()
	record, ok := f.dataset.Lookup(code)
	require.True(t, ok)
	return record
}

func (f *fixture) seed(t *testing.T, code string, facts ...string) {
	t.Helper()
	require.NoError(t, f.repo.Create(context.Background(), entities.NewFactDocument(valueobjects.MustStateCode(code), facts)))
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func appendCmd(facts ...string) commands.AppendFunFactsCommand {
	return commands.AppendFunFactsCommand{Facts: append([]string{}, facts...)}
}

func assertAppError(t *testing.T, err error, errType errors.ErrorType, message string) {
	t.Helper()
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errType, appErr.Type)
	assert.Equal(t, message, appErr.Message)
}

func TestListStates_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.service.ListStates(ctx, queries.NewListStatesQuery(""))
	require.NoError(t, err)
	assert.Len(t, all, 50)

	contiguous, err := f.service.ListStates(ctx, queries.NewListStatesQuery("true"))
	require.NoError(t, err)
	assert.Len(t, contiguous, 48)
	for _, s := range contiguous {
		assert.NotContains(t, []string{"AK", "HI"}, s.Code)
	}

	detached, err := f.service.ListStates(ctx, queries.NewListStatesQuery("false"))
	require.NoError(t, err)
	require.Len(t, detached, 2)
	assert.ElementsMatch(t, []string{"AK", "HI"}, []string{detached[0].Code, detached[1].Code})

	other, err := f.service.ListStates(ctx, queries.NewListStatesQuery("maybe"))
	require.NoError(t, err)
	assert.Len(t, other, 50)
}

func TestListStates_MergesFacts(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "KS", "Wheat")
	f.seed(t, "MO")

	states, err := f.service.ListStates(context.Background(), queries.NewListStatesQuery(""))
	require.NoError(t, err)

	for _, s := range states {
		switch s.Code {
		case "KS":
			assert.Equal(t, []string{"Wheat"}, s.Facts)
		default:
			assert.Nil(t, s.Facts, s.Code)
		}
	}
}

func TestListStates_StoreFailure(t *testing.T) {
	repo := new(MockFactRepository)
	repo.On("FindAll", mock.Anything).Return(nil, stderrors.New("connection refused"))
	svc := NewStateService(reference.MustLoad(), repo, nil, zap.NewNop())

	_, err := svc.ListStates(context.Background(), queries.ListStatesQuery{})
	assert.True(t, errors.IsDatabase(err))
	assert.Equal(t, errors.InternalMessage, errors.GetAppError(err).PublicMessage())
	repo.AssertExpectations(t)
}

func TestGetState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	state, err := f.service.GetState(ctx, f.record(t, "NE"))
	require.NoError(t, err)
	assert.Equal(t, "Nebraska", state.Name)
	assert.Nil(t, state.Facts)

	f.seed(t, "NE", "Kool-Aid")
	state, err = f.service.GetState(ctx, f.record(t, "NE"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Kool-Aid"}, state.Facts)
}

func TestRandomFunFact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ks := f.record(t, "KS")

	_, err := f.service.RandomFunFact(ctx, ks)
	assertAppError(t, err, errors.ErrorTypeNotFound, "No Fun Facts found for Kansas")

	f.seed(t, "KS", "A", "B", "C")
	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		view, err := f.service.RandomFunFact(ctx, ks)
		require.NoError(t, err)
		seen[view.FunFact] = true
	}
	assert.Equal(t, map[string]bool{"A": true, "B": true, "C": true}, seen)
}

func TestRandomFunFact_EmptyDocument(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "CO")

	_, err := f.service.RandomFunFact(context.Background(), f.record(t, "CO"))
	assertAppError(t, err, errors.ErrorTypeNotFound, "No Fun Facts found for Colorado")
}

func TestProjections(t *testing.T) {
	f := newFixture(t)
	ca := f.record(t, "CA")

	assert.Equal(t, CapitalView{State: "California", Capital: "Sacramento"}, f.service.Capital(ca))
	assert.Equal(t, "California", f.service.Nickname(ca).State)
	assert.Equal(t, PopulationView{State: "California", Population: "39,538,223"}, f.service.Population(ca))
	assert.Equal(t, AdmissionView{State: "California", Admitted: ca.AdmissionDate}, f.service.Admission(ca))
}

func TestAppendFunFacts_CreatesThenAppends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ok := f.record(t, "OK")

	state, err := f.service.AppendFunFacts(ctx, ok, appendCmd("Route 66"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Route 66"}, state.Facts)

	state, err = f.service.AppendFunFacts(ctx, ok, appendCmd("Parking meter", "Red earth"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Route 66", "Parking meter", "Red earth"}, state.Facts)

	f.publisher.AssertNumberOfCalls(t, "Publish", 2)
}

func TestAppendFunFacts_EmptyArray(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wy := f.record(t, "WY")

	state, err := f.service.AppendFunFacts(ctx, wy, appendCmd())
	require.NoError(t, err)
	assert.Nil(t, state.Facts)

	count, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAppendFunFacts_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.AppendFunFacts(context.Background(), f.record(t, "KS"), commands.AppendFunFactsCommand{})
	assertAppError(t, err, errors.ErrorTypeValidation, commands.MsgFactsRequired)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

// racingRepository lets another writer create the document between the
// service's lookup and its create
type racingRepository struct {
	*memory.FactRepository
	raced bool
}

func (r *racingRepository) FindByCode(ctx context.Context, code valueobjects.StateCode) (*entities.FactDocument, error) {
	if !r.raced {
		r.raced = true
		winner := entities.NewFactDocument(code, []string{"first"})
		if err := r.FactRepository.Create(ctx, winner); err != nil {
			return nil, err
		}
		return nil, ports.ErrDocumentNotFound
	}
	return r.FactRepository.FindByCode(ctx, code)
}

func TestAppendFunFacts_ConcurrentCreateAppends(t *testing.T) {
	repo := &racingRepository{FactRepository: memory.NewFactRepository()}
	dataset := reference.MustLoad()
	svc := NewStateService(dataset, repo, nil, zap.NewNop())
	ks, _ := dataset.Lookup("KS")

	state, err := svc.AppendFunFacts(context.Background(), ks, appendCmd("second"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, state.Facts)

	stored, err := repo.FactRepository.FindByCode(context.Background(), ks.StateCode())
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, stored.Facts())
}

func TestAppendFunFacts_CreateConflictWithoutDocument(t *testing.T) {
	repo := new(MockFactRepository)
	repo.On("FindByCode", mock.Anything, valueobjects.MustStateCode("KS")).Return(nil, ports.ErrDocumentNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(ports.ErrDocumentExists)
	dataset := reference.MustLoad()
	svc := NewStateService(dataset, repo, nil, zap.NewNop())
	ks, _ := dataset.Lookup("KS")

	_, err := svc.AppendFunFacts(context.Background(), ks, appendCmd("x"))
	assert.True(t, errors.IsDatabase(err))
	assert.ErrorIs(t, err, ports.ErrDocumentExists)
	repo.AssertNumberOfCalls(t, "FindByCode", 2)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAppendFunFacts_PublishFailureIsLogged(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("events.FunFactsAppended")).Return(stderrors.New("bus down"))
	dataset := reference.MustLoad()
	svc := NewStateService(dataset, memory.NewFactRepository(), publisher, zap.NewNop())
	ks, _ := dataset.Lookup("KS")

	state, err := svc.AppendFunFacts(context.Background(), ks, appendCmd("x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, state.Facts)
	publisher.AssertExpectations(t)
}

func TestUpdateFunFact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ks := f.record(t, "KS")

	_, err := f.service.UpdateFunFact(ctx, ks, commands.UpdateFunFactCommand{Index: intPtr(1), FunFact: strPtr("x")})
	assertAppError(t, err, errors.ErrorTypeNotFound, "No Fun Facts found for Kansas")

	f.seed(t, "KS", "A", "B", "C")

	state, err := f.service.UpdateFunFact(ctx, ks, commands.UpdateFunFactCommand{Index: intPtr(2), FunFact: strPtr("X")})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "X", "C"}, state.Facts)

	for _, idx := range []int{0, -1, 4} {
		_, err = f.service.UpdateFunFact(ctx, ks, commands.UpdateFunFactCommand{Index: intPtr(idx), FunFact: strPtr("Y")})
		assertAppError(t, err, errors.ErrorTypeNotFound, "No Fun Fact found at that index for Kansas")
	}

	_, err = f.service.UpdateFunFact(ctx, ks, commands.UpdateFunFactCommand{FunFact: strPtr("Y")})
	assertAppError(t, err, errors.ErrorTypeValidation, commands.MsgIndexRequired)

	_, err = f.service.UpdateFunFact(ctx, ks, commands.UpdateFunFactCommand{Index: intPtr(1)})
	assertAppError(t, err, errors.ErrorTypeValidation, commands.MsgFunFactRequired)
}

func TestDeleteFunFact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mo := f.record(t, "MO")

	_, err := f.service.DeleteFunFact(ctx, mo, commands.DeleteFunFactCommand{Index: intPtr(1)})
	assertAppError(t, err, errors.ErrorTypeNotFound, "No Fun Facts found for Missouri")

	f.seed(t, "MO", "A", "B", "C")

	state, err := f.service.DeleteFunFact(ctx, mo, commands.DeleteFunFactCommand{Index: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, state.Facts)

	_, err = f.service.DeleteFunFact(ctx, mo, commands.DeleteFunFactCommand{Index: intPtr(3)})
	assertAppError(t, err, errors.ErrorTypeNotFound, "No Fun Fact found at that index for Missouri")

	_, err = f.service.DeleteFunFact(ctx, mo, commands.DeleteFunFactCommand{Index: intPtr(2)})
	require.NoError(t, err)
	state, err = f.service.DeleteFunFact(ctx, mo, commands.DeleteFunFactCommand{Index: intPtr(1)})
	require.NoError(t, err)
	assert.Nil(t, state.Facts)

	// The document survives with an empty list
	_, err = f.service.DeleteFunFact(ctx, mo, commands.DeleteFunFactCommand{Index: intPtr(1)})
	assertAppError(t, err, errors.ErrorTypeNotFound, "No Fun Facts found for Missouri")
}

func TestSeeder_SeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFactRepository()
	seeder := NewSeeder(repo, zap.NewNop())

	n, err := seeder.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = seeder.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	doc, err := repo.FindByCode(ctx, valueobjects.MustStateCode("KS"))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Len())
}

func TestSeeder_CountFailure(t *testing.T) {
	repo := new(MockFactRepository)
	repo.On("Count", mock.Anything).Return(int64(0), stderrors.New("timeout"))

	_, err := NewSeeder(repo, zap.NewNop()).SeedIfEmpty(context.Background())
	assert.Error(t, err)
	repo.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything)
}
