package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"statesapi/domain/core/valueobjects"
	"statesapi/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCollector_RecordsHTTPAndStore(t *testing.T) {
	c := NewCollector("states_api")

	c.RecordHTTPRequest(http.MethodGet, "/states/{state}", http.StatusOK, 15*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, "/states/{state}", http.StatusOK, 5*time.Millisecond)
	c.RecordOperation(context.Background(), "FindByCode", time.Millisecond, nil)
	c.RecordOperation(context.Background(), "Save", time.Millisecond, errors.New("down"))

	body := scrape(t, c)
	assert.Contains(t, body, `states_api_http_requests_total{method="GET",route="/states/{state}",status="200"} 2`)
	assert.Contains(t, body, `states_api_store_operations_total{operation="FindByCode",status="success"} 1`)
	assert.Contains(t, body, `states_api_store_operations_total{operation="Save",status="failure"} 1`)
}

func TestCollector_CountsMutations(t *testing.T) {
	c := NewCollector("states_api")
	code := valueobjects.MustStateCode("KS")

	require.NoError(t, c.Publish(context.Background(), events.NewFunFactsAppended(code, []string{"a"}, 1, time.Now())))
	require.NoError(t, c.PublishBatch(context.Background(), []events.DomainEvent{
		events.NewFunFactRemoved(code, 1, "a", 0, time.Now()),
	}))

	body := scrape(t, c)
	assert.Contains(t, body, `states_api_fun_fact_mutations_total{event_type="funfacts.appended",state="KS"} 1`)
	assert.Contains(t, body, `states_api_fun_fact_mutations_total{event_type="funfacts.removed",state="KS"} 1`)
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("states_api")
	c.SetBreakerState("fact-store", 2)

	assert.Contains(t, scrape(t, c), `states_api_circuit_breaker_state{name="fact-store"} 2`)
}

// MockCloudWatch is a mock implementation of CloudWatchAPI
type MockCloudWatch struct {
	mock.Mock
}

func (m *MockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cloudwatch.PutMetricDataOutput), args.Error(1)
}

func TestCloudWatchMetrics_RecordOperation(t *testing.T) {
	client := new(MockCloudWatch)
	client.On("PutMetricData", mock.Anything, mock.MatchedBy(func(in *cloudwatch.PutMetricDataInput) bool {
		return aws.ToString(in.Namespace) == "StatesAPI" && len(in.MetricData) == 2
	})).Return(&cloudwatch.PutMetricDataOutput{}, nil).Once()
	client.On("PutMetricData", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

	m := NewCloudWatchMetrics("StatesAPI", client, zap.NewNop())
	m.RecordOperation(context.Background(), "Save", 3*time.Millisecond, nil)
	m.RecordOperation(context.Background(), "Save", 3*time.Millisecond, errors.New("x"))

	client.AssertExpectations(t)
}

func TestMultiRecorder(t *testing.T) {
	a := NewCollector("a")
	b := NewCollector("b")

	MultiRecorder{a, b}.RecordOperation(context.Background(), "Count", time.Millisecond, nil)

	assert.Contains(t, scrape(t, a), `a_store_operations_total{operation="Count",status="success"} 1`)
	assert.Contains(t, scrape(t, b), `b_store_operations_total{operation="Count",status="success"} 1`)
}
