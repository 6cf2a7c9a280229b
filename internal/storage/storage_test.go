package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"greencommute/internal/schema"
	"greencommute/internal/storage/lru_cache"

	"github.com/stretchr/testify/require"
)

type lruCacheMock struct {
	batchGetFunc func(keys []string) ([]schema.Route, []string)

	mu      sync.Mutex
	updated []schema.Route
}

func (m *lruCacheMock) BatchGet(keys []string) ([]schema.Route, []string) {
	return m.batchGetFunc(keys)
}

func (m *lruCacheMock) GetValues() []schema.Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]schema.Route(nil), m.updated...)
}

func (m *lruCacheMock) Update(rows []lru_cache.CacheItem[string, schema.Route]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		m.updated = append(m.updated, row.Value)
	}
}

func (m *lruCacheMock) updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updated)
}

type redisCacheMock struct {
	batchGetFunc func(ctx context.Context, keys []string) ([]schema.Route, []string, error)

	mu      sync.Mutex
	updated []string
}

func (m *redisCacheMock) BatchGet(ctx context.Context, keys []string) ([]schema.Route, []string, error) {
	return m.batchGetFunc(ctx, keys)
}

func (m *redisCacheMock) Update(keys []string, values []schema.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, keys...)
}

func (m *redisCacheMock) updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updated)
}

type routeMeasurerMock struct {
	measureFunc func(ctx context.Context, query schema.RouteQuery) (schema.Route, error)
}

func (m *routeMeasurerMock) Measure(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
	return m.measureFunc(ctx, query)
}

func (m *routeMeasurerMock) MeasureAll(ctx context.Context, queries []schema.RouteQuery) []schema.Route {
	routes := make([]schema.Route, 0, len(queries))
	for _, query := range queries {
		if route, err := m.measureFunc(ctx, query); err == nil {
			routes = append(routes, route)
		}
	}
	return routes
}

var (
	queryA = schema.RouteQuery{Origin: "home", Destination: "work", Mode: "driving"}
	routeA = schema.Route{Query: queryA, Distance: 7300, Duration: 1260}
)

func lruMiss(keys []string) ([]schema.Route, []string) {
	return nil, keys
}

func redisMiss(ctx context.Context, keys []string) ([]schema.Route, []string, error) {
	return nil, keys, nil
}

func TestStorage_Get(t *testing.T) {
	tests := []struct {
		name          string
		ctxFunc       func(t *testing.T) context.Context
		lruBatchGet   func(keys []string) ([]schema.Route, []string)
		redisBatchGet func(ctx context.Context, keys []string) ([]schema.Route, []string, error)
		withoutRedis  bool
		measure       func(ctx context.Context, query schema.RouteQuery) (schema.Route, error)
		expected      schema.Route
		expectedError error
		lruUpdates    int
		redisUpdates  int
	}{
		{
			name: "Found in LRU",
			lruBatchGet: func(keys []string) ([]schema.Route, []string) {
				return []schema.Route{routeA}, nil
			},
			redisBatchGet: func(ctx context.Context, keys []string) ([]schema.Route, []string, error) {
				return nil, nil, errors.New("redis must not be asked")
			},
			measure: func(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
				return schema.Route{}, errors.New("api must not be asked")
			},
			expected: routeA,
		},
		{
			name:        "Missing in LRU, found in Redis",
			lruBatchGet: lruMiss,
			redisBatchGet: func(ctx context.Context, keys []string) ([]schema.Route, []string, error) {
				if len(keys) != 1 || keys[0] != queryA.Key() {
					return nil, nil, errors.New("unexpected keys")
				}
				return []schema.Route{routeA}, nil, nil
			},
			measure: func(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
				return schema.Route{}, errors.New("api must not be asked")
			},
			expected:   routeA,
			lruUpdates: 1,
		},
		{
			name:          "Missing in caches, measured",
			lruBatchGet:   lruMiss,
			redisBatchGet: redisMiss,
			measure: func(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
				return routeA, nil
			},
			expected:     routeA,
			lruUpdates:   1,
			redisUpdates: 1,
		},
		{
			name:        "Redis error falls through to api",
			lruBatchGet: lruMiss,
			redisBatchGet: func(ctx context.Context, keys []string) ([]schema.Route, []string, error) {
				return nil, nil, errors.New("redis error")
			},
			measure: func(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
				return routeA, nil
			},
			expected:     routeA,
			lruUpdates:   1,
			redisUpdates: 1,
		},
		{
			name:         "Without redis",
			lruBatchGet:  lruMiss,
			withoutRedis: true,
			measure: func(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
				return routeA, nil
			},
			expected:   routeA,
			lruUpdates: 1,
		},
		{
			name:          "Api error",
			lruBatchGet:   lruMiss,
			redisBatchGet: redisMiss,
			measure: func(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
				return schema.Route{}, errors.New("api error")
			},
			expectedError: errors.New("api error"),
		},
		{
			name: "Context canceled before Redis fetch",
			ctxFunc: func(t *testing.T) context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			lruBatchGet:   lruMiss,
			redisBatchGet: redisMiss,
			measure: func(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
				return routeA, nil
			},
			expectedError: context.Canceled,
		},
		{
			name: "Context deadline before api answer",
			ctxFunc: func(t *testing.T) context.Context {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
				t.Cleanup(cancel)
				return ctx
			},
			lruBatchGet:   lruMiss,
			redisBatchGet: redisMiss,
			measure: func(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
				time.Sleep(50 * time.Millisecond)
				return routeA, nil
			},
			expectedError: context.DeadlineExceeded,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			if tc.ctxFunc != nil {
				ctx = tc.ctxFunc(t)
			}

			lruMock := &lruCacheMock{batchGetFunc: tc.lruBatchGet}
			redisMock := &redisCacheMock{batchGetFunc: tc.redisBatchGet}
			measurerMock := &routeMeasurerMock{measureFunc: tc.measure}

			s := &Storage{
				lruLocalCache: lruMock,
				redisCache:    redisMock,
				routeMeasurer: measurerMock,
			}
			if tc.withoutRedis {
				s.redisCache = nil
			}

			result, err := s.Get(ctx, queryA)
			if tc.expectedError != nil {
				require.Error(t, err)
				if !errors.Is(err, tc.expectedError) {
					require.EqualError(t, err, tc.expectedError.Error())
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, result)

			require.Eventually(t, func() bool {
				return lruMock.updates() == tc.lruUpdates && redisMock.updates() == tc.redisUpdates
			}, time.Second, 5*time.Millisecond)
		})
	}
}

func TestStorage_Warm(t *testing.T) {
	queryB := schema.RouteQuery{Origin: "home", Destination: "gym", Mode: "walking"}

	lruMock := &lruCacheMock{batchGetFunc: lruMiss}
	s := New(context.Background(), lruMock, nil, &routeMeasurerMock{
		measureFunc: func(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
			if query == queryB {
				return schema.Route{}, errors.New("no route")
			}
			return routeA, nil
		},
	}, 0)

	warmed := s.Warm(context.Background(), []schema.RouteQuery{queryA, queryB})
	require.Equal(t, 1, warmed)
	require.Eventually(t, func() bool { return lruMock.updates() == 1 }, time.Second, 5*time.Millisecond)
}

func TestStorage_RunUpdater(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lruMock := &lruCacheMock{batchGetFunc: lruMiss}
	lruMock.Update([]lru_cache.CacheItem[string, schema.Route]{toCacheEntity(routeA)})
	redisMock := &redisCacheMock{batchGetFunc: redisMiss}

	refreshed := schema.Route{Query: queryA, Distance: 7300, Duration: 1500}
	New(ctx, lruMock, redisMock, &routeMeasurerMock{
		measureFunc: func(ctx context.Context, query schema.RouteQuery) (schema.Route, error) {
			return refreshed, nil
		},
	}, 10*time.Millisecond)

	require.Eventually(t, func() bool { return redisMock.updates() > 0 }, time.Second, 5*time.Millisecond)
	require.Contains(t, lruMock.GetValues(), refreshed)
}

func TestExtractKeys(t *testing.T) {
	keys := extractKeys([]schema.Route{routeA})
	require.Equal(t, []string{"driving|home|work|"}, keys)
}
