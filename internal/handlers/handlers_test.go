package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/gin-gonic/gin"

	"github.com/tableside/pos-api/internal/auth"
	"github.com/tableside/pos-api/internal/logger"
	"github.com/tableside/pos-api/internal/store"
	"github.com/tableside/pos-api/internal/store/storetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv wires every route group against one in-memory mock.
type testEnv struct {
	mock   *storetest.MockDynamo
	cfg    HandlerConfig
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mock := storetest.NewMockDynamo()
	cfg := HandlerConfig{
		DynamoDBClient: mock,
		Log:            logger.New("test"),
		TokenIssuer:    auth.NewTokenIssuer("test-secret"),

		UsersTable:        "users",
		CustomersTable:    "customers",
		MenuTable:         "menu",
		OrdersTable:       "orders",
		TablesTable:       "tables",
		ReservationsTable: "reservations",
		InventoryTable:    "inventory",
	}

	r := gin.New()
	RegisterAuthRoutes(r, cfg)
	RegisterMenuRoutes(r, cfg)
	RegisterOrdersRoutes(r, cfg)
	RegisterTablesRoutes(r, cfg)
	RegisterReservationsRoutes(r, cfg)
	RegisterCustomersRoutes(r, cfg)
	RegisterInventoryRoutes(r, cfg)
	RegisterAnalyticsRoutes(r, cfg)

	return &testEnv{mock: mock, cfg: cfg, router: r}
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := e.cfg.TokenIssuer.Issue(userID, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// do performs a request with an optional bearer token and JSON body.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// envelope mirrors the response wrapper every endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, w.Body.String())
	}
	return env
}

func (e *testEnv) seed(t *testing.T, table string, entity interface{}) {
	t.Helper()
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		t.Fatalf("marshal seed entity: %v", err)
	}
	if err := e.mock.Seed(table, item); err != nil {
		t.Fatalf("seed %s: %v", table, err)
	}
}

func (e *testEnv) getCustomer(t *testing.T, id string) store.Customer {
	t.Helper()
	item := e.mock.Item("customers", id)
	if item == nil {
		t.Fatalf("customer %s not in mock", id)
	}
	var c store.Customer
	if err := attributevalue.UnmarshalMap(item, &c); err != nil {
		t.Fatalf("unmarshal customer: %v", err)
	}
	return c
}

func (e *testEnv) getOrder(t *testing.T, id string) store.Order {
	t.Helper()
	item := e.mock.Item("orders", id)
	if item == nil {
		t.Fatalf("order %s not in mock", id)
	}
	var o store.Order
	if err := attributevalue.UnmarshalMap(item, &o); err != nil {
		t.Fatalf("unmarshal order: %v", err)
	}
	return o
}

func (e *testEnv) getTable(t *testing.T, id string) store.Table {
	t.Helper()
	item := e.mock.Item("tables", id)
	if item == nil {
		t.Fatalf("table %s not in mock", id)
	}
	var tbl store.Table
	if err := attributevalue.UnmarshalMap(item, &tbl); err != nil {
		t.Fatalf("unmarshal table: %v", err)
	}
	return tbl
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}
